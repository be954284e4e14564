package handlers

import (
	"errors"

	"vetconnect-server/internal/booking"
	"vetconnect-server/internal/middleware"
	"vetconnect-server/internal/models"
	"vetconnect-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PrescriptionHandler serves prescription history lookups. Prescriptions are
// written through the finish-appointment operation, never directly.
type PrescriptionHandler struct {
	Svc *booking.Service
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(svc *booking.Service) *PrescriptionHandler {
	return &PrescriptionHandler{Svc: svc}
}

// GetByAppointment fetches the prescription for a completed appointment.
func (h *PrescriptionHandler) GetByAppointment(c *gin.Context) {
	appointmentIDStr := c.Param("appointmentId")
	if _, err := uuid.Parse(appointmentIDStr); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	prescription, err := h.Svc.PrescriptionByAppointment(c.Request.Context(), appointmentIDStr)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			utils.NotFound(c, "Prescription not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userIDStr, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleAdmin && userIDStr != prescription.UserID && userIDStr != prescription.VetID {
		utils.Forbidden(c, "You are not authorized to view this prescription")
		return
	}

	utils.Success(c, "Prescription fetched successfully", prescription)
}
