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

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Svc *booking.Service
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(svc *booking.Service) *AppointmentHandler {
	return &AppointmentHandler{Svc: svc}
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	UserID          string `json:"userId" binding:"required,uuid"`
	VetID           string `json:"vetId" binding:"required,uuid"`
	PetID           string `json:"petId" binding:"required,uuid"`
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	ScheduledTime   string `json:"scheduledTime" binding:"required"`
	AppointmentType string `json:"appointmentType" binding:"omitempty,oneof='clinic visit' 'online consultation'"`
}

// CreateAppointment handles booking a new appointment. Initiated by a pet owner.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userIDStr, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User ID not found in token")
		return
	}
	requestingUserRole, _ := middleware.GetUserRoleFromContext(c)
	if requestingUserRole == models.RoleUser && userIDStr != req.UserID {
		utils.Forbidden(c, "Pet owners can only book appointments for themselves.")
		return
	}

	appt, err := h.Svc.CreateAppointment(c.Request.Context(), booking.CreateAppointmentInput{
		UserID:          req.UserID,
		VetID:           req.VetID,
		PetID:           req.PetID,
		Date:            req.AppointmentDate,
		ScheduledTime:   req.ScheduledTime,
		AppointmentType: models.AppointmentType(req.AppointmentType),
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrValidation):
			utils.BadRequest(c, err.Error())
		case errors.Is(err, booking.ErrSlotTaken):
			utils.Conflict(c, "This time slot is already booked for the selected vet and date.")
		default:
			utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		}
		return
	}

	utils.Created(c, "Appointment created successfully", appt)
}

// GetBookedTimes returns the scheduled-time strings already claimed by
// non-cancelled appointments for a vet on a date. Clients offer the fixed
// slot universe minus this set.
func (h *AppointmentHandler) GetBookedTimes(c *gin.Context) {
	vetID := c.Param("vetId")
	date := c.Param("date")

	times, err := h.Svc.OccupiedTimes(c.Request.Context(), vetID, date)
	if err != nil {
		if errors.Is(err, booking.ErrValidation) {
			utils.BadRequest(c, err.Error())
		} else {
			utils.InternalServerError(c, "Failed to fetch booked times: "+err.Error())
		}
		return
	}
	if times == nil {
		times = []string{}
	}

	utils.Success(c, "Booked times fetched successfully", times)
}

// GetTimeSlots returns the fixed daily slot universe.
func (h *AppointmentHandler) GetTimeSlots(c *gin.Context) {
	utils.Success(c, "Time slots fetched successfully", booking.TimeSlots())
}

// GetAppointmentsForUser handles fetching appointments for the logged-in user.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userIDStr, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var appointments []models.Appointment
	var err error
	switch userRole {
	case models.RoleVet:
		appointments, err = h.Svc.AppointmentsForVet(c.Request.Context(), userIDStr)
	case models.RoleAdmin:
		appointments, err = h.Svc.AllAppointments(c.Request.Context())
	default:
		appointments, err = h.Svc.AppointmentsForUser(c.Request.Context(), userIDStr)
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
// Accessible by the involved pet owner, vet, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointmentIDStr := c.Param("id")
	if _, err := uuid.Parse(appointmentIDStr); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	appointment, err := h.Svc.AppointmentByID(c.Request.Context(), appointmentIDStr)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userIDStr, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	isOwnerInvolved := userIDStr == appointment.UserID
	isVetInvolved := userIDStr == appointment.VetID
	if userRole != models.RoleAdmin && !isOwnerInvolved && !isVetInvolved {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// UpdateAppointmentStatusRequest represents the request body for updating an
// appointment's status.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required"`
}

// UpdateAppointmentStatus handles status transitions. The vet confirms or
// declines a booking; admins can update any appointment; pet owners may only
// cancel their own pending bookings.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	appointmentIDStr := c.Param("id")
	if _, err := uuid.Parse(appointmentIDStr); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Svc.AppointmentByID(c.Request.Context(), appointmentIDStr)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userIDStr, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	canUpdate := false
	if userRole == models.RoleAdmin {
		canUpdate = true
	} else if userRole == models.RoleVet && userIDStr == appointment.VetID {
		canUpdate = true
	} else if userRole == models.RoleUser && userIDStr == appointment.UserID {
		if req.Status == models.StatusCancelled {
			canUpdate = true
		} else {
			utils.Forbidden(c, "Pet owners can only cancel appointments.")
			return
		}
	}
	if !canUpdate {
		utils.Forbidden(c, "You are not authorized to update this appointment's status.")
		return
	}

	updated, err := h.Svc.UpdateStatus(c.Request.Context(), appointmentIDStr, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidStatus):
			utils.BadRequest(c, "Invalid status provided.")
		case errors.Is(err, booking.ErrStatusConflict):
			utils.Conflict(c, err.Error())
		case errors.Is(err, booking.ErrNotFound):
			utils.NotFound(c, "Appointment not found")
		default:
			utils.InternalServerError(c, "Failed to update appointment status: "+err.Error())
		}
		return
	}

	utils.Success(c, "Appointment status updated successfully", updated)
}

// FinishAppointmentRequest carries the prescription supplied with the
// scheduled -> completed transition.
type FinishAppointmentRequest struct {
	Symptoms     string `json:"symptoms" binding:"required"`
	Medication   string `json:"medication" binding:"required"`
	Dosage       string `json:"dosage" binding:"required"`
	Instructions string `json:"instructions" binding:"required"`
}

// FinishAppointment completes an appointment and writes its prescription in
// one operation. Only the involved vet or an admin may finish.
func (h *AppointmentHandler) FinishAppointment(c *gin.Context) {
	appointmentIDStr := c.Param("id")
	if _, err := uuid.Parse(appointmentIDStr); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	var req FinishAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Svc.AppointmentByID(c.Request.Context(), appointmentIDStr)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userIDStr, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleAdmin && !(userRole == models.RoleVet && userIDStr == appointment.VetID) {
		utils.Forbidden(c, "Only the attending vet can finish this appointment.")
		return
	}

	prescription, err := h.Svc.FinishAppointment(c.Request.Context(), appointmentIDStr, booking.FinishAppointmentInput{
		Symptoms:     req.Symptoms,
		Medication:   req.Medication,
		Dosage:       req.Dosage,
		Instructions: req.Instructions,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrValidation):
			utils.BadRequest(c, err.Error())
		case errors.Is(err, booking.ErrStatusConflict):
			utils.Conflict(c, err.Error())
		default:
			utils.InternalServerError(c, "Failed to finish appointment: "+err.Error())
		}
		return
	}

	utils.Success(c, "Prescription saved and appointment completed", prescription)
}
