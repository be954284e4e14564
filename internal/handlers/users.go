package handlers

import (
	"time"

	"vetconnect-server/internal/models"
	"vetconnect-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserHandler handles user directory and admin approval requests.
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// GetVets returns all approved veterinarians, for the booking page.
func (h *UserHandler) GetVets(c *gin.Context) {
	var vets []models.User
	if err := h.DB.Where("role = ? AND is_approved = ?", models.RoleVet, true).
		Order("name asc").Find(&vets).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch vets: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, 0, len(vets))
	for i := range vets {
		sanitized = append(sanitized, vets[i].Sanitize())
	}
	utils.Success(c, "Vets fetched successfully", sanitized)
}

// GetUserByID returns a single user's public fields, used to resolve names
// for appointment and prescription displays.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	userIDStr := c.Param("id")
	if _, err := uuid.Parse(userIDStr); err != nil {
		utils.BadRequest(c, "Invalid User ID format")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userIDStr).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "User fetched successfully", user.Sanitize())
}

// GetUsers lists all users. Admin only.
func (h *UserHandler) GetUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("created_at asc").Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch users: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, 0, len(users))
	for i := range users {
		sanitized = append(sanitized, users[i].Sanitize())
	}
	utils.Success(c, "Users fetched successfully", sanitized)
}

// ApproveVet marks a vet account as approved. Admin only.
func (h *UserHandler) ApproveVet(c *gin.Context) {
	userIDStr := c.Param("id")
	if _, err := uuid.Parse(userIDStr); err != nil {
		utils.BadRequest(c, "Invalid User ID format")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userIDStr).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if user.Role != models.RoleVet {
		utils.BadRequest(c, "Only vet accounts require approval")
		return
	}

	now := time.Now()
	user.IsApproved = true
	user.ApprovedAt = &now
	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to approve vet: "+err.Error())
		return
	}

	utils.Success(c, "Vet approved successfully", user.Sanitize())
}

// DeleteUser removes a user account. Admin only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userIDStr := c.Param("id")
	if _, err := uuid.Parse(userIDStr); err != nil {
		utils.BadRequest(c, "Invalid User ID format")
		return
	}

	res := h.DB.Delete(&models.User{}, "id = ?", userIDStr)
	if res.Error != nil {
		utils.InternalServerError(c, "Failed to delete user: "+res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "User not found")
		return
	}

	utils.Success(c, "User deleted successfully", nil)
}
