package handlers

import (
	"vetconnect-server/internal/middleware"
	"vetconnect-server/internal/models"
	"vetconnect-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PetHandler handles pet record requests.
type PetHandler struct {
	DB *gorm.DB
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(db *gorm.DB) *PetHandler {
	return &PetHandler{DB: db}
}

// CreatePetRequest represents the request body for registering a pet.
type CreatePetRequest struct {
	Name    string  `json:"name" binding:"required"`
	Species string  `json:"species" binding:"required"`
	Breed   string  `json:"breed"`
	Age     int     `json:"age"`
	Weight  float64 `json:"weight"`
	Notes   string  `json:"notes"`
}

// CreatePet registers a pet under the authenticated owner.
func (h *PetHandler) CreatePet(c *gin.Context) {
	var req CreatePetRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ownerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	pet := models.Pet{
		OwnerID: ownerID,
		Name:    req.Name,
		Species: req.Species,
		Breed:   req.Breed,
		Age:     req.Age,
		Weight:  req.Weight,
		Notes:   req.Notes,
	}
	if err := h.DB.Create(&pet).Error; err != nil {
		utils.InternalServerError(c, "Failed to register pet: "+err.Error())
		return
	}

	utils.Created(c, "Pet registered successfully", pet)
}

// GetMyPets lists the authenticated owner's pets.
func (h *PetHandler) GetMyPets(c *gin.Context) {
	ownerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var pets []models.Pet
	if err := h.DB.Where("owner_id = ?", ownerID).Order("created_at asc").Find(&pets).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch pets: "+err.Error())
		return
	}

	utils.Success(c, "Pets fetched successfully", pets)
}

// GetPetByID fetches a single pet. Vets and admins may view any pet, since
// they see them through appointments; owners only their own.
func (h *PetHandler) GetPetByID(c *gin.Context) {
	petIDStr := c.Param("id")
	if _, err := uuid.Parse(petIDStr); err != nil {
		utils.BadRequest(c, "Invalid Pet ID format")
		return
	}

	var pet models.Pet
	if err := h.DB.First(&pet, "id = ?", petIDStr).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Pet not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RoleUser && pet.OwnerID != userID {
		utils.Forbidden(c, "You are not authorized to view this pet")
		return
	}

	utils.Success(c, "Pet fetched successfully", pet)
}

// UpdatePetRequest represents the request body for updating a pet record.
type UpdatePetRequest struct {
	Name   string  `json:"name"`
	Breed  string  `json:"breed"`
	Age    int     `json:"age"`
	Weight float64 `json:"weight"`
	Notes  string  `json:"notes"`
}

// UpdatePet updates an owner's pet record.
func (h *PetHandler) UpdatePet(c *gin.Context) {
	petIDStr := c.Param("id")
	if _, err := uuid.Parse(petIDStr); err != nil {
		utils.BadRequest(c, "Invalid Pet ID format")
		return
	}

	var req UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var pet models.Pet
	if err := h.DB.First(&pet, "id = ?", petIDStr).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Pet not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleAdmin && pet.OwnerID != userID {
		utils.Forbidden(c, "You are not authorized to update this pet")
		return
	}

	if req.Name != "" {
		pet.Name = req.Name
	}
	if req.Breed != "" {
		pet.Breed = req.Breed
	}
	if req.Age != 0 {
		pet.Age = req.Age
	}
	if req.Weight != 0 {
		pet.Weight = req.Weight
	}
	if req.Notes != "" {
		pet.Notes = req.Notes
	}

	if err := h.DB.Save(&pet).Error; err != nil {
		utils.InternalServerError(c, "Failed to update pet: "+err.Error())
		return
	}

	utils.Success(c, "Pet updated successfully", pet)
}

// DeletePet removes an owner's pet record.
func (h *PetHandler) DeletePet(c *gin.Context) {
	petIDStr := c.Param("id")
	if _, err := uuid.Parse(petIDStr); err != nil {
		utils.BadRequest(c, "Invalid Pet ID format")
		return
	}

	var pet models.Pet
	if err := h.DB.First(&pet, "id = ?", petIDStr).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Pet not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleAdmin && pet.OwnerID != userID {
		utils.Forbidden(c, "You are not authorized to delete this pet")
		return
	}

	if err := h.DB.Delete(&pet).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete pet: "+err.Error())
		return
	}

	utils.Success(c, "Pet deleted successfully", nil)
}
