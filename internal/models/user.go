package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin Role = "admin"
	RoleVet   Role = "vet"
	RoleUser  Role = "user"
)

// User represents a pet owner, veterinarian or administrator.
type User struct {
	BaseModel
	Email          string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password       string     `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Name           string     `gorm:"size:100" json:"name"`
	Role           Role       `gorm:"size:20;default:'user'" json:"role"`
	PhoneNumber    string     `json:"phoneNumber,omitempty"`
	Address        string     `json:"address,omitempty"`
	Specialization string     `gorm:"size:100" json:"specialization,omitempty"` // vets only
	IsApproved     bool       `gorm:"default:false" json:"isApproved"`          // vet accounts need admin approval
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`

	// Relations (not always preloaded)
	RefreshTokens    []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	Pets             []Pet          `gorm:"foreignKey:OwnerID" json:"-"`
	Appointments     []Appointment  `gorm:"foreignKey:UserID" json:"-"`
	VetAppointments  []Appointment  `gorm:"foreignKey:VetID" json:"-"`
	VetPrescriptions []Prescription `gorm:"foreignKey:VetID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           Role       `json:"role"`
	PhoneNumber    string     `json:"phoneNumber,omitempty"`
	Address        string     `json:"address,omitempty"`
	Specialization string     `json:"specialization,omitempty"`
	IsApproved     bool       `json:"isApproved"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		PhoneNumber:    u.PhoneNumber,
		Address:        u.Address,
		Specialization: u.Specialization,
		IsApproved:     u.IsApproved,
		ApprovedAt:     u.ApprovedAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
