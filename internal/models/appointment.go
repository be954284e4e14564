package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ValidStatus reports whether s is one of the fixed appointment statuses.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted out of s.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// AppointmentType represents how the consultation takes place
type AppointmentType string

const (
	TypeClinicVisit AppointmentType = "clinic visit"
	TypeOnline      AppointmentType = "online consultation"
)

// ValidAppointmentType reports whether t is a known appointment type.
func ValidAppointmentType(t AppointmentType) bool {
	return t == TypeClinicVisit || t == TypeOnline
}

// Appointment represents a booking between a pet owner and a veterinarian.
// SlotClaim is derived: it equals ScheduledTime while the appointment is
// non-cancelled and is cleared on cancellation, so the composite unique index
// only guards live bookings.
type Appointment struct {
	BaseModel
	UserID          string            `gorm:"size:36;index" json:"userId"`
	VetID           string            `gorm:"size:36;index;uniqueIndex:idx_vet_slot,priority:1" json:"vetId"`
	PetID           string            `gorm:"size:36;index" json:"petId"`
	AppointmentDate time.Time         `gorm:"type:date;uniqueIndex:idx_vet_slot,priority:2" json:"appointmentDate"`
	ScheduledTime   string            `gorm:"size:20;not null" json:"scheduledTime"`
	SlotClaim       *string           `gorm:"size:20;uniqueIndex:idx_vet_slot,priority:3" json:"-"`
	AppointmentType AppointmentType   `gorm:"size:30;default:'clinic visit'" json:"appointmentType"`
	IsPaid          bool              `gorm:"default:false" json:"isPaid"`
	Status          AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
	Vet  User `gorm:"foreignKey:VetID" json:"-"`
	Pet  Pet  `gorm:"foreignKey:PetID" json:"-"`
}
