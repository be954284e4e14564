package models

import (
	"time"
)

// Prescription is the record a vet writes when finishing an appointment.
// Pet/user/vet/date/time are denormalized so the record stays readable for
// history display even if the source rows later change.
type Prescription struct {
	BaseModel
	AppointmentID   string    `gorm:"size:36;uniqueIndex" json:"appointmentId"`
	PetID           string    `gorm:"size:36;index" json:"petId"`
	UserID          string    `gorm:"size:36;index" json:"userId"`
	VetID           string    `gorm:"size:36;index" json:"vetId"`
	AppointmentDate time.Time `gorm:"type:date" json:"appointmentDate"`
	ScheduledTime   string    `gorm:"size:20" json:"scheduledTime"`

	Symptoms     string `gorm:"type:text" json:"symptoms"`
	Medication   string `gorm:"type:text" json:"medication"`
	Dosage       string `gorm:"type:text" json:"dosage"`
	Instructions string `gorm:"type:text" json:"instructions"`

	// Relations
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}
