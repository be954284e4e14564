package models

// TransactionStatus represents the outcome reported by the payment gateway
type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "Success"
	TransactionFailure TransactionStatus = "Failure"
)

// PaymentTransaction records a gateway callback for an appointment. PID is the
// caller-generated transaction reference; its unique index is what makes the
// success callback idempotent.
type PaymentTransaction struct {
	BaseModel
	AppointmentID string            `gorm:"size:36;index" json:"appointmentId"`
	PID           string            `gorm:"column:pid;size:100;uniqueIndex;not null" json:"pid"`
	Amount        float64           `json:"amount"`
	Status        TransactionStatus `gorm:"size:20" json:"status"`
	Raw           string            `gorm:"type:text" json:"-"`

	// Relations
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}
