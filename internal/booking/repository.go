package booking

import (
	"context"
	"time"

	"vetconnect-server/internal/models"
)

// Repository is the persistence contract for the scheduling core. The GORM
// implementation lives in gorm.go; tests substitute function-field mocks.
type Repository interface {
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	AppointmentByID(ctx context.Context, id string) (*models.Appointment, error)
	AppointmentsForUser(ctx context.Context, userID string) ([]models.Appointment, error)
	AppointmentsForVet(ctx context.Context, vetID string) ([]models.Appointment, error)
	AllAppointments(ctx context.Context) ([]models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error

	// OccupiedTimes returns the scheduled-time strings claimed by
	// non-cancelled appointments for the given vet and date.
	OccupiedTimes(ctx context.Context, vetID string, date time.Time) ([]string, error)

	// UpdateStatus writes next only if the row still holds expected
	// (compare-and-swap). When next is cancelled the slot claim is released.
	// Returns ErrStatusConflict if a concurrent writer got there first.
	UpdateStatus(ctx context.Context, id string, expected, next models.AppointmentStatus) error

	// CompleteWithPrescription upserts the prescription and transitions the
	// appointment scheduled -> completed in a single transaction. Neither
	// write survives if the other fails.
	CompleteWithPrescription(ctx context.Context, presc *models.Prescription) error

	PrescriptionByAppointment(ctx context.Context, appointmentID string) (*models.Prescription, error)
}
