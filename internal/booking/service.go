package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vetconnect-server/internal/models"
)

// Service implements the appointment scheduling core: creation with slot
// collision avoidance, the status state machine, and the combined
// finish-appointment operation.
type Service struct {
	repo Repository
}

// NewService creates a new scheduling Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateAppointmentInput carries the booking request fields.
type CreateAppointmentInput struct {
	UserID          string
	VetID           string
	PetID           string
	Date            string // DateLayout
	ScheduledTime   string // one of TimeSlots()
	AppointmentType models.AppointmentType
}

// CreateAppointment validates the request, re-checks slot occupancy and
// persists a pending, unpaid appointment. The created record's ID becomes the
// correlation key for payment initiation and call signaling.
func (s *Service) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*models.Appointment, error) {
	if in.UserID == "" || in.VetID == "" || in.PetID == "" || in.Date == "" || in.ScheduledTime == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	date, err := time.Parse(DateLayout, in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format", ErrValidation)
	}

	if !ValidSlot(in.ScheduledTime) {
		return nil, fmt.Errorf("%w: unknown time slot %q", ErrValidation, in.ScheduledTime)
	}

	if in.AppointmentType == "" {
		in.AppointmentType = models.TypeClinicVisit
	}
	if !models.ValidAppointmentType(in.AppointmentType) {
		return nil, fmt.Errorf("%w: unknown appointment type %q", ErrValidation, in.AppointmentType)
	}

	// Best-effort pre-check; the unique slot-claim index catches creations
	// that interleave between this read and the write.
	occupied, err := s.repo.OccupiedTimes(ctx, in.VetID, date)
	if err != nil {
		return nil, err
	}
	for _, t := range occupied {
		if t == in.ScheduledTime {
			return nil, ErrSlotTaken
		}
	}

	claim := in.ScheduledTime
	appt := &models.Appointment{
		UserID:          in.UserID,
		VetID:           in.VetID,
		PetID:           in.PetID,
		AppointmentDate: date,
		ScheduledTime:   in.ScheduledTime,
		SlotClaim:       &claim,
		AppointmentType: in.AppointmentType,
		Status:          models.StatusPending,
		IsPaid:          false,
	}
	if err := s.repo.CreateAppointment(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// OccupiedTimes returns the scheduled-time strings already claimed by
// non-cancelled appointments for the vet on the given date. An empty result
// is a fully open day.
func (s *Service) OccupiedTimes(ctx context.Context, vetID, date string) ([]string, error) {
	if vetID == "" {
		return nil, fmt.Errorf("%w: vet id is required", ErrValidation)
	}
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format", ErrValidation)
	}
	return s.repo.OccupiedTimes(ctx, vetID, day)
}

// UpdateStatus runs the appointment state machine:
//
//	pending   -> scheduled | cancelled
//	scheduled -> completed | cancelled
//	any       -> same state (idempotent no-op)
//
// Terminal states (completed, cancelled) are frozen, and nothing may return
// to pending. The write is a compare-and-swap on the status read here, so a
// concurrent transition surfaces as ErrStatusConflict instead of silently
// overwriting.
func (s *Service) UpdateStatus(ctx context.Context, id string, next models.AppointmentStatus) (*models.Appointment, error) {
	if !models.ValidStatus(next) {
		return nil, ErrInvalidStatus
	}

	appt, err := s.repo.AppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if appt.Status == next {
		return appt, nil
	}
	if appt.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: appointment is already %s", ErrStatusConflict, appt.Status)
	}
	if next == models.StatusPending {
		return nil, fmt.Errorf("%w: cannot return to pending", ErrStatusConflict)
	}
	if appt.Status == models.StatusPending && next == models.StatusCompleted {
		return nil, fmt.Errorf("%w: pending appointments must be scheduled first", ErrStatusConflict)
	}

	if err := s.repo.UpdateStatus(ctx, id, appt.Status, next); err != nil {
		return nil, err
	}
	appt.Status = next
	if next == models.StatusCancelled {
		appt.SlotClaim = nil
	}
	return appt, nil
}

// FinishAppointmentInput carries the prescription payload supplied atomically
// with the scheduled -> completed transition.
type FinishAppointmentInput struct {
	Symptoms     string
	Medication   string
	Dosage       string
	Instructions string
}

// FinishAppointment writes the prescription and completes the appointment in
// one transaction. Any blank prescription field rejects the whole operation;
// neither write happens.
func (s *Service) FinishAppointment(ctx context.Context, appointmentID string, in FinishAppointmentInput) (*models.Prescription, error) {
	if blank(in.Symptoms) || blank(in.Medication) || blank(in.Dosage) || blank(in.Instructions) {
		return nil, fmt.Errorf("%w: all prescription fields are required", ErrValidation)
	}

	appt, err := s.repo.AppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.StatusScheduled {
		return nil, fmt.Errorf("%w: appointment is %s, not scheduled", ErrStatusConflict, appt.Status)
	}

	presc := &models.Prescription{
		AppointmentID:   appt.ID,
		PetID:           appt.PetID,
		UserID:          appt.UserID,
		VetID:           appt.VetID,
		AppointmentDate: appt.AppointmentDate,
		ScheduledTime:   appt.ScheduledTime,
		Symptoms:        in.Symptoms,
		Medication:      in.Medication,
		Dosage:          in.Dosage,
		Instructions:    in.Instructions,
	}
	if err := s.repo.CompleteWithPrescription(ctx, presc); err != nil {
		return nil, err
	}
	return presc, nil
}

// AppointmentByID fetches a single appointment.
func (s *Service) AppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	return s.repo.AppointmentByID(ctx, id)
}

// AppointmentsForUser lists a pet owner's appointments.
func (s *Service) AppointmentsForUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return s.repo.AppointmentsForUser(ctx, userID)
}

// AppointmentsForVet lists a veterinarian's appointments.
func (s *Service) AppointmentsForVet(ctx context.Context, vetID string) ([]models.Appointment, error) {
	return s.repo.AppointmentsForVet(ctx, vetID)
}

// AllAppointments lists every appointment, for the admin dashboard.
func (s *Service) AllAppointments(ctx context.Context) ([]models.Appointment, error) {
	return s.repo.AllAppointments(ctx)
}

// PrescriptionByAppointment fetches the prescription written for a completed
// appointment.
func (s *Service) PrescriptionByAppointment(ctx context.Context, appointmentID string) (*models.Prescription, error) {
	return s.repo.PrescriptionByAppointment(ctx, appointmentID)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
