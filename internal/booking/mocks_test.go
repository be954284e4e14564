package booking

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"vetconnect-server/internal/models"
)

// Compile-time check to ensure MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// MockRepository is a mock implementation of Repository.
type MockRepository struct {
	CreateAppointmentFunc           func(ctx context.Context, appt *models.Appointment) error
	AppointmentByIDFunc             func(ctx context.Context, id string) (*models.Appointment, error)
	AppointmentsForUserFunc         func(ctx context.Context, userID string) ([]models.Appointment, error)
	AppointmentsForVetFunc          func(ctx context.Context, vetID string) ([]models.Appointment, error)
	AllAppointmentsFunc             func(ctx context.Context) ([]models.Appointment, error)
	DeleteAppointmentFunc           func(ctx context.Context, id string) error
	OccupiedTimesFunc               func(ctx context.Context, vetID string, date time.Time) ([]string, error)
	UpdateStatusFunc                func(ctx context.Context, id string, expected, next models.AppointmentStatus) error
	CompleteWithPrescriptionFunc    func(ctx context.Context, presc *models.Prescription) error
	PrescriptionByAppointmentFunc   func(ctx context.Context, appointmentID string) (*models.Prescription, error)

	CreateAppointmentCallCount        int32
	UpdateStatusCallCount             int32
	CompleteWithPrescriptionCallCount int32
}

func (m *MockRepository) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	atomic.AddInt32(&m.CreateAppointmentCallCount, 1)
	if m.CreateAppointmentFunc != nil {
		return m.CreateAppointmentFunc(ctx, appt)
	}
	return nil
}

func (m *MockRepository) AppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	if m.AppointmentByIDFunc != nil {
		return m.AppointmentByIDFunc(ctx, id)
	}
	return nil, errors.New("AppointmentByIDFunc not implemented in mock")
}

func (m *MockRepository) AppointmentsForUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	if m.AppointmentsForUserFunc != nil {
		return m.AppointmentsForUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) AppointmentsForVet(ctx context.Context, vetID string) ([]models.Appointment, error) {
	if m.AppointmentsForVetFunc != nil {
		return m.AppointmentsForVetFunc(ctx, vetID)
	}
	return nil, nil
}

func (m *MockRepository) AllAppointments(ctx context.Context) ([]models.Appointment, error) {
	if m.AllAppointmentsFunc != nil {
		return m.AllAppointmentsFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepository) DeleteAppointment(ctx context.Context, id string) error {
	if m.DeleteAppointmentFunc != nil {
		return m.DeleteAppointmentFunc(ctx, id)
	}
	return errors.New("DeleteAppointmentFunc not implemented in mock")
}

func (m *MockRepository) OccupiedTimes(ctx context.Context, vetID string, date time.Time) ([]string, error) {
	if m.OccupiedTimesFunc != nil {
		return m.OccupiedTimesFunc(ctx, vetID, date)
	}
	return nil, nil
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id string, expected, next models.AppointmentStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, expected, next)
	}
	return nil
}

func (m *MockRepository) CompleteWithPrescription(ctx context.Context, presc *models.Prescription) error {
	atomic.AddInt32(&m.CompleteWithPrescriptionCallCount, 1)
	if m.CompleteWithPrescriptionFunc != nil {
		return m.CompleteWithPrescriptionFunc(ctx, presc)
	}
	return nil
}

func (m *MockRepository) PrescriptionByAppointment(ctx context.Context, appointmentID string) (*models.Prescription, error) {
	if m.PrescriptionByAppointmentFunc != nil {
		return m.PrescriptionByAppointmentFunc(ctx, appointmentID)
	}
	return nil, errors.New("PrescriptionByAppointmentFunc not implemented in mock")
}
