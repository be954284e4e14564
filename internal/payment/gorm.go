package payment

import (
	"context"
	"errors"

	"vetconnect-server/internal/models"

	"gorm.io/gorm"
)

// GormStore implements Store on the shared *gorm.DB.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

var _ Store = (*GormStore)(nil)

func (s *GormStore) AppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.DB.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func (s *GormStore) DeleteAppointment(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) MarkPaid(ctx context.Context, appointmentID string) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", appointmentID).
		Update("is_paid", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateTransaction(ctx context.Context, tx *models.PaymentTransaction) error {
	return s.DB.WithContext(ctx).Create(tx).Error
}

func (s *GormStore) TransactionByPID(ctx context.Context, pid string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	if err := s.DB.WithContext(ctx).First(&tx, "pid = ?", pid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}
