package booking

import (
	"context"
	"errors"
	"time"

	"vetconnect-server/internal/models"

	"gorm.io/gorm"
)

// GormRepository implements Repository on a MySQL-backed *gorm.DB.
type GormRepository struct {
	DB *gorm.DB
}

// NewGormRepository creates a new GormRepository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

var _ Repository = (*GormRepository)(nil)

func (r *GormRepository) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	if err := r.DB.WithContext(ctx).Create(appt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Unique (vet, date, slot claim) index lost the race to another
			// booking that interleaved after the availability check.
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *GormRepository) AppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.DB.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func (r *GormRepository) AppointmentsForUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("appointment_date asc, scheduled_time asc").
		Find(&appts).Error
	return appts, err
}

func (r *GormRepository) AppointmentsForVet(ctx context.Context, vetID string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.DB.WithContext(ctx).
		Where("vet_id = ?", vetID).
		Order("appointment_date asc, scheduled_time asc").
		Find(&appts).Error
	return appts, err
}

func (r *GormRepository) AllAppointments(ctx context.Context) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.DB.WithContext(ctx).
		Order("appointment_date asc, scheduled_time asc").
		Find(&appts).Error
	return appts, err
}

func (r *GormRepository) DeleteAppointment(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) OccupiedTimes(ctx context.Context, vetID string, date time.Time) ([]string, error) {
	var times []string
	err := r.DB.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("vet_id = ? AND appointment_date = ? AND status <> ?",
			vetID, date.Format(DateLayout), models.StatusCancelled).
		Order("scheduled_time asc").
		Pluck("scheduled_time", &times).Error
	return times, err
}

func (r *GormRepository) UpdateStatus(ctx context.Context, id string, expected, next models.AppointmentStatus) error {
	updates := map[string]interface{}{"status": next}
	if next == models.StatusCancelled {
		// Release the slot so the vet/date/time becomes bookable again.
		updates["slot_claim"] = nil
	}
	res := r.DB.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the row is gone or a concurrent transition changed the
		// status since we read it.
		var count int64
		if err := r.DB.WithContext(ctx).Model(&models.Appointment{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

func (r *GormRepository) CompleteWithPrescription(ctx context.Context, presc *models.Prescription) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", presc.AppointmentID, models.StatusScheduled).
			Update("status", models.StatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}

		var existing models.Prescription
		err := tx.Where("appointment_id = ?", presc.AppointmentID).First(&existing).Error
		if err == nil {
			existing.Symptoms = presc.Symptoms
			existing.Medication = presc.Medication
			existing.Dosage = presc.Dosage
			existing.Instructions = presc.Instructions
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*presc = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(presc).Error
	})
}

func (r *GormRepository) PrescriptionByAppointment(ctx context.Context, appointmentID string) (*models.Prescription, error) {
	var presc models.Prescription
	if err := r.DB.WithContext(ctx).First(&presc, "appointment_id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &presc, nil
}
