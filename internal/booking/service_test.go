package booking

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"vetconnect-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		UserID:          "0b9c8a9e-1111-4e6b-9f00-000000000001",
		VetID:           "0b9c8a9e-2222-4e6b-9f00-000000000002",
		PetID:           "0b9c8a9e-3333-4e6b-9f00-000000000003",
		Date:            "2025-06-01",
		ScheduledTime:   "10:00 AM",
		AppointmentType: models.TypeClinicVisit,
	}
}

func TestCreateAppointment(t *testing.T) {
	t.Run("creates pending unpaid appointment with slot claim", func(t *testing.T) {
		repo := &MockRepository{}
		svc := NewService(repo)

		appt, err := svc.CreateAppointment(context.Background(), validInput())
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, appt.Status)
		assert.False(t, appt.IsPaid)
		assert.Equal(t, "10:00 AM", appt.ScheduledTime)
		require.NotNil(t, appt.SlotClaim)
		assert.Equal(t, "10:00 AM", *appt.SlotClaim)
		assert.Equal(t, "2025-06-01", appt.AppointmentDate.Format(DateLayout))
		assert.Equal(t, int32(1), atomic.LoadInt32(&repo.CreateAppointmentCallCount))
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc := NewService(&MockRepository{})
		in := validInput()
		in.PetID = ""
		_, err := svc.CreateAppointment(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects unparseable date", func(t *testing.T) {
		svc := NewService(&MockRepository{})
		in := validInput()
		in.Date = "01-06-2025"
		_, err := svc.CreateAppointment(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects time outside the slot universe", func(t *testing.T) {
		svc := NewService(&MockRepository{})
		in := validInput()
		in.ScheduledTime = "01:00 PM"
		_, err := svc.CreateAppointment(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects unknown appointment type", func(t *testing.T) {
		svc := NewService(&MockRepository{})
		in := validInput()
		in.AppointmentType = "house call"
		_, err := svc.CreateAppointment(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("defaults empty type to clinic visit", func(t *testing.T) {
		svc := NewService(&MockRepository{})
		in := validInput()
		in.AppointmentType = ""
		appt, err := svc.CreateAppointment(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, models.TypeClinicVisit, appt.AppointmentType)
	})

	t.Run("rejects an occupied slot", func(t *testing.T) {
		repo := &MockRepository{
			OccupiedTimesFunc: func(ctx context.Context, vetID string, date time.Time) ([]string, error) {
				return []string{"10:00 AM", "11:30 AM"}, nil
			},
		}
		svc := NewService(repo)
		_, err := svc.CreateAppointment(context.Background(), validInput())
		assert.ErrorIs(t, err, ErrSlotTaken)
		assert.Equal(t, int32(0), atomic.LoadInt32(&repo.CreateAppointmentCallCount))
	})

	t.Run("surfaces a lost creation race as slot taken", func(t *testing.T) {
		// Two interleaved bookings can both pass the availability check; the
		// store's unique claim index rejects the second write.
		repo := &MockRepository{
			CreateAppointmentFunc: func(ctx context.Context, appt *models.Appointment) error {
				return ErrSlotTaken
			},
		}
		svc := NewService(repo)
		_, err := svc.CreateAppointment(context.Background(), validInput())
		assert.ErrorIs(t, err, ErrSlotTaken)
	})
}

func TestOccupiedTimes(t *testing.T) {
	t.Run("returns every claimed time for the vet and date", func(t *testing.T) {
		repo := &MockRepository{
			OccupiedTimesFunc: func(ctx context.Context, vetID string, date time.Time) ([]string, error) {
				assert.Equal(t, "vet-1", vetID)
				assert.Equal(t, "2025-06-01", date.Format(DateLayout))
				return []string{"10:00 AM", "02:30 PM"}, nil
			},
		}
		svc := NewService(repo)
		times, err := svc.OccupiedTimes(context.Background(), "vet-1", "2025-06-01")
		require.NoError(t, err)
		assert.Equal(t, []string{"10:00 AM", "02:30 PM"}, times)
	})

	t.Run("empty set is a fully open day", func(t *testing.T) {
		svc := NewService(&MockRepository{})
		times, err := svc.OccupiedTimes(context.Background(), "vet-1", "2025-06-01")
		require.NoError(t, err)
		assert.Empty(t, times)
	})

	t.Run("rejects bad date", func(t *testing.T) {
		svc := NewService(&MockRepository{})
		_, err := svc.OccupiedTimes(context.Background(), "vet-1", "June 1st")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func storedAppointment(status models.AppointmentStatus) *models.Appointment {
	claim := "10:00 AM"
	appt := &models.Appointment{
		UserID:          "user-1",
		VetID:           "vet-1",
		PetID:           "pet-1",
		AppointmentDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ScheduledTime:   "10:00 AM",
		SlotClaim:       &claim,
		Status:          status,
	}
	appt.ID = "appt-1"
	return appt
}

func TestUpdateStatus(t *testing.T) {
	t.Run("rejects values outside the enum", func(t *testing.T) {
		svc := NewService(&MockRepository{})
		_, err := svc.UpdateStatus(context.Background(), "appt-1", "approved")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &MockRepository{
			AppointmentByIDFunc: func(ctx context.Context, id string) (*models.Appointment, error) {
				return nil, ErrNotFound
			},
		}
		svc := NewService(repo)
		_, err := svc.UpdateStatus(context.Background(), "missing", models.StatusScheduled)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("vet confirms a pending booking", func(t *testing.T) {
		repo := &MockRepository{
			AppointmentByIDFunc: func(ctx context.Context, id string) (*models.Appointment, error) {
				return storedAppointment(models.StatusPending), nil
			},
			UpdateStatusFunc: func(ctx context.Context, id string, expected, next models.AppointmentStatus) error {
				assert.Equal(t, models.StatusPending, expected)
				assert.Equal(t, models.StatusScheduled, next)
				return nil
			},
		}
		svc := NewService(repo)
		appt, err := svc.UpdateStatus(context.Background(), "appt-1", models.StatusScheduled)
		require.NoError(t, err)
		assert.Equal(t, models.StatusScheduled, appt.Status)
	})

	t.Run("cancelling releases the slot claim", func(t *testing.T) {
		repo := &MockRepository{
			AppointmentByIDFunc: func(ctx context.Context, id string) (*models.Appointment, error) {
				return storedAppointment(models.StatusPending), nil
			},
		}
		svc := NewService(repo)
		appt, err := svc.UpdateStatus(context.Background(), "appt-1", models.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, appt.Status)
		assert.Nil(t, appt.SlotClaim)
	})

	t.Run("same state is an idempotent no-op", func(t *testing.T) {
		repo := &MockRepository{
			AppointmentByIDFunc: func(ctx context.Context, id string) (*models.Appointment, error) {
				return storedAppointment(models.StatusScheduled), nil
			},
		}
		svc := NewService(repo)
		appt, err := svc.UpdateStatus(context.Background(), "appt-1", models.StatusScheduled)
		require.NoError(t, err)
		assert.Equal(t, models.StatusScheduled, appt.Status)
		assert.Equal(t, int32(0), atomic.LoadInt32(&repo.UpdateStatusCallCount))
	})

	t.Run("terminal states are frozen", func(t *testing.T) {
		for _, terminal := range []models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled} {
			for _, next := range []models.AppointmentStatus{models.StatusPending, models.StatusScheduled} {
				repo := &MockRepository{
					AppointmentByIDFunc: func(ctx context.Context, id string) (*models.Appointment, error) {
						return storedAppointment(terminal), nil
					},
				}
				svc := NewService(repo)
				_, err := svc.UpdateStatus(context.Background(), "appt-1", next)
				assert.ErrorIs(t, err, ErrStatusConflict, "from %s to %s", terminal, next)
				assert.Equal(t, int32(0), atomic.LoadInt32(&repo.UpdateStatusCallCount))
			}
		}
	})

	t.Run("nothing returns to pending", func(t *testing.T) {
		repo := &MockRepository{
			AppointmentByIDFunc: func(ctx context.Context, id string) (*models.Appointment, error) {
				return storedAppointment(models.StatusScheduled), nil
			},
		}
		svc := NewService(repo)
		_, err := svc.UpdateStatus(context.Background(), "appt-1", models.StatusPending)
		assert.ErrorIs(t, err, ErrStatusConflict)
	})

	t.Run("pending cannot jump straight to completed", func(t *testing.T) {
		repo := &MockRepository{
			AppointmentByIDFunc: func(ctx context.Context, id string) (*models.Appointment, error) {
				return storedAppointment(models.StatusPending), nil
			},
		}
		svc := NewService(repo)
		_, err := svc.UpdateStatus(context.Background(), "appt-1", models.StatusCompleted)
		assert.ErrorIs(t, err, ErrStatusConflict)
	})

	t.Run("concurrent transition loses the compare-and-swap", func(t *testing.T) {
		repo := &MockRepository{
			AppointmentByIDFunc: func(ctx context.Context, id string) (*models.Appointment, error) {
				return storedAppointment(models.StatusPending), nil
			},
			UpdateStatusFunc: func(ctx context.Context, id string, expected, next models.AppointmentStatus) error {
				return ErrStatusConflict
			},
		}
		svc := NewService(repo)
		_, err := svc.UpdateStatus(context.Background(), "appt-1", models.StatusScheduled)
		assert.ErrorIs(t, err, ErrStatusConflict)
	})
}

func validFinish() FinishAppointmentInput {
	return FinishAppointmentInput{
		Symptoms:     "lethargy, poor appetite",
		Medication:   "Amoxicillin",
		Dosage:       "250mg twice daily",
		Instructions: "Give with food for 7 days",
	}
}

func TestFinishAppointment(t *testing.T) {
	t.Run("completes and writes the denormalized prescription", func(t *testing.T) {
		var written *models.Prescription
		repo := &MockRepository{
			AppointmentByIDFunc: func(ctx context.Context, id string) (*models.Appointment, error) {
				return storedAppointment(models.StatusScheduled), nil
			},
			CompleteWithPrescriptionFunc: func(ctx context.Context, presc *models.Prescription) error {
				written = presc
				return nil
			},
		}
		svc := NewService(repo)

		presc, err := svc.FinishAppointment(context.Background(), "appt-1", validFinish())
		require.NoError(t, err)
		require.NotNil(t, written)
		assert.Equal(t, "appt-1", presc.AppointmentID)
		assert.Equal(t, "pet-1", presc.PetID)
		assert.Equal(t, "user-1", presc.UserID)
		assert.Equal(t, "vet-1", presc.VetID)
		assert.Equal(t, "10:00 AM", presc.ScheduledTime)
		assert.Equal(t, "Amoxicillin", presc.Medication)
	})

	t.Run("any blank field yields neither change", func(t *testing.T) {
		fields := []func(*FinishAppointmentInput){
			func(in *FinishAppointmentInput) { in.Symptoms = "" },
			func(in *FinishAppointmentInput) { in.Medication = "   " },
			func(in *FinishAppointmentInput) { in.Dosage = "" },
			func(in *FinishAppointmentInput) { in.Instructions = "\t" },
		}
		for _, mutate := range fields {
			repo := &MockRepository{
				AppointmentByIDFunc: func(ctx context.Context, id string) (*models.Appointment, error) {
					return storedAppointment(models.StatusScheduled), nil
				},
			}
			svc := NewService(repo)
			in := validFinish()
			mutate(&in)
			_, err := svc.FinishAppointment(context.Background(), "appt-1", in)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, int32(0), atomic.LoadInt32(&repo.CompleteWithPrescriptionCallCount))
		}
	})

	t.Run("only scheduled appointments can be finished", func(t *testing.T) {
		for _, status := range []models.AppointmentStatus{models.StatusPending, models.StatusCompleted, models.StatusCancelled} {
			repo := &MockRepository{
				AppointmentByIDFunc: func(ctx context.Context, id string) (*models.Appointment, error) {
					return storedAppointment(status), nil
				},
			}
			svc := NewService(repo)
			_, err := svc.FinishAppointment(context.Background(), "appt-1", validFinish())
			assert.ErrorIs(t, err, ErrStatusConflict, "status %s", status)
		}
	})

	t.Run("not found", func(t *testing.T) {
		repo := &MockRepository{
			AppointmentByIDFunc: func(ctx context.Context, id string) (*models.Appointment, error) {
				return nil, ErrNotFound
			},
		}
		svc := NewService(repo)
		_, err := svc.FinishAppointment(context.Background(), "missing", validFinish())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
