package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"vetconnect-server/internal/config"
	"vetconnect-server/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound means the appointment or transaction does not resolve.
var ErrNotFound = errors.New("payment record not found")

// Store is the persistence contract the payment hook needs. The GORM
// implementation lives in gorm.go.
type Store interface {
	AppointmentByID(ctx context.Context, id string) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, appointmentID string) error
	CreateTransaction(ctx context.Context, tx *models.PaymentTransaction) error
	TransactionByPID(ctx context.Context, pid string) (*models.PaymentTransaction, error)
}

// Service reacts to gateway callbacks: success marks the appointment paid,
// failure rolls the unpaid booking back entirely.
type Service struct {
	store Store
	cfg   config.PaymentConfig
}

// NewService creates a new payment Service.
func NewService(store Store, cfg config.PaymentConfig) *Service {
	return &Service{store: store, cfg: cfg}
}

// RedirectFields are the signed form fields posted to the gateway.
type RedirectFields struct {
	FormURL         string
	Amount          string
	TaxAmount       string
	ServiceCharge   string
	DeliveryCharge  string
	TotalAmount     string
	TransactionUUID string
	ProductCode     string
	SuccessURL      string
	FailureURL      string
	SignedFields    string
	Signature       string
}

// BuildRedirect constructs the signed redirect form for an appointment. The
// transaction UUID embeds the appointment ID so callbacks can correlate.
func (s *Service) BuildRedirect(ctx context.Context, appointmentID, successURL, failureURL string) (*RedirectFields, error) {
	if _, err := s.store.AppointmentByID(ctx, appointmentID); err != nil {
		return nil, err
	}

	total := FormatAmount(s.cfg.Amount)
	uuid := TransactionRef(time.Now(), appointmentID)

	return &RedirectFields{
		FormURL:         s.cfg.FormURL,
		Amount:          total,
		TaxAmount:       "0",
		ServiceCharge:   "0",
		DeliveryCharge:  "0",
		TotalAmount:     total,
		TransactionUUID: uuid,
		ProductCode:     s.cfg.ProductCode,
		SuccessURL:      successURL,
		FailureURL:      failureURL,
		SignedFields:    signedFieldNames,
		Signature:       Sign(total, uuid, s.cfg.ProductCode, s.cfg.SecretKey),
	}, nil
}

// HandleSuccess records the gateway's success callback. Idempotent by the
// transaction reference: the first call creates the transaction record and
// marks the appointment paid; a repeat for the same pid is a no-op.
func (s *Service) HandleSuccess(ctx context.Context, appointmentID, pid string, amount float64, raw string) error {
	if _, err := s.store.AppointmentByID(ctx, appointmentID); err != nil {
		return err
	}

	if _, err := s.store.TransactionByPID(ctx, pid); err == nil {
		return nil // already processed
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	tx := &models.PaymentTransaction{
		AppointmentID: appointmentID,
		PID:           pid,
		Amount:        amount,
		Status:        models.TransactionSuccess,
		Raw:           raw,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil // concurrent callback already recorded this pid
		}
		return err
	}
	return s.store.MarkPaid(ctx, appointmentID)
}

// HandleFailure deletes the appointment after a failed or abandoned payment.
// An unpaid booking never reserved a real commitment, so no soft-cancel
// marker is kept. A missing appointment is logged, not errored, since the
// callback may arrive after the user already abandoned the flow.
func (s *Service) HandleFailure(ctx context.Context, appointmentID string) error {
	if appointmentID == "" {
		log.Println("payment failure callback without appointment id")
		return nil
	}
	if err := s.store.DeleteAppointment(ctx, appointmentID); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Printf("payment failure for unknown appointment %s", appointmentID)
			return nil
		}
		return err
	}
	log.Printf("deleted appointment %s after payment failure", appointmentID)
	return nil
}

// StatusByPID looks up a transaction for the payment-processing page.
func (s *Service) StatusByPID(ctx context.Context, pid string) (*models.PaymentTransaction, error) {
	if pid == "" {
		return nil, fmt.Errorf("%w: empty transaction reference", ErrNotFound)
	}
	return s.store.TransactionByPID(ctx, pid)
}
