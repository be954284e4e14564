package booking

import "errors"

// Sentinel errors returned by the scheduling service. Handlers map these to
// HTTP status codes; callers inside the process match with errors.Is.
var (
	// ErrNotFound means the referenced appointment does not resolve.
	ErrNotFound = errors.New("appointment not found")

	// ErrValidation covers malformed or missing input (unparseable date,
	// unknown slot, blank prescription fields).
	ErrValidation = errors.New("validation failed")

	// ErrInvalidStatus means the target status is outside the fixed enum.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrStatusConflict means the requested transition is not permitted from
	// the appointment's current status, or a concurrent writer won the race.
	ErrStatusConflict = errors.New("status transition conflict")

	// ErrSlotTaken means another non-cancelled appointment already claims the
	// same vet/date/time.
	ErrSlotTaken = errors.New("time slot already booked")
)
