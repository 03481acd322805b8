package appointments

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName is returned when the name is missing.
	ErrInvalidName = errors.New("appointments: name is required")

	// ErrMissingContact is returned when both email and phone are missing.
	ErrMissingContact = errors.New("appointments: either email or phone is required")

	// ErrInvalidEmail is returned when the email does not look deliverable.
	ErrInvalidEmail = errors.New("appointments: email address is invalid")

	// ErrMissingSchedule is returned when neither a date nor a time was given.
	ErrMissingSchedule = errors.New("appointments: requested date or time is required")

	// ErrNotFound is returned when an appointment does not exist.
	ErrNotFound = errors.New("appointments: appointment not found")

	// ErrSlotTaken is returned by CreateIfFree when the slot is booked.
	ErrSlotTaken = errors.New("appointments: slot already booked")
)

// ConflictError is returned when conflict checking is enabled and the
// requested slot is already taken. SuggestedDate/SuggestedTime carry the
// next free slot when one was found within the search horizon.
type ConflictError struct {
	Date          string
	Time          string
	SuggestedDate string
	SuggestedTime string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("appointments: slot %s %s is already booked", e.Date, e.Time)
}
