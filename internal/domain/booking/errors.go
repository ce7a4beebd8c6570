package booking

import (
	"errors"
	"fmt"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

var (
	ErrInvalidInput         = httperr.ErrBusiness("invalid_input")
	ErrPastDate             = httperr.ErrBusiness("past_date")
	ErrTooSoon              = httperr.ErrBusiness("too_soon")
	ErrClosedDay            = httperr.ErrBusiness("closed_day")
	ErrOutsideBusinessHours = httperr.ErrBusiness("outside_business_hours")
	ErrServiceNotFound      = httperr.ErrBusiness("service_not_found")
	ErrSlotTaken            = httperr.ErrBusiness("slot_taken")
	ErrBookingNotFound      = httperr.ErrBusiness("booking_not_found")
	ErrInvalidTransition    = httperr.ErrBusiness("invalid_state")
	ErrInvalidBusinessHours = httperr.ErrBusiness("invalid_business_hours")
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("booking: record not found")

// ValidationError describes a rejected input field. It unwraps to
// ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// HoursError describes a malformed business-hours record. It unwraps to
// ErrInvalidBusinessHours.
type HoursError struct {
	Weekday int
	Reason  string
}

func (e *HoursError) Error() string {
	return fmt.Sprintf("weekday %d: %s", e.Weekday, e.Reason)
}

func (e *HoursError) Unwrap() error {
	return ErrInvalidBusinessHours
}
