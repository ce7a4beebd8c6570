package booking

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// Blocks reports whether a booking in this status occupies its interval.
func (s Status) Blocks() bool {
	return s != StatusCancelled
}

// Cancelled and completed are terminal: a revived booking could overlap
// one created after it was released.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// InitialStatus is the status of bookings made through the public flow.
func InitialStatus() Status {
	return StatusConfirmed
}

// Transition applies a staff status change to b.
func Transition(b *models.Booking, to Status, now time.Time) error {
	if !CanTransition(Status(b.Status), to) {
		return ErrInvalidTransition
	}

	b.Status = string(to)
	switch to {
	case StatusCancelled:
		b.CancelledAt = &now
	case StatusCompleted:
		b.CompletedAt = &now
	}
	return nil
}
