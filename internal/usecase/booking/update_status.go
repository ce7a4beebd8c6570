package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type UpdateBookingStatus struct {
	repo  domain.Repository
	clock domain.Clock
	audit Auditor
}

func NewUpdateBookingStatus(
	repo domain.Repository,
	clock domain.Clock,
	auditor Auditor,
) *UpdateBookingStatus {
	return &UpdateBookingStatus{
		repo:  repo,
		clock: clock,
		audit: auditor,
	}
}

func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	userID uint,
	bookingID uint,
	status string,
) (*models.Booking, error) {

	to, ok := domain.ParseStatus(status)
	if !ok {
		return nil, &domain.ValidationError{Field: "status", Reason: "must be pending, confirmed, cancelled or completed"}
	}

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking %d: %w", bookingID, err)
	}

	from := b.Status
	if err := domain.Transition(b, to, uc.clock.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking %d: %w", bookingID, err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "booking_status_changed",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]string{"from": from, "to": b.Status},
	})

	return b, nil
}
