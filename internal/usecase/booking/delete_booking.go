package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
)

type DeleteBooking struct {
	repo  domain.Repository
	audit Auditor
}

func NewDeleteBooking(repo domain.Repository, auditor Auditor) *DeleteBooking {
	return &DeleteBooking{repo: repo, audit: auditor}
}

func (uc *DeleteBooking) Execute(ctx context.Context, userID, bookingID uint) error {
	if err := uc.repo.DeleteBooking(ctx, bookingID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("delete booking %d: %w", bookingID, err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "booking_deleted",
		Entity:   "booking",
		EntityID: &bookingID,
	})
	return nil
}
