package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
)

type ListBookingsByMonth struct {
	repo     domain.Repository
	settings Settings
}

func NewListBookingsByMonth(repo domain.Repository, settings Settings) *ListBookingsByMonth {
	return &ListBookingsByMonth{repo: repo, settings: settings}
}

func (uc *ListBookingsByMonth) Execute(
	ctx context.Context,
	year int,
	month time.Month,
) ([]dto.BookingListDTO, error) {

	if year < 2000 || year > 2100 {
		return nil, &domain.ValidationError{Field: "year", Reason: "must be between 2000 and 2100"}
	}
	if month < time.January || month > time.December {
		return nil, &domain.ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, uc.settings.Location)
	end := start.AddDate(0, 1, 0)

	bookings, err := uc.repo.ListBookingsForPeriod(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return toListDTO(bookings), nil
}
