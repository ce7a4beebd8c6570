package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ListBookingsByDate struct {
	repo     domain.Repository
	settings Settings
}

func NewListBookingsByDate(repo domain.Repository, settings Settings) *ListBookingsByDate {
	return &ListBookingsByDate{repo: repo, settings: settings}
}

// Execute lists every booking (any status) starting on date's calendar day.
func (uc *ListBookingsByDate) Execute(
	ctx context.Context,
	date time.Time,
) ([]dto.BookingListDTO, error) {

	d := date.In(uc.settings.Location)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, uc.settings.Location)
	end := start.AddDate(0, 0, 1)

	bookings, err := uc.repo.ListBookingsForPeriod(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return toListDTO(bookings), nil
}

func toListDTO(bookings []models.Booking) []dto.BookingListDTO {
	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.BookingListDTO{
			ID:          b.ID,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
			Status:      b.Status,
			ClientName:  b.Client.Name,
			ClientPhone: b.Client.Phone,
			ServiceName: b.Service.Name,
			Notes:       b.Notes,
		})
	}

	return out
}
