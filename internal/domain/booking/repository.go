package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type Repository interface {
	// -------- Service --------
	GetService(ctx context.Context, id uint) (*models.Service, error)

	// -------- Calendar --------
	ListBusinessHours(ctx context.Context) ([]models.BusinessHours, error)

	// -------- Booking (read) --------

	// ListActiveBookings returns non-cancelled bookings intersecting
	// [from, to), ordered by start.
	ListActiveBookings(ctx context.Context, from, to time.Time) ([]models.Booking, error)

	ListBookingsForPeriod(ctx context.Context, from, to time.Time) ([]models.Booking, error)

	GetBooking(ctx context.Context, id uint) (*models.Booking, error)

	// -------- Booking (staff changes) --------
	UpdateBooking(ctx context.Context, b *models.Booking) error
	DeleteBooking(ctx context.Context, id uint) error

	// WithSerializableTx runs fn in a single serializable unit of work. If fn
	// returns an error nothing it wrote is kept. Conflicting concurrent
	// writers surface as ErrSlotTaken.
	WithSerializableTx(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository is the write side available inside WithSerializableTx.
type TxRepository interface {
	// ListBookingsForUpdate returns the non-cancelled bookings intersecting
	// [from, to) and holds them, and the day itself, against concurrent
	// writers until the transaction ends.
	ListBookingsForUpdate(ctx context.Context, from, to time.Time) ([]models.Booking, error)

	// UpsertClient finds the client by phone, refreshing name and a
	// non-empty email, or creates it.
	UpsertClient(ctx context.Context, name, phone, email string) (*models.Client, error)

	CreateBooking(ctx context.Context, b *models.Booking) error
}
