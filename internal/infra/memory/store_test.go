package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var day = time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestWritesAreStagedUntilCommit(t *testing.T) {
	s := NewStore()

	err := s.WithSerializableTx(context.Background(), func(tx domain.TxRepository) error {
		c, err := tx.UpsertClient(context.Background(), "Léa", "0611223344", "")
		require.NoError(t, err)

		require.NoError(t, tx.CreateBooking(context.Background(), &models.Booking{
			ClientID: c.ID, ServiceID: 1, StartTime: at(10, 0), EndTime: at(10, 30), Status: "confirmed",
		}))

		assert.Empty(t, s.Bookings(), "not visible before commit")

		inTx, err := tx.ListBookingsForUpdate(context.Background(), day, day.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Len(t, inTx, 1, "visible inside the transaction")
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, s.Bookings(), 1)
	assert.Len(t, s.Clients(), 1)
}

func TestFailedTransactionLeavesNothing(t *testing.T) {
	s := NewStore()
	boom := errors.New("boom")

	err := s.WithSerializableTx(context.Background(), func(tx domain.TxRepository) error {
		_, err := tx.UpsertClient(context.Background(), "Léa", "0611223344", "")
		require.NoError(t, err)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Clients())
	assert.Empty(t, s.Bookings())
}

func TestUpsertClientRefreshesByPhone(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	upsert := func(name, email string) *models.Client {
		var c *models.Client
		require.NoError(t, s.WithSerializableTx(ctx, func(tx domain.TxRepository) error {
			var err error
			c, err = tx.UpsertClient(ctx, name, "0611223344", email)
			return err
		}))
		return c
	}

	first := upsert("Léa", "lea@example.fr")
	second := upsert("Léa Roux", "")

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Léa Roux", second.Name)
	assert.Equal(t, "lea@example.fr", second.Email)
}

func TestActiveBookingsSkipCancelled(t *testing.T) {
	s := NewStore()
	s.AddBooking(models.Booking{StartTime: at(10, 0), EndTime: at(10, 30), Status: "confirmed"})
	s.AddBooking(models.Booking{StartTime: at(11, 0), EndTime: at(11, 30), Status: "cancelled"})
	s.AddBooking(models.Booking{StartTime: at(9, 0), EndTime: at(9, 30), Status: "pending"})

	got, err := s.ListActiveBookings(context.Background(), day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].StartTime.Equal(at(9, 0)))
	assert.True(t, got[1].StartTime.Equal(at(10, 0)))
}

func TestExplicitIDsAreNotReused(t *testing.T) {
	s := NewStore()
	s.AddService(models.Service{ID: 5, Name: "Coupe"})

	b := s.AddBooking(models.Booking{StartTime: at(10, 0), EndTime: at(10, 30)})
	assert.Greater(t, b.ID, uint(5))
}

func TestNotFound(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.GetService(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetBooking(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.UpdateBooking(ctx, &models.Booking{ID: 1}), domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteBooking(ctx, 1), domain.ErrNotFound)
}

func TestStats(t *testing.T) {
	s := NewStore()
	s.AddService(models.Service{Name: "Coupe", Active: true})
	s.AddBooking(models.Booking{StartTime: at(10, 0), EndTime: at(10, 30)})
	s.AddBooking(models.Booking{StartTime: at(10, 0).AddDate(0, 0, 1), EndTime: at(10, 30).AddDate(0, 0, 1)})

	st, err := s.Stats(context.Background(), day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalBookings)
	assert.Equal(t, int64(1), st.TodayBookings)
	assert.Equal(t, int64(1), st.TotalServices)
}
