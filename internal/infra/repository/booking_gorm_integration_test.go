//go:build integration

package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/db"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Run with: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infra/repository/

func openTestDB(t *testing.T) (*gorm.DB, models.Service) {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	gdb, err := db.NewDB(&config.Config{DBUrl: url}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, gdb.Exec("TRUNCATE bookings, clients, services RESTART IDENTITY CASCADE").Error)

	svc := models.Service{Name: "Coupe Homme", DurationMin: 30, Price: 35, Active: true}
	require.NoError(t, gdb.Create(&svc).Error)

	return gdb, svc
}

type attempt struct {
	phone string
	start time.Time

	// locked is closed once the day lock is held; the writer then waits
	// hold before checking and inserting.
	locked chan struct{}
	hold   time.Duration
}

func book(ctx context.Context, repo *BookingGormRepository, svc models.Service, a attempt) error {
	dayStart := time.Date(a.start.Year(), a.start.Month(), a.start.Day(), 0, 0, 0, 0, a.start.Location())
	end := a.start.Add(time.Duration(svc.DurationMin) * time.Minute)

	return repo.WithSerializableTx(ctx, func(tx domain.TxRepository) error {
		existing, err := tx.ListBookingsForUpdate(ctx, dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		if a.locked != nil {
			close(a.locked)
			time.Sleep(a.hold)
		}
		if domain.OverlapsAny(a.start, end, existing) {
			return domain.ErrSlotTaken
		}

		client, err := tx.UpsertClient(ctx, "Claire Martin", a.phone, "")
		if err != nil {
			return err
		}
		return tx.CreateBooking(ctx, &models.Booking{
			ClientID:  client.ID,
			ServiceID: svc.ID,
			StartTime: a.start,
			EndTime:   end,
			Status:    string(domain.StatusConfirmed),
		})
	})
}

// race runs first until it holds the day lock, then starts second so that
// it queues behind it.
func race(t *testing.T, repo *BookingGormRepository, svc models.Service, first, second attempt) (error, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	first.locked = make(chan struct{})
	first.hold = 300 * time.Millisecond

	var (
		wg        sync.WaitGroup
		errFirst  error
		errSecond error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errFirst = book(ctx, repo, svc, first)
	}()
	go func() {
		defer wg.Done()
		<-first.locked
		errSecond = book(ctx, repo, svc, second)
	}()
	wg.Wait()

	return errFirst, errSecond
}

func TestConcurrentSameDayDisjointSlotsBothCommit(t *testing.T) {
	gdb, svc := openTestDB(t)
	repo := NewBookingGormRepository(gdb)

	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	errA, errB := race(t, repo, svc,
		attempt{phone: "0612345678", start: time.Date(2026, 3, 3, 10, 0, 0, 0, loc)},
		attempt{phone: "0698765432", start: time.Date(2026, 3, 3, 15, 0, 0, 0, loc)},
	)
	require.NoError(t, errA)
	require.NoError(t, errB)

	var count int64
	require.NoError(t, gdb.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestConcurrentOverlappingSlotQueuedWriterSeesWinner(t *testing.T) {
	gdb, svc := openTestDB(t)
	repo := NewBookingGormRepository(gdb)

	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	errA, errB := race(t, repo, svc,
		attempt{phone: "0612345678", start: time.Date(2026, 3, 3, 10, 0, 0, 0, loc)},
		attempt{phone: "0698765432", start: time.Date(2026, 3, 3, 10, 15, 0, 0, loc)},
	)
	require.NoError(t, errA)
	assert.True(t, errors.Is(errB, domain.ErrSlotTaken), "got %v", errB)

	var clients int64
	require.NoError(t, gdb.Model(&models.Client{}).Count(&clients).Error)
	assert.Equal(t, int64(1), clients, "loser must not leave a client behind")
}

func TestExclusionConstraintMapsToSlotTaken(t *testing.T) {
	gdb, svc := openTestDB(t)
	repo := NewBookingGormRepository(gdb)

	start := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	insert := func(phone string) error {
		return repo.WithSerializableTx(context.Background(), func(tx domain.TxRepository) error {
			client, err := tx.UpsertClient(context.Background(), "Claire Martin", phone, "")
			if err != nil {
				return err
			}
			return tx.CreateBooking(context.Background(), &models.Booking{
				ClientID:  client.ID,
				ServiceID: svc.ID,
				StartTime: start,
				EndTime:   start.Add(30 * time.Minute),
				Status:    string(domain.StatusConfirmed),
			})
		})
	}

	require.NoError(t, insert("0612345678"))
	assert.True(t, errors.Is(insert("0698765432"), domain.ErrSlotTaken))
}
