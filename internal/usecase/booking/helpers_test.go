package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

const (
	svcCut      uint = 1 // 30 min
	svcColour   uint = 2 // 45 min
	svcInactive uint = 3
)

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []string
	for _, ev := range a.events {
		out = append(out, ev.Action)
	}
	return out
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []events.BookingConfirmed
	err  error
}

func (p *recordingPublisher) PublishBookingConfirmed(_ context.Context, ev events.BookingConfirmed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	loc       *time.Location
	store     *memory.Store
	auditor   *recordingAuditor
	publisher *recordingPublisher
	settings  Settings
}

func paris(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	return loc
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc := paris(t)
	store := memory.NewStore()

	hours := []models.BusinessHours{{Weekday: 0, OpenTime: "00:00", CloseTime: "00:00", IsOpen: false}}
	for wd := 1; wd <= 5; wd++ {
		hours = append(hours, models.BusinessHours{Weekday: wd, OpenTime: "09:00", CloseTime: "19:00", IsOpen: true})
	}
	hours = append(hours, models.BusinessHours{Weekday: 6, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true})
	store.SetBusinessHours(hours)

	store.AddService(models.Service{ID: svcCut, Name: "Coupe Homme", DurationMin: 30, Price: 35, Active: true})
	store.AddService(models.Service{ID: svcColour, Name: "Coloration", DurationMin: 45, Price: 45, Active: true})
	store.AddService(models.Service{ID: svcInactive, Name: "Soins Visage", DurationMin: 30, Price: 30, Active: false})

	return &fixture{
		loc:       loc,
		store:     store,
		auditor:   &recordingAuditor{},
		publisher: &recordingPublisher{},
		settings: Settings{
			Location:    loc,
			Buffer:      15 * time.Minute,
			Granularity: 30 * time.Minute,
		},
	}
}

// openFromMidnight makes weekday open 00:00-19:00, keeping the other days.
func (f *fixture) openFromMidnight(t *testing.T, weekday time.Weekday) {
	t.Helper()
	hours, err := f.store.ListBusinessHours(context.Background())
	require.NoError(t, err)
	for i := range hours {
		if hours[i].Weekday == int(weekday) {
			hours[i] = models.BusinessHours{Weekday: int(weekday), OpenTime: "00:00", CloseTime: "19:00", IsOpen: true}
		}
	}
	f.store.SetBusinessHours(hours)
}

// at builds an instant in the salon timezone. March 2026: the 2nd is a
// Monday, the 8th a Sunday.
func (f *fixture) at(day, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, f.loc)
}

func (f *fixture) availability(now time.Time) *GetAvailableSlots {
	return NewGetAvailableSlots(f.store, domain.FixedClock(now), f.settings, nil, zap.NewNop())
}

func (f *fixture) creator(now time.Time) *CreateBooking {
	return NewCreateBooking(f.store, domain.FixedClock(now), f.settings, f.auditor, f.publisher, nil, zap.NewNop())
}

func (f *fixture) book(t *testing.T, start time.Time, serviceID uint, status domain.Status) models.Booking {
	t.Helper()
	svc, err := f.store.GetService(context.Background(), serviceID)
	require.NoError(t, err)
	return f.store.AddBooking(models.Booking{
		ClientID:  99,
		ServiceID: serviceID,
		StartTime: start,
		EndTime:   start.Add(time.Duration(svc.DurationMin) * time.Minute),
		Status:    string(status),
	})
}

func guest(start time.Time, serviceID uint) CreateBookingInput {
	return CreateBookingInput{
		ClientName:  "Claire Martin",
		ClientPhone: "06 12 34 56 78",
		ClientEmail: "claire@example.fr",
		ServiceID:   serviceID,
		Start:       start,
	}
}

func hhmm(slots []time.Time) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format("15:04"))
	}
	return out
}

// failingTxRepo makes the insert fail after the client upsert succeeded.
type failingTxRepo struct {
	*memory.Store
}

func (r failingTxRepo) WithSerializableTx(ctx context.Context, fn func(tx domain.TxRepository) error) error {
	return r.Store.WithSerializableTx(ctx, func(tx domain.TxRepository) error {
		return fn(failingTx{tx})
	})
}

type failingTx struct {
	domain.TxRepository
}

func (failingTx) CreateBooking(context.Context, *models.Booking) error {
	return errors.New("insert failed: connection reset")
}
