package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

const publishTimeout = 3 * time.Second

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	ClientName  string
	ClientPhone string
	ClientEmail string

	ServiceID uint
	Start     time.Time
	Notes     string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo      domain.Repository
	clock     domain.Clock
	settings  Settings
	audit     Auditor
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewCreateBooking(
	repo domain.Repository,
	clock domain.Clock,
	settings Settings,
	auditor Auditor,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
) *CreateBooking {
	return &CreateBooking{
		repo:      repo,
		clock:     clock,
		settings:  settings,
		audit:     auditor,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	cal, err := loadCalendar(ctx, uc.repo, uc.settings)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Date: future, lead time, open day
	// --------------------------------------------------
	start := in.Start.In(cal.Location())
	now := uc.clock.Now()

	if !start.After(now) {
		return nil, domain.ErrPastDate
	}
	if !start.After(uc.settings.cutoff(now, start, cal.Location())) {
		return nil, domain.ErrTooSoon
	}
	if !cal.IsOpenOn(start.Weekday()) {
		return nil, domain.ErrClosedDay
	}

	// --------------------------------------------------
	// 3. Service
	// --------------------------------------------------
	svc, err := activeService(ctx, uc.repo, in.ServiceID)
	if err != nil {
		return nil, err
	}

	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	if !cal.Contains(start, end) {
		return nil, domain.ErrOutsideBusinessHours
	}

	// --------------------------------------------------
	// 4. Check + client + insert, as one unit
	// --------------------------------------------------
	dayStart, dayEnd := cal.DayRange(start)

	var created *models.Booking

	err = uc.repo.WithSerializableTx(ctx, func(tx domain.TxRepository) error {
		existing, err := tx.ListBookingsForUpdate(ctx, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}

		if domain.OverlapsAny(start, end, existing) {
			return domain.ErrSlotTaken
		}

		client, err := tx.UpsertClient(ctx, in.ClientName, in.ClientPhone, in.ClientEmail)
		if err != nil {
			return fmt.Errorf("upsert client: %w", err)
		}

		b := &models.Booking{
			ClientID:  client.ID,
			ServiceID: svc.ID,
			StartTime: start,
			EndTime:   end,
			Status:    string(domain.InitialStatus()),
			Notes:     in.Notes,
		}
		if err := tx.CreateBooking(ctx, b); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		b.Client = *client
		b.Service = *svc
		created = b
		return nil
	})

	if errors.Is(err, domain.ErrSlotTaken) {
		uc.metrics.BookingConflict()
		uc.audit.Dispatch(audit.Event{
			Action: "booking_conflict",
			Entity: "booking",
			Metadata: map[string]any{
				"serviceId": svc.ID,
				"start":     start,
				"end":       end,
			},
		})
		uc.log.Info("slot already taken",
			zap.Time("start", start),
			zap.Time("end", end),
			zap.Uint("service_id", svc.ID),
		)
		return nil, domain.ErrSlotTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	// --------------------------------------------------
	// 5. After commit
	// --------------------------------------------------
	uc.metrics.BookingCreated()

	uc.audit.Dispatch(audit.Event{
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &created.ID,
		Metadata: map[string]any{
			"serviceId": svc.ID,
			"clientId":  created.ClientID,
		},
	})

	uc.publish(ctx, created, now)

	return created, nil
}

// publish never fails the booking: it is already committed.
func (uc *CreateBooking) publish(ctx context.Context, b *models.Booking, now time.Time) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := uc.publisher.PublishBookingConfirmed(pctx, events.NewBookingConfirmed(b, now)); err != nil {
		uc.log.Warn("booking event not published",
			zap.Uint("booking_id", b.ID),
			zap.Error(err),
		)
	}
}
