package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
)

type AvailableSlotsInput struct {
	// Date is any instant of the requested calendar day; the salon
	// timezone decides which day that is.
	Date      time.Time
	ServiceID uint
}

type GetAvailableSlots struct {
	repo     domain.Repository
	clock    domain.Clock
	settings Settings
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewGetAvailableSlots(
	repo domain.Repository,
	clock domain.Clock,
	settings Settings,
	m *metrics.Metrics,
	log *zap.Logger,
) *GetAvailableSlots {
	return &GetAvailableSlots{
		repo:     repo,
		clock:    clock,
		settings: settings,
		metrics:  m,
		log:      log,
	}
}

// Execute lists the free slot starts of one day for one service, earliest
// first. Closed or elapsed days yield an empty list, not an error.
func (uc *GetAvailableSlots) Execute(
	ctx context.Context,
	in AvailableSlotsInput,
) ([]time.Time, error) {

	slots, err := uc.execute(ctx, in)

	switch {
	case err != nil:
		uc.metrics.AvailabilityQuery("error")
	case len(slots) == 0:
		uc.metrics.AvailabilityQuery("empty")
	default:
		uc.metrics.AvailabilityQuery("ok")
	}
	return slots, err
}

func (uc *GetAvailableSlots) execute(
	ctx context.Context,
	in AvailableSlotsInput,
) ([]time.Time, error) {

	if in.ServiceID == 0 {
		return nil, &domain.ValidationError{Field: "serviceId", Reason: "required"}
	}
	if in.Date.IsZero() {
		return nil, &domain.ValidationError{Field: "date", Reason: "required"}
	}

	cal, err := loadCalendar(ctx, uc.repo, uc.settings)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := cal.DayRange(in.Date)

	// 1. Closed weekday
	if !cal.IsOpenOn(dayStart.Weekday()) {
		return []time.Time{}, nil
	}

	// 2. Day already over
	now := uc.clock.Now()
	if !now.Before(dayEnd) {
		return []time.Time{}, nil
	}

	// 3. Service
	svc, err := activeService(ctx, uc.repo, in.ServiceID)
	if err != nil {
		return nil, err
	}
	duration := time.Duration(svc.DurationMin) * time.Minute

	// 4. Candidates
	candidates := cal.Slots(dayStart, duration, uc.settings.Granularity)

	// 5. Obstacles
	existing, err := uc.repo.ListActiveBookings(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	// 6. Lead time + conflicts
	cutoff := uc.settings.cutoff(now, dayStart, cal.Location())
	free := make([]time.Time, 0, len(candidates))
	for _, s := range candidates {
		if !s.After(cutoff) {
			continue
		}
		if domain.OverlapsAny(s, s.Add(duration), existing) {
			continue
		}
		free = append(free, s)
	}

	uc.log.Debug("availability computed",
		zap.Time("day", dayStart),
		zap.Uint("service_id", svc.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("free", len(free)),
	)

	return free, nil
}
