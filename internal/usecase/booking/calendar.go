package booking

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// loadCalendar builds the calendar from the stored business hours. Bad
// stored hours are a server-side problem, not a caller error.
func loadCalendar(ctx context.Context, repo domain.Repository, s Settings) (*domain.Calendar, error) {
	hours, err := repo.ListBusinessHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("list business hours: %w", err)
	}

	cal, err := domain.NewCalendar(hours, s.Location)
	if err != nil {
		return nil, fmt.Errorf("business hours misconfigured: %v", err)
	}
	return cal, nil
}

// activeService resolves a bookable service.
func activeService(ctx context.Context, repo domain.Repository, id uint) (*models.Service, error) {
	svc, err := repo.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service %d: %w", id, err)
	}
	if !svc.Active || svc.DurationMin <= 0 {
		return nil, domain.ErrServiceNotFound
	}
	return svc, nil
}
