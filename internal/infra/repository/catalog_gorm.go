package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// CatalogGormRepository serves the read models of the public catalog and
// the staff dashboard.
type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

func (r *CatalogGormRepository) ListActiveServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *CatalogGormRepository) Stats(ctx context.Context, dayStart, dayEnd time.Time) (dto.StatsDTO, error) {
	var s dto.StatsDTO
	q := r.db.WithContext(ctx)

	if err := q.Model(&models.Booking{}).Count(&s.TotalBookings).Error; err != nil {
		return s, err
	}
	if err := q.Model(&models.Booking{}).
		Where("start_time >= ? AND start_time < ?", dayStart, dayEnd).
		Count(&s.TodayBookings).Error; err != nil {
		return s, err
	}
	if err := q.Model(&models.Client{}).Count(&s.TotalClients).Error; err != nil {
		return s, err
	}
	if err := q.Model(&models.Service{}).Count(&s.TotalServices).Error; err != nil {
		return s, err
	}
	return s, nil
}
