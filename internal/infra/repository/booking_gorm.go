package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, translate(err)
	}
	return &svc, nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *BookingGormRepository) ListBusinessHours(
	ctx context.Context,
) ([]models.BusinessHours, error) {

	var hours []models.BusinessHours
	if err := r.db.WithContext(ctx).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

// --------------------------------------------------
// Booking (read)
// --------------------------------------------------

func (r *BookingGormRepository) ListActiveBookings(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {
	return activeBookings(r.db.WithContext(ctx), from, to)
}

func activeBookings(q *gorm.DB, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := q.
		Where(
			"status <> ? AND start_time < ? AND end_time > ?",
			string(domain.StatusCancelled), to, from,
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").
		Find(&bookings).Error

	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// --------------------------------------------------
// Booking (staff changes)
// --------------------------------------------------

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"status":       b.Status,
			"notes":        b.Notes,
			"cancelled_at": b.CancelledAt,
			"completed_at": b.CompletedAt,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BookingGormRepository) DeleteBooking(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Booking{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

// WithSerializableTx serializes writers of one salon day on an advisory
// lock taken by ListBookingsForUpdate. The transaction runs at READ
// COMMITTED: every statement after the lock is granted reads a fresh
// snapshot, and writers of different intervals on the same day never abort
// each other. bookings_no_overlap stays as the backstop.
func (r *BookingGormRepository) WithSerializableTx(
	ctx context.Context,
	fn func(tx domain.TxRepository) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})

	return translate(err)
}

type gormTx struct {
	db *gorm.DB
}

// ListBookingsForUpdate waits for the salon day's advisory lock before
// reading. The lock is held until commit, so a writer queued behind another
// reads its committed row.
func (t *gormTx) ListBookingsForUpdate(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	q := t.db.WithContext(ctx)

	if err := q.Exec("SELECT pg_advisory_xact_lock(?)", dayLockKey(from)).Error; err != nil {
		return nil, fmt.Errorf("advisory lock: %w", err)
	}

	return activeBookings(q.Clauses(clause.Locking{Strength: "UPDATE"}), from, to)
}

func (t *gormTx) UpsertClient(
	ctx context.Context,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	q := t.db.WithContext(ctx)

	client := models.Client{Name: name, Phone: phone, Email: email}
	if err := q.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "phone"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":       gorm.Expr("EXCLUDED.name"),
				"email":      gorm.Expr("COALESCE(NULLIF(EXCLUDED.email, ''), clients.email)"),
				"updated_at": gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).
		Create(&client).Error; err != nil {
		return nil, err
	}

	var stored models.Client
	if err := q.Where("phone = ?", phone).First(&stored).Error; err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

func (t *gormTx) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return t.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

// dayLockKey identifies a salon-local calendar day, e.g. 20260303.
func dayLockKey(day time.Time) int64 {
	return int64(day.Year()*10000 + int(day.Month())*100 + day.Day())
}

// translate maps storage errors to domain errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case isBookingContention(err):
		return domain.ErrSlotTaken
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
