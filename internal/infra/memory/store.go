// Package memory is an in-process implementation of the booking
// repository. Write transactions are serialized by a mutex and staged
// until commit.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type Store struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	nextID   uint
	services map[uint]models.Service
	hours    []models.BusinessHours
	clients  map[uint]models.Client
	bookings map[uint]models.Booking
}

func NewStore() *Store {
	return &Store{
		services: make(map[uint]models.Service),
		clients:  make(map[uint]models.Client),
		bookings: make(map[uint]models.Booking),
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// claim returns id, or a fresh one when id is zero, and keeps later
// fresh ids above it.
func (s *Store) claim(id uint) uint {
	if id == 0 {
		return s.id()
	}
	if id > s.nextID {
		s.nextID = id
	}
	return id
}

// -------- Seeding / inspection --------

func (s *Store) AddService(svc models.Service) models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc.ID = s.claim(svc.ID)
	s.services[svc.ID] = svc
	return svc
}

func (s *Store) SetBusinessHours(hours []models.BusinessHours) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hours = append([]models.BusinessHours(nil), hours...)
}

func (s *Store) AddBooking(b models.Booking) models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.claim(b.ID)
	s.bookings[b.ID] = b
	return b
}

func (s *Store) Bookings() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sortByStart(out)
	return out
}

func (s *Store) Clients() []models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// -------- Repository --------

func (s *Store) GetService(_ context.Context, id uint) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &svc, nil
}

func (s *Store) ListBusinessHours(context.Context) ([]models.BusinessHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.BusinessHours(nil), s.hours...), nil
}

func (s *Store) ListActiveBookings(_ context.Context, from, to time.Time) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeBetween(from, to, nil), nil
}

func (s *Store) activeBetween(from, to time.Time, staged []models.Booking) []models.Booking {
	var out []models.Booking
	keep := func(b models.Booking) {
		if domain.Status(b.Status).Blocks() && domain.Overlaps(b.StartTime, b.EndTime, from, to) {
			out = append(out, b)
		}
	}
	for _, b := range s.bookings {
		keep(b)
	}
	for _, b := range staged {
		keep(b)
	}
	sortByStart(out)
	return out
}

func (s *Store) ListBookingsForPeriod(_ context.Context, from, to time.Time) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if !b.StartTime.Before(from) && b.StartTime.Before(to) {
			out = append(out, s.hydrate(b))
		}
	}
	sortByStart(out)
	return out, nil
}

func (s *Store) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b = s.hydrate(b)
	return &b, nil
}

func (s *Store) hydrate(b models.Booking) models.Booking {
	b.Client = s.clients[b.ClientID]
	b.Service = s.services[b.ServiceID]
	return b
}

func (s *Store) UpdateBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[b.ID]; !ok {
		return domain.ErrNotFound
	}
	s.bookings[b.ID] = *b
	return nil
}

func (s *Store) DeleteBooking(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.bookings, id)
	return nil
}

func (s *Store) WithSerializableTx(ctx context.Context, fn func(tx domain.TxRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &storeTx{store: s, clients: make(map[uint]models.Client)}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range tx.clients {
		s.clients[id] = c
	}
	for _, b := range tx.bookings {
		s.bookings[b.ID] = b
	}
	return nil
}

type storeTx struct {
	store    *Store
	clients  map[uint]models.Client
	bookings []models.Booking
}

func (tx *storeTx) ListBookingsForUpdate(_ context.Context, from, to time.Time) ([]models.Booking, error) {
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	return tx.store.activeBetween(from, to, tx.bookings), nil
}

func (tx *storeTx) UpsertClient(_ context.Context, name, phone, email string) (*models.Client, error) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	for _, c := range tx.clients {
		if c.Phone == phone {
			return tx.refresh(c, name, email), nil
		}
	}
	for _, c := range tx.store.clients {
		if c.Phone == phone {
			return tx.refresh(c, name, email), nil
		}
	}

	c := models.Client{ID: tx.store.id(), Name: name, Phone: phone, Email: email}
	tx.clients[c.ID] = c
	return &c, nil
}

func (tx *storeTx) refresh(c models.Client, name, email string) *models.Client {
	c.Name = name
	if email != "" {
		c.Email = email
	}
	tx.clients[c.ID] = c
	return &c
}

func (tx *storeTx) CreateBooking(_ context.Context, b *models.Booking) error {
	tx.store.mu.Lock()
	b.ID = tx.store.id()
	tx.store.mu.Unlock()

	tx.bookings = append(tx.bookings, *b)
	return nil
}

// -------- Catalog --------

func (s *Store) ListActiveServices(context.Context) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Service, 0, len(s.services))
	for _, svc := range s.services {
		if svc.Active {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Stats(_ context.Context, dayStart, dayEnd time.Time) (dto.StatsDTO, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := dto.StatsDTO{
		TotalBookings: int64(len(s.bookings)),
		TotalClients:  int64(len(s.clients)),
		TotalServices: int64(len(s.services)),
	}
	for _, b := range s.bookings {
		if !b.StartTime.Before(dayStart) && b.StartTime.Before(dayEnd) {
			st.TodayBookings++
		}
	}
	return st, nil
}

func sortByStart(bs []models.Booking) {
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].StartTime.Equal(bs[j].StartTime) {
			return bs[i].ID < bs[j].ID
		}
		return bs[i].StartTime.Before(bs[j].StartTime)
	})
}

var _ domain.Repository = (*Store)(nil)
