package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"cabin-booking/internal/booking"
	"cabin-booking/internal/data/cache"
	"cabin-booking/internal/data/entity"
	"cabin-booking/internal/data/repository"
	"cabin-booking/internal/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

type mockSessionRepo struct{ mock.Mock }

func (m *mockSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(*entity.Session)
	return s, args.Error(1)
}

func (m *mockSessionRepo) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockCabinRepo struct{ mock.Mock }

func (m *mockCabinRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Cabin, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Cabin)
	return c, args.Error(1)
}

func (m *mockCabinRepo) FindAll(ctx context.Context, filter repository.CabinFilter, limit, offset int) ([]*entity.Cabin, error) {
	args := m.Called(ctx, filter, limit, offset)
	c, _ := args.Get(0).([]*entity.Cabin)
	return c, args.Error(1)
}

func (m *mockCabinRepo) CountAll(ctx context.Context, filter repository.CabinFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Service, error) {
	args := m.Called(ctx, ids)
	s, _ := args.Get(0).([]*entity.Service)
	return s, args.Error(1)
}

func (m *mockServiceRepo) FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*entity.Service, error) {
	args := m.Called(ctx, reservationID)
	s, _ := args.Get(0).([]*entity.Service)
	return s, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, event queue.ReservationEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockPublisher) Close() error { return nil }

type mockAvailabilityCache struct{ mock.Mock }

func (m *mockAvailabilityCache) Get(ctx context.Context, cabinID uuid.UUID, stay booking.Stay, excludeID *uuid.UUID) (bool, bool, cache.Generation, error) {
	args := m.Called(ctx, cabinID, stay, excludeID)
	return args.Bool(0), args.Bool(1), args.Get(2).(cache.Generation), args.Error(3)
}

func (m *mockAvailabilityCache) Set(ctx context.Context, cabinID uuid.UUID, stay booking.Stay, excludeID *uuid.UUID, gen cache.Generation, available bool) error {
	return m.Called(ctx, cabinID, stay, excludeID, gen, available).Error(0)
}

func (m *mockAvailabilityCache) Invalidate(ctx context.Context, cabinID uuid.UUID) error {
	return m.Called(ctx, cabinID).Error(0)
}

// memReservationRepo is an in-memory store that enforces the inclusive
// overlap rule under one mutex, standing in for the row-locking SQL store.
type memReservationRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entity.Reservation
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{items: make(map[uuid.UUID]*entity.Reservation)}
}

func cloneReservation(r *entity.Reservation) *entity.Reservation {
	c := *r
	c.ServiceIDs = append([]uuid.UUID(nil), r.ServiceIDs...)
	return &c
}

func (m *memReservationRepo) conflict(r *entity.Reservation) bool {
	var booked []booking.Stay
	for id, other := range m.items {
		if id != r.ID && other.CabinID == r.CabinID {
			booked = append(booked, other.Stay())
		}
	}
	return booking.FirstInclusiveConflict(r.Stay(), booked) >= 0
}

func (m *memReservationRepo) Create(_ context.Context, r *entity.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conflict(r) {
		return fmt.Errorf("create reservation: %w", booking.ErrOverlap)
	}
	m.items[r.ID] = cloneReservation(r)
	return nil
}

func (m *memReservationRepo) Update(_ context.Context, id uuid.UUID, mutate repository.MutateFunc) (*entity.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", id, booking.ErrNotFound)
	}

	next := cloneReservation(cur)
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.ID = id

	if m.conflict(next) {
		return nil, fmt.Errorf("update reservation: %w", booking.ErrOverlap)
	}
	m.items[id] = next
	return cloneReservation(next), nil
}

func (m *memReservationRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("reservation %s: %w", id, booking.ErrNotFound)
	}
	delete(m.items, id)
	return nil
}

func (m *memReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return cloneReservation(r), nil
}

func (m *memReservationRepo) List(_ context.Context, f entity.ReservationFilter) ([]*entity.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*entity.Reservation
	for _, r := range m.items {
		switch {
		case f.ID != nil && r.ID != *f.ID,
			f.CabinID != nil && r.CabinID != *f.CabinID,
			f.CustomerID != nil && r.CustomerID != *f.CustomerID,
			f.InvolvedUserID != nil && !r.InvolvesUser(*f.InvolvedUserID):
			continue
		}
		out = append(out, cloneReservation(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *memReservationRepo) BookedStays(_ context.Context, cabinID uuid.UUID, _ booking.Stay, excludeID *uuid.UUID) ([]booking.Stay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var booked []booking.Stay
	for id, r := range m.items {
		if r.CabinID != cabinID || (excludeID != nil && id == *excludeID) {
			continue
		}
		booked = append(booked, r.Stay())
	}
	return booked, nil
}
