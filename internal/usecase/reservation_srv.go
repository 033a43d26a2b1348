package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cabin-booking/internal/booking"
	"cabin-booking/internal/data/cache"
	"cabin-booking/internal/data/entity"
	"cabin-booking/internal/data/repository"
	"cabin-booking/internal/dto/request"
	"cabin-booking/internal/dto/response"
	"cabin-booking/internal/queue"
	"cabin-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ReservationService interface {
	Create(ctx context.Context, p utils.Principal, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	Update(ctx context.Context, p utils.Principal, reservationID string, req *request.UpdateReservationRequest) (*response.ReservationResponse, error)
	Delete(ctx context.Context, p utils.Principal, reservationID string) error
	Get(ctx context.Context, p utils.Principal, reservationID string) (*response.ReservationResponse, error)
	List(ctx context.Context, p utils.Principal, req *request.ReservationListRequest) ([]response.ReservationResponse, error)

	// CheckAvailability applies the half-open rule. An empty or inverted
	// range is never available and is answered without touching the store.
	CheckAvailability(ctx context.Context, cabinID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)

	GetPrice(ctx context.Context, p utils.Principal, reservationID string) (*response.PriceResponse, error)
	GetInvoice(ctx context.Context, p utils.Principal, reservationID string) (string, error)
}

type reservationService struct {
	repo         *repository.Repository
	availability cache.AvailabilityCache
	publisher    queue.Publisher
	log          *zap.Logger
	now          func() time.Time
}

func NewReservationService(
	repo *repository.Repository,
	availability cache.AvailabilityCache,
	publisher queue.Publisher,
	log *zap.Logger,
) ReservationService {
	if availability == nil {
		availability = cache.NoopAvailabilityCache{}
	}
	if publisher == nil {
		publisher = queue.NoopPublisher{}
	}
	return &reservationService{
		repo:         repo,
		availability: availability,
		publisher:    publisher,
		log:          log.With(zap.String("service", "reservation")),
		now:          time.Now,
	}
}

func (s *reservationService) Create(ctx context.Context, p utils.Principal, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create reservation validation failed", zap.Error(err))
		return nil, err
	}

	cabinID, err := parseID("cabin", req.CabinID)
	if err != nil {
		return nil, err
	}
	ownerID, err := parseID("owner", req.OwnerID)
	if err != nil {
		return nil, err
	}

	customerID := p.UserID
	if req.CustomerID != "" {
		if customerID, err = parseID("customer", req.CustomerID); err != nil {
			return nil, err
		}
	}
	if customerID != p.UserID && !p.IsStaff {
		return nil, fmt.Errorf("booking for another customer: %w", booking.ErrForbidden)
	}

	stay, err := parseStay(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if !stay.Valid() {
		return nil, fmt.Errorf("%w: start %s must be before end %s", booking.ErrInvalidRange, req.StartDate, req.EndDate)
	}

	if err := s.ensureCabin(ctx, cabinID); err != nil {
		return nil, err
	}

	serviceIDs, err := s.resolveServices(ctx, req.ServiceIDs)
	if err != nil {
		return nil, err
	}

	reservation := &entity.Reservation{
		ID:         uuid.New(),
		CabinID:    cabinID,
		CustomerID: customerID,
		OwnerID:    ownerID,
		ServiceIDs: serviceIDs,
		StartDate:  stay.Start,
		EndDate:    stay.End,
		CreatedAt:  s.now(),
	}

	if err := s.repo.Reservation.Create(ctx, reservation); err != nil {
		if errors.Is(err, booking.ErrOverlap) {
			s.log.Info("Reservation rejected: overlap",
				zap.String("cabin_id", cabinID.String()),
				zap.Stringer("stay", stay))
		}
		return nil, err
	}

	s.invalidate(ctx, cabinID)
	s.publish(ctx, queue.ReservationCreated, reservation)

	s.log.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("cabin_id", cabinID.String()),
		zap.Stringer("stay", stay))

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

// reservationPatch is an UpdateReservationRequest with every value parsed.
type reservationPatch struct {
	cabinID    *uuid.UUID
	customerID *uuid.UUID
	ownerID    *uuid.UUID
	serviceIDs *[]uuid.UUID
	start      *time.Time
	end        *time.Time
	createdAt  bool
	accept     bool
	cancel     bool
}

func (s *reservationService) Update(ctx context.Context, p utils.Principal, reservationID string, req *request.UpdateReservationRequest) (*response.ReservationResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update reservation validation failed", zap.Error(err))
		return nil, err
	}

	id, err := parseID("reservation", reservationID)
	if err != nil {
		return nil, err
	}

	patch, err := parsePatch(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var (
		oldCabin uuid.UUID
		event    = queue.ReservationUpdated
	)

	updated, err := s.repo.Reservation.Update(ctx, id, func(r *entity.Reservation) error {
		if !p.IsStaff && !r.InvolvesUser(p.UserID) {
			return fmt.Errorf("reservation %s: %w", id, booking.ErrForbidden)
		}
		if patch.customerID != nil && *patch.customerID != r.CustomerID && !p.IsStaff {
			return fmt.Errorf("reassigning customer: %w", booking.ErrForbidden)
		}

		// state rules win over anything the patch references
		if err := checkPatchState(r, patch); err != nil {
			return err
		}
		if err := s.ensurePatchRefs(ctx, patch); err != nil {
			return err
		}

		oldCabin = r.CabinID
		if err := applyPatch(r, patch, now); err != nil {
			return err
		}

		switch {
		case patch.cancel:
			event = queue.ReservationCanceled
		case patch.accept:
			event = queue.ReservationAccepted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, oldCabin)
	if updated.CabinID != oldCabin {
		s.invalidate(ctx, updated.CabinID)
	}
	s.publish(ctx, event, updated)

	s.log.Info("Reservation updated",
		zap.String("reservation_id", id.String()),
		zap.String("event", string(event)))

	resp := response.ReservationToResponse(updated)
	return &resp, nil
}

// applyPatch enforces the update rules: a cancelled reservation is frozen,
// acceptance happens once, created_at is immutable. Lifecycle stamps use the
// server clock whatever value the caller sent.
func applyPatch(r *entity.Reservation, patch reservationPatch, now time.Time) error {
	if err := checkPatchState(r, patch); err != nil {
		return err
	}

	if patch.cabinID != nil {
		r.CabinID = *patch.cabinID
	}
	if patch.customerID != nil {
		r.CustomerID = *patch.customerID
	}
	if patch.ownerID != nil {
		r.OwnerID = *patch.ownerID
	}
	if patch.serviceIDs != nil {
		r.ServiceIDs = *patch.serviceIDs
	}
	if patch.start != nil {
		r.StartDate = *patch.start
	}
	if patch.end != nil {
		r.EndDate = *patch.end
	}
	if (patch.start != nil || patch.end != nil) && !r.Stay().Valid() {
		return fmt.Errorf("%w: start %s must be before end %s", booking.ErrInvalidRange,
			r.StartDate.Format(booking.DateLayout), r.EndDate.Format(booking.DateLayout))
	}

	if patch.cancel {
		r.CanceledAt = &now
	}
	if patch.accept {
		r.AcceptedAt = &now
	}
	return nil
}

func checkPatchState(r *entity.Reservation, patch reservationPatch) error {
	if r.IsCanceled() {
		return fmt.Errorf("cannot update a canceled reservation: %w", booking.ErrState)
	}
	if patch.accept && r.IsAccepted() {
		return fmt.Errorf("cannot accept an already accepted reservation: %w", booking.ErrState)
	}
	if patch.createdAt {
		return fmt.Errorf("cannot change the created_at field: %w", booking.ErrState)
	}
	return nil
}

// ensurePatchRefs checks that a cabin or services named by the patch exist.
func (s *reservationService) ensurePatchRefs(ctx context.Context, patch reservationPatch) error {
	if patch.cabinID != nil {
		if err := s.ensureCabin(ctx, *patch.cabinID); err != nil {
			return err
		}
	}
	if patch.serviceIDs != nil {
		if err := s.ensureServices(ctx, *patch.serviceIDs); err != nil {
			return err
		}
	}
	return nil
}

// parsePatch only parses. Catalog lookups wait until the reservation's
// state has been checked.
func parsePatch(req *request.UpdateReservationRequest) (reservationPatch, error) {
	var (
		patch reservationPatch
		err   error
	)

	parseOpt := func(kind string, raw *string) (*uuid.UUID, error) {
		if raw == nil {
			return nil, nil
		}
		id, err := parseID(kind, *raw)
		if err != nil {
			return nil, err
		}
		return &id, nil
	}

	if patch.cabinID, err = parseOpt("cabin", req.CabinID); err != nil {
		return patch, err
	}
	if patch.customerID, err = parseOpt("customer", req.CustomerID); err != nil {
		return patch, err
	}
	if patch.ownerID, err = parseOpt("owner", req.OwnerID); err != nil {
		return patch, err
	}

	if req.StartDate != nil {
		t, err := booking.ParseDate(*req.StartDate)
		if err != nil {
			return patch, err
		}
		patch.start = &t
	}
	if req.EndDate != nil {
		t, err := booking.ParseDate(*req.EndDate)
		if err != nil {
			return patch, err
		}
		patch.end = &t
	}

	if req.ServiceIDs != nil {
		ids, err := parseServiceIDs(*req.ServiceIDs)
		if err != nil {
			return patch, err
		}
		patch.serviceIDs = &ids
	}

	patch.createdAt = req.CreatedAt != nil && *req.CreatedAt != ""
	patch.accept = req.AcceptedAt != nil && *req.AcceptedAt != ""
	patch.cancel = req.CanceledAt != nil && *req.CanceledAt != ""

	return patch, nil
}

func (s *reservationService) Delete(ctx context.Context, p utils.Principal, reservationID string) error {
	reservation, err := s.load(ctx, p, reservationID)
	if err != nil {
		return err
	}

	if err := s.repo.Reservation.Delete(ctx, reservation.ID); err != nil {
		return err
	}

	s.invalidate(ctx, reservation.CabinID)
	s.publish(ctx, queue.ReservationDeleted, reservation)

	s.log.Info("Reservation deleted", zap.String("reservation_id", reservationID))
	return nil
}

func (s *reservationService) Get(ctx context.Context, p utils.Principal, reservationID string) (*response.ReservationResponse, error) {
	reservation, err := s.load(ctx, p, reservationID)
	if err != nil {
		return nil, err
	}

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

// List returns every reservation for staff. Other callers only see
// reservations where they are the customer or the owner.
func (s *reservationService) List(ctx context.Context, p utils.Principal, req *request.ReservationListRequest) ([]response.ReservationResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var (
		filter entity.ReservationFilter
		err    error
	)
	if filter.ID, err = utils.ParseOptionalUUID(req.ID); err != nil {
		return nil, fmt.Errorf("%w: invalid reservation id", ErrValidation)
	}
	if filter.CabinID, err = utils.ParseOptionalUUID(req.CabinID); err != nil {
		return nil, fmt.Errorf("%w: invalid cabin id", ErrValidation)
	}
	if filter.CustomerID, err = utils.ParseOptionalUUID(req.CustomerID); err != nil {
		return nil, fmt.Errorf("%w: invalid customer id", ErrValidation)
	}
	if !p.IsStaff {
		userID := p.UserID
		filter.InvolvedUserID = &userID
	}

	reservations, err := s.repo.Reservation.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if filter.ID != nil && len(reservations) == 0 {
		return nil, fmt.Errorf("reservation %s: %w", req.ID, booking.ErrNotFound)
	}

	out := make([]response.ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, response.ReservationToResponse(r))
	}
	return out, nil
}

func (s *reservationService) CheckAvailability(ctx context.Context, cabinID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	stay := booking.NewStay(start, end)
	if !stay.Valid() {
		return false, nil
	}

	available, found, gen, err := s.availability.Get(ctx, cabinID, stay, excludeID)
	cacheable := err == nil
	if err != nil {
		s.log.Warn("Availability cache read failed", zap.Error(err))
	}
	if found {
		return available, nil
	}

	if err := s.ensureCabin(ctx, cabinID); err != nil {
		return false, err
	}

	booked, err := s.repo.Reservation.BookedStays(ctx, cabinID, stay, excludeID)
	if err != nil {
		return false, err
	}
	available = booking.IsAvailable(stay, booked)

	// gen was read before the store, so an answer that raced a write is dropped.
	if cacheable {
		if err := s.availability.Set(ctx, cabinID, stay, excludeID, gen, available); err != nil {
			s.log.Warn("Availability cache write failed", zap.Error(err))
		}
	}

	return available, nil
}

// GetPrice reads the cabin rate and service prices at call time, so a
// catalog price change is reflected immediately.
func (s *reservationService) GetPrice(ctx context.Context, p utils.Principal, reservationID string) (*response.PriceResponse, error) {
	reservation, err := s.load(ctx, p, reservationID)
	if err != nil {
		return nil, err
	}

	cabin, _, quote, err := s.quote(ctx, reservation)
	if err != nil {
		return nil, err
	}

	resp := response.QuoteToResponse(reservation, cabin, quote)
	return &resp, nil
}

func (s *reservationService) GetInvoice(ctx context.Context, p utils.Principal, reservationID string) (string, error) {
	reservation, err := s.load(ctx, p, reservationID)
	if err != nil {
		return "", err
	}

	cabin, services, quote, err := s.quote(ctx, reservation)
	if err != nil {
		return "", err
	}

	customer, err := s.repo.User.FindByID(ctx, reservation.CustomerID)
	if err != nil {
		return "", fmt.Errorf("load customer: %w", err)
	}
	if customer == nil {
		return "", fmt.Errorf("customer %s: %w", reservation.CustomerID, booking.ErrNotFound)
	}

	lines := make([]booking.InvoiceLine, 0, len(services))
	for _, svc := range services {
		lines = append(lines, booking.InvoiceLine{Name: svc.Name, Price: svc.ServicePrice})
	}

	return booking.RenderInvoice(booking.InvoiceData{
		CustomerName:  customer.FullName(),
		CheckIn:       reservation.StartDate,
		CheckOut:      reservation.EndDate,
		CabinName:     cabin.Name,
		PricePerNight: cabin.PricePerNight,
		Services:      lines,
	}, quote), nil
}

func (s *reservationService) quote(ctx context.Context, r *entity.Reservation) (*entity.Cabin, []*entity.Service, booking.Quote, error) {
	cabin, err := s.repo.Cabin.FindByID(ctx, r.CabinID)
	if err != nil {
		return nil, nil, booking.Quote{}, fmt.Errorf("load cabin: %w", err)
	}
	if cabin == nil {
		return nil, nil, booking.Quote{}, fmt.Errorf("cabin %s: %w", r.CabinID, booking.ErrNotFound)
	}

	services, err := s.repo.Service.FindByReservationID(ctx, r.ID)
	if err != nil {
		return nil, nil, booking.Quote{}, fmt.Errorf("load services: %w", err)
	}

	prices := make([]decimal.Decimal, len(services))
	for i, svc := range services {
		prices[i] = svc.ServicePrice
	}

	quote, err := booking.Price(r.Stay(), cabin.PricePerNight, prices)
	if err != nil {
		return nil, nil, booking.Quote{}, err
	}
	return cabin, services, quote, nil
}

// load fetches a reservation the principal is allowed to see.
func (s *reservationService) load(ctx context.Context, p utils.Principal, reservationID string) (*entity.Reservation, error) {
	id, err := parseID("reservation", reservationID)
	if err != nil {
		return nil, err
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, booking.ErrNotFound)
	}

	if !p.IsStaff && !reservation.InvolvesUser(p.UserID) {
		s.log.Warn("Reservation access denied",
			zap.String("reservation_id", reservationID),
			zap.String("user_id", p.UserID.String()))
		return nil, fmt.Errorf("reservation %s: %w", reservationID, booking.ErrForbidden)
	}

	return reservation, nil
}

func (s *reservationService) ensureCabin(ctx context.Context, cabinID uuid.UUID) error {
	cabin, err := s.repo.Cabin.FindByID(ctx, cabinID)
	if err != nil {
		return fmt.Errorf("load cabin: %w", err)
	}
	if cabin == nil {
		return fmt.Errorf("cabin %s: %w", cabinID, booking.ErrNotFound)
	}
	return nil
}

// resolveServices parses and de-duplicates ids and checks they all exist.
func (s *reservationService) resolveServices(ctx context.Context, raw []string) ([]uuid.UUID, error) {
	ids, err := parseServiceIDs(raw)
	if err != nil {
		return nil, err
	}
	if err := s.ensureServices(ctx, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func parseServiceIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, r := range raw {
		id, err := parseID("service", r)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *reservationService) ensureServices(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	found, err := s.repo.Service.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load services: %w", err)
	}
	if len(found) != len(ids) {
		return fmt.Errorf("service: %w", booking.ErrNotFound)
	}
	return nil
}

func (s *reservationService) invalidate(ctx context.Context, cabinID uuid.UUID) {
	if err := s.availability.Invalidate(ctx, cabinID); err != nil {
		s.log.Warn("Availability cache invalidation failed",
			zap.String("cabin_id", cabinID.String()),
			zap.Error(err))
	}
}

// publish is best effort: a broker failure is logged and never fails the
// request that already committed.
func (s *reservationService) publish(ctx context.Context, t queue.EventType, r *entity.Reservation) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	event := queue.ReservationEvent{
		Type:          t,
		ReservationID: r.ID,
		CabinID:       r.CabinID,
		CustomerID:    r.CustomerID,
		OwnerID:       r.OwnerID,
		StartDate:     r.StartDate.Format(booking.DateLayout),
		EndDate:       r.EndDate.Format(booking.DateLayout),
		ServiceIDs:    r.ServiceIDs,
		OccurredAt:    s.now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish reservation event",
			zap.String("type", string(t)),
			zap.String("reservation_id", r.ID.String()),
			zap.Error(err))
	}
}

func parseStay(start, end string) (booking.Stay, error) {
	s, err := booking.ParseDate(start)
	if err != nil {
		return booking.Stay{}, err
	}
	e, err := booking.ParseDate(end)
	if err != nil {
		return booking.Stay{}, err
	}
	return booking.NewStay(s, e), nil
}
