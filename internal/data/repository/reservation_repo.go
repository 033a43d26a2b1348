package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cabin-booking/internal/booking"
	"cabin-booking/internal/data/entity"
	"cabin-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// MutateFunc edits a locked reservation inside Update. Returning an error
// aborts the update and rolls back.
type MutateFunc func(r *entity.Reservation) error

type ReservationRepository interface {
	Create(ctx context.Context, r *entity.Reservation) error
	Update(ctx context.Context, id uuid.UUID, mutate MutateFunc) (*entity.Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	List(ctx context.Context, filter entity.ReservationFilter) ([]*entity.Reservation, error)
	// BookedStays returns the stays of the cabin, other than excludeID, that
	// touch window with boundaries included. Callers decide overlap with the
	// booking predicates.
	BookedStays(ctx context.Context, cabinID uuid.UUID, window booking.Stay, excludeID *uuid.UUID) ([]booking.Stay, error)
}

// stayQuerier is satisfied by both the pool and a transaction.
type stayQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `r.id, r.cabin_id, r.customer_id, r.owner_id, r.start_date, r.end_date,
		       r.created_at, r.accepted_at, r.canceled_at`

// bookedStaysQuery narrows to stays whose closed range meets [$2, $3]. That
// is a superset of both overlap rules.
const bookedStaysQuery = `
	SELECT start_date, end_date FROM reservations
	WHERE cabin_id = $1
	  AND start_date <= $3::date
	  AND end_date >= $2::date
	  AND ($4::uuid IS NULL OR id <> $4::uuid)
	ORDER BY start_date
`

// Create locks the cabin row, checks the inclusive overlap rule and inserts
// the reservation with its services in one transaction.
func (rr *reservationRepository) Create(ctx context.Context, r *entity.Reservation) error {
	err := rr.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockCabins(ctx, tx, r.CabinID); err != nil {
			return err
		}

		if err := checkInclusiveOverlap(ctx, tx, r); err != nil {
			return err
		}

		query := `
			INSERT INTO reservations (id, cabin_id, customer_id, owner_id, start_date, end_date,
			                          created_at, accepted_at, canceled_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		if _, err := tx.Exec(ctx, query,
			r.ID,
			r.CabinID,
			r.CustomerID,
			r.OwnerID,
			r.StartDate,
			r.EndDate,
			r.CreatedAt,
			r.AcceptedAt,
			r.CanceledAt,
		); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}

		return replaceServices(ctx, tx, r.ID, r.ServiceIDs)
	})

	if err != nil {
		err = mapConstraintError(err)
		if !isDomainError(err) {
			rr.log.Error("Failed to create reservation",
				zap.Error(err),
				zap.String("cabin_id", r.CabinID.String()),
			)
		}
		return fmt.Errorf("create reservation: %w", err)
	}

	return nil
}

// Update locks the reservation, hands it to mutate, then re-checks overlap
// under the lock of every cabin involved before writing.
func (rr *reservationRepository) Update(ctx context.Context, id uuid.UUID, mutate MutateFunc) (*entity.Reservation, error) {
	var updated *entity.Reservation

	err := rr.withTx(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + reservationColumns + ` FROM reservations r WHERE r.id = $1 FOR UPDATE`

		current, err := scanReservation(tx.QueryRow(ctx, query, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("reservation %s: %w", id, booking.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock reservation: %w", err)
		}

		if current.ServiceIDs, err = serviceIDs(ctx, tx, id); err != nil {
			return err
		}

		oldCabin := current.CabinID
		if err := mutate(current); err != nil {
			return err
		}
		current.ID = id

		if err := lockCabins(ctx, tx, oldCabin, current.CabinID); err != nil {
			return err
		}

		if err := checkInclusiveOverlap(ctx, tx, current); err != nil {
			return err
		}

		update := `
			UPDATE reservations
			SET cabin_id = $2, customer_id = $3, owner_id = $4, start_date = $5,
			    end_date = $6, accepted_at = $7, canceled_at = $8
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, update,
			current.ID,
			current.CabinID,
			current.CustomerID,
			current.OwnerID,
			current.StartDate,
			current.EndDate,
			current.AcceptedAt,
			current.CanceledAt,
		); err != nil {
			return fmt.Errorf("update reservation: %w", err)
		}

		if err := replaceServices(ctx, tx, current.ID, current.ServiceIDs); err != nil {
			return err
		}

		updated = current
		return nil
	})

	if err != nil {
		err = mapConstraintError(err)
		if !isDomainError(err) {
			rr.log.Error("Failed to update reservation",
				zap.Error(err),
				zap.String("reservation_id", id.String()),
			)
		}
		return nil, fmt.Errorf("update reservation %s: %w", id, err)
	}

	return updated, nil
}

func (rr *reservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := rr.db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		rr.log.Error("Failed to delete reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return fmt.Errorf("delete reservation %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s: %w", id, booking.ErrNotFound)
	}

	rr.log.Info("Reservation deleted", zap.String("reservation_id", id.String()))
	return nil
}

// FindByID returns nil, nil when the reservation does not exist.
func (rr *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	list, err := rr.List(ctx, entity.ReservationFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (rr *reservationRepository) List(ctx context.Context, filter entity.ReservationFilter) ([]*entity.Reservation, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT ` + reservationColumns + `,
		       COALESCE(array_agg(rs.service_id::text ORDER BY rs.service_id)
		                FILTER (WHERE rs.service_id IS NOT NULL), '{}')
		FROM reservations r
		LEFT JOIN reservation_services rs ON rs.reservation_id = r.id`)

	var conds []string
	args := []interface{}{}
	argCount := 1

	add := func(cond string, v any) {
		conds = append(conds, strings.ReplaceAll(cond, "$?", fmt.Sprintf("$%d", argCount)))
		args = append(args, v)
		argCount++
	}
	if filter.ID != nil {
		add("r.id = $?", *filter.ID)
	}
	if filter.CustomerID != nil {
		add("r.customer_id = $?", *filter.CustomerID)
	}
	if filter.CabinID != nil {
		add("r.cabin_id = $?", *filter.CabinID)
	}
	if filter.InvolvedUserID != nil {
		add("(r.customer_id = $? OR r.owner_id = $?)", *filter.InvolvedUserID)
	}

	if len(conds) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	queryBuilder.WriteString(" GROUP BY r.id ORDER BY r.start_date, r.id")

	rows, err := rr.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		rr.log.Error("Failed to list reservations", zap.Error(err))
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		var (
			r   entity.Reservation
			ids []string
		)
		if err := rows.Scan(
			&r.ID,
			&r.CabinID,
			&r.CustomerID,
			&r.OwnerID,
			&r.StartDate,
			&r.EndDate,
			&r.CreatedAt,
			&r.AcceptedAt,
			&r.CanceledAt,
			&ids,
		); err != nil {
			rr.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		if r.ServiceIDs, err = parseUUIDs(ids); err != nil {
			return nil, err
		}
		reservations = append(reservations, &r)
	}

	if err := rows.Err(); err != nil {
		rr.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate reservation rows: %w", err)
	}

	return reservations, nil
}

func (rr *reservationRepository) BookedStays(ctx context.Context, cabinID uuid.UUID, window booking.Stay, excludeID *uuid.UUID) ([]booking.Stay, error) {
	stays, err := bookedStays(ctx, rr.db, cabinID, window, excludeID)
	if err != nil {
		rr.log.Error("Failed to load booked stays",
			zap.Error(err),
			zap.String("cabin_id", cabinID.String()),
		)
		return nil, fmt.Errorf("booked stays of cabin %s: %w", cabinID, err)
	}
	return stays, nil
}

func bookedStays(ctx context.Context, q stayQuerier, cabinID uuid.UUID, window booking.Stay, excludeID *uuid.UUID) ([]booking.Stay, error) {
	rows, err := q.Query(ctx, bookedStaysQuery, cabinID, window.Start, window.End, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stays []booking.Stay
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, fmt.Errorf("scan stay: %w", err)
		}
		stays = append(stays, booking.NewStay(start, end))
	}
	return stays, rows.Err()
}

func (rr *reservationRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// lockCabins takes row locks on the given cabins in id order so concurrent
// writers of the same cabin serialise and never deadlock each other.
func lockCabins(ctx context.Context, tx pgx.Tx, ids ...uuid.UUID) error {
	ids = uniqueSorted(ids)

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	rows, err := tx.Query(ctx,
		`SELECT id FROM cabins WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`, strIDs)
	if err != nil {
		return fmt.Errorf("lock cabins: %w", err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lock cabins: %w", err)
	}

	if locked != len(ids) {
		return fmt.Errorf("cabin: %w", booking.ErrNotFound)
	}
	return nil
}

// checkInclusiveOverlap must run with the cabin row locked.
func checkInclusiveOverlap(ctx context.Context, q stayQuerier, r *entity.Reservation) error {
	candidate := r.Stay()
	booked, err := bookedStays(ctx, q, r.CabinID, candidate, &r.ID)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if booking.FirstInclusiveConflict(candidate, booked) >= 0 {
		return booking.ErrOverlap
	}
	return nil
}

func serviceIDs(ctx context.Context, tx pgx.Tx, reservationID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := tx.Query(ctx,
		`SELECT service_id::text FROM reservation_services WHERE reservation_id = $1 ORDER BY service_id`,
		reservationID)
	if err != nil {
		return nil, fmt.Errorf("load reservation services: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("load reservation services: %w", err)
	}
	return parseUUIDs(ids)
}

func replaceServices(ctx context.Context, tx pgx.Tx, reservationID uuid.UUID, ids []uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM reservation_services WHERE reservation_id = $1`, reservationID); err != nil {
		return fmt.Errorf("clear reservation services: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	query := `
		INSERT INTO reservation_services (reservation_id, service_id)
		SELECT $1, s FROM unnest($2::uuid[]) AS s
		ON CONFLICT DO NOTHING
	`
	if _, err := tx.Exec(ctx, query, reservationID, strIDs); err != nil {
		return fmt.Errorf("insert reservation services: %w", err)
	}
	return nil
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var r entity.Reservation
	err := row.Scan(
		&r.ID,
		&r.CabinID,
		&r.CustomerID,
		&r.OwnerID,
		&r.StartDate,
		&r.EndDate,
		&r.CreatedAt,
		&r.AcceptedAt,
		&r.CanceledAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("parse uuid %q: %w", v, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func uniqueSorted(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// mapConstraintError turns constraint violations raised by the schema into
// domain errors.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "23P01": // exclusion_violation
		return booking.ErrOverlap
	case "23503": // foreign_key_violation
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, booking.ErrNotFound)
	case "23514": // check_violation
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, booking.ErrInvalidRange)
	}
	return err
}

func isDomainError(err error) bool {
	return errors.Is(err, booking.ErrOverlap) ||
		errors.Is(err, booking.ErrNotFound) ||
		errors.Is(err, booking.ErrInvalidRange) ||
		errors.Is(err, booking.ErrState) ||
		errors.Is(err, booking.ErrForbidden)
}
