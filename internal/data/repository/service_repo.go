package repository

import (
	"context"
	"fmt"

	"cabin-booking/internal/data/entity"
	"cabin-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ServiceRepository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Service, error)
	FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*entity.Service, error)
}

type serviceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewServiceRepository(db database.PgxIface, log *zap.Logger) ServiceRepository {
	return &serviceRepository{
		db:  db,
		log: log.With(zap.String("repository", "service")),
	}
}

// FindByIDs returns the services that exist among ids, ordered by name.
// Callers compare lengths to detect unknown ids.
func (r *serviceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	query := `
		SELECT id, area, name, description, service_price, vat_price, created_at, updated_at
		FROM services
		WHERE id = ANY($1::uuid[])
		ORDER BY name
	`
	return r.query(ctx, query, strIDs)
}

func (r *serviceRepository) FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*entity.Service, error) {
	query := `
		SELECT s.id, s.area, s.name, s.description, s.service_price, s.vat_price,
		       s.created_at, s.updated_at
		FROM services s
		JOIN reservation_services rs ON rs.service_id = s.id
		WHERE rs.reservation_id = $1
		ORDER BY s.name
	`
	return r.query(ctx, query, reservationID)
}

func (r *serviceRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Service, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query services", zap.Error(err))
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	var services []*entity.Service
	for rows.Next() {
		var s entity.Service
		if err := rows.Scan(
			&s.ID,
			&s.Area,
			&s.Name,
			&s.Description,
			&s.ServicePrice,
			&s.VATPrice,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			r.log.Error("Failed to scan service row", zap.Error(err))
			return nil, fmt.Errorf("scan service row: %w", err)
		}
		services = append(services, &s)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate service rows: %w", err)
	}

	return services, nil
}
