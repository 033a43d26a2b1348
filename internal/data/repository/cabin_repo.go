package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cabin-booking/internal/data/entity"
	"cabin-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CabinFilter narrows FindAll and CountAll. Empty fields are not applied.
type CabinFilter struct {
	Area    string
	ZipCode string
	MinBeds int
}

type CabinRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Cabin, error)
	FindAll(ctx context.Context, filter CabinFilter, limit, offset int) ([]*entity.Cabin, error)
	CountAll(ctx context.Context, filter CabinFilter) (int64, error)
}

type cabinRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCabinRepository(db database.PgxIface, log *zap.Logger) CabinRepository {
	return &cabinRepository{
		db:  db,
		log: log.With(zap.String("repository", "cabin")),
	}
}

func (r *cabinRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Cabin, error) {
	query := `
		SELECT id, name, description, price_per_night, area, zip_code, num_of_beds,
		       address, created_at, updated_at
		FROM cabins
		WHERE id = $1
	`

	var cabin entity.Cabin
	err := r.db.QueryRow(ctx, query, id).Scan(
		&cabin.ID,
		&cabin.Name,
		&cabin.Description,
		&cabin.PricePerNight,
		&cabin.Area,
		&cabin.ZipCode,
		&cabin.NumOfBeds,
		&cabin.Address,
		&cabin.CreatedAt,
		&cabin.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cabin by ID",
			zap.Error(err),
			zap.String("cabin_id", id.String()),
		)
		return nil, fmt.Errorf("find cabin by ID %s: %w", id.String(), err)
	}

	return &cabin, nil
}

// where builds the shared WHERE clause and returns the next placeholder index.
func (f CabinFilter) where() (string, []interface{}, int) {
	var conds []string
	args := []interface{}{}
	argCount := 1

	if f.Area != "" {
		conds = append(conds, fmt.Sprintf("area = $%d", argCount))
		args = append(args, f.Area)
		argCount++
	}
	if f.ZipCode != "" {
		conds = append(conds, fmt.Sprintf("zip_code = $%d", argCount))
		args = append(args, f.ZipCode)
		argCount++
	}
	if f.MinBeds > 0 {
		conds = append(conds, fmt.Sprintf("num_of_beds >= $%d", argCount))
		args = append(args, f.MinBeds)
		argCount++
	}

	if len(conds) == 0 {
		return "", args, argCount
	}
	return " WHERE " + strings.Join(conds, " AND "), args, argCount
}

func (r *cabinRepository) FindAll(ctx context.Context, filter CabinFilter, limit, offset int) ([]*entity.Cabin, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, name, description, price_per_night, area, zip_code, num_of_beds,
		       address, created_at, updated_at
		FROM cabins`)

	where, args, argCount := filter.where()
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY area, name LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find cabins",
			zap.Error(err),
			zap.String("area", filter.Area),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find cabins limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var cabins []*entity.Cabin
	for rows.Next() {
		var cabin entity.Cabin
		err := rows.Scan(
			&cabin.ID,
			&cabin.Name,
			&cabin.Description,
			&cabin.PricePerNight,
			&cabin.Area,
			&cabin.ZipCode,
			&cabin.NumOfBeds,
			&cabin.Address,
			&cabin.CreatedAt,
			&cabin.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan cabin row", zap.Error(err))
			return nil, fmt.Errorf("scan cabin row: %w", err)
		}
		cabins = append(cabins, &cabin)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate cabin rows: %w", err)
	}

	return cabins, nil
}

func (r *cabinRepository) CountAll(ctx context.Context, filter CabinFilter) (int64, error) {
	where, args, _ := filter.where()

	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cabins`+where, args...).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count cabins", zap.Error(err))
		return 0, fmt.Errorf("count cabins: %w", err)
	}

	return total, nil
}
