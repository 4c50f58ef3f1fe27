package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/psqlbuilder"
)

// Repository репозиторий каталога услуг и дополнений
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServicesByIDs получает услуги каталога по списку ID
// Если хотя бы одна услуга не найдена или неактивна, возвращает ErrServiceNotFound
func (r *Repository) GetServicesByIDs(ctx context.Context, ids []int64) ([]*domain.CatalogService, error) {
	if len(ids) == 0 {
		return []*domain.CatalogService{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"description",
		"duration_hours",
		"price_sedan",
		"price_suv",
		"price_truck",
		"price_coupe",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.CatalogService, 0, len(ids))
	for rows.Next() {
		var s domain.CatalogService
		var createdAt, updatedAt sql.NullTime
		err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Description,
			&s.DurationHours,
			&s.PriceSedan,
			&s.PriceSUV,
			&s.PriceTruck,
			&s.PriceCoupe,
			&s.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetServicesByIDs - scan row: %v", ErrScanRow, err)
		}
		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time
		services = append(services, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - rows error: %v", ErrScanRow, err)
	}

	if len(services) != len(uniqueIDs(ids)) {
		return nil, ErrServiceNotFound
	}

	return services, nil
}

// GetAddOnsByIDs получает дополнения каталога по списку ID
// Если хотя бы одно дополнение не найдено или неактивно, возвращает ErrAddOnNotFound
func (r *Repository) GetAddOnsByIDs(ctx context.Context, ids []int64) ([]*domain.AddOn, error) {
	if len(ids) == 0 {
		return []*domain.AddOn{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"price_sedan",
		"price_suv",
		"price_truck",
		"price_coupe",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("addons").
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAddOnsByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAddOnsByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	addOns := make([]*domain.AddOn, 0, len(ids))
	for rows.Next() {
		var a domain.AddOn
		var createdAt, updatedAt sql.NullTime
		err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.PriceSedan,
			&a.PriceSUV,
			&a.PriceTruck,
			&a.PriceCoupe,
			&a.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAddOnsByIDs - scan row: %v", ErrScanRow, err)
		}
		a.CreatedAt = createdAt.Time
		a.UpdatedAt = updatedAt.Time
		addOns = append(addOns, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAddOnsByIDs - rows error: %v", ErrScanRow, err)
	}

	if len(addOns) != len(uniqueIDs(ids)) {
		return nil, ErrAddOnNotFound
	}

	return addOns, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
