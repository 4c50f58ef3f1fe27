package detailer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/psqlbuilder"
)

var detailerColumns = []string{
	"id",
	"name",
	"email",
	"phone",
	"password_hash",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с детейлерами
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория детейлеров
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает детейлера по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Detailer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(detailerColumns...).
		From("detailers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByEmail получает детейлера по email (для аутентификации)
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Detailer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(detailerColumns...).
		From("detailers").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmail - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByEmail")
}

// ListActive получает всех активных детейлеров, отсортированных по ID
// Порядок сортировки - детерминированный tie-break автоназначения:
// при равной нагрузке выбирается детейлер с меньшим ID
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Detailer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(detailerColumns...).
		From("detailers").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	detailers := make([]*domain.Detailer, 0)
	for rows.Next() {
		var d domain.Detailer
		var createdAt, updatedAt sql.NullTime
		err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Email,
			&d.Phone,
			&d.PasswordHash,
			&d.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan row: %v", ErrScanRow, err)
		}
		d.CreatedAt = createdAt.Time
		d.UpdatedAt = updatedAt.Time
		detailers = append(detailers, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return detailers, nil
}

func (r *Repository) scanOne(row *sql.Row, op string) (*domain.Detailer, error) {
	var d domain.Detailer
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Email,
		&d.Phone,
		&d.PasswordHash,
		&d.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrDetailerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan detailer: %v", ErrScanRow, op, err)
	}

	d.CreatedAt = createdAt.Time
	d.UpdatedAt = updatedAt.Time

	return &d, nil
}
