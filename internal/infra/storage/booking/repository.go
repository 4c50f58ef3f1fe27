package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/psqlbuilder"
)

// bookingColumns полный список колонок таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"confirmation_code",
	"customer_name",
	"customer_email",
	"customer_phone",
	"address",
	"city",
	"postal_code",
	"vehicle_type",
	"vehicle_make",
	"vehicle_model",
	"vehicle_year",
	"service_ids",
	"addon_ids",
	"booking_date",
	"time_slot",
	"status",
	"detailer_id",
	"total_price",
	"estimated_duration_hours",
	"special_instructions",
	"notes",
	"en_route_at",
	"started_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Создание с проверкой доступности дня обязано выполняться в сериализуемой
// транзакции, чтобы закрыть гонку между конкурентными запросами
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"confirmation_code",
			"customer_name",
			"customer_email",
			"customer_phone",
			"address",
			"city",
			"postal_code",
			"vehicle_type",
			"vehicle_make",
			"vehicle_model",
			"vehicle_year",
			"service_ids",
			"addon_ids",
			"booking_date",
			"time_slot",
			"status",
			"detailer_id",
			"total_price",
			"estimated_duration_hours",
			"special_instructions",
			"notes",
		).
		Values(
			booking.ConfirmationCode,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.Address,
			booking.City,
			booking.PostalCode,
			booking.VehicleType,
			booking.VehicleMake,
			booking.VehicleModel,
			booking.VehicleYear,
			pq.Array(booking.ServiceIDs),
			pq.Array(booking.AddOnIDs),
			booking.Date,
			booking.TimeSlot,
			booking.Status,
			booking.DetailerID,
			booking.TotalPrice,
			booking.EstimatedDurationHours,
			booking.SpecialInstructions,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE) - это защищает
// read-then-write переходов статусов от lost update
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}

	return bookings[0], nil
}

// GetByConfirmationCode получает бронирование по коду подтверждения
func (r *Repository) GetByConfirmationCode(ctx context.Context, code string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"confirmation_code": code}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByConfirmationCode - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByConfirmationCode - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}

	return bookings[0], nil
}

// ExistsByConfirmationCode проверяет занятость кода подтверждения
func (r *Repository) ExistsByConfirmationCode(ctx context.Context, code string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"confirmation_code": code}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsByConfirmationCode - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsByConfirmationCode - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// CountActiveOnDate подсчитывает неотменённые бронирования на календарный день
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы авторитетная
// проверка доступности при создании бронирования не гонялась с конкурентной записью
func (r *Repository) CountActiveOnDate(ctx context.Context, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	day := domain.NormalizeDate(date)

	if dbmetrics.IsInTransaction(ctx) {
		query, args, err := psqlbuilder.Select("id").
			From("bookings").
			Where(squirrel.Eq{"booking_date": day}).
			Where(squirrel.NotEq{"status": domain.StatusCanceled}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("%w: CountActiveOnDate - build select query: %v", ErrBuildQuery, err)
		}

		rows, err := executor.QueryContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("%w: CountActiveOnDate - execute query: %v", ErrExecQuery, err)
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return 0, fmt.Errorf("%w: CountActiveOnDate - scan id: %v", ErrScanRow, err)
			}
			count++
		}
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("%w: CountActiveOnDate - rows error: %v", ErrScanRow, err)
		}
		return count, nil
	}

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"booking_date": day}).
		Where(squirrel.NotEq{"status": domain.StatusCanceled}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveOnDate - build count query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveOnDate - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountActiveOnDates подсчитывает неотменённые бронирования по дням за период
// Ключ результата - дата в формате YYYY-MM-DD. Дни без бронирований в карте отсутствуют
func (r *Repository) CountActiveOnDates(ctx context.Context, from, to time.Time) (map[string]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("booking_date", "COUNT(*)").
		From("bookings").
		Where(squirrel.GtOrEq{"booking_date": domain.NormalizeDate(from)}).
		Where(squirrel.LtOrEq{"booking_date": domain.NormalizeDate(to)}).
		Where(squirrel.NotEq{"status": domain.StatusCanceled}).
		GroupBy("booking_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveOnDates - build count query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveOnDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("%w: CountActiveOnDates - scan row: %v", ErrScanRow, err)
		}
		counts[day.Format(domain.DateFormat)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountActiveOnDates - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// ListWithFilter получает бронирования с гибкой фильтрацией для диспетчерской
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings")

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": domain.NormalizeDate(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": domain.NormalizeDate(*filter.EndDate)})
	}
	if filter.DetailerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"detailer_id": *filter.DetailerID})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCanceled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCanceled})
	}

	selectBuilder = selectBuilder.OrderBy("booking_date ASC", "time_slot ASC", "id ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// StatusUpdate параметры обновления статуса бронирования
// Поля-указатели применяются только когда не nil
type StatusUpdate struct {
	Status          domain.BookingStatus
	Notes           *string
	ClaimDetailerID *int64 // самоназначение на неназначенное бронирование
	EnRouteAt       *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// UpdateStatus применяет переход статуса с таймстемпами жизненного цикла
// При ClaimDetailerID != nil обновление выполняется с условием detailer_id IS NULL:
// конкурентное самоназначение двух детейлеров не может пройти дважды
func (r *Repository) UpdateStatus(ctx context.Context, id int64, upd StatusUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", upd.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if upd.Notes != nil {
		updateBuilder = updateBuilder.Set("notes", *upd.Notes)
	}
	if upd.EnRouteAt != nil {
		updateBuilder = updateBuilder.Set("en_route_at", *upd.EnRouteAt)
	}
	if upd.StartedAt != nil {
		updateBuilder = updateBuilder.Set("started_at", *upd.StartedAt)
	}
	if upd.CompletedAt != nil {
		updateBuilder = updateBuilder.Set("completed_at", *upd.CompletedAt)
	}
	if upd.ClaimDetailerID != nil {
		updateBuilder = updateBuilder.
			Set("detailer_id", *upd.ClaimDetailerID).
			Where(squirrel.Eq{"detailer_id": nil})
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if upd.ClaimDetailerID != nil {
			// Либо бронирования нет, либо его успел занять другой детейлер
			if _, getErr := r.GetByID(ctx, id); getErr == nil {
				return ErrAlreadyAssigned
			}
			return ErrBookingNotFound
		}
		return ErrBookingNotFound
	}

	return nil
}

// AssignDetailer назначает детейлера на неназначенное бронирование (compare-and-swap)
// Статус PENDING одновременно продвигается в CONFIRMED: назначение подразумевает подтверждение
func (r *Repository) AssignDetailer(ctx context.Context, bookingID, detailerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("detailer_id", detailerID).
		Set("status", squirrel.Expr("CASE WHEN status = ? THEN ? ELSE status END",
			string(domain.StatusPending), string(domain.StatusConfirmed))).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": bookingID}).
		Where(squirrel.Eq{"detailer_id": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AssignDetailer - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AssignDetailer - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AssignDetailer - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if _, getErr := r.GetByID(ctx, bookingID); getErr == nil {
			return ErrAlreadyAssigned
		}
		return ErrBookingNotFound
	}

	return nil
}

// CountActiveByDetailerOnDate подсчитывает активную нагрузку детейлера на день
// Активной считается нагрузка в статусах CONFIRMED и IN_PROGRESS
func (r *Repository) CountActiveByDetailerOnDate(ctx context.Context, detailerID int64, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statuses := make([]string, len(domain.AssignmentLoadStatuses))
	for i, s := range domain.AssignmentLoadStatuses {
		statuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"detailer_id": detailerID}).
		Where(squirrel.Eq{"booking_date": domain.NormalizeDate(date)}).
		Where(squirrel.Eq{"status": statuses}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByDetailerOnDate - build count query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByDetailerOnDate - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var serviceIDs, addOnIDs pq.Int64Array
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.ConfirmationCode,
			&booking.CustomerName,
			&booking.CustomerEmail,
			&booking.CustomerPhone,
			&booking.Address,
			&booking.City,
			&booking.PostalCode,
			&booking.VehicleType,
			&booking.VehicleMake,
			&booking.VehicleModel,
			&booking.VehicleYear,
			&serviceIDs,
			&addOnIDs,
			&booking.Date,
			&booking.TimeSlot,
			&booking.Status,
			&booking.DetailerID,
			&booking.TotalPrice,
			&booking.EstimatedDurationHours,
			&booking.SpecialInstructions,
			&booking.Notes,
			&booking.EnRouteAt,
			&booking.StartedAt,
			&booking.CompletedAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		booking.ServiceIDs = []int64(serviceIDs)
		booking.AddOnIDs = []int64(addOnIDs)
		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
