package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

var bookingColumns = []string{
	"id",
	"checkout_ref",
	"service_id",
	"booking_date",
	"slot",
	"party_size",
	"status",
	"service_name",
	"category",
	"unit_price",
	"notes",
	"cancellation_reason",
	"cancelled_at",
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

// Create создает новое активное бронирование
// Если в контексте передана активная транзакция, использует её.
// При оформлении заказа вызывается только после LockSlot и повторной проверки вместимости
// в той же транзакции.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"checkout_ref",
			"service_id",
			"booking_date",
			"slot",
			"party_size",
			"status",
			"service_name",
			"category",
			"unit_price",
			"notes",
		).
		Values(
			booking.CheckoutRef,
			booking.ServiceID,
			types.DateOnly(booking.Date),
			booking.Slot,
			booking.PartySize,
			domain.StatusActive,
			booking.ServiceName,
			booking.Category,
			booking.UnitPrice,
			booking.Notes,
		).
		Suffix("RETURNING id, status, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.Status,
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
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку: отмена и изменение не должны пересекаться
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListByCheckoutRef получает все бронирования одного оформления
func (r *Repository) ListByCheckoutRef(ctx context.Context, checkoutRef string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"checkout_ref": checkoutRef}).
		OrderBy("booking_date ASC", "slot ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByCheckoutRef - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCheckoutRef - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// SumPartySize суммирует количество гостей по активным бронированиям слота
// excludeBookingID исключает редактируемое бронирование из подсчета
// Возвращает 0, если бронирований нет
func (r *Repository) SumPartySize(ctx context.Context, key domain.SlotKey, excludeBookingID *int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COALESCE(SUM(party_size), 0)").
		From("bookings").
		Where(squirrel.Eq{
			"service_id":   key.ServiceID,
			"booking_date": types.DateOnly(key.Date),
			"slot":         key.Slot,
			"status":       domain.StatusActive,
		})

	if excludeBookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeBookingID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: SumPartySize - build select query: %v", ErrBuildQuery, err)
	}

	var committed int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&committed); err != nil {
		return 0, fmt.Errorf("%w: SumPartySize - execute query: %v", ErrExecQuery, err)
	}

	return committed, nil
}

// SumPartySizeBySlot суммирует количество гостей по всем слотам услуги на дату
// Слоты без бронирований в результат не попадают
func (r *Repository) SumPartySizeBySlot(ctx context.Context, serviceID int64, date time.Time) (map[types.TimeString]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot", "COALESCE(SUM(party_size), 0)").
		From("bookings").
		Where(squirrel.Eq{
			"service_id":   serviceID,
			"booking_date": types.DateOnly(date),
			"status":       domain.StatusActive,
		}).
		GroupBy("slot").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SumPartySizeBySlot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: SumPartySizeBySlot - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[types.TimeString]int)
	for rows.Next() {
		var (
			slot      types.TimeString
			committed int
		)
		if err := rows.Scan(&slot, &committed); err != nil {
			return nil, fmt.Errorf("%w: SumPartySizeBySlot - scan row: %v", ErrScanRow, err)
		}
		result[slot] = committed
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: SumPartySizeBySlot - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// LockSlot берет транзакционную advisory-блокировку на (услуга, дата, слот)
// Блокировка снимается при commit/rollback. Агрегат SUM нельзя заблокировать через
// FOR UPDATE, поэтому параллельные оформления одного слота сериализуются на этом ключе.
// Вызов вне транзакции возвращает ErrTransaction
func (r *Repository) LockSlot(ctx context.Context, key domain.SlotKey) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockSlot - called outside of transaction", ErrTransaction)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(hashtext(?))", "bookings/"+key.String())).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: LockSlot - build query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockSlot - execute query: %v", ErrExecQuery, err)
	}

	return nil
}

// Cancel переводит активное бронирование в статус cancelled
// Возвращает ErrCannotCancel, если бронирование не найдено или уже отменено
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusActive}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCannotCancel
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CheckoutRef,
		&booking.ServiceID,
		&booking.Date,
		&booking.Slot,
		&booking.PartySize,
		&booking.Status,
		&booking.ServiceName,
		&booking.Category,
		&booking.UnitPrice,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
