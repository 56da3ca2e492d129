package block

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

// DBExecutor интерфейс для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий блокировок слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает блокировку (slot == nil - весь день)
func (r *Repository) Create(ctx context.Context, block *domain.SlotBlock) (*domain.SlotBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_blocks").
		Columns("service_id", "date_from", "date_to", "slot", "reason", "active").
		Values(
			block.ServiceID,
			types.DateOnly(block.DateFrom),
			types.DateOnly(block.DateTo),
			block.Slot,
			block.Reason,
			block.Active,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	block.CreatedAt = createdAt.Time

	return block, nil
}

// GetActiveForDate возвращает активные блокировки услуги, покрывающие дату
func (r *Repository) GetActiveForDate(ctx context.Context, serviceID int64, date time.Time) ([]*domain.SlotBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	day := types.DateOnly(date)

	query, args, err := psqlbuilder.Select(
		"id",
		"service_id",
		"date_from",
		"date_to",
		"slot",
		"reason",
		"active",
		"created_at",
	).
		From("slot_blocks").
		Where(squirrel.Eq{"service_id": serviceID, "active": true}).
		Where(squirrel.LtOrEq{"date_from": day}).
		Where(squirrel.GtOrEq{"date_to": day}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.SlotBlock, 0)
	for rows.Next() {
		var (
			block     domain.SlotBlock
			slot      sql.NullString
			createdAt sql.NullTime
		)

		err := rows.Scan(
			&block.ID,
			&block.ServiceID,
			&block.DateFrom,
			&block.DateTo,
			&slot,
			&block.Reason,
			&block.Active,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActiveForDate - scan row: %v", ErrScanRow, err)
		}

		if slot.Valid {
			ts, err := types.NewTimeStringFromString(slot.String)
			if err != nil {
				return nil, fmt.Errorf("%w: GetActiveForDate - parse slot: %v", ErrScanRow, err)
			}
			block.Slot = &ts
		}
		block.CreatedAt = createdAt.Time

		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveForDate - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

// Deactivate снимает блокировку
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_blocks").
		Set("active", false).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}
