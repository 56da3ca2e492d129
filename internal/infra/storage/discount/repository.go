package discount

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// DBExecutor интерфейс для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var ruleColumns = []string{
	"id",
	"name",
	"description",
	"required_categories",
	"valid_weekdays",
	"start_date",
	"end_date",
	"min_nights",
	"same_date_required",
	"priority",
	"amount",
	"min_party_size",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий правил пакетных скидок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActive возвращает все активные правила одним запросом, по убыванию приоритета
// Строки с некорректными данными не отбрасываются здесь: их валидирует и пропускает резолвер
func (r *Repository) GetActive(ctx context.Context) ([]*domain.DiscountRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("discount_rules").
		Where(squirrel.Eq{"active": true}).
		OrderBy("priority DESC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.DiscountRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActive - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActive - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// GetByID получает правило по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.DiscountRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("discount_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// Create создает новое правило
func (r *Repository) Create(ctx context.Context, rule *domain.DiscountRule) (*domain.DiscountRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("discount_rules").
		Columns(
			"name",
			"description",
			"required_categories",
			"valid_weekdays",
			"start_date",
			"end_date",
			"min_nights",
			"same_date_required",
			"priority",
			"amount",
			"min_party_size",
			"active",
		).
		Values(
			rule.Name,
			rule.Description,
			pq.Array(categoriesToStrings(rule.RequiredCategories)),
			pq.Array(weekdaysToInts(rule.ValidWeekdays)),
			types.DateOnly(rule.StartDate),
			dateOrNil(rule.EndDate),
			rule.MinNights,
			rule.SameDateRequired,
			rule.Priority,
			rule.Amount,
			rule.MinPartySize,
			rule.Active,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// SetActive включает или выключает правило
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("discount_rules").
		Set("active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetActive - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetActive - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetActive - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.DiscountRule, error) {
	var (
		rule       domain.DiscountRule
		categories pq.StringArray
		weekdays   pq.Int64Array
		endDate    sql.NullTime
		createdAt  sql.NullTime
		updatedAt  sql.NullTime
	)

	err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.Description,
		&categories,
		&weekdays,
		&rule.StartDate,
		&endDate,
		&rule.MinNights,
		&rule.SameDateRequired,
		&rule.Priority,
		&rule.Amount,
		&rule.MinPartySize,
		&rule.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.RequiredCategories = make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		rule.RequiredCategories = append(rule.RequiredCategories, domain.Category(c))
	}

	rule.ValidWeekdays = make([]time.Weekday, 0, len(weekdays))
	for _, wd := range weekdays {
		rule.ValidWeekdays = append(rule.ValidWeekdays, time.Weekday(wd))
	}

	if endDate.Valid {
		end := endDate.Time
		rule.EndDate = &end
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}

func categoriesToStrings(categories []domain.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}

func weekdaysToInts(weekdays []time.Weekday) []int64 {
	out := make([]int64, len(weekdays))
	for i, wd := range weekdays {
		out[i] = int64(wd)
	}
	return out
}

func dateOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return types.DateOnly(*t)
}
