package restriction

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RestrictionService/pkg/psqlbuilder"
)

const tableName = "restrictions"

var columns = []string{
	"id",
	"hotel_id",
	"room_product_ids",
	"rate_plan_ids",
	"from_date",
	"to_date",
	"weekdays",
	"type",
	"min_length",
	"max_length",
	"min_adv",
	"max_adv",
	"min_los_through",
	"max_reservation_count",
	"restriction_source",
	"metadata",
	"created_at",
	"updated_at",
}

// Repository репозиторий ограничений (таблица restrictions)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ограничений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает ограничение отеля по ID
func (r *Repository) GetByID(ctx context.Context, hotelID, id string) (*domain.Restriction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id, "hotel_id": hotelID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	restriction, err := scanRestriction(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRestrictionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan restriction: %v", ErrScanRow, err)
	}

	return restriction, nil
}

// Find получает ограничения по фильтру
//
// Поддерживает:
// - пересечение периода [From, To] (from_date <= To AND to_date >= From)
// - пересечение массивов room_product_ids / rate_plan_ids (оператор &&)
// - точное совпадение скоупа (@> и <@, либо IS NULL)
// - фильтрацию по уровню скоупа (HOUSE, ROOM_PRODUCT, RATE_PLAN, ROOM_PRODUCT_RATE_PLAN)
//
// Если используется транзакция, строки блокируются FOR UPDATE
func (r *Repository) Find(ctx context.Context, filter domain.RestrictionFilter) ([]*domain.Restriction, error) {
	if filter.HotelID == "" {
		return nil, fmt.Errorf("%w: Find - hotelID is required", ErrInvalidFilter)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"hotel_id": filter.HotelID})

	// Пересечение периодов
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"from_date": domain.DateOnly(*filter.To)})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"to_date": domain.DateOnly(*filter.From)})
	}

	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"type": types})
	}

	if len(filter.RoomProductIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Expr("room_product_ids && ?", pq.Array(filter.RoomProductIDs)))
	}
	if len(filter.RatePlanIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Expr("rate_plan_ids && ?", pq.Array(filter.RatePlanIDs)))
	}

	if filter.ExactScope {
		selectBuilder = selectBuilder.
			Where(exactArray("room_product_ids", filter.ScopeRoomProductIDs)).
			Where(exactArray("rate_plan_ids", filter.ScopeRatePlanIDs))
	}

	if len(filter.Levels) > 0 {
		levels := squirrel.Or{}
		for _, level := range filter.Levels {
			levels = append(levels, levelCondition(level))
		}
		selectBuilder = selectBuilder.Where(levels)
	}

	selectBuilder = selectBuilder.OrderBy("from_date ASC", "created_at ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Find - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Find - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRestrictions(rows)
}

// Persist атомарно удаляет removeIDs и создаёт toCreate.
// Обе операции выполняются в одной транзакции, если она передана через контекст.
func (r *Repository) Persist(ctx context.Context, hotelID string, toCreate []*domain.Restriction, removeIDs []string) ([]*domain.Restriction, error) {
	if err := r.DeleteByIDs(ctx, hotelID, removeIDs); err != nil {
		return nil, err
	}
	return r.CreateBatch(ctx, toCreate)
}

// CreateBatch создает ограничения одним INSERT.
// ID генерируется на стороне сервиса (uuid).
func (r *Repository) CreateBatch(ctx context.Context, restrictions []*domain.Restriction) ([]*domain.Restriction, error) {
	if len(restrictions) == 0 {
		return []*domain.Restriction{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(tableName).
		Columns(
			"id",
			"hotel_id",
			"room_product_ids",
			"rate_plan_ids",
			"from_date",
			"to_date",
			"weekdays",
			"type",
			"min_length",
			"max_length",
			"min_adv",
			"max_adv",
			"min_los_through",
			"max_reservation_count",
			"restriction_source",
			"metadata",
		)

	byID := make(map[string]*domain.Restriction, len(restrictions))
	for _, restriction := range restrictions {
		restriction.ID = uuid.New().String()
		byID[restriction.ID] = restriction

		insertBuilder = insertBuilder.Values(
			restriction.ID,
			restriction.HotelID,
			nullableArray(restriction.RoomProductIDs),
			nullableArray(restriction.RatePlanIDs),
			restriction.FromDate,
			restriction.ToDate,
			pq.Array(weekdayStrings(restriction.Weekdays)),
			string(restriction.Type),
			restriction.MinLength,
			restriction.MaxLength,
			restriction.MinAdv,
			restriction.MaxAdv,
			restriction.MinLosThrough,
			restriction.MaxReservationCount,
			restriction.Source,
			restriction.Metadata,
		)
	}

	query, args, err := insertBuilder.Suffix("RETURNING id, created_at, updated_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                   string
			createdAt, updatedAt sql.NullTime
		)
		if err := rows.Scan(&id, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: CreateBatch - scan returning: %v", ErrScanRow, err)
		}
		if restriction, ok := byID[id]; ok {
			restriction.CreatedAt = createdAt.Time
			restriction.UpdatedAt = updatedAt.Time
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - rows error: %v", ErrScanRow, err)
	}

	return restrictions, nil
}

// DeleteByIDs удаляет ограничения отеля по списку ID.
// Отсутствующие ID не считаются ошибкой: ограничение могло быть уже заменено.
func (r *Repository) DeleteByIDs(ctx context.Context, hotelID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"hotel_id": hotelID}).
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByIDs - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByIDs - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// exactArray условие на совпадение массива как множества; nil означает IS NULL
func exactArray(column string, ids []string) squirrel.Sqlizer {
	if len(ids) == 0 {
		return squirrel.Eq{column: nil}
	}
	return squirrel.Expr(
		fmt.Sprintf("(%s @> ? AND %s <@ ?)", column, column),
		pq.Array(ids),
		pq.Array(ids),
	)
}

func levelCondition(level domain.Level) squirrel.Sqlizer {
	switch level {
	case domain.LevelRoomProduct:
		return squirrel.And{squirrel.NotEq{"room_product_ids": nil}, squirrel.Eq{"rate_plan_ids": nil}}
	case domain.LevelRatePlan:
		return squirrel.And{squirrel.Eq{"room_product_ids": nil}, squirrel.NotEq{"rate_plan_ids": nil}}
	case domain.LevelRoomProductRatePlan:
		return squirrel.And{squirrel.NotEq{"room_product_ids": nil}, squirrel.NotEq{"rate_plan_ids": nil}}
	default:
		return squirrel.And{squirrel.Eq{"room_product_ids": nil}, squirrel.Eq{"rate_plan_ids": nil}}
	}
}

func nullableArray(ids []string) interface{} {
	if len(ids) == 0 {
		return nil
	}
	return pq.Array(ids)
}

func weekdayStrings(days []domain.Weekday) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = string(d)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRestriction(row rowScanner) (*domain.Restriction, error) {
	var (
		restriction             domain.Restriction
		roomProducts, ratePlans pq.StringArray
		weekdays                pq.StringArray
		restrictionType         string
		metadata                domain.Metadata
		metadataRaw             []byte
		createdAt, updatedAt    sql.NullTime
		minLength, maxLength    sql.NullInt64
		minAdv, maxAdv          sql.NullInt64
		minLosThrough, maxCount sql.NullInt64
	)

	err := row.Scan(
		&restriction.ID,
		&restriction.HotelID,
		&roomProducts,
		&ratePlans,
		&restriction.FromDate,
		&restriction.ToDate,
		&weekdays,
		&restrictionType,
		&minLength,
		&maxLength,
		&minAdv,
		&maxAdv,
		&minLosThrough,
		&maxCount,
		&restriction.Source,
		&metadataRaw,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	restriction.RoomProductIDs = nilIfEmpty(roomProducts)
	restriction.RatePlanIDs = nilIfEmpty(ratePlans)
	restriction.Type = domain.RestrictionType(restrictionType)
	restriction.FromDate = domain.DateOnly(restriction.FromDate)
	restriction.ToDate = domain.DateOnly(restriction.ToDate)

	restriction.Weekdays = make([]domain.Weekday, len(weekdays))
	for i, w := range weekdays {
		restriction.Weekdays[i] = domain.Weekday(w)
	}

	restriction.MinLength = intPtr(minLength)
	restriction.MaxLength = intPtr(maxLength)
	restriction.MinAdv = intPtr(minAdv)
	restriction.MaxAdv = intPtr(maxAdv)
	restriction.MinLosThrough = intPtr(minLosThrough)
	restriction.MaxReservationCount = intPtr(maxCount)

	if metadataRaw != nil {
		if err := metadata.Scan(metadataRaw); err != nil {
			return nil, err
		}
		restriction.Metadata = &metadata
	}

	restriction.CreatedAt = createdAt.Time
	restriction.UpdatedAt = updatedAt.Time

	return &restriction, nil
}

// scanRestrictions сканирует результаты запроса в слайс ограничений
func scanRestrictions(rows *sql.Rows) ([]*domain.Restriction, error) {
	restrictions := make([]*domain.Restriction, 0)

	for rows.Next() {
		restriction, err := scanRestriction(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRestrictions - scan row: %v", ErrScanRow, err)
		}
		restrictions = append(restrictions, restriction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRestrictions - rows error: %v", ErrScanRow, err)
	}

	return restrictions, nil
}

func nilIfEmpty(ids pq.StringArray) []string {
	if len(ids) == 0 {
		return nil
	}
	return []string(ids)
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
