package automation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RestrictionService/pkg/psqlbuilder"
)

const tableName = "restriction_automation_settings"

var columns = []string{
	"id",
	"hotel_id",
	"room_product_id",
	"rate_plan_id",
	"is_enabled",
	"settings",
	"created_at",
	"updated_at",
}

// Repository репозиторий настроек LOS-автоматизации
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек автоматизации
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByScope получает настройку для конкретного room product и/или rate plan.
// nil означает IS NULL для соответствующей колонки.
func (r *Repository) GetByScope(ctx context.Context, hotelID string, roomProductID, ratePlanID *string) (*domain.RestrictionAutomationSetting, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"hotel_id": hotelID})

	// Фильтрация по room_product_id (NULL или конкретное значение)
	if roomProductID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"room_product_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"room_product_id": *roomProductID})
	}

	// Фильтрация по rate_plan_id (NULL или конкретное значение)
	if ratePlanID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"rate_plan_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"rate_plan_id": *ratePlanID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByScope - build select query: %v", ErrBuildQuery, err)
	}

	setting, err := scanSetting(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByScope - scan setting: %v", ErrScanRow, err)
	}

	return setting, nil
}

// GetWithHierarchy получает настройку с учетом иерархии приоритетов:
// 1. Настройка для пары (room product, rate plan)
// 2. Настройка для rate plan
// 3. Настройка для room product
//
// Если настройка не найдена ни на одном уровне, возвращает ErrSettingNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, hotelID string, roomProductID, ratePlanID *string) (*domain.RestrictionAutomationSetting, error) {
	if roomProductID == nil && ratePlanID == nil {
		return nil, ErrInvalidScope
	}

	levels := make([][2]*string, 0, 3)
	if roomProductID != nil && ratePlanID != nil {
		levels = append(levels, [2]*string{roomProductID, ratePlanID})
	}
	if ratePlanID != nil {
		levels = append(levels, [2]*string{nil, ratePlanID})
	}
	if roomProductID != nil {
		levels = append(levels, [2]*string{roomProductID, nil})
	}

	for i, level := range levels {
		setting, err := r.GetByScope(ctx, hotelID, level[0], level[1])
		if err == nil {
			return setting, nil
		}
		if err != ErrSettingNotFound {
			return nil, fmt.Errorf("%w: GetWithHierarchy - level %d: %v", ErrExecQuery, i+1, err)
		}
	}

	return nil, ErrSettingNotFound
}

// ListEnabledRoomProducts возвращает включенные настройки уровня room product.
// Если roomProductIDs не пуст, выборка ограничивается ими.
func (r *Repository) ListEnabledRoomProducts(ctx context.Context, hotelID string, roomProductIDs []string) ([]*domain.RestrictionAutomationSetting, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"hotel_id": hotelID, "is_enabled": true, "rate_plan_id": nil}).
		Where(squirrel.NotEq{"room_product_id": nil})

	if len(roomProductIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"room_product_id": roomProductIDs})
	}

	query, args, err := selectBuilder.OrderBy("room_product_id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListEnabledRoomProducts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListEnabledRoomProducts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	settings := make([]*domain.RestrictionAutomationSetting, 0)
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListEnabledRoomProducts - scan row: %v", ErrScanRow, err)
		}
		settings = append(settings, setting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListEnabledRoomProducts - rows error: %v", ErrScanRow, err)
	}

	return settings, nil
}

// ListHotelsWithEnabled возвращает отели, у которых включена хотя бы одна автоматизация
func (r *Repository) ListHotelsWithEnabled(ctx context.Context) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT hotel_id").
		From(tableName).
		Where(squirrel.Eq{"is_enabled": true}).
		OrderBy("hotel_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListHotelsWithEnabled - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHotelsWithEnabled - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hotels := make([]string, 0)
	for rows.Next() {
		var hotelID string
		if err := rows.Scan(&hotelID); err != nil {
			return nil, fmt.Errorf("%w: ListHotelsWithEnabled - scan row: %v", ErrScanRow, err)
		}
		hotels = append(hotels, hotelID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListHotelsWithEnabled - rows error: %v", ErrScanRow, err)
	}

	return hotels, nil
}

// Upsert создает или обновляет настройку по ключу (hotel_id, room_product_id, rate_plan_id)
func (r *Repository) Upsert(ctx context.Context, setting *domain.RestrictionAutomationSetting) (*domain.RestrictionAutomationSetting, error) {
	if setting.RoomProductID == nil && setting.RatePlanID == nil {
		return nil, ErrInvalidScope
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("hotel_id", "room_product_id", "rate_plan_id", "is_enabled", "settings").
		Values(setting.HotelID, setting.RoomProductID, setting.RatePlanID, setting.IsEnabled, setting.Settings).
		Suffix(`ON CONFLICT (hotel_id, COALESCE(room_product_id, ''), COALESCE(rate_plan_id, ''))
			DO UPDATE SET is_enabled = EXCLUDED.is_enabled, settings = EXCLUDED.settings, updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&setting.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	setting.CreatedAt = createdAt.Time
	setting.UpdatedAt = updatedAt.Time

	return setting, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSetting(row rowScanner) (*domain.RestrictionAutomationSetting, error) {
	var (
		setting                   domain.RestrictionAutomationSetting
		roomProductID, ratePlanID sql.NullString
		createdAt, updatedAt      sql.NullTime
	)

	err := row.Scan(
		&setting.ID,
		&setting.HotelID,
		&roomProductID,
		&ratePlanID,
		&setting.IsEnabled,
		&setting.Settings,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if roomProductID.Valid {
		setting.RoomProductID = &roomProductID.String
	}
	if ratePlanID.Valid {
		setting.RatePlanID = &ratePlanID.String
	}
	setting.CreatedAt = createdAt.Time
	setting.UpdatedAt = updatedAt.Time

	return &setting, nil
}
