package hotelconfig

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RestrictionService/pkg/psqlbuilder"
)

const tableName = "hotel_restriction_settings"

// Repository провайдер настроек отеля для движка ограничений
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки отеля
func (r *Repository) Get(ctx context.Context, hotelID string) (*domain.HotelRestrictionConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"hotel_id",
		"push_pms_period",
		"push_pms_if_lower_than",
		"last_sellable_date",
		"pms_enabled",
	).
		From(tableName).
		Where(squirrel.Eq{"hotel_id": hotelID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		cfg               domain.HotelRestrictionConfig
		period, lowerThan sql.NullInt64
		lastSellable      sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.HotelID,
		&period,
		&lowerThan,
		&lastSellable,
		&cfg.PmsEnabled,
	)
	if err == sql.ErrNoRows {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan config: %v", ErrScanRow, err)
	}

	if period.Valid {
		v := int(period.Int64)
		cfg.PushPmsPeriod = &v
	}
	if lowerThan.Valid {
		v := int(lowerThan.Int64)
		cfg.PushPmsIfLowerThan = &v
	}
	if lastSellable.Valid {
		d := domain.DateOnly(lastSellable.Time)
		cfg.LastSellableDate = &d
	}

	return &cfg, nil
}

// ListPmsEnabledHotels возвращает отели с подключенной PMS
func (r *Repository) ListPmsEnabledHotels(ctx context.Context) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("hotel_id").
		From(tableName).
		Where(squirrel.Eq{"pms_enabled": true}).
		OrderBy("hotel_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListPmsEnabledHotels - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPmsEnabledHotels - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hotels := make([]string, 0)
	for rows.Next() {
		var hotelID string
		if err := rows.Scan(&hotelID); err != nil {
			return nil, fmt.Errorf("%w: ListPmsEnabledHotels - scan row: %v", ErrScanRow, err)
		}
		hotels = append(hotels, hotelID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPmsEnabledHotels - rows error: %v", ErrScanRow, err)
	}

	return hotels, nil
}
