package roomunit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RestrictionService/pkg/psqlbuilder"
)

// Repository читает назначенные room product юниты и их статусы по датам
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListAvailability возвращает все юниты, назначенные room product, со статусами за [from, to].
// Юнит без записей за период возвращается с пустой картой статусов (все даты недоступны).
func (r *Repository) ListAvailability(ctx context.Context, hotelID, roomProductID string, from, to time.Time) ([]*domain.RoomUnitAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"a.room_unit_id",
		"v.date",
		"v.status",
	).
		From("room_product_assigned_units a").
		LeftJoin("room_unit_availability v ON v.room_unit_id = a.room_unit_id AND v.date BETWEEN ? AND ?",
			domain.DateOnly(from), domain.DateOnly(to)).
		Where(squirrel.Eq{"a.hotel_id": hotelID, "a.room_product_id": roomProductID}).
		OrderBy("a.room_unit_id ASC", "v.date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailability - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailability - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	units := make([]*domain.RoomUnitAvailability, 0)
	byUnit := make(map[string]*domain.RoomUnitAvailability)

	for rows.Next() {
		var (
			unitID string
			date   sql.NullTime
			status sql.NullString
		)
		if err := rows.Scan(&unitID, &date, &status); err != nil {
			return nil, fmt.Errorf("%w: ListAvailability - scan row: %v", ErrScanRow, err)
		}

		unit, ok := byUnit[unitID]
		if !ok {
			unit = &domain.RoomUnitAvailability{
				RoomUnitID:    unitID,
				RoomProductID: roomProductID,
				Statuses:      make(map[time.Time]domain.RoomUnitStatus),
			}
			byUnit[unitID] = unit
			units = append(units, unit)
		}

		if date.Valid && status.Valid {
			unit.Statuses[domain.DateOnly(date.Time)] = domain.RoomUnitStatus(status.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAvailability - rows error: %v", ErrScanRow, err)
	}

	return units, nil
}
