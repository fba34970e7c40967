package derivedsetting

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RestrictionService/pkg/psqlbuilder"
)

const tableName = "rate_plan_derived_settings"

var columns = []string{
	"id",
	"hotel_id",
	"derived_rate_plan_id",
	"parent_rate_plan_id",
	"follow_daily_restriction",
	"inherited_restriction_fields",
	"created_at",
	"updated_at",
}

// Repository репозиторий связей производных тарифов с родительскими
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindFollowingByParents возвращает настройки с follow_daily_restriction = true
// для указанных родительских тарифов одним запросом
func (r *Repository) FindFollowingByParents(ctx context.Context, hotelID string, parentRatePlanIDs []string) ([]*domain.RatePlanDerivedSetting, error) {
	if len(parentRatePlanIDs) == 0 {
		return []*domain.RatePlanDerivedSetting{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"hotel_id":                 hotelID,
			"follow_daily_restriction": true,
			"parent_rate_plan_id":      parentRatePlanIDs,
		}).
		OrderBy("parent_rate_plan_id ASC", "derived_rate_plan_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindFollowingByParents - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindFollowingByParents - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	settings := make([]*domain.RatePlanDerivedSetting, 0)
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: FindFollowingByParents - scan row: %v", ErrScanRow, err)
		}
		settings = append(settings, setting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindFollowingByParents - rows error: %v", ErrScanRow, err)
	}

	return settings, nil
}

// GetByDerived получает настройку производного тарифа
func (r *Repository) GetByDerived(ctx context.Context, hotelID, derivedRatePlanID string) (*domain.RatePlanDerivedSetting, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"hotel_id": hotelID, "derived_rate_plan_id": derivedRatePlanID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByDerived - build select query: %v", ErrBuildQuery, err)
	}

	setting, err := scanSetting(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDerived - scan setting: %v", ErrScanRow, err)
	}

	return setting, nil
}

// Upsert создает или обновляет настройку; ключ конфликта (hotel_id, derived_rate_plan_id)
func (r *Repository) Upsert(ctx context.Context, setting *domain.RatePlanDerivedSetting) (*domain.RatePlanDerivedSetting, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"hotel_id",
			"derived_rate_plan_id",
			"parent_rate_plan_id",
			"follow_daily_restriction",
			"inherited_restriction_fields",
		).
		Values(
			setting.HotelID,
			setting.DerivedRatePlanID,
			setting.ParentRatePlanID,
			setting.FollowDailyRestriction,
			pq.Array(fieldStrings(setting.InheritedRestrictionFields)),
		).
		Suffix(`ON CONFLICT (hotel_id, derived_rate_plan_id) DO UPDATE SET
			parent_rate_plan_id = EXCLUDED.parent_rate_plan_id,
			follow_daily_restriction = EXCLUDED.follow_daily_restriction,
			inherited_restriction_fields = EXCLUDED.inherited_restriction_fields,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&setting.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	setting.CreatedAt = createdAt.Time
	setting.UpdatedAt = updatedAt.Time

	return setting, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSetting(row rowScanner) (*domain.RatePlanDerivedSetting, error) {
	var (
		setting              domain.RatePlanDerivedSetting
		fields               pq.StringArray
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&setting.ID,
		&setting.HotelID,
		&setting.DerivedRatePlanID,
		&setting.ParentRatePlanID,
		&setting.FollowDailyRestriction,
		&fields,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	setting.InheritedRestrictionFields = make([]domain.Field, 0, len(fields))
	for _, f := range fields {
		setting.InheritedRestrictionFields = append(setting.InheritedRestrictionFields, domain.Field(f))
	}
	setting.CreatedAt = createdAt.Time
	setting.UpdatedAt = updatedAt.Time

	return &setting, nil
}

func fieldStrings(fields []domain.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
