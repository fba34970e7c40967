package apply_restrictions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	mergeModels "github.com/m04kA/SMC-RestrictionService/internal/service/merge/models"
)

// Merger интерфейс движка слияния
type Merger interface {
	Merge(ctx context.Context, candidates []*domain.Restriction, source domain.Source) (*mergeModels.Result, error)
}

// RestrictionRepository интерфейс хранилища ограничений
type RestrictionRepository interface {
	Persist(ctx context.Context, hotelID string, toCreate []*domain.Restriction, removeIDs []string) ([]*domain.Restriction, error)
}

// DerivedProjector интерфейс проекции на производные тарифы
type DerivedProjector interface {
	Project(ctx context.Context, hotelID string, parents []*domain.Restriction) ([]*domain.Restriction, error)
}

// PmsPusher интерфейс отправки эффективных ограничений в PMS
type PmsPusher interface {
	PushRange(ctx context.Context, hotelID string, from, to time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс записи метрик
type Metrics interface {
	ObserveMerge(created, removed int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
