package restrictions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	derivedModels "github.com/m04kA/SMC-RestrictionService/internal/service/derived/models"
)

// RestrictionRepository интерфейс хранилища ограничений
type RestrictionRepository interface {
	GetByID(ctx context.Context, hotelID, id string) (*domain.Restriction, error)
	Find(ctx context.Context, filter domain.RestrictionFilter) ([]*domain.Restriction, error)
	Persist(ctx context.Context, hotelID string, toCreate []*domain.Restriction, removeIDs []string) ([]*domain.Restriction, error)
}

// DerivedCleaner снимает наследуемые поля с производных ограничений
type DerivedCleaner interface {
	Detach(ctx context.Context, hotelID string, deleted []*domain.Restriction) (*derivedModels.Cleanup, error)
	DetachPeriod(ctx context.Context, hotelID string, deleted []*domain.Restriction, from, to time.Time) (*derivedModels.Cleanup, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
