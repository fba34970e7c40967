package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	automationRepo "github.com/m04kA/SMC-RestrictionService/internal/infra/storage/automation"
	derivedRepo "github.com/m04kA/SMC-RestrictionService/internal/infra/storage/derivedsetting"
	"github.com/m04kA/SMC-RestrictionService/internal/service/settings/models"
)

// Service сервис настроек производных тарифов и LOS-автоматизации
type Service struct {
	derivedRepo    DerivedSettingRepository
	automationRepo AutomationSettingRepository
	logger         Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	derivedRepo DerivedSettingRepository,
	automationRepo AutomationSettingRepository,
	logger Logger,
) *Service {
	return &Service{
		derivedRepo:    derivedRepo,
		automationRepo: automationRepo,
		logger:         logger,
	}
}

// UpsertDerivedSetting создает или обновляет связь производного тарифа с родительским
func (s *Service) UpsertDerivedSetting(ctx context.Context, req *models.DerivedSettingRequest) (*models.DerivedSettingResponse, error) {
	s.logger.Info("UpsertDerivedSetting: hotel=%s derived=%s parent=%s follow=%t",
		req.HotelID, req.DerivedRatePlanID, req.ParentRatePlanID, req.FollowDailyRestriction)

	// 1. Валидируем входные данные
	if err := validateDerivedSetting(req); err != nil {
		s.logger.Warn("UpsertDerivedSetting: validation failed: %v", err)
		return nil, err
	}

	// 2. Сохраняем настройку
	saved, err := s.derivedRepo.Upsert(ctx, req.ToDomain())
	if err != nil {
		s.logger.Error("UpsertDerivedSetting: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpsertDerivedSetting - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertDerivedSetting: saved setting id=%d", saved.ID)
	return models.FromDomainDerivedSetting(saved), nil
}

// GetDerivedSetting получает настройку производного тарифа
func (s *Service) GetDerivedSetting(ctx context.Context, hotelID, derivedRatePlanID string) (*models.DerivedSettingResponse, error) {
	setting, err := s.derivedRepo.GetByDerived(ctx, hotelID, derivedRatePlanID)
	if err != nil {
		if errors.Is(err, derivedRepo.ErrSettingNotFound) {
			s.logger.Warn("GetDerivedSetting: no setting for rate plan=%s in hotel=%s", derivedRatePlanID, hotelID)
			return nil, ErrSettingNotFound
		}
		s.logger.Error("GetDerivedSetting: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetDerivedSetting - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainDerivedSetting(setting), nil
}

// UpsertAutomationSetting создает или обновляет настройку LOS-автоматизации
func (s *Service) UpsertAutomationSetting(ctx context.Context, req *models.AutomationSettingRequest) (*models.AutomationSettingResponse, error) {
	s.logger.Info("UpsertAutomationSetting: hotel=%s roomProduct=%v ratePlan=%v enabled=%t",
		req.HotelID, derefOrNil(req.RoomProductID), derefOrNil(req.RatePlanID), req.IsEnabled)

	// 1. Валидируем входные данные
	if err := validateAutomationSetting(req); err != nil {
		s.logger.Warn("UpsertAutomationSetting: validation failed: %v", err)
		return nil, err
	}

	// 2. Сохраняем настройку
	setting := req.ToDomain()
	if setting.Settings.GapFillMode == "" {
		setting.Settings.GapFillMode = domain.GapFillFilling
	}

	saved, err := s.automationRepo.Upsert(ctx, setting)
	if err != nil {
		s.logger.Error("UpsertAutomationSetting: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpsertAutomationSetting - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertAutomationSetting: saved setting id=%d", saved.ID)
	return models.FromDomainAutomationSetting(saved), nil
}

// GetAutomationSetting получает настройку с учетом иерархии
// Приоритет: room product + rate plan > rate plan > room product
func (s *Service) GetAutomationSetting(ctx context.Context, hotelID string, roomProductID, ratePlanID *string) (*models.AutomationSettingResponse, error) {
	if roomProductID == nil && ratePlanID == nil {
		return nil, fmt.Errorf("%w: roomProductId or ratePlanId is required", ErrInvalidInput)
	}

	setting, err := s.automationRepo.GetWithHierarchy(ctx, hotelID, roomProductID, ratePlanID)
	if err != nil {
		if errors.Is(err, automationRepo.ErrSettingNotFound) {
			s.logger.Warn("GetAutomationSetting: no setting for hotel=%s roomProduct=%v ratePlan=%v",
				hotelID, derefOrNil(roomProductID), derefOrNil(ratePlanID))
			return nil, ErrSettingNotFound
		}
		s.logger.Error("GetAutomationSetting: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetAutomationSetting - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAutomationSetting(setting), nil
}

func derefOrNil(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
