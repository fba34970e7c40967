package run_los_automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	hotelconfigRepo "github.com/m04kA/SMC-RestrictionService/internal/infra/storage/hotelconfig"
	losModels "github.com/m04kA/SMC-RestrictionService/internal/service/losautomation/models"
	"github.com/m04kA/SMC-RestrictionService/internal/usecase/apply_restrictions"
	"github.com/m04kA/SMC-RestrictionService/pkg/jobrun"
)

const jobName = "los-automation"

// UseCase use case пересчёта LOS-ограничений по доступности юнитов
type UseCase struct {
	settings     AutomationSettingRepository
	units        RoomUnitRepository
	hotels       HotelConfigProvider
	restrictions RestrictionReader
	locker       Locker
	calculator   Calculator
	applier      Applier
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	lockTTL      time.Duration
	windowDays   int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	settings AutomationSettingRepository,
	units RoomUnitRepository,
	hotels HotelConfigProvider,
	restrictions RestrictionReader,
	locker Locker,
	calculator Calculator,
	applier Applier,
	metrics Metrics,
	logger Logger,
	lockTTL time.Duration,
	windowDays int,
) *UseCase {
	if lockTTL <= 0 {
		lockTTL = domain.DefaultAutomationLockTTLSeconds * time.Second
	}
	if windowDays <= 0 {
		windowDays = domain.DefaultAutomationWindowDays
	}
	return &UseCase{
		settings:     settings,
		units:        units,
		hotels:       hotels,
		restrictions: restrictions,
		locker:       locker,
		calculator:   calculator,
		applier:      applier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		lockTTL:      lockTTL,
		windowDays:   windowDays,
	}
}

// Execute пересчитывает LOS для room products отеля.
// Ошибка одного room product не прерывает обработку остальных,
// занятая блокировка означает пропуск.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RunLosAutomation: hotel=%s, roomProducts=%v, period=%s..%s",
		req.HotelID, req.RoomProductIDs, req.FromDate, req.ToDate)

	// 1. Валидация входных данных
	from, to, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("RunLosAutomation: validation failed: %v", err)
		return nil, err
	}

	// 2. Окно расчёта
	from, to, err = uc.window(ctx, req.HotelID, from, to)
	if err != nil {
		return nil, err
	}
	resp := &Response{HotelID: req.HotelID, RoomProducts: []RoomProductResult{}}
	if to.Before(from) {
		uc.logger.Info("RunLosAutomation: hotel=%s has nothing to sell in the window, skipping", req.HotelID)
		return resp, nil
	}
	resp.FromDate, resp.ToDate = from.Format(domain.DateFormat), to.Format(domain.DateFormat)

	// 3. Room products с включённой автоматизацией
	enabled, err := uc.settings.ListEnabledRoomProducts(ctx, req.HotelID, req.RoomProductIDs)
	if err != nil {
		uc.logger.Error("RunLosAutomation: failed to list settings for hotel=%s: %v", req.HotelID, err)
		return nil, fmt.Errorf("%w: failed to list automation settings: %v", ErrInternal, err)
	}
	if len(enabled) == 0 {
		uc.logger.Info("RunLosAutomation: hotel=%s has no enabled room products", req.HotelID)
		return resp, nil
	}

	// 4. Ограничения отеля за окно: CTS и ручные минимумы без тарифного скоупа
	rows, err := uc.restrictions.Find(ctx, domain.RestrictionFilter{
		HotelID: req.HotelID,
		From:    &from,
		To:      &to,
		Levels:  []domain.Level{domain.LevelHouse, domain.LevelRoomProduct},
	})
	if err != nil {
		uc.logger.Error("RunLosAutomation: failed to load restrictions for hotel=%s: %v", req.HotelID, err)
		return nil, fmt.Errorf("%w: failed to load restrictions: %v", ErrInternal, err)
	}

	// 5. Room product за room product
	settingsByID := make(map[string]domain.AutomationSettings, len(enabled))
	ids := make([]string, 0, len(enabled))
	for _, s := range enabled {
		settingsByID[*s.RoomProductID] = s.Settings
		ids = append(ids, *s.RoomProductID)
	}

	results := make(map[string]*RoomProductResult, len(ids))
	report := jobrun.ForEach(ctx, ids, func(ctx context.Context, roomProductID string) error {
		res := &RoomProductResult{RoomProductID: roomProductID}
		results[roomProductID] = res

		in := &losModels.Input{
			HotelID:       req.HotelID,
			RoomProductID: roomProductID,
			From:          from,
			To:            to,
			Settings:      settingsByID[roomProductID],
			Restrictions:  rows,
		}
		err := uc.runRoomProduct(ctx, in, res)
		uc.metrics.ObserveLosAutomation(string(outcomeOf(err)))
		if err != nil && !errors.Is(err, jobrun.ErrSkip) {
			uc.logger.Error("RunLosAutomation: hotel=%s roomProduct=%s failed: %v", req.HotelID, roomProductID, err)
		}
		return err
	})

	for _, r := range report.Results {
		res, ok := results[r.Key]
		if !ok {
			res = &RoomProductResult{RoomProductID: r.Key}
		}
		res.Outcome = string(r.Outcome)
		if r.Outcome == jobrun.OutcomeFailed {
			res.Error = r.Err.Error()
		}
		resp.RoomProducts = append(resp.RoomProducts, *res)
	}

	uc.logger.Info("RunLosAutomation: hotel=%s finished, succeeded=%d skipped=%d failed=%d",
		req.HotelID, len(report.Succeeded()), len(report.Skipped()), len(report.Failed()))

	return resp, nil
}

func (uc *UseCase) runRoomProduct(ctx context.Context, in *losModels.Input, res *RoomProductResult) error {
	// Блокировка действует до истечения TTL; ошибка кеша не останавливает расчёт
	key := fmt.Sprintf("%s:%s:%s", jobName, in.HotelID, in.RoomProductID)
	acquired, err := uc.locker.Acquire(ctx, key, uc.lockTTL)
	switch {
	case err != nil:
		uc.logger.Warn("RunLosAutomation: lock %s unavailable, proceeding: %v", key, err)
	case !acquired:
		uc.logger.Info("RunLosAutomation: %s is already running, skipping", key)
		return jobrun.ErrSkip
	}

	units, err := uc.units.ListAvailability(ctx, in.HotelID, in.RoomProductID, in.From, in.To)
	if err != nil {
		return fmt.Errorf("%w: failed to list room units: %v", ErrInternal, err)
	}
	in.Units = units

	out := uc.calculator.Compute(in)
	res.Emitted = len(out.Restrictions)
	res.DatesUnavailable = out.DatesUnavailable
	if len(out.Restrictions) == 0 {
		return nil
	}

	result, err := uc.applier.Apply(ctx, in.HotelID, out.Restrictions, domain.SourceAutomated,
		apply_restrictions.Options{Propagate: true, PushToPms: true})
	if err != nil {
		return err
	}
	res.Created = len(result.Created)

	return nil
}

// window дополняет период значениями по умолчанию и обрезает его:
// прошлое не пересчитывается, конец не позже последней даты продаж
func (uc *UseCase) window(ctx context.Context, hotelID string, from, to time.Time) (time.Time, time.Time, error) {
	today := domain.DateOnly(uc.timeProvider.Now().UTC())
	if from.IsZero() || from.Before(today) {
		from = today
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, uc.windowDays-1)
	}

	cfg, err := uc.hotels.Get(ctx, hotelID)
	switch {
	case errors.Is(err, hotelconfigRepo.ErrHotelNotFound):
		uc.logger.Info("RunLosAutomation: hotel=%s has no config, using defaults", hotelID)
	case err != nil:
		uc.logger.Error("RunLosAutomation: failed to get hotel config=%s: %v", hotelID, err)
		return from, to, fmt.Errorf("%w: failed to get hotel config: %v", ErrInternal, err)
	case cfg.LastSellableDate != nil:
		if last := domain.DateOnly(*cfg.LastSellableDate); last.Before(to) {
			to = last
		}
	}

	return from, to, nil
}

// ExecuteAll ночной пересчёт всех отелей с включённой автоматизацией
func (uc *UseCase) ExecuteAll(ctx context.Context) (*JobResponse, error) {
	hotelIDs, err := uc.settings.ListHotelsWithEnabled(ctx)
	if err != nil {
		uc.logger.Error("RunLosAutomation: failed to list hotels: %v", err)
		return nil, fmt.Errorf("%w: failed to list hotels: %v", ErrInternal, err)
	}

	report := jobrun.ForEach(ctx, hotelIDs, func(ctx context.Context, hotelID string) error {
		resp, err := uc.Execute(ctx, &Request{HotelID: hotelID})
		if err == nil {
			for _, rp := range resp.RoomProducts {
				if rp.Outcome == string(jobrun.OutcomeFailed) {
					err = fmt.Errorf("%w: roomProduct=%s: %s", ErrInternal, rp.RoomProductID, rp.Error)
					break
				}
			}
		}
		uc.metrics.ObserveJobUnit(jobName, string(outcomeOf(err)))
		return err
	})

	uc.logger.Info("RunLosAutomation: nightly run finished, hotels succeeded=%d failed=%d",
		len(report.Succeeded()), len(report.Failed()))

	return &JobResponse{Report: report}, nil
}

func outcomeOf(err error) jobrun.Outcome {
	switch {
	case err == nil:
		return jobrun.OutcomeSucceeded
	case errors.Is(err, jobrun.ErrSkip):
		return jobrun.OutcomeSkipped
	default:
		return jobrun.OutcomeFailed
	}
}
