package push_pms_restrictions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	hotelconfigRepo "github.com/m04kA/SMC-RestrictionService/internal/infra/storage/hotelconfig"
	"github.com/m04kA/SMC-RestrictionService/internal/integrations/pmsadapter"
	"github.com/m04kA/SMC-RestrictionService/internal/service/calendar"
	pmssyncModels "github.com/m04kA/SMC-RestrictionService/internal/service/pmssync/models"
	"github.com/m04kA/SMC-RestrictionService/pkg/jobrun"
)

const jobName = "pms-push"

// UseCase use case отправки эффективных ограничений в PMS
type UseCase struct {
	hotels       HotelConfigProvider
	restrictions RestrictionReader
	pmsClient    PmsClient
	gate         Gate
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	windowDays   int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	hotels HotelConfigProvider,
	restrictions RestrictionReader,
	pmsClient PmsClient,
	gate Gate,
	metrics Metrics,
	logger Logger,
	windowDays int,
) *UseCase {
	if windowDays <= 0 {
		windowDays = domain.DefaultAutomationWindowDays
	}
	return &UseCase{
		hotels:       hotels,
		restrictions: restrictions,
		pmsClient:    pmsClient,
		gate:         gate,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		windowDays:   windowDays,
	}
}

// Execute считает по каждой паре room product x тариф PMS эффективное ограничение
// на каждую дату (побеждает самое строгое), пропускает записи через шлюз и отправляет в PMS
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PushPmsRestrictions: hotel=%s, period=%s..%s",
		req.HotelID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.HotelID == "" {
		return nil, fmt.Errorf("%w: hotelId is required", ErrInvalidInput)
	}
	from, to := domain.DateOnly(req.From), domain.DateOnly(req.To)
	if from.IsZero() || to.Before(from) {
		return nil, fmt.Errorf("%w: invalid period", ErrInvalidInput)
	}

	// 2. Настройки отеля
	cfg, err := uc.hotels.Get(ctx, req.HotelID)
	if err != nil {
		if errors.Is(err, hotelconfigRepo.ErrHotelNotFound) {
			uc.logger.Warn("PushPmsRestrictions: hotel=%s not found", req.HotelID)
			return nil, ErrHotelNotFound
		}
		uc.logger.Error("PushPmsRestrictions: failed to get hotel config=%s: %v", req.HotelID, err)
		return nil, fmt.Errorf("%w: failed to get hotel config: %v", ErrInternal, err)
	}
	if !cfg.PmsEnabled {
		uc.logger.Info("PushPmsRestrictions: hotel=%s is not connected to PMS, skipping", req.HotelID)
		return &Response{Skipped: true}, nil
	}

	// 3. Тарифы, которые продаются через PMS
	mappings, err := uc.pmsClient.ListRatePlanMappings(ctx, req.HotelID)
	if err != nil {
		if errors.Is(err, pmsadapter.ErrHotelNotConnected) {
			uc.logger.Warn("PushPmsRestrictions: hotel=%s is not connected in adapter, skipping", req.HotelID)
			return &Response{Skipped: true}, nil
		}
		uc.logger.Error("PushPmsRestrictions: failed to list mappings for hotel=%s: %v", req.HotelID, err)
		return nil, fmt.Errorf("%w: failed to list rate plan mappings: %v", ErrInternal, err)
	}

	// 4. Все ограничения периода одним запросом
	rows, err := uc.restrictions.Find(ctx, domain.RestrictionFilter{HotelID: req.HotelID, From: &from, To: &to})
	if err != nil {
		uc.logger.Error("PushPmsRestrictions: failed to load restrictions for hotel=%s: %v", req.HotelID, err)
		return nil, fmt.Errorf("%w: failed to load restrictions: %v", ErrInternal, err)
	}

	// 5. Эффективные записи по паре и дате
	records := buildRecords(rows, mappings, from, to)

	// 6. Шлюз: период и порог maxLength
	filtered := uc.gate.Filter(cfg, records)
	resp := &Response{Considered: len(records), Dropped: filtered.Dropped()}

	// 7. Отправка
	if len(filtered.Kept) > 0 {
		accepted, err := uc.pmsClient.PushRestrictions(ctx, req.HotelID, toAdapterRecords(filtered.Kept))
		if err != nil {
			uc.logger.Error("PushPmsRestrictions: push failed for hotel=%s: %v", req.HotelID, err)
			return nil, fmt.Errorf("%w: failed to push restrictions: %v", ErrInternal, err)
		}
		resp.Pushed = accepted
	}

	uc.metrics.ObservePmsPush(resp.Pushed, resp.Dropped)
	uc.logger.Info("PushPmsRestrictions: hotel=%s considered=%d pushed=%d dropped=%d (period=%d, maxStay=%d)",
		req.HotelID, resp.Considered, resp.Pushed, resp.Dropped, filtered.DroppedByPeriod, filtered.DroppedByMaxStay)

	return resp, nil
}

// PushRange отправляет период отеля; используется после применения ограничений
func (uc *UseCase) PushRange(ctx context.Context, hotelID string, from, to time.Time) error {
	_, err := uc.Execute(ctx, &Request{HotelID: hotelID, From: from, To: to})
	return err
}

// ExecuteAll отправляет окно от сегодня для всех подключённых отелей.
// Ошибка одного отеля не прерывает обработку остальных.
func (uc *UseCase) ExecuteAll(ctx context.Context) (*JobResponse, error) {
	hotelIDs, err := uc.hotels.ListPmsEnabledHotels(ctx)
	if err != nil {
		uc.logger.Error("PushPmsRestrictions: failed to list hotels: %v", err)
		return nil, fmt.Errorf("%w: failed to list hotels: %v", ErrInternal, err)
	}

	from := domain.DateOnly(uc.timeProvider.Now().UTC())
	to := from.AddDate(0, 0, uc.windowDays-1)

	report := jobrun.ForEach(ctx, hotelIDs, func(ctx context.Context, hotelID string) error {
		resp, err := uc.Execute(ctx, &Request{HotelID: hotelID, From: from, To: to})
		if err != nil {
			uc.metrics.ObserveJobUnit(jobName, string(jobrun.OutcomeFailed))
			uc.logger.Error("PushPmsRestrictions: hotel=%s failed: %v", hotelID, err)
			return err
		}
		if resp.Skipped {
			uc.metrics.ObserveJobUnit(jobName, string(jobrun.OutcomeSkipped))
			return jobrun.ErrSkip
		}
		uc.metrics.ObserveJobUnit(jobName, string(jobrun.OutcomeSucceeded))
		return nil
	})

	uc.logger.Info("PushPmsRestrictions: job finished, hotels=%d succeeded=%d skipped=%d failed=%d",
		len(hotelIDs), len(report.Succeeded()), len(report.Skipped()), len(report.Failed()))

	return &JobResponse{Report: report}, nil
}

func buildRecords(rows []*domain.Restriction, mappings []pmsadapter.RatePlanMapping, from, to time.Time) []pmssyncModels.Record {
	policy := calendar.MostRestrictive()
	days := domain.EachDay(from, to)
	records := make([]pmssyncModels.Record, 0)

	for _, m := range mappings {
		applicable := make([]*domain.Restriction, 0)
		for _, r := range rows {
			if r.AppliesTo(m.RoomProductID, m.RatePlanID) {
				applicable = append(applicable, r)
			}
		}
		if len(applicable) == 0 {
			continue
		}

		for _, d := range days {
			effective := calendar.Combine(applicable, d, policy)
			if effective == nil {
				continue
			}
			records = append(records, pmssyncModels.Record{
				RoomProductID: m.RoomProductID,
				RatePlanID:    m.RatePlanID,
				PmsCode:       m.PmsCode,
				Date:          d,
				Restriction:   effective,
			})
		}
	}

	return records
}

func toAdapterRecords(records []pmssyncModels.Record) []pmsadapter.RestrictionRecord {
	out := make([]pmsadapter.RestrictionRecord, 0, len(records))
	for _, rec := range records {
		r := rec.Restriction
		out = append(out, pmsadapter.RestrictionRecord{
			RoomProductID:       rec.RoomProductID,
			RatePlanID:          rec.RatePlanID,
			PmsCode:             rec.PmsCode,
			Date:                rec.Date.Format(domain.DateFormat),
			Type:                string(r.Type),
			MinLength:           r.MinLength,
			MaxLength:           r.MaxLength,
			MinAdv:              r.MinAdv,
			MaxAdv:              r.MaxAdv,
			MinLosThrough:       r.MinLosThrough,
			MaxReservationCount: r.MaxReservationCount,
		})
	}
	return out
}
