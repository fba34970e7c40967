package pull_pms_restrictions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/integrations/pmsadapter"
	"github.com/m04kA/SMC-RestrictionService/internal/usecase/apply_restrictions"
	"github.com/m04kA/SMC-RestrictionService/pkg/jobrun"
)

const jobName = "pms-pull"

// UseCase use case загрузки ограничений из PMS по всем отелям
type UseCase struct {
	hotels       HotelLister
	pmsClient    PmsClient
	applier      Applier
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	windowDays   int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	hotels HotelLister,
	pmsClient PmsClient,
	applier Applier,
	metrics Metrics,
	logger Logger,
	windowDays int,
) *UseCase {
	if windowDays <= 0 {
		windowDays = domain.DefaultAutomationWindowDays
	}
	return &UseCase{
		hotels:       hotels,
		pmsClient:    pmsClient,
		applier:      applier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		windowDays:   windowDays,
	}
}

// Execute загружает ограничения каждого отеля и применяет их с источником PMS.
// Ошибка одного отеля логируется и не прерывает обработку остальных.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Список отелей
	hotelIDs := req.HotelIDs
	if len(hotelIDs) == 0 {
		var err error
		hotelIDs, err = uc.hotels.ListPmsEnabledHotels(ctx)
		if err != nil {
			uc.logger.Error("PullPmsRestrictions: failed to list hotels: %v", err)
			return nil, fmt.Errorf("%w: failed to list hotels: %v", ErrInternal, err)
		}
	}

	// 2. Период
	from, to := domain.DateOnly(req.From), domain.DateOnly(req.To)
	if req.From.IsZero() || req.To.IsZero() {
		from = domain.DateOnly(uc.timeProvider.Now().UTC())
		to = from.AddDate(0, 0, uc.windowDays-1)
	}

	uc.logger.Info("PullPmsRestrictions: hotels=%d, period=%s..%s",
		len(hotelIDs), from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	// 3. Отель за отелем
	created := 0
	report := jobrun.ForEach(ctx, hotelIDs, func(ctx context.Context, hotelID string) error {
		n, err := uc.pullHotel(ctx, hotelID, from, to)
		switch {
		case err == nil:
			uc.metrics.ObserveJobUnit(jobName, string(jobrun.OutcomeSucceeded))
		case errors.Is(err, jobrun.ErrSkip):
			uc.metrics.ObserveJobUnit(jobName, string(jobrun.OutcomeSkipped))
		default:
			uc.metrics.ObserveJobUnit(jobName, string(jobrun.OutcomeFailed))
			uc.logger.Error("PullPmsRestrictions: hotel=%s failed: %v", hotelID, err)
		}

		created += n
		return err
	})

	uc.logger.Info("PullPmsRestrictions: finished, succeeded=%d skipped=%d failed=%d created=%d",
		len(report.Succeeded()), len(report.Skipped()), len(report.Failed()), created)

	return &Response{Report: report, Created: created}, nil
}

func (uc *UseCase) pullHotel(ctx context.Context, hotelID string, from, to time.Time) (int, error) {
	pulled, err := uc.pmsClient.PullRestrictions(ctx, hotelID, from, to)
	if err != nil {
		if errors.Is(err, pmsadapter.ErrHotelNotConnected) {
			uc.logger.Warn("PullPmsRestrictions: hotel=%s is not connected in adapter", hotelID)
			return 0, jobrun.ErrSkip
		}
		return 0, fmt.Errorf("%w: pull hotel=%s: %v", ErrInternal, hotelID, err)
	}
	if len(pulled) == 0 {
		return 0, nil
	}

	candidates := make([]*domain.Restriction, 0, len(pulled))
	for i, p := range pulled {
		r, err := toCandidate(hotelID, p)
		if err != nil {
			return 0, fmt.Errorf("%w: hotel=%s restriction %d: %v", ErrInvalidRestriction, hotelID, i, err)
		}
		candidates = append(candidates, r)
	}

	// Загруженное из PMS обратно в PMS не отправляется
	result, err := uc.applier.Apply(ctx, hotelID, candidates, domain.SourcePMS, apply_restrictions.Options{Propagate: true})
	if err != nil {
		return 0, err
	}

	return len(result.Created), nil
}

func toCandidate(hotelID string, p pmsadapter.PulledRestriction) (*domain.Restriction, error) {
	from, err := domain.ParseDate(p.FromDate)
	if err != nil {
		return nil, fmt.Errorf("from_date: %v", err)
	}
	to, err := domain.ParseDate(p.ToDate)
	if err != nil {
		return nil, fmt.Errorf("to_date: %v", err)
	}

	weekdays := make([]domain.Weekday, 0, len(p.Weekdays))
	for _, w := range p.Weekdays {
		weekdays = append(weekdays, domain.Weekday(w))
	}

	return &domain.Restriction{
		HotelID:             hotelID,
		RoomProductIDs:      p.RoomProductIDs,
		RatePlanIDs:         p.RatePlanIDs,
		FromDate:            from,
		ToDate:              to,
		Weekdays:            weekdays,
		Type:                domain.RestrictionType(p.Type),
		MinLength:           p.MinLength,
		MaxLength:           p.MaxLength,
		MinAdv:              p.MinAdv,
		MaxAdv:              p.MaxAdv,
		MinLosThrough:       p.MinLosThrough,
		MaxReservationCount: p.MaxReservationCount,
	}, nil
}
