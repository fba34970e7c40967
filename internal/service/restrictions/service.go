package restrictions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	restrictionRepo "github.com/m04kA/SMC-RestrictionService/internal/infra/storage/restriction"
	"github.com/m04kA/SMC-RestrictionService/internal/service/calendar"
	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions/models"
)

// Service чтение и удаление ограничений, эффективный календарь
type Service struct {
	repo            RestrictionRepository
	derived         DerivedCleaner
	txManager       TransactionManager
	logger          Logger
	calendarMaxDays int
}

// NewService создает новый экземпляр сервиса
func NewService(
	repo RestrictionRepository,
	derived DerivedCleaner,
	txManager TransactionManager,
	logger Logger,
	calendarMaxDays int,
) *Service {
	if calendarMaxDays <= 0 {
		calendarMaxDays = domain.DefaultCalendarMaxDays
	}
	return &Service{
		repo:            repo,
		derived:         derived,
		txManager:       txManager,
		logger:          logger,
		calendarMaxDays: calendarMaxDays,
	}
}

// GetByID получает ограничение отеля по ID
func (s *Service) GetByID(ctx context.Context, hotelID, id string) (*models.RestrictionResponse, error) {
	r, err := s.repo.GetByID(ctx, hotelID, id)
	if err != nil {
		if errors.Is(err, restrictionRepo.ErrRestrictionNotFound) {
			s.logger.Warn("GetByID: restriction id=%s not found in hotel=%s", id, hotelID)
			return nil, ErrRestrictionNotFound
		}
		s.logger.Error("GetByID: repository error for restriction id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRestriction(r), nil
}

// DeleteRestriction удаляет ограничение и снимает унаследованные поля с производных.
// Удаление и изменения производных фиксируются одним вызовом Persist.
func (s *Service) DeleteRestriction(ctx context.Context, hotelID, id string) error {
	s.logger.Info("DeleteRestriction: deleting restriction id=%s in hotel=%s", id, hotelID)

	var detached int
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Получаем ограничение (FOR UPDATE внутри транзакции)
		r, err := s.repo.GetByID(ctx, hotelID, id)
		if err != nil {
			if errors.Is(err, restrictionRepo.ErrRestrictionNotFound) {
				return ErrRestrictionNotFound
			}
			return fmt.Errorf("%w: DeleteRestriction - get restriction: %v", ErrInternal, err)
		}

		// 2. Производные ограничения теряют унаследованные поля
		cleanup, err := s.derived.Detach(ctx, hotelID, []*domain.Restriction{r})
		if err != nil {
			return fmt.Errorf("%w: DeleteRestriction - detach derived: %v", ErrInternal, err)
		}
		detached = len(cleanup.ToRemove)

		// 3. Удаляем ограничение вместе с изменениями производных
		removeIDs := append([]string{r.ID}, cleanup.RemoveIDs()...)
		if _, err := s.repo.Persist(ctx, hotelID, cleanup.ToCreate, removeIDs); err != nil {
			return fmt.Errorf("%w: DeleteRestriction - persist: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRestrictionNotFound) {
			s.logger.Warn("DeleteRestriction: restriction id=%s not found in hotel=%s", id, hotelID)
		} else {
			s.logger.Error("DeleteRestriction: failed to delete restriction id=%s: %v", id, err)
		}
		return err
	}

	s.logger.Info("DeleteRestriction: deleted restriction id=%s, derived detached=%d", id, detached)
	return nil
}

// DeleteRestrictionsInRange удаляет ограничения скоупа в периоде.
// Части строк вне периода пересоздаются без изменений.
func (s *Service) DeleteRestrictionsInRange(ctx context.Context, req *models.DeleteRangeRequest) (*models.DeleteRangeResponse, error) {
	s.logger.Info("DeleteRestrictionsInRange: hotel=%s rooms=%v ratePlans=%v period=%s..%s",
		req.HotelID, req.RoomProductIDs, req.RatePlanIDs, req.FromDate, req.ToDate)

	from, to, err := parsePeriod(req.HotelID, req.FromDate, req.ToDate)
	if err != nil {
		s.logger.Warn("DeleteRestrictionsInRange: validation failed: %v", err)
		return nil, err
	}
	for _, t := range req.Types {
		if !t.IsValid() {
			return nil, fmt.Errorf("%w: unknown restriction type %q", ErrInvalidInput, t)
		}
	}

	resp := &models.DeleteRangeResponse{}
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Строки точного скоупа, пересекающие период
		rows, err := s.repo.Find(ctx, domain.RestrictionFilter{
			HotelID:             req.HotelID,
			From:                &from,
			To:                  &to,
			Types:               req.Types,
			ExactScope:          true,
			ScopeRoomProductIDs: domain.NormalizeIDs(req.RoomProductIDs),
			ScopeRatePlanIDs:    domain.NormalizeIDs(req.RatePlanIDs),
		})
		if err != nil {
			return fmt.Errorf("%w: DeleteRestrictionsInRange - find: %v", ErrInternal, err)
		}
		if len(rows) == 0 {
			return nil
		}

		// 2. Части вне периода сохраняются
		toCreate := make([]*domain.Restriction, 0)
		removeIDs := make([]string, 0, len(rows))
		for _, r := range rows {
			removeIDs = append(removeIDs, r.ID)
			toCreate = append(toCreate, outsidePeriod(r, from, to)...)
		}
		resp.Deleted = len(rows)
		resp.Recreated = len(toCreate)

		// 3. Производные ограничения теряют унаследованные поля только внутри периода
		cleanup, err := s.derived.DetachPeriod(ctx, req.HotelID, rows, from, to)
		if err != nil {
			return fmt.Errorf("%w: DeleteRestrictionsInRange - detach derived: %v", ErrInternal, err)
		}
		resp.Detached = len(cleanup.ToRemove)

		toCreate = append(toCreate, cleanup.ToCreate...)
		removeIDs = append(removeIDs, cleanup.RemoveIDs()...)

		if _, err := s.repo.Persist(ctx, req.HotelID, toCreate, uniqueIDs(removeIDs)); err != nil {
			return fmt.Errorf("%w: DeleteRestrictionsInRange - persist: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("DeleteRestrictionsInRange: failed for hotel=%s: %v", req.HotelID, err)
		return nil, err
	}

	s.logger.Info("DeleteRestrictionsInRange: hotel=%s deleted=%d recreated=%d detached=%d",
		req.HotelID, resp.Deleted, resp.Recreated, resp.Detached)
	return resp, nil
}

// GetEffectiveCalendar возвращает эффективное ограничение на каждую дату периода.
// Только чтение.
func (s *Service) GetEffectiveCalendar(ctx context.Context, req *models.CalendarRequest) (*models.CalendarResponse, error) {
	from, to, err := parsePeriod(req.HotelID, req.From, req.To)
	if err != nil {
		s.logger.Warn("GetEffectiveCalendar: validation failed: %v", err)
		return nil, err
	}
	if days := domain.DaysBetween(from, to) + 1; days > s.calendarMaxDays {
		s.logger.Warn("GetEffectiveCalendar: range of %d days exceeds limit %d", days, s.calendarMaxDays)
		return nil, fmt.Errorf("%w: %d days, limit %d", ErrRangeTooLarge, days, s.calendarMaxDays)
	}

	policyName := calendar.PolicyName(req.Policy)
	if policyName == "" {
		policyName = calendar.PolicyGuest
	}
	policy, ok := calendar.PolicyByName(policyName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidInput, req.Policy)
	}

	rows, err := s.repo.Find(ctx, domain.RestrictionFilter{
		HotelID: req.HotelID,
		From:    &from,
		To:      &to,
	})
	if err != nil {
		s.logger.Error("GetEffectiveCalendar: repository error for hotel=%s: %v", req.HotelID, err)
		return nil, fmt.Errorf("%w: GetEffectiveCalendar - repository error: %v", ErrInternal, err)
	}

	applicable := make([]*domain.Restriction, 0, len(rows))
	for _, r := range rows {
		if r.AppliesTo(req.RoomProductID, req.RatePlanID) {
			applicable = append(applicable, r)
		}
	}

	days := calendar.Build(applicable, from, to, policy)

	s.logger.Info("GetEffectiveCalendar: hotel=%s policy=%s days=%d restrictions=%d",
		req.HotelID, policy.Name, len(days), len(applicable))
	return models.FromCalendarDays(req.HotelID, string(policy.Name), days), nil
}

func parsePeriod(hotelID, fromRaw, toRaw string) (time.Time, time.Time, error) {
	if hotelID == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: hotelId is required", ErrInvalidInput)
	}
	from, err := domain.ParseDate(fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from: %v", ErrInvalidInput, err)
	}
	to, err := domain.ParseDate(toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to: %v", ErrInvalidInput, err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}
	return from, to, nil
}

// outsidePeriod части строки до и после [from, to]
func outsidePeriod(r *domain.Restriction, from, to time.Time) []*domain.Restriction {
	parts := make([]*domain.Restriction, 0, 2)

	if r.FromDate.Before(from) {
		p := detachedCopy(r)
		p.ToDate = from.AddDate(0, 0, -1)
		parts = append(parts, p)
	}
	if r.ToDate.After(to) {
		p := detachedCopy(r)
		p.FromDate = to.AddDate(0, 0, 1)
		parts = append(parts, p)
	}

	out := parts[:0]
	for _, p := range parts {
		if p.CoversAnyDay() {
			out = append(out, p)
		}
	}
	return out
}

func detachedCopy(r *domain.Restriction) *domain.Restriction {
	c := r.Clone()
	c.ID = ""
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	return c
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
