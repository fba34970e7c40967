package derived

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/derived/models"
)

// Service проецирует ограничения родительских тарифов на производные
type Service struct {
	restrictions RestrictionReader
	settings     SettingsReader
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(restrictions RestrictionReader, settings SettingsReader, logger Logger) *Service {
	return &Service{
		restrictions: restrictions,
		settings:     settings,
		logger:       logger,
	}
}

// link пара родительское ограничение - настройка производного тарифа
type link struct {
	parent  *domain.Restriction
	setting *domain.RatePlanDerivedSetting
}

// Project строит кандидатов для производных тарифов по сохранённым родительским ограничениям.
// Кандидаты подаются в движок слияния без повторной проекции.
//
// Существующее производное ограничение (тот же тип и точный период) обновляется
// только в наследуемых полях, остальные поля сохраняются.
func (s *Service) Project(ctx context.Context, hotelID string, parents []*domain.Restriction) ([]*domain.Restriction, error) {
	links, err := s.links(ctx, hotelID, parents)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []*domain.Restriction{}, nil
	}

	existing, err := s.existingChildren(ctx, hotelID, links)
	if err != nil {
		return nil, err
	}

	candidates := make([]*domain.Restriction, 0, len(links))
	for _, l := range links {
		child := findChild(existing, l)

		var candidate *domain.Restriction
		if child != nil {
			candidate = child.Clone()
			candidate.ID = ""
		} else {
			candidate = childScope(l)
		}

		for _, f := range l.setting.InheritedRestrictionFields {
			candidate.Set(f, l.parent.Get(f))
			if src := l.parent.SourceOf(f); src != "" && l.parent.Get(f) != nil {
				candidate.SetSource(f, src)
			} else {
				delete(candidate.Source, f)
			}
		}

		// Исключение без наследуемых значений превратилось бы в блокировку
		if l.parent.HasException() && candidate.IsPureBlocking() {
			continue
		}

		parentID := l.parent.ID
		candidate.Metadata = &domain.Metadata{
			IsDerived:           true,
			ParentRestrictionID: &parentID,
			InheritedFields:     append([]domain.Field(nil), l.setting.InheritedRestrictionFields...),
		}
		candidates = append(candidates, candidate)
	}

	s.logger.Info("Project: hotel=%s parents=%d links=%d candidates=%d", hotelID, len(parents), len(links), len(candidates))

	return candidates, nil
}

// Detach снимает наследуемые поля с производных ограничений удалённых родителей.
// Ограничение без оставшихся полей удаляется, иначе заменяется копией с isDerived=false.
func (s *Service) Detach(ctx context.Context, hotelID string, deleted []*domain.Restriction) (*models.Cleanup, error) {
	return s.detach(ctx, hotelID, deleted, nil)
}

// DetachPeriod как Detach, но только на датах [from, to].
// Части производного ограничения вне периода пересоздаются без изменений.
func (s *Service) DetachPeriod(ctx context.Context, hotelID string, deleted []*domain.Restriction, from, to time.Time) (*models.Cleanup, error) {
	return s.detach(ctx, hotelID, deleted, &period{from: domain.DateOnly(from), to: domain.DateOnly(to)})
}

type period struct {
	from, to time.Time
}

func (s *Service) detach(ctx context.Context, hotelID string, deleted []*domain.Restriction, within *period) (*models.Cleanup, error) {
	cleanup := &models.Cleanup{}

	links, err := s.links(ctx, hotelID, deleted)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return cleanup, nil
	}

	existing, err := s.existingChildren(ctx, hotelID, links)
	if err != nil {
		return nil, err
	}

	removed := make(map[string]bool)
	for _, l := range links {
		child := findChild(existing, l)
		if child == nil || removed[child.ID] {
			continue
		}
		removed[child.ID] = true
		cleanup.ToRemove = append(cleanup.ToRemove, child)

		rest := copyOf(child)
		if within != nil {
			rest.FromDate = domain.MaxDate(child.FromDate, within.from)
			rest.ToDate = domain.MinDate(child.ToDate, within.to)
			cleanup.ToCreate = append(cleanup.ToCreate, partsOutside(child, within)...)
		}

		for _, f := range l.setting.InheritedRestrictionFields {
			rest.Set(f, nil)
			delete(rest.Source, f)
		}

		if rest.IsPureBlocking() || !rest.CoversAnyDay() {
			continue
		}
		rest.Metadata = &domain.Metadata{IsDerived: false}
		cleanup.ToCreate = append(cleanup.ToCreate, rest)
	}

	s.logger.Info("Detach: hotel=%s parents=%d create=%d remove=%d", hotelID, len(deleted), len(cleanup.ToCreate), len(cleanup.ToRemove))

	return cleanup, nil
}

// partsOutside части строки до и после периода, без изменений
func partsOutside(r *domain.Restriction, p *period) []*domain.Restriction {
	parts := make([]*domain.Restriction, 0, 2)

	if r.FromDate.Before(p.from) {
		part := copyOf(r)
		part.ToDate = p.from.AddDate(0, 0, -1)
		parts = append(parts, part)
	}
	if r.ToDate.After(p.to) {
		part := copyOf(r)
		part.FromDate = p.to.AddDate(0, 0, 1)
		parts = append(parts, part)
	}

	out := parts[:0]
	for _, part := range parts {
		if part.CoversAnyDay() {
			out = append(out, part)
		}
	}
	return out
}

func copyOf(r *domain.Restriction) *domain.Restriction {
	c := r.Clone()
	c.ID = ""
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	return c
}

// links загружает настройки одним запросом и сопоставляет их с родителями
func (s *Service) links(ctx context.Context, hotelID string, parents []*domain.Restriction) ([]link, error) {
	parentRatePlans := make([]string, 0)
	for _, p := range parents {
		parentRatePlans = append(parentRatePlans, p.RatePlanIDs...)
	}
	parentRatePlans = domain.NormalizeIDs(parentRatePlans)
	if len(parentRatePlans) == 0 {
		return nil, nil
	}

	settings, err := s.settings.FindFollowingByParents(ctx, hotelID, parentRatePlans)
	if err != nil {
		s.logger.Error("Project: failed to load derived settings hotel=%s: %v", hotelID, err)
		return nil, fmt.Errorf("%w: links - find settings: %v", ErrInternal, err)
	}

	links := make([]link, 0)
	for _, p := range parents {
		for _, setting := range settings {
			// Производный тариф уже в скоупе родителя - проецировать некуда
			if domain.ContainsID(p.RatePlanIDs, setting.ParentRatePlanID) && !domain.ContainsID(p.RatePlanIDs, setting.DerivedRatePlanID) {
				links = append(links, link{parent: p, setting: setting})
			}
		}
	}

	return links, nil
}

// existingChildren загружает возможные производные ограничения одним запросом
func (s *Service) existingChildren(ctx context.Context, hotelID string, links []link) ([]*domain.Restriction, error) {
	derivedIDs := make([]string, 0, len(links))
	from, to := links[0].parent.FromDate, links[0].parent.ToDate
	for _, l := range links {
		derivedIDs = append(derivedIDs, l.setting.DerivedRatePlanID)
		from = domain.MinDate(from, l.parent.FromDate)
		to = domain.MaxDate(to, l.parent.ToDate)
	}

	rows, err := s.restrictions.Find(ctx, domain.RestrictionFilter{
		HotelID:     hotelID,
		From:        &from,
		To:          &to,
		RatePlanIDs: domain.NormalizeIDs(derivedIDs),
	})
	if err != nil {
		s.logger.Error("Project: failed to load derived restrictions hotel=%s: %v", hotelID, err)
		return nil, fmt.Errorf("%w: existingChildren - find restrictions: %v", ErrInternal, err)
	}

	return rows, nil
}

// findChild ищет ограничение производного тарифа с тем же типом, скоупом и точным периодом
func findChild(rows []*domain.Restriction, l link) *domain.Restriction {
	scope := childScope(l)
	for _, r := range rows {
		if r.Type == scope.Type &&
			r.FromDate.Equal(scope.FromDate) &&
			r.ToDate.Equal(scope.ToDate) &&
			r.SameScope(scope) {
			return r
		}
	}
	return nil
}

// childScope пустое ограничение производного тарифа: комнаты родителя, период, дни недели и тип
func childScope(l link) *domain.Restriction {
	return &domain.Restriction{
		HotelID:        l.parent.HotelID,
		RoomProductIDs: domain.NormalizeIDs(l.parent.RoomProductIDs),
		RatePlanIDs:    []string{l.setting.DerivedRatePlanID},
		FromDate:       l.parent.FromDate,
		ToDate:         l.parent.ToDate,
		Weekdays:       domain.NormalizeWeekdays(l.parent.Weekdays),
		Type:           l.parent.Type,
	}
}
