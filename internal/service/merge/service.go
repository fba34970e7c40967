package merge

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/merge/models"
	"github.com/m04kA/SMC-RestrictionService/pkg/ptr"
)

// Service движок слияния ограничений.
// Не пишет в хранилище: возвращает наборы на создание и удаление.
type Service struct {
	repo   RestrictionReader
	logger Logger
}

// NewService создает новый экземпляр движка слияния
func NewService(repo RestrictionReader, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// scopeState кандидаты одного скоупа (hotel, room products, rate plans), сгруппированные по типу
type scopeState struct {
	groups [][]*domain.Restriction
	from   time.Time
	to     time.Time
}

// liveRow сохранённая строка или ещё не сохранённый фрагмент
type liveRow struct {
	row       *domain.Restriction
	persisted bool
}

// Merge сливает кандидатов с сохранёнными ограничениями.
// source - источник операции: MANUAL-значения сохранённых строк переживают только не-MANUAL операции.
//
// Алгоритм:
// 1. Кандидаты группируются по (hotel, type, room products, rate plans)
// 2. Для каждого скоупа одним запросом читаются сохранённые строки, пересекающие период групп
// 3. Каждый кандидат сливается с пересекающимися строками (приоритет типов, сохранение MANUAL)
// 4. Пересекающиеся строки удаляются, их части вне кандидата пересоздаются
// 5. Строки с одинаковым ключом (hotel, type, период, скоуп, дни недели) схлопываются
func (s *Service) Merge(ctx context.Context, candidates []*domain.Restriction, source domain.Source) (*models.Result, error) {
	if len(candidates) > domain.MaxCandidatesPerRequest {
		return nil, fmt.Errorf("%w: %d candidates, limit %d", ErrTooManyCandidates, len(candidates), domain.MaxCandidatesPerRequest)
	}
	if !source.IsValid() {
		return nil, fmt.Errorf("%w: unknown operation source %q", ErrInvalidInput, source)
	}

	prepared, err := prepareCandidates(candidates, source)
	if err != nil {
		return nil, err
	}

	groups := newKeyedIndex[[]*domain.Restriction]()
	for _, c := range prepared {
		e := groups.getOrAdd(groupKeyOf(c), func() []*domain.Restriction { return nil })
		e.value = append(e.value, c)
	}

	scopes := newKeyedIndex[*scopeState]()
	for _, g := range groups.entries {
		first := g.value[0]
		sc := scopes.getOrAdd(scopeKeyOf(first), func() *scopeState {
			return &scopeState{from: first.FromDate, to: first.ToDate}
		}).value

		sc.groups = append(sc.groups, g.value)
		for _, c := range g.value {
			sc.from = domain.MinDate(sc.from, c.FromDate)
			sc.to = domain.MaxDate(sc.to, c.ToDate)
		}
	}

	acc := newAccumulator()
	for _, sc := range scopes.entries {
		if err := s.mergeScope(ctx, sc.key, sc.value, source, acc); err != nil {
			return nil, err
		}
	}

	result := acc.result()
	s.logger.Info("Merge: candidates=%d groups=%d create=%d remove=%d source=%s",
		len(prepared), len(groups.entries), len(result.ToCreate), len(result.ToRemove), source)

	return result, nil
}

func (s *Service) mergeScope(ctx context.Context, key rowKey, sc *scopeState, source domain.Source, acc *accumulator) error {
	from, to := sc.from, sc.to

	stored, err := s.repo.Find(ctx, domain.RestrictionFilter{
		HotelID:             key.hotelID,
		From:                &from,
		To:                  &to,
		ExactScope:          true,
		ScopeRoomProductIDs: key.rooms,
		ScopeRatePlanIDs:    key.ratePlans,
	})
	if err != nil {
		s.logger.Error("Merge: failed to load stored restrictions hotel=%s: %v", key.hotelID, err)
		return fmt.Errorf("%w: mergeScope - find stored: %v", ErrInternal, err)
	}

	// Нет пересечений - чистая вставка
	if len(stored) == 0 {
		for _, group := range sc.groups {
			for _, c := range group {
				acc.create(c)
			}
		}
		return nil
	}

	live := make([]*liveRow, 0, len(stored))
	for _, r := range stored {
		r.Normalize()
		live = append(live, &liveRow{row: r, persisted: true})
	}

	for _, group := range sc.groups {
		for _, c := range group {
			live = applyCandidate(c, live, source, acc)
		}
	}

	// Фрагменты, не поглощённые следующими кандидатами
	for _, lr := range live {
		if !lr.persisted {
			acc.create(lr.row)
		}
	}

	return nil
}

// applyCandidate сливает кандидата с пересекающимися строками и возвращает новый живой набор
func applyCandidate(c *domain.Restriction, live []*liveRow, source domain.Source, acc *accumulator) []*liveRow {
	kept := make([]*liveRow, 0, len(live))
	overlapping := make([]*domain.Restriction, 0)
	var consumed []*liveRow

	for _, lr := range live {
		if lr.row.Overlaps(c) {
			overlapping = append(overlapping, lr.row)
			consumed = append(consumed, lr)
			continue
		}
		kept = append(kept, lr)
	}

	if len(overlapping) == 0 {
		acc.create(c)
		return live
	}

	merged := mergeCandidate(c, overlapping, source)

	// Повторное применение того же ограничения ничего не меняет
	if len(consumed) == 1 && consumed[0].persisted && sameContent(merged, consumed[0].row) {
		return live
	}

	for _, lr := range consumed {
		if lr.persisted {
			acc.remove(lr.row)
		}
		for _, fragment := range fragmentsOutside(lr.row, c) {
			kept = append(kept, &liveRow{row: fragment})
		}
	}

	acc.create(merged)
	return kept
}

// mergeCandidate строит итоговую строку кандидата с учётом пересекающихся строк
func mergeCandidate(c *domain.Restriction, overlapping []*domain.Restriction, source domain.Source) *domain.Restriction {
	out := c.Clone()

	// Исключение кандидата дополняется полями сохранённых строк, которые он не задаёт
	if !c.IsPureBlocking() {
		carryStoredFields(out, overlapping)
	}

	// Блокирующая строка с более высоким приоритетом навязывает свой тип
	if blocking := strongestBlock(overlapping); blocking != nil && blocking.Type.Priority() > out.Type.Priority() {
		out.Type = blocking.Type
	}

	if source != domain.SourceManual {
		preserveManual(out, overlapping)
	}

	return out
}

func strongestBlock(rows []*domain.Restriction) *domain.Restriction {
	var strongest *domain.Restriction
	for _, r := range rows {
		if !r.IsPureBlocking() {
			continue
		}
		if strongest == nil || r.Type.Priority() > strongest.Type.Priority() {
			strongest = r
		}
	}
	return strongest
}

// carryStoredFields заполняет поля, отсутствующие в out, значениями пересекающихся строк
// вместе с их источником. При нескольких значениях берётся самое строгое.
func carryStoredFields(out *domain.Restriction, overlapping []*domain.Restriction) {
	for _, f := range domain.NumericFields {
		if out.Get(f) != nil {
			continue
		}

		var (
			value  *int
			source domain.Source
		)
		for _, r := range overlapping {
			v := r.Get(f)
			if v == nil {
				continue
			}
			if picked := mostRestrictive(f, value, v); picked == v {
				value, source = v, r.SourceOf(f)
			}
		}

		if value != nil {
			out.Set(f, value)
			out.SetSource(f, source)
		}
	}
}

// preserveManual переносит MANUAL-поля сохранённых строк в итоговую строку.
// Если MANUAL-значение есть в нескольких строках, берётся самое строгое.
func preserveManual(out *domain.Restriction, overlapping []*domain.Restriction) {
	preserved := make(map[domain.Field]bool)

	for _, r := range overlapping {
		for _, f := range domain.NumericFields {
			v := r.Get(f)
			if v == nil || r.SourceOf(f) != domain.SourceManual {
				continue
			}
			if preserved[f] {
				v = mostRestrictive(f, out.Get(f), v)
			}
			out.Set(f, v)
			out.SetSource(f, domain.SourceManual)
			preserved[f] = true
		}
	}
}

// fragmentsOutside возвращает части строки, которые кандидат не покрывает:
// до и после периода кандидата, а также дни недели вне маски кандидата внутри пересечения
func fragmentsOutside(row, c *domain.Restriction) []*domain.Restriction {
	fragments := make([]*domain.Restriction, 0, 3)

	if row.FromDate.Before(c.FromDate) {
		f := fragmentOf(row)
		f.ToDate = c.FromDate.AddDate(0, 0, -1)
		fragments = append(fragments, f)
	}

	if row.ToDate.After(c.ToDate) {
		f := fragmentOf(row)
		f.FromDate = c.ToDate.AddDate(0, 0, 1)
		fragments = append(fragments, f)
	}

	if remaining := domain.SubtractWeekdays(row.Weekdays, c.Weekdays); len(remaining) > 0 {
		f := fragmentOf(row)
		f.FromDate = domain.MaxDate(row.FromDate, c.FromDate)
		f.ToDate = domain.MinDate(row.ToDate, c.ToDate)
		f.Weekdays = remaining
		fragments = append(fragments, f)
	}

	out := fragments[:0]
	for _, f := range fragments {
		if f.CoversAnyDay() {
			out = append(out, f)
		}
	}
	return out
}

func fragmentOf(row *domain.Restriction) *domain.Restriction {
	f := row.Clone()
	f.ID = ""
	f.CreatedAt = time.Time{}
	f.UpdatedAt = time.Time{}
	return f
}

// prepareCandidates нормализует и валидирует кандидатов, заполняет карту источников
func prepareCandidates(candidates []*domain.Restriction, source domain.Source) ([]*domain.Restriction, error) {
	prepared := make([]*domain.Restriction, 0, len(candidates))

	for i, c := range candidates {
		if c == nil {
			return nil, fmt.Errorf("%w: candidate %d is nil", ErrInvalidInput, i)
		}

		p := c.Clone()
		p.ID = ""
		p.Normalize()

		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: candidate %d: %v", ErrInvalidInput, i, err)
		}

		p.Source = resolveSources(p, source)
		prepared = append(prepared, p)
	}

	return prepared, nil
}

// resolveSources оставляет явные источники только для заполненных полей,
// остальным заполненным полям назначает источник операции
func resolveSources(r *domain.Restriction, source domain.Source) domain.SourceMap {
	resolved := make(domain.SourceMap)
	for _, f := range r.PresentFields() {
		if explicit := r.SourceOf(f); explicit != "" {
			resolved[f] = explicit
			continue
		}
		resolved[f] = source
	}
	return resolved
}

// mostRestrictive max для минимумов, min для максимумов; nil проигрывает значению
func mostRestrictive(f domain.Field, a, b *int) *int {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case f.IsMinimum() && *b > *a, !f.IsMinimum() && *b < *a:
		return b
	default:
		return a
	}
}

// sameContent сравнивает строки без учёта ID и временных меток
func sameContent(a, b *domain.Restriction) bool {
	if !dedupKeyOf(a).equal(dedupKeyOf(b)) {
		return false
	}
	for _, f := range domain.NumericFields {
		va, vb := a.Get(f), b.Get(f)
		if !ptr.Equal(va, vb) {
			return false
		}
		if va != nil && a.SourceOf(f) != b.SourceOf(f) {
			return false
		}
	}
	if a.IsDerived() != b.IsDerived() {
		return false
	}
	if a.IsDerived() {
		pa, pb := a.Metadata.ParentRestrictionID, b.Metadata.ParentRestrictionID
		if !ptr.Equal(pa, pb) {
			return false
		}
	}
	return true
}
