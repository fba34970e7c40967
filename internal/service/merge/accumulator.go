package merge

import (
	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/merge/models"
)

type accumulator struct {
	created    []*domain.Restriction
	removed    []*domain.Restriction
	removedIDs map[string]bool
}

func newAccumulator() *accumulator {
	return &accumulator{removedIDs: make(map[string]bool)}
}

func (a *accumulator) create(r *domain.Restriction) {
	a.created = append(a.created, r)
}

func (a *accumulator) remove(r *domain.Restriction) {
	if a.removedIDs[r.ID] {
		return
	}
	a.removedIDs[r.ID] = true
	a.removed = append(a.removed, r)
}

func (a *accumulator) result() *models.Result {
	return &models.Result{
		ToCreate: dedup(a.created),
		ToRemove: a.removed,
	}
}

// dedup схлопывает строки с одинаковым ключом, беря самое строгое значение каждого поля
func dedup(rows []*domain.Restriction) []*domain.Restriction {
	idx := newKeyedIndex[*domain.Restriction]()
	for _, r := range rows {
		e := idx.getOrAdd(dedupKeyOf(r), func() *domain.Restriction { return r })
		if e.value != r {
			combineInto(e.value, r)
		}
	}

	out := make([]*domain.Restriction, 0, len(idx.entries))
	for _, e := range idx.entries {
		out = append(out, e.value)
	}
	return out
}

func combineInto(dst, src *domain.Restriction) {
	for _, f := range domain.NumericFields {
		theirs := src.Get(f)
		if theirs == nil {
			continue
		}

		ours := dst.Get(f)
		switch {
		case ours == nil || mostRestrictive(f, ours, theirs) != ours:
			dst.Set(f, theirs)
			setSource(dst, f, src.SourceOf(f))
		case *ours == *theirs && src.SourceOf(f) == domain.SourceManual:
			dst.SetSource(f, domain.SourceManual)
		}
	}
}

func setSource(r *domain.Restriction, f domain.Field, s domain.Source) {
	if s == "" {
		delete(r.Source, f)
		return
	}
	r.SetSource(f, s)
}
