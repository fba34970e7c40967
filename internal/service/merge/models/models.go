package models

import "github.com/m04kA/SMC-RestrictionService/internal/domain"

// Result результат слияния: что создать и что удалить.
// Создание и удаление применяются вместе одним вызовом Persist.
type Result struct {
	ToCreate []*domain.Restriction
	ToRemove []*domain.Restriction
}

// RemoveIDs возвращает ID удаляемых ограничений
func (r *Result) RemoveIDs() []string {
	ids := make([]string, 0, len(r.ToRemove))
	for _, removed := range r.ToRemove {
		ids = append(ids, removed.ID)
	}
	return ids
}

// IsEmpty возвращает true, если слияние ничего не меняет
func (r *Result) IsEmpty() bool {
	return len(r.ToCreate) == 0 && len(r.ToRemove) == 0
}
