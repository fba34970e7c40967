package models

import "github.com/m04kA/SMC-RestrictionService/internal/domain"

// Cleanup изменения производных ограничений после удаления родительских.
// ToCreate и ToRemove применяются одним вызовом Persist.
type Cleanup struct {
	ToCreate []*domain.Restriction
	ToRemove []*domain.Restriction
}

// RemoveIDs возвращает идентификаторы строк на удаление
func (c *Cleanup) RemoveIDs() []string {
	ids := make([]string, 0, len(c.ToRemove))
	for _, r := range c.ToRemove {
		ids = append(ids, r.ID)
	}
	return ids
}

// IsEmpty true, если изменений нет
func (c *Cleanup) IsEmpty() bool {
	return len(c.ToCreate) == 0 && len(c.ToRemove) == 0
}
