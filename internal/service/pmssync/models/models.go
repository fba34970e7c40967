package models

import (
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
)

// Record эффективное ограничение одной даты для пары room product x rate plan
type Record struct {
	RoomProductID string
	RatePlanID    string
	PmsCode       string
	Date          time.Time
	Restriction   *domain.Restriction
}

// FilterResult записи, прошедшие шлюз, и число отброшенных
type FilterResult struct {
	Kept             []Record
	DroppedByPeriod  int
	DroppedByMaxStay int
}

// Dropped общее число отброшенных записей
func (r *FilterResult) Dropped() int {
	return r.DroppedByPeriod + r.DroppedByMaxStay
}
