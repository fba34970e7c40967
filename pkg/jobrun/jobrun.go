package jobrun

import (
	"context"
	"errors"
)

// ErrSkip возвращается из функции обработки, чтобы пометить единицу работы как пропущенную
var ErrSkip = errors.New("jobrun: skipped")

// Outcome результат обработки одной единицы работы
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Result результат по одному ключу
type Result[K any] struct {
	Key     K
	Outcome Outcome
	Err     error
}

// Report собранные результаты прохода по всем ключам
type Report[K any] struct {
	Results []Result[K]
}

// ForEach вызывает fn для каждого ключа и продолжает после ошибок.
// Ошибка одного ключа не прерывает обработку остальных; отмена контекста
// помечает оставшиеся ключи как неуспешные.
func ForEach[K any](ctx context.Context, keys []K, fn func(ctx context.Context, key K) error) *Report[K] {
	report := &Report[K]{Results: make([]Result[K], 0, len(keys))}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			report.Results = append(report.Results, Result[K]{Key: key, Outcome: OutcomeFailed, Err: err})
			continue
		}

		err := fn(ctx, key)
		switch {
		case err == nil:
			report.Results = append(report.Results, Result[K]{Key: key, Outcome: OutcomeSucceeded})
		case errors.Is(err, ErrSkip):
			report.Results = append(report.Results, Result[K]{Key: key, Outcome: OutcomeSkipped, Err: err})
		default:
			report.Results = append(report.Results, Result[K]{Key: key, Outcome: OutcomeFailed, Err: err})
		}
	}

	return report
}

// Succeeded возвращает ключи, обработанные успешно
func (r *Report[K]) Succeeded() []K {
	return r.keys(OutcomeSucceeded)
}

// Skipped возвращает пропущенные ключи
func (r *Report[K]) Skipped() []K {
	return r.keys(OutcomeSkipped)
}

// Failed возвращает результаты с ошибками
func (r *Report[K]) Failed() []Result[K] {
	failed := make([]Result[K], 0)
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err объединяет все ошибки; nil, если неуспешных ключей нет
func (r *Report[K]) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, res.Err)
	}
	return errors.Join(errs...)
}

func (r *Report[K]) keys(outcome Outcome) []K {
	keys := make([]K, 0)
	for _, res := range r.Results {
		if res.Outcome == outcome {
			keys = append(keys, res.Key)
		}
	}
	return keys
}
