package apply_restrictions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/merge"
	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions/models"
	"github.com/m04kA/SMC-RestrictionService/pkg/batch"
)

// UseCase use case применения ограничений: слияние, запись, производные тарифы, PMS
type UseCase struct {
	merger    Merger
	repo      RestrictionRepository
	derived   DerivedProjector
	pusher    PmsPusher
	txManager TransactionManager
	metrics   Metrics
	logger    Logger
	batchSize int
}

// NewUseCase создает новый экземпляр use case.
// pusher может быть nil - тогда отправка в PMS отключена.
func NewUseCase(
	merger Merger,
	repo RestrictionRepository,
	derived DerivedProjector,
	pusher PmsPusher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	batchSize int,
) *UseCase {
	if batchSize <= 0 {
		batchSize = domain.DefaultBatchSize
	}
	return &UseCase{
		merger:    merger,
		repo:      repo,
		derived:   derived,
		pusher:    pusher,
		txManager: txManager,
		metrics:   metrics,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Execute выполняет use case применения ограничений из запроса
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ApplyRestrictions: hotel=%s, restrictions=%d, source=%s", req.HotelID, len(req.Restrictions), req.Source)

	// 1. Валидация входных данных
	candidates, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ApplyRestrictions: validation failed: %v", err)
		return nil, err
	}

	source := req.Source
	if source == "" {
		source = domain.SourceManual
	}

	// 2. Слияние, запись и побочные эффекты
	result, err := uc.Apply(ctx, req.HotelID, candidates, source, Options{Propagate: true, PushToPms: true})
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Created:        models.FromDomainRestrictionList(result.Created).Restrictions,
		Removed:        result.Removed,
		DerivedCreated: result.DerivedCreated,
	}
	return resp, nil
}

// Preview сливает кандидатов без записи
func (uc *UseCase) Preview(ctx context.Context, req *Request) (*PreviewResponse, error) {
	candidates, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("PreviewRestrictions: validation failed: %v", err)
		return nil, err
	}

	source := req.Source
	if source == "" {
		source = domain.SourceManual
	}

	result, err := uc.merger.Merge(ctx, candidates, source)
	if err != nil {
		return nil, uc.mergeError("PreviewRestrictions", err)
	}

	return &PreviewResponse{
		ToCreate: models.FromDomainRestrictionList(result.ToCreate).Restrictions,
		ToRemove: models.FromDomainRestrictionList(result.ToRemove).Restrictions,
	}, nil
}

// Apply сливает и записывает кандидатов частями по batchSize.
// Каждая часть вместе с проекцией на производные тарифы записывается в своей транзакции;
// ошибка части не откатывает предыдущие.
// Используется также автоматизацией LOS и загрузкой из PMS.
func (uc *UseCase) Apply(ctx context.Context, hotelID string, candidates []*domain.Restriction, source domain.Source, opts Options) (*Result, error) {
	result := &Result{Created: make([]*domain.Restriction, 0, len(candidates))}

	for i, chunk := range batch.Chunk(candidates, uc.batchSize) {
		var written chunkResult

		// 1. Слияние, запись и проекция части в одной транзакции
		err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
			var err error
			written, err = uc.writeChunk(txCtx, hotelID, chunk, source, opts.Propagate)
			return err
		})
		if err != nil {
			uc.logger.Error("ApplyRestrictions: chunk %d of hotel=%s failed: %v", i, hotelID, err)
			return nil, uc.mergeError("ApplyRestrictions", err)
		}

		uc.metrics.ObserveMerge(len(written.created)+written.derivedCreated, written.removed)
		result.Created = append(result.Created, written.created...)
		result.DerivedCreated += written.derivedCreated
		result.Removed += written.removed
	}

	// 2. Отправка в PMS; ошибка не отменяет записанные изменения
	if opts.PushToPms && uc.pusher != nil && len(result.Created) > 0 {
		from, to := period(result.Created)
		if err := uc.pusher.PushRange(ctx, hotelID, from, to); err != nil {
			uc.logger.Warn("ApplyRestrictions: PMS push failed for hotel=%s: %v", hotelID, err)
		}
	}

	uc.logger.Info("ApplyRestrictions: hotel=%s created=%d removed=%d derived=%d",
		hotelID, len(result.Created), result.Removed, result.DerivedCreated)

	return result, nil
}

type chunkResult struct {
	created        []*domain.Restriction
	derivedCreated int
	removed        int
}

// writeChunk выполняется внутри транзакции части.
// Производные строки сливаются без повторной проекции.
func (uc *UseCase) writeChunk(txCtx context.Context, hotelID string, chunk []*domain.Restriction, source domain.Source, propagate bool) (chunkResult, error) {
	var out chunkResult

	merged, err := uc.merger.Merge(txCtx, chunk, source)
	if err != nil {
		return out, err
	}
	if merged.IsEmpty() {
		return out, nil
	}

	out.created, err = uc.repo.Persist(txCtx, hotelID, merged.ToCreate, merged.RemoveIDs())
	if err != nil {
		return out, fmt.Errorf("%w: Apply - persist: %v", ErrInternal, err)
	}
	out.removed = len(merged.ToRemove)

	if !propagate || len(out.created) == 0 {
		return out, nil
	}

	projected, err := uc.derived.Project(txCtx, hotelID, out.created)
	if err != nil {
		uc.logger.Error("ApplyRestrictions: derived projection failed for hotel=%s: %v", hotelID, err)
		return out, fmt.Errorf("%w: Apply - project derived: %v", ErrInternal, err)
	}

	for _, derivedChunk := range batch.Chunk(projected, uc.batchSize) {
		child, err := uc.writeChunk(txCtx, hotelID, derivedChunk, source, false)
		if err != nil {
			return out, err
		}
		out.derivedCreated += len(child.created)
		out.removed += child.removed
	}

	return out, nil
}

func (uc *UseCase) mergeError(op string, err error) error {
	switch {
	case errors.Is(err, merge.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, merge.ErrTooManyCandidates):
		return fmt.Errorf("%w: %v", ErrTooManyRestrictions, err)
	case errors.Is(err, ErrInternal):
		return err
	default:
		uc.logger.Error("%s: merge failed: %v", op, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// period общий период строк
func period(rows []*domain.Restriction) (time.Time, time.Time) {
	from, to := rows[0].FromDate, rows[0].ToDate
	for _, r := range rows[1:] {
		from = domain.MinDate(from, r.FromDate)
		to = domain.MaxDate(to, r.ToDate)
	}
	return from, to
}
