package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"receipt-reconciliation/internal/domain"
	"receipt-reconciliation/internal/engine"
)

const defaultBatchConcurrency = 4

// ValidationUseCase validates stored receipts against stored purchase orders.
type ValidationUseCase struct {
	repo        DocumentRepository
	engine      *engine.Engine
	now         func() time.Time
	newID       func() string
	concurrency int
	locks       *receiptLocks
}

// Option customizes a ValidationUseCase.
type Option func(*ValidationUseCase)

// WithClock replaces the clock used to stamp validation records.
func WithClock(now func() time.Time) Option {
	return func(uc *ValidationUseCase) { uc.now = now }
}

// WithIDGenerator replaces the validation id generator.
func WithIDGenerator(newID func() string) Option {
	return func(uc *ValidationUseCase) { uc.newID = newID }
}

// WithBatchConcurrency bounds how many pairs ValidateBatch runs at once.
func WithBatchConcurrency(n int) Option {
	return func(uc *ValidationUseCase) {
		if n > 0 {
			uc.concurrency = n
		}
	}
}

// NewValidationUseCase creates a new instance of the usecase.
func NewValidationUseCase(repo DocumentRepository, eng *engine.Engine, opts ...Option) *ValidationUseCase {
	uc := &ValidationUseCase{
		repo:        repo,
		engine:      eng,
		now:         time.Now,
		newID:       uuid.NewString,
		concurrency: defaultBatchConcurrency,
		locks:       newReceiptLocks(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ValidateReceipt loads a receipt and a purchase order, validates one against the
// other and stores the verdict under the receipt. Structurally invalid documents
// produce a failed result and nothing is stored. Repository failures are returned.
func (uc *ValidationUseCase) ValidateReceipt(ctx context.Context, receiptID, poID string) (domain.TaskResult, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("receipt_id", receiptID).
		Str("purchase_order_id", poID).
		Logger()

	unlock, err := uc.locks.acquire(ctx, receiptID)
	if err != nil {
		return domain.TaskResult{}, fmt.Errorf("waiting for receipt %s: %w", receiptID, err)
	}
	defer unlock()

	receipt, err := uc.repo.GetReceipt(ctx, receiptID)
	if err != nil {
		return uc.loadFailure(logger, receiptID, poID, "could not get receipt", err)
	}
	po, err := uc.repo.GetPurchaseOrder(ctx, poID)
	if err != nil {
		return uc.loadFailure(logger, receiptID, poID, "could not get purchase order", err)
	}

	verdict := uc.engine.Validate(receipt, po)

	poNumber := po.PONumber
	if poNumber == "" {
		poNumber = poID
	}
	record := domain.ValidationRecord{
		ValidationID: uc.newID(),
		ReceiptID:    receiptID,
		PONumber:     poNumber,
		ValidatedAt:  uc.now().UTC(),
		Results:      verdict,
	}
	if err := uc.repo.SaveValidation(ctx, receiptID, record); err != nil {
		return domain.TaskResult{}, fmt.Errorf("could not save validation for receipt %s: %w", receiptID, err)
	}

	logger.Info().
		Str("validation_id", record.ValidationID).
		Float64("score", verdict.OverallScore).
		Str("confidence", string(verdict.ConfidenceLevel)).
		Int("discrepancies", len(verdict.Discrepancies)).
		Bool("needs_review", verdict.NeedsReview()).
		Msg("receipt validated")

	return domain.TaskResult{
		Status:          domain.TaskStatusCompleted,
		ReceiptID:       receiptID,
		PurchaseOrderID: poID,
		ValidationID:    record.ValidationID,
		ValidationScore: verdict.OverallScore,
		NeedsReview:     verdict.NeedsReview(),
		ConfidenceLevel: verdict.ConfidenceLevel,
		Discrepancies:   verdict.Discrepancies,
		FraudIndicators: verdict.FraudIndicators,
	}, nil
}

// ValidateBatch validates every pair with bounded concurrency. Results keep the
// order of pairs. A pair whose repository access fails is reported as failed
// and does not stop the others; only cancellation aborts the batch.
func (uc *ValidationUseCase) ValidateBatch(ctx context.Context, pairs []domain.ValidationPair) ([]domain.TaskResult, error) {
	results := make([]domain.TaskResult, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := uc.ValidateReceipt(gctx, pair.ReceiptID, pair.PurchaseOrderID)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			if err != nil {
				zerolog.Ctx(gctx).Warn().Err(err).
					Str("receipt_id", pair.ReceiptID).
					Str("purchase_order_id", pair.PurchaseOrderID).
					Msg("validation failed")
				result = failedResult(pair.ReceiptID, pair.PurchaseOrderID, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch validation aborted: %w", err)
	}
	return results, nil
}

// LatestValidation returns the stored validation of a receipt.
func (uc *ValidationUseCase) LatestValidation(ctx context.Context, receiptID string) (domain.ValidationRecord, error) {
	record, err := uc.repo.GetValidation(ctx, receiptID)
	if err != nil {
		return domain.ValidationRecord{}, fmt.Errorf("could not get validation for receipt %s: %w", receiptID, err)
	}
	return record, nil
}

func (uc *ValidationUseCase) loadFailure(logger zerolog.Logger, receiptID, poID, msg string, err error) (domain.TaskResult, error) {
	var invalid *domain.InvalidInputError
	if errors.As(err, &invalid) {
		logger.Warn().Err(err).Msg("rejected invalid input")
		return failedResult(receiptID, poID, err), nil
	}
	return domain.TaskResult{}, fmt.Errorf("%s: %w", msg, err)
}

func failedResult(receiptID, poID string, err error) domain.TaskResult {
	return domain.TaskResult{
		Status:          domain.TaskStatusFailed,
		ReceiptID:       receiptID,
		PurchaseOrderID: poID,
		Discrepancies:   make([]domain.Discrepancy, 0),
		FraudIndicators: domain.NewFraudIndicators(),
		Error:           err.Error(),
	}
}

// receiptLocks serializes work per receipt id. Entries are dropped once no
// caller holds or waits for them.
type receiptLocks struct {
	mu    sync.Mutex
	locks map[string]*receiptLock
}

type receiptLock struct {
	sem     chan struct{}
	waiters int
}

func newReceiptLocks() *receiptLocks {
	return &receiptLocks{locks: make(map[string]*receiptLock)}
}

func (l *receiptLocks) acquire(ctx context.Context, id string) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &receiptLock{sem: make(chan struct{}, 1)}
		l.locks[id] = lock
	}
	lock.waiters++
	l.mu.Unlock()

	select {
	case lock.sem <- struct{}{}:
		return func() {
			<-lock.sem
			l.release(id, lock)
		}, nil
	case <-ctx.Done():
		l.release(id, lock)
		return nil, ctx.Err()
	}
}

func (l *receiptLocks) release(id string, lock *receiptLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.waiters--
	if lock.waiters == 0 {
		delete(l.locks, id)
	}
}
