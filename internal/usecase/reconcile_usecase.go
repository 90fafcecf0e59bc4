package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/infrastructure/metrics"
)

// ReconcileUseCase rebuilds a loan's stored splits and aggregate from its
// full collection history. It is the only writer of historical splits:
// any out-of-order mutation (edit or delete of a past collection) must go
// through here.
type ReconcileUseCase struct {
	txManager      TransactionManager
	loanRepo       LoanRepository
	collectionRepo CollectionRepository
	retrier        Retrier
	locks          *KeyLock
	cache          Cache
	metrics        *metrics.Metrics
	logger         zerolog.Logger
}

// NewReconcileUseCase creates a new ReconcileUseCase. cache may be nil.
func NewReconcileUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	collectionRepo CollectionRepository,
	retrier Retrier,
	locks *KeyLock,
	cache Cache,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		txManager:      txManager,
		loanRepo:       loanRepo,
		collectionRepo: collectionRepo,
		retrier:        retrier,
		locks:          locks,
		cache:          cache,
		metrics:        m,
		logger:         logger,
	}
}

// Reconcile recomputes every stored split and the loan aggregate for
// loanNo. Safe to call for a loan with no collections; a silent no-op when
// the loan does not exist (callers validate existence on their own paths).
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, loanNo string) error {
	uc.locks.Lock(loanNo)
	defer uc.locks.Unlock(loanNo)

	return uc.reconcile(ctx, loanNo)
}

// reconcile is the lock-free body, shared with the collection mutation
// paths that already hold the loan's key lock.
func (uc *ReconcileUseCase) reconcile(ctx context.Context, loanNo string) error {
	if loanNo == "" {
		return nil
	}

	start := time.Now()

	loan, err := uc.loanRepo.GetByLoanNumber(ctx, loanNo)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return nil
		}

		return err
	}

	collections, err := uc.collectionRepo.ListByLoan(ctx, loanNo)
	if err != nil {
		return err
	}

	payments := make([]domain.PaymentRecord, len(collections))
	for i, c := range collections {
		payments[i] = domain.PaymentRecord{
			Amount:         c.Amount,
			CollectionType: c.CollectionType,
		}
	}

	result := domain.ReplayHistory(loan.Amount, loan.InterestRate, payments)

	updates := make([]SplitUpdate, len(collections))
	for i, c := range collections {
		updates[i] = SplitUpdate{
			ID:        c.ID,
			Principal: result.Splits[i].Principal,
			Interest:  result.Splits[i].Interest,
		}
	}

	loan.PrincipalPaid = result.PrincipalPaid
	loan.InterestCollected = result.InterestCollected
	loan.Status = result.Status
	loan.UpdatedAt = time.Now().UTC()

	// Split rewrites and the loan aggregate commit together or not at all.
	// A deadlock or serialization abort rolls the whole transaction back,
	// so retrying it cannot double-apply anything.
	persist := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if len(updates) > 0 {
			if err := uc.collectionRepo.UpdateSplits(ctx, tx, updates); err != nil {
				return err
			}
		}

		if err := uc.loanRepo.UpdateAggregate(ctx, tx, loan); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, persist)
	} else {
		err = persist()
	}

	uc.metrics.RecordReconciliation(time.Since(start).Seconds(), len(updates), err != nil)

	if err != nil {
		uc.logger.Error().Err(err).Str("loan_no", loanNo).Msg("reconciliation failed to persist")
		return err
	}

	// The rewritten splits change what the party ledger reports, so any
	// cached entry is stale the moment the transaction commits.
	if uc.cache != nil && loan.PartyName != "" {
		_ = uc.cache.Delete(ctx, ledgerCacheKey(loan.PartyName))
	}

	uc.logger.Debug().
		Str("loan_no", loanNo).
		Int("collections", len(updates)).
		Str("principal_paid", loan.PrincipalPaid.String()).
		Str("status", string(loan.Status)).
		Msg("loan reconciled")

	return nil
}
