package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/infrastructure/metrics"
)

// CollectionUseCase handles payment ingestion: recording new collections
// on the fast path, and routing edits and deletes through reconciliation.
type CollectionUseCase struct {
	txManager      TransactionManager
	loanRepo       LoanRepository
	collectionRepo CollectionRepository
	reconciler     *ReconcileUseCase
	locks          *KeyLock
	idGen          IDGenerator
	cache          Cache
	metrics        *metrics.Metrics
}

// NewCollectionUseCase creates a new CollectionUseCase. The reconciler must
// share the same KeyLock so edit/delete paths can hold the loan lock across
// the whole mutation-plus-replay sequence.
func NewCollectionUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	collectionRepo CollectionRepository,
	reconciler *ReconcileUseCase,
	locks *KeyLock,
	idGen IDGenerator,
	cache Cache,
	m *metrics.Metrics,
) *CollectionUseCase {
	return &CollectionUseCase{
		txManager:      txManager,
		loanRepo:       loanRepo,
		collectionRepo: collectionRepo,
		reconciler:     reconciler,
		locks:          locks,
		idGen:          idGen,
		cache:          cache,
		metrics:        m,
	}
}

// AddCollectionInput represents a new payment.
type AddCollectionInput struct {
	LoanNo         string
	PartyName      string
	Amount         decimal.Decimal
	Date           time.Time
	CollectionType domain.CollectionType
	PaymentMode    domain.PaymentMode
}

// AddCollection records a chronologically-latest payment against a loan.
// This is the fast path: the split is computed against principal minus the
// loan's running principal-paid, without replaying history. The loan
// aggregate update and the collection insert commit in one transaction.
func (uc *CollectionUseCase) AddCollection(ctx context.Context, input AddCollectionInput) (*domain.Collection, error) {
	uc.locks.Lock(input.LoanNo)
	defer uc.locks.Unlock(input.LoanNo)

	loan, err := uc.loanRepo.GetByLoanNumber(ctx, input.LoanNo)
	if err != nil {
		return nil, err
	}

	if loan.Closed() {
		uc.metrics.RecordPaymentError("loan_closed")
		return nil, domain.ErrLoanAlreadyClosed
	}

	if err := domain.ValidatePaymentAmount(input.Amount); err != nil {
		uc.metrics.RecordPaymentError("invalid_amount")
		return nil, err
	}

	mode := input.PaymentMode
	if mode == "" {
		mode = domain.PaymentModeNormal
	}

	// A payment without an explicit type inherits the loan's current type
	// and keeps it forever, so later replays interpret it the same way
	// even if the loan's type changes.
	collectionType := input.CollectionType
	if collectionType == "" {
		collectionType = loan.CollectionType
	}

	split, err := domain.SplitPayment(input.Amount, loan.RemainingPrincipal(), loan.InterestRate, collectionType, mode)
	if err != nil {
		uc.metrics.RecordPaymentError("insufficient_closing_amount")
		return nil, err
	}

	now := time.Now().UTC()

	wasClosed := loan.Closed()
	loan.RecordPayment(split)
	loan.UpdatedAt = now

	partyName := input.PartyName
	if partyName == "" {
		partyName = loan.PartyName
	}

	date := input.Date
	if date.IsZero() {
		date = now
	}

	collection := &domain.Collection{
		ID:             uc.idGen.Generate(),
		LoanNo:         input.LoanNo,
		PartyName:      domain.NormalizePartyName(partyName),
		Amount:         input.Amount,
		Date:           date,
		CollectionType: collectionType,
		PrincipalPaid:  split.Principal,
		InterestPaid:   split.Interest,
		CreatedAt:      now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.loanRepo.UpdateAggregate(ctx, tx, loan); err != nil {
		return nil, err
	}

	if err := uc.collectionRepo.Create(ctx, tx, collection); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.metrics.RecordPayment(string(collectionType), string(mode), input.Amount.InexactFloat64())
	if !wasClosed && loan.Closed() {
		uc.metrics.RecordLoanClosed()
	}

	uc.invalidateLedger(ctx, loan.PartyName)

	return collection, nil
}

// UpdateCollectionInput patches a past payment. Nil fields are untouched.
type UpdateCollectionInput struct {
	Amount *decimal.Decimal
	Date   *time.Time
}

// UpdateCollection edits a past payment's amount or date and then replays
// the owning loan's whole history, because every later split depends on
// the principal outstanding at its position.
func (uc *CollectionUseCase) UpdateCollection(ctx context.Context, id string, input UpdateCollectionInput) (*domain.Collection, error) {
	collection, err := uc.collectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.locks.Lock(collection.LoanNo)
	defer uc.locks.Unlock(collection.LoanNo)

	if input.Amount != nil {
		if err := domain.ValidatePaymentAmount(*input.Amount); err != nil {
			return nil, err
		}

		collection.Amount = *input.Amount
	}

	if input.Date != nil {
		collection.Date = *input.Date
	}

	if err := uc.collectionRepo.Update(ctx, collection); err != nil {
		return nil, err
	}

	if err := uc.reconciler.reconcile(ctx, collection.LoanNo); err != nil {
		return nil, err
	}

	uc.invalidateLedger(ctx, collection.PartyName)

	// Return the post-reconciliation record so the caller sees the
	// recomputed split, not the stale one.
	return uc.collectionRepo.GetByID(ctx, id)
}

// DeleteCollection removes a payment and replays the owning loan's history.
func (uc *CollectionUseCase) DeleteCollection(ctx context.Context, id string) error {
	collection, err := uc.collectionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	uc.locks.Lock(collection.LoanNo)
	defer uc.locks.Unlock(collection.LoanNo)

	if err := uc.collectionRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := uc.reconciler.reconcile(ctx, collection.LoanNo); err != nil {
		return err
	}

	uc.invalidateLedger(ctx, collection.PartyName)

	return nil
}

// CollectionList is a set of collections with their summed amount.
type CollectionList struct {
	Collections []*domain.Collection
	Total       decimal.Decimal
}

// ListCollections returns all collections, newest first, with the total.
func (uc *CollectionUseCase) ListCollections(ctx context.Context) (*CollectionList, error) {
	collections, err := uc.collectionRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	total, err := uc.collectionRepo.SumAmount(ctx, ReportFilter{})
	if err != nil {
		return nil, err
	}

	return &CollectionList{Collections: collections, Total: total}, nil
}

// Report returns collections for a calendar day and/or a loan number,
// newest first, with the total. At least one filter is required.
func (uc *CollectionUseCase) Report(ctx context.Context, filter ReportFilter) (*CollectionList, error) {
	if filter.LoanNo == "" && filter.Day == nil {
		return nil, domain.ErrEmptyReportFilter
	}

	collections, err := uc.collectionRepo.ListByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := uc.collectionRepo.SumAmount(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &CollectionList{Collections: collections, Total: total}, nil
}

func (uc *CollectionUseCase) invalidateLedger(ctx context.Context, partyName string) {
	if uc.cache == nil || partyName == "" {
		return
	}

	// Best effort: a stale cache entry expires on its own TTL anyway.
	_ = uc.cache.Delete(ctx, ledgerCacheKey(partyName))
}
