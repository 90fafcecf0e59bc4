package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/praveenks/lendbook/internal/domain"
)

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByLoanNumber(ctx context.Context, loanNumber string) (*domain.Loan, error)
	// GetByParty resolves a loan by borrower name, case-insensitive exact match.
	GetByParty(ctx context.Context, partyName string) (*domain.Loan, error)
	List(ctx context.Context, collectionType string) ([]*domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) error
	// UpdateAggregate persists only the reconciliation-owned fields
	// (principal paid, interest collected, status) within a transaction.
	UpdateAggregate(ctx context.Context, tx Transaction, loan *domain.Loan) error
	Delete(ctx context.Context, id string) error
}

// SplitUpdate is one staged collection split rewrite produced by replay.
type SplitUpdate struct {
	ID        string
	Principal decimal.Decimal
	Interest  decimal.Decimal
}

// ReportFilter narrows collection reports. Day, when set, matches the
// entire calendar day in the record's timezone.
type ReportFilter struct {
	LoanNo string
	Day    *time.Time
}

// CollectionRepository defines data access for collections.
type CollectionRepository interface {
	Create(ctx context.Context, tx Transaction, collection *domain.Collection) error
	GetByID(ctx context.Context, id string) (*domain.Collection, error)
	// ListByLoan returns a loan's full history sorted ascending by
	// (date, created_at) — the ledger's source of truth for replay order.
	ListByLoan(ctx context.Context, loanNo string) ([]*domain.Collection, error)
	ListByParty(ctx context.Context, partyName string) ([]*domain.Collection, error)
	List(ctx context.Context) ([]*domain.Collection, error)
	ListByFilter(ctx context.Context, filter ReportFilter) ([]*domain.Collection, error)
	Update(ctx context.Context, collection *domain.Collection) error
	// UpdateSplits applies staged split rewrites as one batch inside tx.
	UpdateSplits(ctx context.Context, tx Transaction, updates []SplitUpdate) error
	Delete(ctx context.Context, id string) error
	SumAmount(ctx context.Context, filter ReportFilter) (decimal.Decimal, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Retrier re-runs a storage operation after whole-transaction aborts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
