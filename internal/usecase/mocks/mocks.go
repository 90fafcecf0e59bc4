package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/usecase"
)

// MockLoanRepository is a mock implementation of LoanRepository backed by
// an in-memory map. Any Func field overrides the default behavior.
type MockLoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*domain.Loan

	CreateFunc          func(ctx context.Context, loan *domain.Loan) error
	GetByIDFunc         func(ctx context.Context, id string) (*domain.Loan, error)
	GetByLoanNumberFunc func(ctx context.Context, loanNumber string) (*domain.Loan, error)
	GetByPartyFunc      func(ctx context.Context, partyName string) (*domain.Loan, error)
	ListFunc            func(ctx context.Context, collectionType string) ([]*domain.Loan, error)
	UpdateFunc          func(ctx context.Context, loan *domain.Loan) error
	UpdateAggregateFunc func(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error
	DeleteFunc          func(ctx context.Context, id string) error
}

func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{loans: make(map[string]*domain.Loan)}
}

// Seed stores a loan directly, bypassing Func overrides.
func (m *MockLoanRepository) Seed(loan *domain.Loan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
	return nil
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if loan, ok := m.loans[id]; ok {
		return loan, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) GetByLoanNumber(ctx context.Context, loanNumber string) (*domain.Loan, error) {
	if m.GetByLoanNumberFunc != nil {
		return m.GetByLoanNumberFunc(ctx, loanNumber)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, loan := range m.loans {
		if loan.LoanNumber == loanNumber {
			return loan, nil
		}
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) GetByParty(ctx context.Context, partyName string) (*domain.Loan, error) {
	if m.GetByPartyFunc != nil {
		return m.GetByPartyFunc(ctx, partyName)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := domain.NormalizePartyName(partyName)
	for _, loan := range m.loans {
		if domain.NormalizePartyName(loan.PartyName) == want {
			return loan, nil
		}
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) List(ctx context.Context, collectionType string) ([]*domain.Loan, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, collectionType)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, loan := range m.loans {
		if collectionType == "" || string(loan.CollectionType) == collectionType {
			loans = append(loans, loan)
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].LoanNumber < loans[j].LoanNumber })
	return loans, nil
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.loans[loan.ID]; !ok {
		return domain.ErrLoanNotFound
	}
	m.loans[loan.ID] = loan
	return nil
}

func (m *MockLoanRepository) UpdateAggregate(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	if m.UpdateAggregateFunc != nil {
		return m.UpdateAggregateFunc(ctx, tx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
	return nil
}

func (m *MockLoanRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.loans, id)
	return nil
}

// MockCollectionRepository is an in-memory mock of CollectionRepository.
type MockCollectionRepository struct {
	mu          sync.RWMutex
	collections map[string]*domain.Collection

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, collection *domain.Collection) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Collection, error)
	ListByLoanFunc   func(ctx context.Context, loanNo string) ([]*domain.Collection, error)
	ListByPartyFunc  func(ctx context.Context, partyName string) ([]*domain.Collection, error)
	ListFunc         func(ctx context.Context) ([]*domain.Collection, error)
	ListByFilterFunc func(ctx context.Context, filter usecase.ReportFilter) ([]*domain.Collection, error)
	UpdateFunc       func(ctx context.Context, collection *domain.Collection) error
	UpdateSplitsFunc func(ctx context.Context, tx usecase.Transaction, updates []usecase.SplitUpdate) error
	DeleteFunc       func(ctx context.Context, id string) error
	SumAmountFunc    func(ctx context.Context, filter usecase.ReportFilter) (decimal.Decimal, error)
}

func NewMockCollectionRepository() *MockCollectionRepository {
	return &MockCollectionRepository{collections: make(map[string]*domain.Collection)}
}

// Seed stores a collection directly, bypassing Func overrides.
func (m *MockCollectionRepository) Seed(c *domain.Collection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[c.ID] = c
}

func (m *MockCollectionRepository) Create(ctx context.Context, tx usecase.Transaction, collection *domain.Collection) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, collection)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection.ID] = collection
	return nil
}

func (m *MockCollectionRepository) GetByID(ctx context.Context, id string) (*domain.Collection, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.collections[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCollectionNotFound
}

func (m *MockCollectionRepository) ListByLoan(ctx context.Context, loanNo string) ([]*domain.Collection, error) {
	if m.ListByLoanFunc != nil {
		return m.ListByLoanFunc(ctx, loanNo)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Collection
	for _, c := range m.collections {
		if c.LoanNo == loanNo {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MockCollectionRepository) ListByParty(ctx context.Context, partyName string) ([]*domain.Collection, error) {
	if m.ListByPartyFunc != nil {
		return m.ListByPartyFunc(ctx, partyName)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := domain.NormalizePartyName(partyName)
	var out []*domain.Collection
	for _, c := range m.collections {
		if c.PartyName == want {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *MockCollectionRepository) List(ctx context.Context) ([]*domain.Collection, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Collection
	for _, c := range m.collections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockCollectionRepository) ListByFilter(ctx context.Context, filter usecase.ReportFilter) ([]*domain.Collection, error) {
	if m.ListByFilterFunc != nil {
		return m.ListByFilterFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Collection
	for _, c := range m.collections {
		if matchesFilter(c, filter) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockCollectionRepository) Update(ctx context.Context, collection *domain.Collection) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, collection)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection.ID]; !ok {
		return domain.ErrCollectionNotFound
	}
	m.collections[collection.ID] = collection
	return nil
}

func (m *MockCollectionRepository) UpdateSplits(ctx context.Context, tx usecase.Transaction, updates []usecase.SplitUpdate) error {
	if m.UpdateSplitsFunc != nil {
		return m.UpdateSplitsFunc(ctx, tx, updates)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range updates {
		c, ok := m.collections[u.ID]
		if !ok {
			return domain.ErrCollectionNotFound
		}
		c.PrincipalPaid = u.Principal
		c.InterestPaid = u.Interest
	}
	return nil
}

func (m *MockCollectionRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, id)
	return nil
}

func (m *MockCollectionRepository) SumAmount(ctx context.Context, filter usecase.ReportFilter) (decimal.Decimal, error) {
	if m.SumAmountFunc != nil {
		return m.SumAmountFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, c := range m.collections {
		if matchesFilter(c, filter) {
			total = total.Add(c.Amount)
		}
	}
	return total, nil
}

func matchesFilter(c *domain.Collection, filter usecase.ReportFilter) bool {
	if filter.LoanNo != "" && c.LoanNo != filter.LoanNo {
		return false
	}
	if filter.Day != nil {
		start := time.Date(filter.Day.Year(), filter.Day.Month(), filter.Day.Day(), 0, 0, 0, 0, filter.Day.Location())
		end := start.AddDate(0, 0, 1)
		if c.Date.Before(start) || !c.Date.Before(end) {
			return false
		}
	}
	return true
}

// MockTransaction is a no-op Transaction that records terminal calls.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu           sync.Mutex
	Transactions []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	m.mu.Lock()
	m.Transactions = append(m.Transactions, tx)
	m.mu.Unlock()
	return tx, nil
}

// MockIDGenerator returns sequential test IDs.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu   sync.Mutex
	next int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("test-id-%d", m.next)
}

// MockCache is an in-memory Cache without TTL eviction.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// MockRetrier runs the operation once, no backoff.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}
