package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/usecase"
	"github.com/praveenks/lendbook/internal/usecase/mocks"
)

func newLedgerFixture() (*usecase.LedgerUseCase, *mocks.MockLoanRepository, *mocks.MockCollectionRepository, *mocks.MockCache) {
	loanRepo := mocks.NewMockLoanRepository()
	collectionRepo := mocks.NewMockCollectionRepository()
	cache := mocks.NewMockCache()
	uc := usecase.NewLedgerUseCase(loanRepo, collectionRepo, cache, time.Minute, nil, zerolog.Nop())
	return uc, loanRepo, collectionRepo, cache
}

func seedLedgerLoan(repo *mocks.MockLoanRepository) *domain.Loan {
	loan := &domain.Loan{
		ID:                "loan-1",
		LoanNumber:        "LN-1",
		PartyName:         "Ramesh Kumar",
		Amount:            d("10000"),
		InterestRate:      d("10"),
		Duration:          10,
		CollectionType:    domain.CollectionTypeRegular,
		TotalInterest:     d("1000"),
		TotalPayable:      d("11000"),
		InstallmentAmount: d("1100"),
		PrincipalPaid:     d("2000"),
		InterestCollected: d("200"),
		Status:            domain.LoanStatusActive,
	}
	repo.Seed(loan)
	return loan
}

func TestLedgerUseCase_LedgerByParty(t *testing.T) {
	t.Run("summarizes against the party's loan", func(t *testing.T) {
		uc, loanRepo, collectionRepo, _ := newLedgerFixture()
		seedLedgerLoan(loanRepo)
		collectionRepo.Seed(&domain.Collection{
			ID: "c-1", LoanNo: "LN-1", PartyName: "ramesh kumar",
			Amount: d("1100"), PrincipalPaid: d("1000"), InterestPaid: d("100"),
		})
		collectionRepo.Seed(&domain.Collection{
			ID: "c-2", LoanNo: "LN-1", PartyName: "ramesh kumar",
			Amount: d("1100"), PrincipalPaid: d("1000"), InterestPaid: d("100"),
		})

		ledger, err := uc.LedgerByParty(context.Background(), "  Ramesh KUMAR ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(ledger.Collections) != 2 {
			t.Fatalf("expected 2 collections, got %d", len(ledger.Collections))
		}
		if ledger.Summary == nil {
			t.Fatal("expected a summary")
		}
		if !ledger.Summary.TotalPaid.Equal(d("2200")) {
			t.Errorf("total paid = %s, want 2200", ledger.Summary.TotalPaid)
		}
		if !ledger.Summary.RemainingBalance.Equal(d("8800")) {
			t.Errorf("remaining balance = %s, want 8800", ledger.Summary.RemainingBalance)
		}
	})

	t.Run("party without a loan gets history and a nil summary", func(t *testing.T) {
		uc, _, collectionRepo, cache := newLedgerFixture()
		collectionRepo.Seed(&domain.Collection{
			ID: "c-1", LoanNo: "LN-GONE", PartyName: "orphan borrower", Amount: d("500"),
		})

		ledger, err := uc.LedgerByParty(context.Background(), "Orphan Borrower")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ledger.Collections) != 1 {
			t.Fatalf("expected 1 collection, got %d", len(ledger.Collections))
		}
		if ledger.Summary != nil {
			t.Error("expected a nil summary without a loan")
		}

		// Loanless ledgers are never cached.
		if v, _ := cache.Get(context.Background(), "ledger:orphan borrower"); v != "" {
			t.Error("loanless ledger should not be cached")
		}
	})

	t.Run("second query is served from cache", func(t *testing.T) {
		uc, loanRepo, collectionRepo, _ := newLedgerFixture()
		seedLedgerLoan(loanRepo)

		if _, err := uc.LedgerByParty(context.Background(), "Ramesh Kumar"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// A repository failure now proves the cache path is taken.
		repoErr := errors.New("db down")
		collectionRepo.ListByPartyFunc = func(ctx context.Context, partyName string) ([]*domain.Collection, error) {
			return nil, repoErr
		}

		ledger, err := uc.LedgerByParty(context.Background(), "ramesh kumar")
		if err != nil {
			t.Fatalf("expected cache hit, got %v", err)
		}
		if ledger.Summary == nil {
			t.Fatal("cached ledger lost its summary")
		}
	})

	t.Run("unreadable cache entry is dropped and recomputed", func(t *testing.T) {
		uc, loanRepo, _, cache := newLedgerFixture()
		seedLedgerLoan(loanRepo)
		cache.Set(context.Background(), "ledger:ramesh kumar", "{not json", time.Minute)

		ledger, err := uc.LedgerByParty(context.Background(), "Ramesh Kumar")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ledger.Summary == nil {
			t.Fatal("expected a recomputed summary")
		}
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		uc, _, collectionRepo, _ := newLedgerFixture()
		repoErr := errors.New("db down")
		collectionRepo.ListByPartyFunc = func(ctx context.Context, partyName string) ([]*domain.Collection, error) {
			return nil, repoErr
		}

		if _, err := uc.LedgerByParty(context.Background(), "anyone"); !errors.Is(err, repoErr) {
			t.Fatalf("expected repository error, got %v", err)
		}
	})
}

func TestLedgerUseCase_NilCache(t *testing.T) {
	loanRepo := mocks.NewMockLoanRepository()
	collectionRepo := mocks.NewMockCollectionRepository()
	seedLedgerLoan(loanRepo)

	uc := usecase.NewLedgerUseCase(loanRepo, collectionRepo, nil, 0, nil, zerolog.Nop())

	ledger, err := uc.LedgerByParty(context.Background(), "Ramesh Kumar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Summary == nil {
		t.Fatal("expected a summary")
	}
}
