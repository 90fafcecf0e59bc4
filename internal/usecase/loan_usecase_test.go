package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/usecase"
	"github.com/praveenks/lendbook/internal/usecase/mocks"
)

func newLoanUseCase() (*usecase.LoanUseCase, *mocks.MockLoanRepository, *mocks.MockCache) {
	loanRepo := mocks.NewMockLoanRepository()
	cache := mocks.NewMockCache()
	return usecase.NewLoanUseCase(loanRepo, mocks.NewMockIDGenerator(), cache, nil), loanRepo, cache
}

func TestLoanUseCase_CreateLoan(t *testing.T) {
	t.Run("derives the financial figures", func(t *testing.T) {
		uc, _, _ := newLoanUseCase()

		loan, err := uc.CreateLoan(context.Background(), usecase.CreateLoanInput{
			LoanNumber:   "LN-1",
			PartyName:    "Ramesh Kumar",
			Amount:       d("10000"),
			InterestRate: d("10"),
			Duration:     10,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if loan.CollectionType != domain.CollectionTypeRegular {
			t.Errorf("collection type = %s, want regular default", loan.CollectionType)
		}
		if !loan.TotalInterest.Equal(d("1000")) {
			t.Errorf("total interest = %s, want 1000", loan.TotalInterest)
		}
		if !loan.TotalPayable.Equal(d("11000")) {
			t.Errorf("total payable = %s, want 11000", loan.TotalPayable)
		}
		if !loan.InstallmentAmount.Equal(d("1100")) {
			t.Errorf("installment = %s, want 1100", loan.InstallmentAmount)
		}
		if !loan.DisbursedAmount.Equal(d("10000")) {
			t.Errorf("disbursed = %s, want 10000", loan.DisbursedAmount)
		}
		if !loan.PrincipalPaid.IsZero() || !loan.InterestCollected.IsZero() {
			t.Error("new loan must start with a zero aggregate")
		}
		if loan.Status != domain.LoanStatusActive {
			t.Errorf("status = %s, want active", loan.Status)
		}
	})

	t.Run("advance interest reduces disbursement", func(t *testing.T) {
		uc, _, _ := newLoanUseCase()

		loan, err := uc.CreateLoan(context.Background(), usecase.CreateLoanInput{
			PartyName:       "Suresh",
			Amount:          d("10000"),
			InterestRate:    d("10"),
			Duration:        10,
			AdvanceInterest: d("500"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !loan.DisbursedAmount.Equal(d("9500")) {
			t.Errorf("disbursed = %s, want 9500", loan.DisbursedAmount)
		}
		if !loan.RealProfit.Equal(d("1500")) {
			t.Errorf("real profit = %s, want 1500", loan.RealProfit)
		}
	})

	t.Run("missing loan number falls back to the generated id", func(t *testing.T) {
		uc, _, _ := newLoanUseCase()

		loan, err := uc.CreateLoan(context.Background(), usecase.CreateLoanInput{
			PartyName:    "Suresh",
			Amount:       d("1000"),
			InterestRate: d("5"),
			Duration:     5,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loan.LoanNumber != loan.ID {
			t.Errorf("loan number = %q, want the id %q", loan.LoanNumber, loan.ID)
		}
	})

	t.Run("invalid terms rejected", func(t *testing.T) {
		uc, _, _ := newLoanUseCase()

		cases := []usecase.CreateLoanInput{
			{Amount: d("0"), InterestRate: d("10"), Duration: 10},
			{Amount: d("1000"), InterestRate: d("0"), Duration: 10},
			{Amount: d("1000"), InterestRate: d("10"), Duration: 0},
		}
		for _, input := range cases {
			if _, err := uc.CreateLoan(context.Background(), input); !errors.Is(err, domain.ErrInvalidLoanTerms) {
				t.Errorf("input %+v: expected ErrInvalidLoanTerms, got %v", input, err)
			}
		}
	})
}

func TestLoanUseCase_UpdateLoan(t *testing.T) {
	seed := func(repo *mocks.MockLoanRepository) *domain.Loan {
		loan := &domain.Loan{
			ID:                "loan-1",
			LoanNumber:        "LN-1",
			PartyName:         "Ramesh Kumar",
			Amount:            d("10000"),
			InterestRate:      d("10"),
			Duration:          10,
			CollectionType:    domain.CollectionTypeRegular,
			DisbursedAmount:   d("10000"),
			TotalInterest:     d("1000"),
			TotalPayable:      d("11000"),
			InstallmentAmount: d("1100"),
			Status:            domain.LoanStatusActive,
		}
		repo.Seed(loan)
		return loan
	}

	t.Run("changing one term recomputes all derived figures", func(t *testing.T) {
		uc, repo, _ := newLoanUseCase()
		seed(repo)

		rate := d("20")
		loan, err := uc.UpdateLoan(context.Background(), "loan-1", usecase.UpdateLoanInput{
			InterestRate: &rate,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !loan.TotalInterest.Equal(d("2000")) {
			t.Errorf("total interest = %s, want 2000", loan.TotalInterest)
		}
		if !loan.TotalPayable.Equal(d("12000")) {
			t.Errorf("total payable = %s, want 12000", loan.TotalPayable)
		}
		if !loan.InstallmentAmount.Equal(d("1200")) {
			t.Errorf("installment = %s, want 1200", loan.InstallmentAmount)
		}
	})

	t.Run("borrower-only edit leaves derived figures alone", func(t *testing.T) {
		uc, repo, _ := newLoanUseCase()
		seed(repo)

		mobile := "9876543210"
		loan, err := uc.UpdateLoan(context.Background(), "loan-1", usecase.UpdateLoanInput{
			Mobile: &mobile,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if loan.Mobile != "9876543210" {
			t.Errorf("mobile = %q, want the new value", loan.Mobile)
		}
		if !loan.TotalInterest.Equal(d("1000")) || !loan.InstallmentAmount.Equal(d("1100")) {
			t.Error("derived figures must not change on a borrower edit")
		}
	})

	t.Run("renaming the party invalidates both ledger cache entries", func(t *testing.T) {
		uc, repo, cache := newLoanUseCase()
		seed(repo)
		cache.Set(context.Background(), "ledger:ramesh kumar", "{}", 0)
		cache.Set(context.Background(), "ledger:suresh", "{}", 0)

		name := "Suresh"
		if _, err := uc.UpdateLoan(context.Background(), "loan-1", usecase.UpdateLoanInput{PartyName: &name}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if v, _ := cache.Get(context.Background(), "ledger:ramesh kumar"); v != "" {
			t.Error("old party cache entry should be gone")
		}
		if v, _ := cache.Get(context.Background(), "ledger:suresh"); v != "" {
			t.Error("new party cache entry should be gone")
		}
	})

	t.Run("unknown loan", func(t *testing.T) {
		uc, _, _ := newLoanUseCase()

		_, err := uc.UpdateLoan(context.Background(), "missing", usecase.UpdateLoanInput{})
		if !errors.Is(err, domain.ErrLoanNotFound) {
			t.Fatalf("expected ErrLoanNotFound, got %v", err)
		}
	})
}

func TestLoanUseCase_DeleteLoan(t *testing.T) {
	uc, repo, cache := newLoanUseCase()
	repo.Seed(&domain.Loan{ID: "loan-1", LoanNumber: "LN-1", PartyName: "Ramesh Kumar", Amount: d("1000"), Status: domain.LoanStatusActive})
	cache.Set(context.Background(), "ledger:ramesh kumar", "{}", 0)

	if err := uc.DeleteLoan(context.Background(), "loan-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := repo.GetByID(context.Background(), "loan-1"); !errors.Is(err, domain.ErrLoanNotFound) {
		t.Error("deleted loan should be gone")
	}
	if v, _ := cache.Get(context.Background(), "ledger:ramesh kumar"); v != "" {
		t.Error("ledger cache entry should be gone")
	}
}

func TestLoanUseCase_ListLoans(t *testing.T) {
	uc, repo, _ := newLoanUseCase()
	repo.Seed(&domain.Loan{ID: "a", LoanNumber: "LN-A", CollectionType: domain.CollectionTypeRegular, Amount: d("1000")})
	repo.Seed(&domain.Loan{ID: "b", LoanNumber: "LN-B", CollectionType: domain.CollectionTypeMonthly, Amount: d("2000")})

	all, err := uc.ListLoans(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 loans, got %d", len(all))
	}

	monthly, err := uc.ListLoans(context.Background(), "monthly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(monthly) != 1 || monthly[0].ID != "b" {
		t.Fatalf("expected only the monthly loan, got %d", len(monthly))
	}
}

func TestLoanUseCase_CreateLoan_RepositoryFailure(t *testing.T) {
	uc, repo, _ := newLoanUseCase()
	repoErr := errors.New("connection reset")
	repo.CreateFunc = func(ctx context.Context, loan *domain.Loan) error { return repoErr }

	_, err := uc.CreateLoan(context.Background(), usecase.CreateLoanInput{
		PartyName:    "Suresh",
		Amount:       d("1000"),
		InterestRate: d("5"),
		Duration:     5,
	})
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}
