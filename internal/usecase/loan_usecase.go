package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/infrastructure/metrics"
)

// LoanUseCase handles loan lifecycle: creation, term edits with derived
// figure recomputation, listing and deletion.
type LoanUseCase struct {
	loanRepo LoanRepository
	idGen    IDGenerator
	cache    Cache
	metrics  *metrics.Metrics
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(loanRepo LoanRepository, idGen IDGenerator, cache Cache, m *metrics.Metrics) *LoanUseCase {
	return &LoanUseCase{
		loanRepo: loanRepo,
		idGen:    idGen,
		cache:    cache,
		metrics:  m,
	}
}

// CreateLoanInput represents a new lending agreement.
type CreateLoanInput struct {
	LoanNumber    string
	PartyName     string
	FatherName    string
	Age           int
	DateOfBirth   *time.Time
	Occupation    string
	Address       string
	Mobile        string
	Aadhar        string
	WitnessMobile string
	PhotoURL      string
	ProofURL      string
	ProofMimeType string

	Amount          decimal.Decimal
	InterestRate    decimal.Decimal
	Duration        int
	AdvanceInterest decimal.Decimal
	CollectionType  domain.CollectionType
	Date            time.Time
}

// CreateLoan validates the terms, derives the financial figures and stores
// the loan with a zero aggregate.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, error) {
	collectionType := input.CollectionType
	if collectionType == "" {
		collectionType = domain.CollectionTypeRegular
	}

	terms, err := domain.ComputeTerms(input.Amount, input.InterestRate, input.Duration, input.AdvanceInterest, collectionType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	loanNumber := strings.TrimSpace(input.LoanNumber)
	id := uc.idGen.Generate()
	if loanNumber == "" {
		// The business key is normally assigned by the office; fall back
		// to the internal id so the record is still addressable.
		loanNumber = id
	}

	date := input.Date
	if date.IsZero() {
		date = now
	}

	loan := &domain.Loan{
		ID:            id,
		LoanNumber:    loanNumber,
		PartyName:     input.PartyName,
		FatherName:    input.FatherName,
		Age:           input.Age,
		DateOfBirth:   input.DateOfBirth,
		Occupation:    input.Occupation,
		Address:       input.Address,
		Mobile:        input.Mobile,
		Aadhar:        input.Aadhar,
		WitnessMobile: input.WitnessMobile,
		PhotoURL:      input.PhotoURL,
		ProofURL:      input.ProofURL,
		ProofMimeType: input.ProofMimeType,

		Amount:          input.Amount,
		InterestRate:    input.InterestRate,
		Duration:        input.Duration,
		AdvanceInterest: input.AdvanceInterest,
		CollectionType:  collectionType,
		Date:            date,

		DisbursedAmount:   terms.DisbursedAmount,
		TotalInterest:     terms.TotalInterest,
		TotalPayable:      terms.TotalPayable,
		RealProfit:        terms.RealProfit,
		InstallmentAmount: terms.InstallmentAmount,

		PrincipalPaid:     decimal.Zero,
		InterestCollected: decimal.Zero,
		Status:            domain.LoanStatusActive,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	uc.metrics.RecordLoanCreated()

	return loan, nil
}

// UpdateLoanInput patches a loan. Nil fields are untouched.
type UpdateLoanInput struct {
	PartyName     *string
	FatherName    *string
	Age           *int
	DateOfBirth   *time.Time
	Occupation    *string
	Address       *string
	Mobile        *string
	Aadhar        *string
	WitnessMobile *string
	PhotoURL      *string
	ProofURL      *string
	ProofMimeType *string

	Amount          *decimal.Decimal
	InterestRate    *decimal.Decimal
	Duration        *int
	AdvanceInterest *decimal.Decimal
	CollectionType  *domain.CollectionType
	Date            *time.Time
}

func (i UpdateLoanInput) touchesTerms() bool {
	return i.Amount != nil || i.InterestRate != nil || i.Duration != nil ||
		i.AdvanceInterest != nil || i.CollectionType != nil
}

// UpdateLoan applies a partial edit. Whenever any of the five term inputs
// change, all derived figures are recomputed together; partial
// recomputation is never allowed because the fields depend on each other.
func (uc *LoanUseCase) UpdateLoan(ctx context.Context, id string, input UpdateLoanInput) (*domain.Loan, error) {
	loan, err := uc.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousParty := loan.PartyName

	if input.PartyName != nil {
		loan.PartyName = *input.PartyName
	}
	if input.FatherName != nil {
		loan.FatherName = *input.FatherName
	}
	if input.Age != nil {
		loan.Age = *input.Age
	}
	if input.DateOfBirth != nil {
		loan.DateOfBirth = input.DateOfBirth
	}
	if input.Occupation != nil {
		loan.Occupation = *input.Occupation
	}
	if input.Address != nil {
		loan.Address = *input.Address
	}
	if input.Mobile != nil {
		loan.Mobile = *input.Mobile
	}
	if input.Aadhar != nil {
		loan.Aadhar = *input.Aadhar
	}
	if input.WitnessMobile != nil {
		loan.WitnessMobile = *input.WitnessMobile
	}
	if input.PhotoURL != nil {
		loan.PhotoURL = *input.PhotoURL
	}
	if input.ProofURL != nil {
		loan.ProofURL = *input.ProofURL
	}
	if input.ProofMimeType != nil {
		loan.ProofMimeType = *input.ProofMimeType
	}
	if input.Date != nil {
		loan.Date = *input.Date
	}

	if input.Amount != nil {
		loan.Amount = *input.Amount
	}
	if input.InterestRate != nil {
		loan.InterestRate = *input.InterestRate
	}
	if input.Duration != nil {
		loan.Duration = *input.Duration
	}
	if input.AdvanceInterest != nil {
		loan.AdvanceInterest = *input.AdvanceInterest
	}
	if input.CollectionType != nil {
		loan.CollectionType = *input.CollectionType
	}

	if input.touchesTerms() {
		terms, err := domain.ComputeTerms(loan.Amount, loan.InterestRate, loan.Duration, loan.AdvanceInterest, loan.CollectionType)
		if err != nil {
			return nil, err
		}

		loan.DisbursedAmount = terms.DisbursedAmount
		loan.TotalInterest = terms.TotalInterest
		loan.TotalPayable = terms.TotalPayable
		loan.RealProfit = terms.RealProfit
		loan.InstallmentAmount = terms.InstallmentAmount
	}

	loan.UpdatedAt = time.Now().UTC()

	if err := uc.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	uc.invalidateLedger(ctx, previousParty)
	uc.invalidateLedger(ctx, loan.PartyName)

	return loan, nil
}

// GetLoan retrieves a loan by internal id.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return uc.loanRepo.GetByID(ctx, id)
}

// GetLoanByNumber retrieves a loan by its business key.
func (uc *LoanUseCase) GetLoanByNumber(ctx context.Context, loanNumber string) (*domain.Loan, error) {
	return uc.loanRepo.GetByLoanNumber(ctx, loanNumber)
}

// ListLoans lists loans, optionally filtered by collection type.
func (uc *LoanUseCase) ListLoans(ctx context.Context, collectionType string) ([]*domain.Loan, error) {
	return uc.loanRepo.List(ctx, collectionType)
}

// DeleteLoan removes a loan record. Collections referencing it are left in
// place; they carry the loan number as a weak reference only.
func (uc *LoanUseCase) DeleteLoan(ctx context.Context, id string) error {
	loan, err := uc.loanRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.loanRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidateLedger(ctx, loan.PartyName)

	return nil
}

func (uc *LoanUseCase) invalidateLedger(ctx context.Context, partyName string) {
	if uc.cache == nil || partyName == "" {
		return
	}

	_ = uc.cache.Delete(ctx, ledgerCacheKey(partyName))
}
