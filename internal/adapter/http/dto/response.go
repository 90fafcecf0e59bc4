package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/usecase"
)

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID            string     `json:"id"`
	LoanNo        string     `json:"loanNo"`
	PartyName     string     `json:"partyName"`
	FatherName    string     `json:"fatherName,omitempty"`
	Age           int        `json:"age,omitempty"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	Occupation    string     `json:"occupation,omitempty"`
	Address       string     `json:"address,omitempty"`
	Mobile        string     `json:"mobile,omitempty"`
	Aadhar        string     `json:"aadhar,omitempty"`
	WitnessMobile string     `json:"witnessMobile,omitempty"`
	PhotoURL      string     `json:"photoUrl,omitempty"`
	ProofURL      string     `json:"proofUrl,omitempty"`
	ProofMimeType string     `json:"proofMimeType,omitempty"`

	Amount          decimal.Decimal `json:"amount"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	Duration        int             `json:"duration"`
	AdvanceInterest decimal.Decimal `json:"advanceInterest"`
	CollectionType  string          `json:"collectionType"`
	Date            time.Time       `json:"date"`

	DisbursedAmount   decimal.Decimal `json:"disbursedAmount"`
	TotalInterest     decimal.Decimal `json:"totalInterest"`
	TotalPayable      decimal.Decimal `json:"totalPayable"`
	RealProfit        decimal.Decimal `json:"realProfit"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`

	PrincipalPaid     decimal.Decimal `json:"principalPaid"`
	InterestCollected decimal.Decimal `json:"interestCollected"`
	Status            string          `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	return &LoanResponse{
		ID:                l.ID,
		LoanNo:            l.LoanNumber,
		PartyName:         l.PartyName,
		FatherName:        l.FatherName,
		Age:               l.Age,
		DateOfBirth:       l.DateOfBirth,
		Occupation:        l.Occupation,
		Address:           l.Address,
		Mobile:            l.Mobile,
		Aadhar:            l.Aadhar,
		WitnessMobile:     l.WitnessMobile,
		PhotoURL:          l.PhotoURL,
		ProofURL:          l.ProofURL,
		ProofMimeType:     l.ProofMimeType,
		Amount:            l.Amount,
		InterestRate:      l.InterestRate,
		Duration:          l.Duration,
		AdvanceInterest:   l.AdvanceInterest,
		CollectionType:    string(l.CollectionType),
		Date:              l.Date,
		DisbursedAmount:   l.DisbursedAmount,
		TotalInterest:     l.TotalInterest,
		TotalPayable:      l.TotalPayable,
		RealProfit:        l.RealProfit,
		InstallmentAmount: l.InstallmentAmount,
		PrincipalPaid:     l.PrincipalPaid,
		InterestCollected: l.InterestCollected,
		Status:            string(l.Status),
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.Loan) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}
	return result
}

// ListLoansResponse wraps a loan listing.
type ListLoansResponse struct {
	Loans []*LoanResponse `json:"loans"`
	Total int64           `json:"total"`
}

// CollectionResponse represents a collection in API responses.
type CollectionResponse struct {
	ID             string          `json:"id"`
	LoanNo         string          `json:"loanNo"`
	PartyName      string          `json:"partyName"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	CollectionType string          `json:"collectionType"`
	PrincipalPaid  decimal.Decimal `json:"principalPaid"`
	InterestPaid   decimal.Decimal `json:"interestPaid"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// CollectionFromDomain converts a domain collection to a response.
func CollectionFromDomain(c *domain.Collection) *CollectionResponse {
	return &CollectionResponse{
		ID:             c.ID,
		LoanNo:         c.LoanNo,
		PartyName:      c.PartyName,
		Amount:         c.Amount,
		Date:           c.Date,
		CollectionType: string(c.CollectionType),
		PrincipalPaid:  c.PrincipalPaid,
		InterestPaid:   c.InterestPaid,
		CreatedAt:      c.CreatedAt,
	}
}

// CollectionsFromDomain converts domain collections to responses.
func CollectionsFromDomain(collections []*domain.Collection) []*CollectionResponse {
	result := make([]*CollectionResponse, len(collections))
	for i, c := range collections {
		result[i] = CollectionFromDomain(c)
	}
	return result
}

// ListCollectionsResponse wraps a collection listing with its amount total.
type ListCollectionsResponse struct {
	Collections []*CollectionResponse `json:"collections"`
	TotalAmount decimal.Decimal       `json:"totalAmount"`
}

// ListCollectionsFromUseCase converts a use case listing.
func ListCollectionsFromUseCase(list *usecase.CollectionList) *ListCollectionsResponse {
	return &ListCollectionsResponse{
		Collections: CollectionsFromDomain(list.Collections),
		TotalAmount: list.Total,
	}
}

// LedgerSummaryResponse is the balance block of a party ledger.
type LedgerSummaryResponse struct {
	LoanAmount        decimal.Decimal `json:"loanAmount"`
	TotalPayable      decimal.Decimal `json:"totalPayable"`
	TotalPaid         decimal.Decimal `json:"totalPaid"`
	RemainingBalance  decimal.Decimal `json:"remainingBalance"`
	CollectionType    string          `json:"collectionType"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
}

// LedgerResponse represents a party ledger.
type LedgerResponse struct {
	Collections []*CollectionResponse  `json:"collections"`
	Summary     *LedgerSummaryResponse `json:"summary"`
}

// LedgerFromUseCase converts a use case ledger to a response.
func LedgerFromUseCase(l *usecase.Ledger) *LedgerResponse {
	resp := &LedgerResponse{
		Collections: CollectionsFromDomain(l.Collections),
	}
	if l.Summary != nil {
		resp.Summary = &LedgerSummaryResponse{
			LoanAmount:        l.Summary.LoanAmount,
			TotalPayable:      l.Summary.TotalPayable,
			TotalPaid:         l.Summary.TotalPaid,
			RemainingBalance:  l.Summary.RemainingBalance,
			CollectionType:    string(l.Summary.CollectionType),
			InstallmentAmount: l.Summary.InstallmentAmount,
		}
	}
	return resp
}

// ReconcileResponse reports the outcome of a manual reconciliation.
type ReconcileResponse struct {
	LoanNo string `json:"loanNo"`
	Status string `json:"status"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
