package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/praveenks/lendbook/internal/adapter/http/dto"
	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/usecase"
)

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error)
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	ListLoans(ctx context.Context, collectionType string) ([]*domain.Loan, error)
	UpdateLoan(ctx context.Context, id string, input usecase.UpdateLoanInput) (*domain.Loan, error)
	DeleteLoan(ctx context.Context, id string) error
}

// ReconcileService defines the behavior needed for manual reconciliation.
type ReconcileService interface {
	Reconcile(ctx context.Context, loanNo string) error
}

// LoanHandler handles loan-related HTTP requests.
type LoanHandler struct {
	loanUC      LoanService
	reconcileUC ReconcileService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService, reconcileUC ReconcileService) *LoanHandler {
	return &LoanHandler{loanUC: loanUC, reconcileUC: reconcileUC}
}

// Create creates a new loan.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.CreateLoan(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create loan", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Get retrieves a loan by ID.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	loan, err := h.loanUC.GetLoan(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// List lists loans, optionally filtered by collection type.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	collectionType := r.URL.Query().Get("collectionType")

	loans, err := h.loanUC.ListLoans(r.Context(), collectionType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list loans", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListLoansResponse{
		Loans: dto.LoansFromDomain(loans),
		Total: int64(len(loans)),
	})
}

// Update applies a partial loan edit.
func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	var req dto.UpdateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.UpdateLoan(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Delete removes a loan.
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	if err := h.loanUC.DeleteLoan(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete loan", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reconcile replays a loan's payment history and rewrites its splits.
func (h *LoanHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	loanNo := chi.URLParam(r, "loanNo")
	if loanNo == "" {
		writeError(w, http.StatusBadRequest, "missing loan number", "")
		return
	}

	if err := h.reconcileUC.Reconcile(r.Context(), loanNo); err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconcileResponse{
		LoanNo: loanNo,
		Status: "reconciled",
	})
}
