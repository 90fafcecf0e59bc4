package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/praveenks/lendbook/internal/adapter/http/dto"
	"github.com/praveenks/lendbook/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	LedgerByParty(ctx context.Context, partyName string) (*usecase.Ledger, error)
}

// LedgerHandler answers party ledger queries.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// ByParty returns the payment history and balance summary for a borrower.
func (h *LedgerHandler) ByParty(w http.ResponseWriter, r *http.Request) {
	partyName := chi.URLParam(r, "partyName")
	if partyName == "" {
		writeError(w, http.StatusBadRequest, "missing party name", "")
		return
	}

	ledger, err := h.ledgerUC.LedgerByParty(r.Context(), partyName)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build ledger", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerFromUseCase(ledger))
}
