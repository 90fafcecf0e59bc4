package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/praveenks/lendbook/internal/adapter/http/dto"
	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/usecase"
)

type ledgerServiceStub struct {
	byPartyFn func(ctx context.Context, partyName string) (*usecase.Ledger, error)
}

func (s *ledgerServiceStub) LedgerByParty(ctx context.Context, partyName string) (*usecase.Ledger, error) {
	return s.byPartyFn(ctx, partyName)
}

func TestLedgerHandler_ByParty(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		byPartyFn: func(ctx context.Context, partyName string) (*usecase.Ledger, error) {
			if partyName != "Ramesh Kumar" {
				t.Fatalf("expected party name, got %q", partyName)
			}
			return &usecase.Ledger{
				Collections: []*domain.Collection{testCollection()},
				Summary: &domain.LedgerSummary{
					LoanAmount:       decimal.RequireFromString("10000"),
					TotalPayable:     decimal.RequireFromString("11000"),
					TotalPaid:        decimal.RequireFromString("1100"),
					RemainingBalance: decimal.RequireFromString("9900"),
					CollectionType:   domain.CollectionTypeRegular,
				},
			}, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/ledger/Ramesh%20Kumar", nil), "partyName", "Ramesh Kumar")
	rec := httptest.NewRecorder()

	handler.ByParty(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.LedgerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Collections) != 1 {
		t.Fatalf("expected 1 collection, got %d", len(resp.Collections))
	}
	if resp.Summary == nil || !resp.Summary.RemainingBalance.Equal(decimal.RequireFromString("9900")) {
		t.Fatalf("unexpected summary: %+v", resp.Summary)
	}
}

func TestLedgerHandler_ByParty_NoLoan(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		byPartyFn: func(ctx context.Context, partyName string) (*usecase.Ledger, error) {
			return &usecase.Ledger{Collections: []*domain.Collection{testCollection()}}, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/ledger/orphan", nil), "partyName", "orphan")
	rec := httptest.NewRecorder()

	handler.ByParty(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.LedgerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Summary != nil {
		t.Fatalf("expected nil summary, got %+v", resp.Summary)
	}
}
