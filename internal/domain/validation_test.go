package domain_test

import (
	"errors"
	"testing"

	"github.com/praveenks/lendbook/internal/domain"
)

func TestValidatePaymentAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{name: "positive amount", amount: "0.01"},
		{name: "zero rejected", amount: "0", wantErr: domain.ErrInvalidAmount},
		{name: "negative rejected", amount: "-5", wantErr: domain.ErrInvalidAmount},
		{name: "over the cap rejected", amount: "1000000001", wantErr: domain.ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidatePaymentAmount(d(tt.amount))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNormalizePartyName(t *testing.T) {
	if got := domain.NormalizePartyName("  Ramesh Kumar "); got != "ramesh kumar" {
		t.Errorf("normalized = %q", got)
	}
}

func TestCollectionTypeValid(t *testing.T) {
	for _, ct := range []domain.CollectionType{domain.CollectionTypeRegular, domain.CollectionTypeMonthly, domain.CollectionTypeFire} {
		if !ct.Valid() {
			t.Errorf("%s should be valid", ct)
		}
	}
	if domain.CollectionType("weekly").Valid() {
		t.Error("unknown type should be invalid")
	}
}
