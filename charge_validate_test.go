package charge

import (
	"strings"
	"testing"
)

func TestChargeRequestValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate  func(*ChargeRequest)
		wantErr string
	}{
		"valid": {
			mutate: func(*ChargeRequest) {},
		},
		"missing shipping country is allowed": {
			mutate: func(r *ChargeRequest) { r.ShippingCountry = "" },
		},
		"lowercase currency": {
			mutate:  func(r *ChargeRequest) { r.Amount.CurrencyCode = "usd" },
			wantErr: "amount.currency_code must be an uppercase 3-letter ISO-4217 code",
		},
		"missing currency": {
			mutate:  func(r *ChargeRequest) { r.Amount.CurrencyCode = "" },
			wantErr: "amount.currency_code is required",
		},
		"negative units": {
			mutate:  func(r *ChargeRequest) { r.Amount.Units = -1 },
			wantErr: "amount.units must be at least 0",
		},
		"nanos overflow": {
			mutate:  func(r *ChargeRequest) { r.Amount.Nanos = 1_000_000_000 },
			wantErr: "amount.nanos must be at most 999999999",
		},
		"missing card number": {
			mutate:  func(r *ChargeRequest) { r.CreditCard.Number = "" },
			wantErr: "credit_card.credit_card_number is required",
		},
		"oversized card number": {
			mutate:  func(r *ChargeRequest) { r.CreditCard.Number = strings.Repeat("4", 40) },
			wantErr: "credit_card.credit_card_number cannot exceed 32 characters",
		},
		"month out of range": {
			mutate:  func(r *ChargeRequest) { r.CreditCard.ExpirationMonth = 13 },
			wantErr: "credit_card.credit_card_expiration_month must be at most 12",
		},
		"two digit year": {
			mutate:  func(r *ChargeRequest) { r.CreditCard.ExpirationYear = 30 },
			wantErr: "credit_card.credit_card_expiration_year must be at least 1000",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			req := sampleChargeRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %q", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("expected error %q got %q", tt.wantErr, err.Error())
			}
		})
	}
}
