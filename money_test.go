package charge

import "testing"

func TestMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		money     Money
		wantTotal float64
		wantStr   string
	}{
		{Money{CurrencyCode: "USD", Units: 20}, 20, "USD20.00"},
		{Money{CurrencyCode: "USD", Units: 20, Nanos: 500_000_000}, 20.5, "USD20.50"},
		{Money{CurrencyCode: "JPY", Units: 0, Nanos: 1}, 1e-9, "JPY0.000000001"},
	}
	for _, tt := range tests {
		if got := tt.money.Total(); got != tt.wantTotal {
			t.Fatalf("%+v Total() = %v want %v", tt.money, got, tt.wantTotal)
		}
		if got := tt.money.String(); got != tt.wantStr {
			t.Fatalf("%+v String() = %q want %q", tt.money, got, tt.wantStr)
		}
	}
}
