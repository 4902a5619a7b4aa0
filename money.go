package charge

import "fmt"

const nanosPerUnit = 1_000_000_000

// Money is an amount in a single currency split into whole units and
// billionths of a unit.
type Money struct {
	// Three letter ISO-4217 code.
	//
	// Example: USD
	CurrencyCode string `json:"currency_code" validate:"required,currency"`
	// Whole units of the amount.
	Units int64 `json:"units" validate:"gte=0"`
	// Fractional part in nano units, 0 to 999,999,999.
	Nanos int32 `json:"nanos" validate:"gte=0,lte=999999999"`
}

// Total returns units + nanos/1e9.
func (m Money) Total() float64 {
	return float64(m.Units) + float64(m.Nanos)/nanosPerUnit
}

// String formats the amount with its currency code, e.g. "USD20.50".
func (m Money) String() string {
	frac := fmt.Sprintf("%09d", m.Nanos)
	cut := len(frac)
	for cut > 2 && frac[cut-1] == '0' {
		cut--
	}
	return fmt.Sprintf("%s%d.%s", m.CurrencyCode, m.Units, frac[:cut])
}
