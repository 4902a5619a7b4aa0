package charge

// ChargeRequest is the payload evaluated by [Evaluator.Charge].
type ChargeRequest struct {
	// Amount to charge.
	Amount Money `json:"amount" validate:"required"`
	// Card used to pay.
	CreditCard CreditCard `json:"credit_card" validate:"required"`
	// Free-text name of the destination country.
	//
	// Example: France
	ShippingCountry string `json:"shipping_country"`
}

// CreditCard carries the transient card details of a charge.
type CreditCard struct {
	// Card number. Spaces and dashes are ignored.
	Number string `json:"credit_card_number" validate:"required,max=32"`
	// Expiration month, 1 to 12.
	ExpirationMonth int `json:"credit_card_expiration_month" validate:"required,gte=1,lte=12"`
	// Four digit expiration year.
	ExpirationYear int `json:"credit_card_expiration_year" validate:"required,gte=1000,lte=9999"`
}

// ChargeResult is returned for approved charges.
type ChargeResult struct {
	// Opaque identifier unique to this charge.
	TransactionID string `json:"transaction_id"`
}

// CardBrand is the card network derived from the card number.
type CardBrand string

// Defines values for CardBrand.
const (
	CardBrandVisa       CardBrand = "visa"
	CardBrandMastercard CardBrand = "mastercard"
	CardBrandAmex       CardBrand = "amex"
	CardBrandDiscover   CardBrand = "discover"
	CardBrandDiners     CardBrand = "diners"
	CardBrandJCB        CardBrand = "jcb"
	CardBrandMaestro    CardBrand = "maestro"
	CardBrandUnionPay   CardBrand = "unionpay"
	CardBrandDankort    CardBrand = "dankort"
	CardBrandUnknown    CardBrand = "unknown"
)

// CardDetails describes a card number after classification.
type CardDetails struct {
	Brand CardBrand
	// Valid reports whether the number is well formed for its brand and passes
	// the Luhn checksum.
	Valid bool
	// Last4 holds the final four digits, for display only.
	Last4 string
}
