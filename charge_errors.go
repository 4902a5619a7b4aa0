package charge

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a rejected charge.
type ErrorKind string

const (
	KindFraudCheckUnavailable ErrorKind = "fraud_check_unavailable" // Scoring call failed; the charge is blocked.
	KindInvalidCard           ErrorKind = "invalid_card"            // Number failed format or checksum validation.
	KindUnacceptedCardBrand   ErrorKind = "unaccepted_card_brand"   // Valid card of a brand we do not accept.
	KindExpiredCard           ErrorKind = "expired_card"            // Expiration month is in the past.
)

// Sentinels for errors.Is. Matching compares the kind only.
var (
	ErrFraudCheckUnavailable = &ChargeError{Kind: KindFraudCheckUnavailable}
	ErrInvalidCard           = &ChargeError{Kind: KindInvalidCard}
	ErrUnacceptedCardBrand   = &ChargeError{Kind: KindUnacceptedCardBrand}
	ErrExpiredCard           = &ChargeError{Kind: KindExpiredCard}
)

// ChargeError is returned when a charge is rejected. All kinds are terminal
// and caused by the data the caller supplied.
type ChargeError struct {
	Kind ErrorKind
	// Brand is set for [KindUnacceptedCardBrand].
	Brand CardBrand
	// Last4, Month and Year are set for [KindExpiredCard].
	Last4 string
	Month int
	Year  int

	err error
}

func (e *ChargeError) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindFraudCheckUnavailable:
		return "Fraud check service unavailable"
	case KindInvalidCard:
		return "Credit card info is invalid"
	case KindUnacceptedCardBrand:
		return fmt.Sprintf("Sorry, we cannot process %s credit cards. Only VISA or MasterCard is accepted.", e.Brand)
	case KindExpiredCard:
		return fmt.Sprintf("Your credit card (ending %s) expired on %d/%d", e.Last4, e.Month, e.Year)
	default:
		return string(e.Kind)
	}
}

// Unwrap exposes the underlying cause, if any.
func (e *ChargeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Is reports whether target is a *ChargeError of the same kind.
func (e *ChargeError) Is(target error) bool {
	t, ok := target.(*ChargeError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// IsClientFault reports whether err rejects the charge because of the input
// supplied by the caller, as opposed to an internal fault.
func IsClientFault(err error) bool {
	var chargeErr *ChargeError
	return errors.As(err, &chargeErr)
}

func newFraudCheckUnavailableError(cause error) *ChargeError {
	return &ChargeError{Kind: KindFraudCheckUnavailable, err: cause}
}

func newInvalidCardError() *ChargeError {
	return &ChargeError{Kind: KindInvalidCard}
}

func newUnacceptedCardBrandError(brand CardBrand) *ChargeError {
	return &ChargeError{Kind: KindUnacceptedCardBrand, Brand: brand}
}

func newExpiredCardError(last4 string, month, year int) *ChargeError {
	return &ChargeError{Kind: KindExpiredCard, Last4: last4, Month: month, Year: year}
}
