package charge

import (
	"regexp"
	"strings"
	"time"
)

type brandRule struct {
	brand   CardBrand
	pattern *regexp.Regexp
}

// Patterns cover both the issuer prefix and the lengths issued for the brand.
var brandRules = []brandRule{
	{CardBrandVisa, regexp.MustCompile(`^4[0-9]{12}(?:[0-9]{3}){0,2}$`)},
	{CardBrandMastercard, regexp.MustCompile(`^(?:5[1-5][0-9]{2}|222[1-9]|22[3-9][0-9]|2[3-6][0-9]{2}|27[01][0-9]|2720)[0-9]{12}$`)},
	{CardBrandAmex, regexp.MustCompile(`^3[47][0-9]{13}$`)},
	{CardBrandDiners, regexp.MustCompile(`^3(?:0[0-5]|[68][0-9])[0-9]{11}$`)},
	{CardBrandDiscover, regexp.MustCompile(`^6(?:011|5[0-9]{2})[0-9]{12}$`)},
	{CardBrandJCB, regexp.MustCompile(`^(?:2131|1800|35[0-9]{3})[0-9]{11}$`)},
	{CardBrandMaestro, regexp.MustCompile(`^(?:5018|5020|5038|5893|6304|6759|676[1-3])[0-9]{8,15}$`)},
	{CardBrandUnionPay, regexp.MustCompile(`^62[0-9]{14,17}$`)},
	{CardBrandDankort, regexp.MustCompile(`^5019[0-9]{12}$`)},
}

// CardValidator performs the offline card checks of a charge. The zero value
// uses the wall clock.
type CardValidator struct {
	clock func() time.Time
}

// NewCardValidator returns a [CardValidator] reading the current month from clock.
func NewCardValidator(clock func() time.Time) CardValidator {
	return CardValidator{clock: clock}
}

// Validate runs the structural, brand and expiration checks in that order and
// reports the first failure only.
func (v CardValidator) Validate(card CreditCard) (CardDetails, error) {
	details := ClassifyCard(card.Number)
	if !details.Valid {
		return details, newInvalidCardError()
	}
	if details.Brand != CardBrandVisa && details.Brand != CardBrandMastercard {
		return details, newUnacceptedCardBrandError(details.Brand)
	}
	now := time.Now()
	if v.clock != nil {
		now = v.clock()
	}
	if isExpired(now, card.ExpirationMonth, card.ExpirationYear) {
		return details, newExpiredCardError(details.Last4, card.ExpirationMonth, card.ExpirationYear)
	}
	return details, nil
}

// ClassifyCard derives the brand and structural validity of a card number.
func ClassifyCard(number string) CardDetails {
	digits := normalizeCardNumber(number)
	details := CardDetails{
		Brand: CardBrandUnknown,
		Last4: lastFour(digits),
	}
	if !isDigits(digits) {
		return details
	}
	for _, rule := range brandRules {
		if rule.pattern.MatchString(digits) {
			details.Brand = rule.brand
			break
		}
	}
	details.Valid = details.Brand != CardBrandUnknown && passesLuhn(digits)
	return details
}

// isExpired compares months as year*12+month; the expiration month itself is
// still usable.
func isExpired(now time.Time, month, year int) bool {
	current := now.Year()*12 + int(now.Month())
	expiry := year*12 + month
	return current > expiry
}

func normalizeCardNumber(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(number))
}

func lastFour(digits string) string {
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// passesLuhn implements the mod 10 checksum. Input must be digits only.
func passesLuhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		n := int(digits[i] - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}
