package charge

import "net/http"

// ErrorType mirrors the error.type field of the HTTP error payload.
type ErrorType string

const (
	InvalidRequest  ErrorType = "invalid_request"  // Missing, malformed or unacceptable input.
	ProcessingError ErrorType = "processing_error" // Internal failure.
)

// ErrorCode is a machine-readable identifier for the specific failure.
type ErrorCode string

const (
	FraudCheckUnavailable ErrorCode = ErrorCode(KindFraudCheckUnavailable) // Fraud model unreachable; charge blocked.
	InvalidCard           ErrorCode = ErrorCode(KindInvalidCard)           // Card number failed format or checksum validation.
	UnacceptedCardBrand   ErrorCode = ErrorCode(KindUnacceptedCardBrand)   // Card brand is not accepted.
	ExpiredCard           ErrorCode = ErrorCode(KindExpiredCard)           // Card is past its expiration month.
	InvalidSignature      ErrorCode = "invalid_signature"                  // Signature is missing or does not match the payload.
	SignatureRequired     ErrorCode = "signature_required"                 // Signed requests are required but headers were missing.
	StaleTimestamp        ErrorCode = "stale_timestamp"                    // Timestamp skew exceeded the allowed window.
	MissingAuthorization  ErrorCode = "missing_authorization"              // Authorization header missing.
	InvalidAuthorization  ErrorCode = "invalid_authorization"              // Authorization header malformed or API key invalid.
)

// Error represents a structured error payload.
type Error struct {
	Type    ErrorType `json:"type"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Param   *string   `json:"param,omitempty"`

	status int `json:"-"`
}

// Error makes *Error satisfy the stdlib error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// StatusCode returns the HTTP status written for the error.
func (e *Error) StatusCode() int {
	if e == nil {
		return 0
	}
	return e.status
}

type errorOption func(*Error)

// WithOffendingParam sets the JSON path for the field that triggered the error.
func WithOffendingParam(jsonPath string) errorOption {
	return func(er *Error) {
		er.Param = &jsonPath
	}
}

// WithStatusCode overrides the HTTP status code returned to the client.
func WithStatusCode(status int) errorOption {
	return func(er *Error) {
		er.status = status
	}
}

// NewInvalidRequestError builds a Bad Request error payload.
func NewInvalidRequestError(message string, opts ...errorOption) *Error {
	return newError(InvalidRequest, ErrorCode(InvalidRequest), message, append([]errorOption{WithStatusCode(http.StatusBadRequest)}, opts...)...)
}

// NewProcessingError builds an Internal Server Error payload.
func NewProcessingError(message string, opts ...errorOption) *Error {
	return newError(ProcessingError, ErrorCode(ProcessingError), message, append([]errorOption{WithStatusCode(http.StatusInternalServerError)}, opts...)...)
}

// NewHTTPError allows callers to control the status code explicitly.
func NewHTTPError(status int, typ ErrorType, code ErrorCode, message string, opts ...errorOption) *Error {
	return newError(typ, code, message, append(opts, WithStatusCode(status))...)
}

// ErrorFromChargeError converts a rejected charge into a Bad Request payload.
// Rejections are always attributed to the caller's input.
func ErrorFromChargeError(err *ChargeError) *Error {
	if err == nil {
		return nil
	}
	var opts []errorOption
	switch err.Kind {
	case KindInvalidCard, KindUnacceptedCardBrand:
		opts = append(opts, WithOffendingParam("$.credit_card.credit_card_number"))
	case KindExpiredCard:
		opts = append(opts, WithOffendingParam("$.credit_card.credit_card_expiration_month"))
	}
	return NewHTTPError(http.StatusBadRequest, InvalidRequest, ErrorCode(err.Kind), err.Error(), opts...)
}

// newError builds a typed error payload.
func newError(typ ErrorType, code ErrorCode, message string, opts ...errorOption) *Error {
	errPayload := &Error{
		Type:    typ,
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(errPayload)
	}
	return errPayload
}
