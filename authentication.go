package charge

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Merchant is the account an API key belongs to. Charges received over HTTP
// are attributed to it in logs and in signature verification.
type Merchant struct {
	ID string
}

// Authenticator resolves the bearer API key of a request to its [Merchant].
type Authenticator interface {
	Authenticate(ctx context.Context, apiKey string) (Merchant, error)
}

// AuthenticatorFunc lifts bare functions into [Authenticator].
type AuthenticatorFunc func(ctx context.Context, apiKey string) (Merchant, error)

// Authenticate calls f.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, apiKey string) (Merchant, error) {
	return f(ctx, apiKey)
}

var errUnknownAPIKey = errors.New("charge: unknown api key")

// APIKeys is a fixed table of API key to merchant ID.
type APIKeys map[string]string

// ParseAPIKeys reads a comma separated list of key:merchant pairs, e.g.
// "sk_live_1:merchant-a,sk_live_2:merchant-b".
func ParseAPIKeys(s string) (APIKeys, error) {
	keys := APIKeys{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, merchantID, ok := strings.Cut(pair, ":")
		key, merchantID = strings.TrimSpace(key), strings.TrimSpace(merchantID)
		if !ok || key == "" || merchantID == "" {
			return nil, fmt.Errorf("charge: api key entry %q must be key:merchant", pair)
		}
		keys[key] = merchantID
	}
	if len(keys) == 0 {
		return nil, errors.New("charge: no api keys configured")
	}
	return keys, nil
}

// Authenticate compares apiKey against every entry in constant time.
func (k APIKeys) Authenticate(_ context.Context, apiKey string) (Merchant, error) {
	var merchantID string
	for key, id := range k {
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
			merchantID = id
		}
	}
	if merchantID == "" {
		return Merchant{}, errUnknownAPIKey
	}
	return Merchant{ID: merchantID}, nil
}

// bearerToken extracts the API key from an Authorization header value.
func bearerToken(header string) (string, *Error) {
	if header == "" {
		return "", NewHTTPError(http.StatusUnauthorized, InvalidRequest, MissingAuthorization, "Authorization header is required")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", NewHTTPError(http.StatusUnauthorized, InvalidRequest, InvalidAuthorization, "Authorization header must be in the format 'Bearer <api_key>'")
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", NewHTTPError(http.StatusUnauthorized, InvalidRequest, InvalidAuthorization, "API key is required")
	}
	return token, nil
}

// authenticate resolves the merchant of r. Authenticator errors that are
// already an *Error are returned as is; anything else is a 401.
func (h *ChargeHandler) authenticate(r *http.Request) (Merchant, *Error) {
	apiKey, errPayload := bearerToken(requestContextOf(r).Authorization)
	if errPayload != nil {
		return Merchant{}, errPayload
	}
	merchant, err := h.cfg.authenticator.Authenticate(r.Context(), apiKey)
	if err != nil {
		var httpErr *Error
		if errors.As(err, &httpErr) {
			return Merchant{}, httpErr
		}
		return Merchant{}, NewHTTPError(http.StatusUnauthorized, InvalidRequest, InvalidAuthorization, "invalid API key")
	}
	return merchant, nil
}

func (h *ChargeHandler) authenticationMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchant, errPayload := h.authenticate(r)
		if errPayload != nil {
			writeJSONError(w, errPayload)
			return
		}
		next(w, r.WithContext(contextWithMerchant(r.Context(), merchant)))
	}
}
