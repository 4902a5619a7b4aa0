// Package signature signs and verifies charge requests with an HMAC over the
// canonical JSON form of the request body.
package signature

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	canonicaljson "github.com/gibson042/canonicaljson-go"
)

// Material captures the inputs needed to validate a signed request.
type Material struct {
	Signature     string
	Timestamp     time.Time
	CanonicalBody []byte
	Method        string
	Path          string
	// MerchantID is the authenticated merchant, empty when the request was
	// not authenticated.
	MerchantID string
}

// Verifier validates the authenticity of incoming requests.
type Verifier interface {
	Verify(ctx context.Context, material Material) error
}

// VerifierFunc lifts bare functions into [Verifier].
type VerifierFunc func(ctx context.Context, material Material) error

// Verify delegates to the wrapped function.
func (f VerifierFunc) Verify(ctx context.Context, material Material) error {
	return f(ctx, material)
}

// HMAC signs and verifies base64url-encoded HMAC-SHA256 signatures of
// `RFC3339Nano(timestamp) + "." + canonicalJSON`.
type HMAC struct {
	Key []byte
}

// Sign returns the Signature header value for body sent at ts. The body is
// canonicalized first so key order and whitespace do not matter.
func (s HMAC) Sign(ts time.Time, body []byte) (string, error) {
	if len(s.Key) == 0 {
		return "", errors.New("signature: HMAC requires a non-empty key")
	}
	canonicalBody, err := CanonicalizeJSONBody(body)
	if err != nil {
		return "", fmt.Errorf("signature: canonicalize body: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(s.mac(ts, canonicalBody)), nil
}

// Verify implements [Verifier] by recomputing the expected signature.
func (s HMAC) Verify(_ context.Context, material Material) error {
	if len(s.Key) == 0 {
		return errors.New("signature: HMAC requires a non-empty key")
	}
	decoded, err := base64.RawURLEncoding.DecodeString(material.Signature)
	if err != nil {
		return fmt.Errorf("signature: decode signature: %w", err)
	}
	if !hmac.Equal(decoded, s.mac(material.Timestamp, material.CanonicalBody)) {
		return errors.New("signature: invalid signature")
	}
	return nil
}

func (s HMAC) mac(ts time.Time, canonicalBody []byte) []byte {
	mac := hmac.New(sha256.New, s.Key)
	_, _ = mac.Write(BuildSigningPayload(ts, canonicalBody))
	return mac.Sum(nil)
}

// MerchantKeys verifies each request with the HMAC key of the merchant that
// sent it.
type MerchantKeys map[string][]byte

// Verify implements [Verifier]. Requests from merchants without a key fail.
func (k MerchantKeys) Verify(ctx context.Context, material Material) error {
	key, ok := k[material.MerchantID]
	if !ok {
		return fmt.Errorf("signature: no signing key for merchant %q", material.MerchantID)
	}
	return HMAC{Key: key}.Verify(ctx, material)
}

// ReadAndBufferBody reads the request body while keeping it accessible for later handlers.
func ReadAndBufferBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		r.Body = io.NopCloser(bytes.NewReader(nil))
		return nil, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return raw, nil
}

// CanonicalizeJSONBody normalizes arbitrary JSON into canonical form for signing.
func CanonicalizeJSONBody(raw []byte) ([]byte, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []byte("null"), nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("signature: multiple JSON documents in body")
	}
	return canonicaljson.Marshal(payload)
}

// ParseTimestamp accepts Timestamp header values in RFC3339 or RFC3339Nano format.
func ParseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("signature: empty timestamp")
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, value)
}

// AbsDuration returns the absolute value of the supplied duration.
func AbsDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// BuildSigningPayload constructs the byte string that is HMAC-signed.
func BuildSigningPayload(ts time.Time, canonicalBody []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(ts.UTC().Format(time.RFC3339Nano))
	buf.WriteByte('.')
	buf.Write(canonicalBody)
	return buf.Bytes()
}
