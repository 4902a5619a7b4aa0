package charge

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sumup/charge/signature"
)

// verifySignature checks the Signature and Timestamp of r against its
// canonical JSON body. Unsigned requests pass unless signing is enforced.
// The authenticated merchant, if any, is handed to the verifier so it can
// select a per-merchant key.
func (h *ChargeHandler) verifySignature(r *http.Request) *Error {
	requestCtx := requestContextOf(r)
	switch {
	case requestCtx.Signature == "" && requestCtx.Timestamp == "":
		if h.cfg.requireSignedRequests {
			return NewHTTPError(http.StatusUnauthorized, InvalidRequest, SignatureRequired, "Signature and Timestamp headers are required")
		}
		return nil
	case requestCtx.Signature == "" || requestCtx.Timestamp == "":
		return NewHTTPError(http.StatusBadRequest, InvalidRequest, InvalidSignature, "Signature and Timestamp headers must both be provided")
	}

	ts, errPayload := h.signedAt(requestCtx.Timestamp)
	if errPayload != nil {
		return errPayload
	}
	raw, err := signature.ReadAndBufferBody(r)
	if err != nil {
		return NewInvalidRequestError("unable to read request body")
	}
	canonicalBody, err := signature.CanonicalizeJSONBody(raw)
	if err != nil {
		return NewInvalidRequestError("request body must be valid JSON")
	}
	err = h.cfg.signatureVerifier.Verify(r.Context(), signature.Material{
		Signature:     requestCtx.Signature,
		Timestamp:     ts,
		CanonicalBody: canonicalBody,
		Method:        r.Method,
		Path:          r.URL.Path,
		MerchantID:    requestCtx.MerchantID,
	})
	if err != nil {
		return NewHTTPError(http.StatusUnauthorized, InvalidRequest, InvalidSignature, "signature verification failed")
	}
	return nil
}

// signedAt parses the Timestamp header and rejects values outside the
// allowed clock skew.
func (h *ChargeHandler) signedAt(value string) (time.Time, *Error) {
	ts, err := signature.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, NewHTTPError(http.StatusBadRequest, InvalidRequest, InvalidSignature, "Timestamp must be RFC3339")
	}
	ts = ts.UTC()
	if skew := signature.AbsDuration(h.cfg.clock().Sub(ts)); h.cfg.maxClockSkew > 0 && skew > h.cfg.maxClockSkew {
		return time.Time{}, NewHTTPError(http.StatusUnauthorized, InvalidRequest, StaleTimestamp, fmt.Sprintf("timestamp skew exceeds %s", h.cfg.maxClockSkew))
	}
	return ts, nil
}

func (h *ChargeHandler) signatureMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if errPayload := h.verifySignature(r); errPayload != nil {
			writeJSONError(w, errPayload)
			return
		}
		next(w, r)
	}
}
