package charge

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type RequestContext struct {
	// API Key used to make requests
	//
	// Example: Bearer api_key_123
	Authorization string
	// Information about the client making this request
	//
	// Example: checkout/1.4.2
	UserAgent string
	// Key used to ensure requests are idempotent
	//
	// Example: idempotency_key_123
	IdempotencyKey string
	// Unique key for each request for tracing purposes
	//
	// Example: request_id_123
	RequestID string
	// Base64 encoded signature of the request body
	//
	// Example: eyJtZX...
	Signature string
	// Formatted as an RFC 3339 string.
	//
	// Example: 2025-09-25T10:30:00Z
	Timestamp string
	// Merchant resolved from the API key by the [Authenticator]. Empty when
	// the handler runs without authentication.
	//
	// Example: merchant_123
	MerchantID string
}

func requestContextFromRequest(r *http.Request) *RequestContext {
	return &RequestContext{
		Authorization:  strings.TrimSpace(r.Header.Get("Authorization")),
		UserAgent:      strings.TrimSpace(r.Header.Get("User-Agent")),
		IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
		RequestID:      strings.TrimSpace(r.Header.Get("Request-Id")),
		Signature:      strings.TrimSpace(r.Header.Get("Signature")),
		Timestamp:      strings.TrimSpace(r.Header.Get("Timestamp")),
	}
}

type requestContextKey struct{}

// requestContextOf returns the metadata stored by [ChargeHandler.ServeHTTP],
// reading the headers of r when none is present.
func requestContextOf(r *http.Request) *RequestContext {
	if requestCtx := RequestContextFromContext(r.Context()); requestCtx != nil {
		return requestCtx
	}
	return requestContextFromRequest(r)
}

// contextWithMerchant returns ctx with a copy of its [RequestContext] carrying
// merchant.
func contextWithMerchant(ctx context.Context, merchant Merchant) context.Context {
	var updated RequestContext
	if requestCtx := RequestContextFromContext(ctx); requestCtx != nil {
		updated = *requestCtx
	}
	updated.MerchantID = merchant.ID
	return ContextWithRequestContext(ctx, &updated)
}

// ContextWithRequestContext returns a copy of ctx carrying requestCtx.
func ContextWithRequestContext(ctx context.Context, requestCtx *RequestContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if requestCtx == nil {
		return ctx
	}
	return context.WithValue(ctx, requestContextKey{}, requestCtx)
}

// RequestContextFromContext extracts the HTTP request metadata previously stored in the context.
func RequestContextFromContext(ctx context.Context) *RequestContext {
	if ctx == nil {
		return nil
	}
	if requestCtx, ok := ctx.Value(requestContextKey{}).(*RequestContext); ok {
		return requestCtx
	}
	return nil
}

// requestContextHandler adds request_id, idempotency_key and merchant_id to
// records logged with a context carrying a [RequestContext].
type requestContextHandler struct {
	next slog.Handler
}

func newRequestContextHandler(next slog.Handler) slog.Handler {
	if _, ok := next.(*requestContextHandler); ok {
		return next
	}
	return &requestContextHandler{next: next}
}

func (h *requestContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *requestContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if requestCtx := RequestContextFromContext(ctx); requestCtx != nil {
		if requestCtx.RequestID != "" {
			r.AddAttrs(slog.String("request_id", requestCtx.RequestID))
		}
		if requestCtx.IdempotencyKey != "" {
			r.AddAttrs(slog.String("idempotency_key", requestCtx.IdempotencyKey))
		}
		if requestCtx.MerchantID != "" {
			r.AddAttrs(slog.String("merchant_id", requestCtx.MerchantID))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *requestContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &requestContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *requestContextHandler) WithGroup(name string) slog.Handler {
	return &requestContextHandler{next: h.next.WithGroup(name)}
}
