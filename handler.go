package charge

import (
	"net/http"
	"time"
)

// ChargeHandler exposes a [Charger] over net/http.
type ChargeHandler struct {
	service Charger
	mux     *http.ServeMux
	cfg     handlerConfig
}

// NewChargeHandler wires the charge route to the provided [Charger].
func NewChargeHandler(service Charger, opts ...Option) *ChargeHandler {
	if service == nil {
		panic("charge: service is required")
	}
	cfg := handlerConfig{
		maxClockSkew: 5 * time.Minute,
		clock:        time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.requireSignedRequests && cfg.signatureVerifier == nil {
		panic("charge: signature verifier required when signed requests are enforced")
	}
	if cfg.clock == nil {
		cfg.clock = time.Now
	}
	h := &ChargeHandler{
		service: service,
		mux:     http.NewServeMux(),
		cfg:     cfg,
	}
	// applyMiddleware wraps in order, so the last entry runs first: custom
	// middleware, then authentication, then signature verification.
	var middleware []Middleware
	if cfg.signatureVerifier != nil {
		middleware = append(middleware, h.signatureMiddleware)
	}
	if cfg.authenticator != nil {
		middleware = append(middleware, h.authenticationMiddleware)
	}
	middleware = append(middleware, cfg.middleware...)
	h.registerRoutes(middleware...)
	return h
}

// ServeHTTP satisfies http.Handler.
func (h *ChargeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestCtx := requestContextFromRequest(r)
	ctx := ContextWithRequestContext(r.Context(), requestCtx)
	h.mux.ServeHTTP(w, r.WithContext(ctx))
}

func (h *ChargeHandler) registerRoutes(middleware ...Middleware) {
	h.mux.HandleFunc("POST /charge", applyMiddleware(h.handleCharge, middleware...))
}

func (h *ChargeHandler) handleCharge(w http.ResponseWriter, r *http.Request) {
	var req ChargeRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeJSONError(w, NewInvalidRequestError(err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSONError(w, NewInvalidRequestError(err.Error()))
		return
	}
	resp, err := h.service.Charge(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
