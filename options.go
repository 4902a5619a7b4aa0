package charge

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sumup/charge/signature"
)

type handlerConfig struct {
	signatureVerifier     signature.Verifier
	maxClockSkew          time.Duration
	requireSignedRequests bool
	middleware            []Middleware
	authenticator         Authenticator
	clock                 func() time.Time
}

type Middleware func(http.HandlerFunc) http.HandlerFunc

func applyMiddleware(h http.HandlerFunc, middleware ...Middleware) http.HandlerFunc {
	for _, m := range middleware {
		h = m(h)
	}
	return h
}

// Option customizes the [ChargeHandler] behavior.
type Option func(*handlerConfig)

// WithSignatureVerifier enables canonical JSON signature enforcement.
func WithSignatureVerifier(verifier signature.Verifier) Option {
	return func(cfg *handlerConfig) {
		cfg.signatureVerifier = verifier
	}
}

// WithMaxClockSkew sets the tolerated absolute difference between the
// Timestamp header and the server clock when verifying signed requests.
func WithMaxClockSkew(skew time.Duration) Option {
	if skew <= 0 {
		panic("charge: max clock skew must be positive")
	}
	return func(cfg *handlerConfig) {
		cfg.maxClockSkew = skew
	}
}

// WithRequireSignedRequests enforces that every request carries Signature and
// Timestamp headers when a verifier is configured.
func WithRequireSignedRequests() Option {
	return func(cfg *handlerConfig) {
		cfg.requireSignedRequests = true
	}
}

// WithMiddleware appends custom middleware in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(cfg *handlerConfig) {
		for _, m := range mw {
			if m == nil {
				continue
			}
			cfg.middleware = append(cfg.middleware, m)
		}
	}
}

// WithAuthenticator requires a Bearer API key on every request and attributes
// the request to the [Merchant] it resolves to.
func WithAuthenticator(auth Authenticator) Option {
	return func(cfg *handlerConfig) {
		cfg.authenticator = auth
	}
}

func handlerWithClock(fn func() time.Time) Option {
	return func(cfg *handlerConfig) {
		cfg.clock = fn
	}
}

type evaluatorConfig struct {
	logger     *slog.Logger
	clock      func() time.Time
	newID      func() string
	scorer     FraudScorer
	httpClient *http.Client
}

// EvaluatorOption customizes the [Evaluator].
type EvaluatorOption func(*evaluatorConfig)

// WithLogger sets the structured logger. Records are discarded by default.
func WithLogger(logger *slog.Logger) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithClock sets the time source used for card expiration checks.
func WithClock(fn func() time.Time) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		if fn != nil {
			cfg.clock = fn
		}
	}
}

// WithIDGenerator replaces the random UUID transaction identifiers.
// The generator must return a distinct value per call.
func WithIDGenerator(fn func() string) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		if fn != nil {
			cfg.newID = fn
		}
	}
}

// WithFraudScorer replaces the HTTP inference client built from [Config].
func WithFraudScorer(scorer FraudScorer) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		cfg.scorer = scorer
	}
}

// WithHTTPClient sets the HTTP client of the inference client built from [Config].
func WithHTTPClient(client *http.Client) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		cfg.httpClient = client
	}
}
