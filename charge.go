package charge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sumup/charge/fraud"
)

// Charger is implemented by anything that can authorize a [ChargeRequest].
type Charger interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// Evaluator decides whether a charge is authorized. It runs the fraud gate
// and then the [CardValidator]; the first failure rejects the charge.
//
// An Evaluator holds no per-call state and is safe for concurrent use. The
// zero value skips fraud scoring, checks expiry against the wall clock and
// discards its logs.
type Evaluator struct {
	gate   fraudGate
	cards  CardValidator
	newID  func() string
	logger *slog.Logger
}

var _ Charger = (*Evaluator)(nil)

// NewEvaluator builds an [Evaluator] from cfg. When fraud detection is enabled
// and no [FraudScorer] is supplied, a [fraud.Client] is created for
// cfg.InferenceURL.
func NewEvaluator(cfg Config, opts ...EvaluatorOption) (*Evaluator, error) {
	ec := evaluatorConfig{
		logger: discardLogger,
		clock:  time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&ec)
	}
	logger := slog.New(newRequestContextHandler(ec.logger.Handler()))

	scorer := ec.scorer
	if cfg.FraudDetectionEnabled && scorer == nil {
		client, err := fraud.NewClient(cfg.InferenceURL, cfg.ModelName, cfg.ModelVersion, fraud.WithHTTPClient(ec.httpClient))
		if err != nil {
			return nil, fmt.Errorf("charge: fraud scoring client: %w", err)
		}
		scorer = client
	}
	countries := cfg.CountryIndex
	if countries == nil {
		countries = DefaultCountryIndex()
	}

	return &Evaluator{
		gate: fraudGate{
			enabled:   cfg.FraudDetectionEnabled,
			countries: countries,
			scorer:    scorer,
			logger:    logger,
		},
		cards:  NewCardValidator(ec.clock),
		newID:  ec.newID,
		logger: logger,
	}, nil
}

// Charge authorizes req and returns a fresh transaction identifier, or a
// rejection. Rejections are *ChargeError values; any other error is an
// internal fault.
func (e *Evaluator) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := e.gate.Check(ctx, req.ShippingCountry, req.Amount); err != nil {
		return nil, err
	}
	card, err := e.cards.Validate(req.CreditCard)
	if err != nil {
		return nil, err
	}

	newID := e.newID
	if newID == nil {
		newID = uuid.NewString
	}
	id := newID()
	loggerOrDiscard(e.logger).InfoContext(ctx, "transaction processed",
		slog.String("transaction_id", id),
		slog.String("brand", string(card.Brand)),
		slog.String("last4", card.Last4),
		slog.String("amount", req.Amount.String()),
	)
	return &ChargeResult{TransactionID: id}, nil
}

var discardLogger = slog.New(slog.DiscardHandler)

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return discardLogger
	}
	return logger
}
