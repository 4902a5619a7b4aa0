package charge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sumup/charge/fraud"
)

// FraudScorer scores a transaction from its shipping country index and total
// amount. Implementations must wrap failures to reach the model in
// [fraud.ErrUnavailable].
type FraudScorer interface {
	Score(ctx context.Context, country int64, amount float64) (float64, error)
}

// FraudScorerFunc lifts bare functions into [FraudScorer].
type FraudScorerFunc func(ctx context.Context, country int64, amount float64) (float64, error)

// Score delegates to the wrapped function.
func (f FraudScorerFunc) Score(ctx context.Context, country int64, amount float64) (float64, error) {
	return f(ctx, country, amount)
}

// CountryIndex maps shipping country names to the indices the fraud model was
// trained with.
type CountryIndex map[string]int64

// DefaultCountryIndex returns the table used by the deployed fraud model.
func DefaultCountryIndex() CountryIndex {
	return CountryIndex{
		"United States":  0,
		"Canada":         1,
		"United Kingdom": 2,
		"Australia":      3,
		"Germany":        4,
		"France":         5,
		"Japan":          6,
		"South Korea":    7,
		"China":          8,
		"Russia":         9,
		"Nigeria":        10,
	}
}

// Lookup returns the index for country, or 0 when it is unknown.
func (c CountryIndex) Lookup(country string) int64 {
	if idx, ok := c[country]; ok {
		return idx
	}
	return 0
}

// fraudGate blocks charges it cannot score. It never rejects on the score
// value itself. The zero value is disabled.
type fraudGate struct {
	enabled   bool
	countries CountryIndex
	scorer    FraudScorer
	logger    *slog.Logger
}

// Check scores the transaction when the gate is enabled. If ctx is done when
// scoring fails, ctx.Err() is returned. Otherwise failures wrapping
// [fraud.ErrUnavailable] become [ErrFraudCheckUnavailable] and other errors
// are returned unchanged.
func (g *fraudGate) Check(ctx context.Context, country string, amount Money) error {
	logger := loggerOrDiscard(g.logger)
	if !g.enabled {
		logger.InfoContext(ctx, "fraud detection disabled")
		return nil
	}
	if g.scorer == nil {
		return newFraudCheckUnavailableError(fmt.Errorf("%w: no scorer configured", fraud.ErrUnavailable))
	}
	total := amount.Total()
	score, err := g.scorer.Score(ctx, g.countries.Lookup(country), total)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, fraud.ErrUnavailable) {
			logger.ErrorContext(ctx, "fraud model call failed", slog.Any("error", err))
			return newFraudCheckUnavailableError(err)
		}
		return err
	}
	logger.InfoContext(ctx, "fraud score computed",
		slog.Float64("score", score),
		slog.String("currency", amount.CurrencyCode),
		slog.Float64("amount", total),
		slog.String("shipping_country", country),
	)
	return nil
}
