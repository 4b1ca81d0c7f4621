// Package pricing implements price resolution for number rentals: a global
// markup over the provider's base cost, optionally replaced by a stored
// per-(service, country) override.
package pricing

import (
	"numrent-admin-core/internal/core/domain"
	"numrent-admin-core/pkg/apperror"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// Resolution is the outcome of resolving one (service, country) price.
type Resolution struct {
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Profit         decimal.Decimal `json:"profit"`
	IsOverride     bool            `json:"is_override"`
	// Clamped is set when the computed price was pulled into the configured
	// [minimum, maximum] range, so callers can tell the admin it happened.
	Clamped bool `json:"clamped"`
}

// Resolve computes the user-facing price for a base cost under cfg, with
// override taking precedence when present. It is a pure function: no lookups,
// no side effects.
//
// Rounding is half-up to 2 decimals and applied exactly once, before
// clamping, so re-resolving an already-resolved price cannot drift.
func Resolve(baseCost decimal.Decimal, cfg domain.MarkupConfig, override *domain.PricingRule) (Resolution, error) {
	if baseCost.LessThanOrEqual(decimal.Zero) {
		return Resolution{}, apperror.ErrStaleCost()
	}

	if override != nil {
		if !domain.ValidOverridePrice(override.OverridePrice) {
			return Resolution{}, apperror.ErrOverridePriceOutOfRange(override.OverridePrice.String())
		}
		return Resolution{
			EffectivePrice: override.OverridePrice,
			Profit:         profitOver(override.OverridePrice, baseCost),
			IsOverride:     true,
		}, nil
	}

	if !domain.ValidMarkupPercentage(cfg.MarkupPercentage) {
		return Resolution{}, apperror.ErrMarkupOutOfRange(cfg.MarkupPercentage.String())
	}

	factor := one.Add(cfg.MarkupPercentage.Div(hundred))
	computed := baseCost.Mul(factor).Round(2)

	clamped := false
	if cfg.MinimumPrice.IsPositive() && computed.LessThan(cfg.MinimumPrice) {
		computed = cfg.MinimumPrice
		clamped = true
	}
	if cfg.MaximumPrice.IsPositive() && computed.GreaterThan(cfg.MaximumPrice) {
		computed = cfg.MaximumPrice
		clamped = true
	}

	return Resolution{
		EffectivePrice: computed,
		Profit:         profitOver(computed, baseCost),
		Clamped:        clamped,
	}, nil
}

// profitOver returns max(0, price-baseCost); an override below cost yields
// zero profit, never a negative one.
func profitOver(price, baseCost decimal.Decimal) decimal.Decimal {
	p := price.Sub(baseCost)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}
