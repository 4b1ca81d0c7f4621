package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Override and markup bounds. Admin-entered values outside these ranges are
// rejected, never clamped.
var (
	OverridePriceMin = decimal.NewFromFloat(0.01)
	OverridePriceMax = decimal.NewFromFloat(100.00)
	MarkupPctMin     = decimal.Zero
	MarkupPctMax     = decimal.NewFromInt(200)
)

// PricingRule is an explicit price override for one (service, country) pair.
// When absent, the effective price falls back to the computed markup.
type PricingRule struct {
	ServiceCode   string          `json:"service_code"`
	CountryCode   string          `json:"country_code"`
	OverridePrice decimal.Decimal `json:"override_price"`
	LastUpdatedBy string          `json:"last_updated_by"`
	LastUpdatedAt time.Time       `json:"last_updated_at"`
}

// ValidOverridePrice reports whether price lies within the allowed override range.
func ValidOverridePrice(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(OverridePriceMin) && price.LessThanOrEqual(OverridePriceMax)
}

// ValidMarkupPercentage reports whether pct lies within the allowed markup range.
func ValidMarkupPercentage(pct decimal.Decimal) bool {
	return pct.GreaterThanOrEqual(MarkupPctMin) && pct.LessThanOrEqual(MarkupPctMax)
}

// MarkupConfig is the singleton global pricing configuration. MinimumPrice
// and MaximumPrice bound computed (non-override) prices only.
type MarkupConfig struct {
	MarkupPercentage decimal.Decimal `json:"markup_percentage"`
	MinimumPrice     decimal.Decimal `json:"minimum_price"`
	MaximumPrice     decimal.Decimal `json:"maximum_price"`
	UpdatedBy        string          `json:"updated_by"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// DefaultMarkupConfig returns the configuration used before an admin has set one.
func DefaultMarkupConfig() *MarkupConfig {
	return &MarkupConfig{
		MarkupPercentage: decimal.NewFromInt(30),
		MinimumPrice:     decimal.NewFromFloat(0.10),
		MaximumPrice:     decimal.NewFromInt(50),
	}
}
