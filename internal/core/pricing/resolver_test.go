package pricing

import (
	"testing"
	"time"

	"numrent-admin-core/internal/core/domain"
	"numrent-admin-core/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testConfig() domain.MarkupConfig {
	return domain.MarkupConfig{
		MarkupPercentage: dec("30"),
		MinimumPrice:     dec("0.10"),
		MaximumPrice:     dec("50.00"),
	}
}

func TestResolve_MarkupRoundsHalfUp(t *testing.T) {
	// 0.25 * 1.30 = 0.325 -> 0.33 under half-up rounding at 2 decimals.
	res, err := Resolve(dec("0.25"), testConfig(), nil)
	require.NoError(t, err)
	assert.True(t, res.EffectivePrice.Equal(dec("0.33")), "got %s", res.EffectivePrice)
	assert.True(t, res.Profit.Equal(dec("0.08")), "got %s", res.Profit)
	assert.False(t, res.IsOverride)
	assert.False(t, res.Clamped)
}

func TestResolve_PriceNeverBelowCostForNonNegativeMarkup(t *testing.T) {
	costs := []string{"0.25", "1.00", "3.47", "12.99", "38.00"}
	markups := []string{"0", "5", "30", "75", "200"}

	for _, c := range costs {
		for _, m := range markups {
			cfg := testConfig()
			cfg.MarkupPercentage = dec(m)
			res, err := Resolve(dec(c), cfg, nil)
			require.NoError(t, err)

			if !res.Clamped {
				assert.True(t, res.EffectivePrice.GreaterThanOrEqual(dec(c)),
					"cost %s markup %s: price %s below cost", c, m, res.EffectivePrice)
			}
			assert.True(t, res.EffectivePrice.GreaterThanOrEqual(cfg.MinimumPrice))
			assert.True(t, res.EffectivePrice.LessThanOrEqual(cfg.MaximumPrice))
		}
	}
}

func TestResolve_ClampsToMinimum(t *testing.T) {
	res, err := Resolve(dec("0.05"), testConfig(), nil)
	require.NoError(t, err)
	// 0.05 * 1.30 = 0.065 -> 0.07, below the 0.10 floor.
	assert.True(t, res.EffectivePrice.Equal(dec("0.10")))
	assert.True(t, res.Clamped)
	assert.True(t, res.Profit.Equal(dec("0.05")))
}

func TestResolve_ClampsToMaximum(t *testing.T) {
	res, err := Resolve(dec("45.00"), testConfig(), nil)
	require.NoError(t, err)
	// 45 * 1.30 = 58.50, above the 50.00 ceiling.
	assert.True(t, res.EffectivePrice.Equal(dec("50.00")))
	assert.True(t, res.Clamped)
	assert.True(t, res.Profit.Equal(dec("5.00")))
}

func TestResolve_OverrideWinsRegardlessOfCost(t *testing.T) {
	override := &domain.PricingRule{
		ServiceCode:   "tg",
		CountryCode:   "us",
		OverridePrice: dec("5.00"),
		LastUpdatedBy: "admin-7",
		LastUpdatedAt: time.Now(),
	}

	for _, cost := range []string{"0.25", "4.99", "5.00", "9.75"} {
		res, err := Resolve(dec(cost), testConfig(), override)
		require.NoError(t, err)
		assert.True(t, res.EffectivePrice.Equal(dec("5.00")), "cost %s", cost)
		assert.True(t, res.IsOverride)
		assert.False(t, res.Clamped, "overrides are never clamped")
	}
}

func TestResolve_OverrideBelowCostYieldsZeroProfit(t *testing.T) {
	override := &domain.PricingRule{OverridePrice: dec("1.00")}
	res, err := Resolve(dec("2.50"), testConfig(), override)
	require.NoError(t, err)
	assert.True(t, res.Profit.IsZero())
}

func TestResolve_ZeroCostSignalsStaleCost(t *testing.T) {
	_, err := Resolve(decimal.Zero, testConfig(), nil)
	requireCode(t, err, "PRC_001")

	_, err = Resolve(dec("-0.01"), testConfig(), nil)
	requireCode(t, err, "PRC_001")
}

func TestResolve_InvalidOverrideRejected(t *testing.T) {
	override := &domain.PricingRule{OverridePrice: dec("150.00")}
	_, err := Resolve(dec("1.00"), testConfig(), override)
	requireCode(t, err, "VAL_005")
}

func TestResolve_InvalidMarkupRejected(t *testing.T) {
	cfg := testConfig()
	cfg.MarkupPercentage = dec("201")
	_, err := Resolve(dec("1.00"), cfg, nil)
	requireCode(t, err, "VAL_006")
}

func TestResolve_RoundingAppliedOnce(t *testing.T) {
	cfg := testConfig()
	cfg.MarkupPercentage = dec("0")

	// Re-resolving an already-resolved price with zero markup must be stable.
	res, err := Resolve(dec("0.33"), cfg, nil)
	require.NoError(t, err)
	again, err := Resolve(res.EffectivePrice, cfg, nil)
	require.NoError(t, err)
	assert.True(t, res.EffectivePrice.Equal(again.EffectivePrice))
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}
