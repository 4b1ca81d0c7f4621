package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"numrent-admin-core/internal/core/domain"
	"numrent-admin-core/internal/core/ports"
	"numrent-admin-core/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type pricingTestDeps struct {
	svc         *PricingServiceImpl
	pricingRepo *fakePricingRepo
	auditRepo   *fakeAuditRepo
	costFeed    *mocks.MockCostFeed
	costCache   *mocks.MockCostCache
	ctrl        *gomock.Controller
}

func setupPricingService(t *testing.T) *pricingTestDeps {
	ctrl := gomock.NewController(t)
	d := &pricingTestDeps{
		pricingRepo: newFakePricingRepo(),
		auditRepo:   &fakeAuditRepo{},
		costFeed:    mocks.NewMockCostFeed(ctrl),
		costCache:   mocks.NewMockCostCache(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewPricingService(
		d.pricingRepo, d.auditRepo, d.costFeed, d.costCache,
		&fakeTransactor{}, 30*time.Minute, zerolog.Nop(),
	)
	return d
}

func liveQuote(cost string) *ports.CostQuote {
	return &ports.CostQuote{
		ServiceCode:    "telegram",
		CountryCode:    "US",
		BaseCost:       decimal.RequireFromString(cost),
		AvailableCount: 100,
	}
}

func TestPricingService_SetOverride(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	rec, err := d.svc.SetOverride(context.Background(), "telegram", "US",
		decimal.RequireFromString("1.50"), "admin-7")
	require.NoError(t, err)

	assert.Equal(t, domain.AuditActionPriceOverride, rec.Action)
	assert.Equal(t, "telegram:US", rec.TargetID)
	assert.JSONEq(t, `{"override":null}`, rec.BeforeState)
	assert.JSONEq(t, `{"override":"1.50"}`, rec.AfterState)

	stored, err := d.pricingRepo.GetOverride(context.Background(), "telegram", "US")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "1.5", stored.OverridePrice.String())
}

func TestPricingService_SetOverride_ReplacesExisting(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.SetOverride(context.Background(), "telegram", "US",
		decimal.RequireFromString("1.50"), "admin-7")
	require.NoError(t, err)

	rec, err := d.svc.SetOverride(context.Background(), "telegram", "US",
		decimal.RequireFromString("2.00"), "admin-8")
	require.NoError(t, err)
	assert.JSONEq(t, `{"override":"1.50"}`, rec.BeforeState)
	assert.JSONEq(t, `{"override":"2.00"}`, rec.AfterState)
}

func TestPricingService_SetOverride_Validation(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.SetOverride(context.Background(), "telegram", "US",
		decimal.RequireFromString("1.50"), "")
	requireCode(t, err, "VAL_001")

	_, err = d.svc.SetOverride(context.Background(), "", "US",
		decimal.RequireFromString("1.50"), "admin-7")
	requireCode(t, err, "VAL_000")

	_, err = d.svc.SetOverride(context.Background(), "telegram", "US",
		decimal.RequireFromString("100.01"), "admin-7")
	requireCode(t, err, "VAL_005")

	_, err = d.svc.SetOverride(context.Background(), "telegram", "US",
		decimal.Zero, "admin-7")
	requireCode(t, err, "VAL_005")
}

func TestPricingService_ClearOverride(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.SetOverride(context.Background(), "telegram", "US",
		decimal.RequireFromString("1.50"), "admin-7")
	require.NoError(t, err)

	rec, err := d.svc.ClearOverride(context.Background(), "telegram", "US", "admin-7")
	require.NoError(t, err)
	assert.Equal(t, domain.AuditActionPriceReset, rec.Action)
	assert.JSONEq(t, `{"override":"1.50"}`, rec.BeforeState)
	assert.JSONEq(t, `{"override":null}`, rec.AfterState)

	stored, err := d.pricingRepo.GetOverride(context.Background(), "telegram", "US")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestPricingService_ClearOverride_AbsentIsIdempotent(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	rec, err := d.svc.ClearOverride(context.Background(), "telegram", "FR", "admin-7")
	require.NoError(t, err, "clearing an absent override is a recorded no-op")
	assert.JSONEq(t, `{"override":null}`, rec.BeforeState)
}

func TestPricingService_SetGlobalMarkup(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	rec, err := d.svc.SetGlobalMarkup(context.Background(),
		decimal.RequireFromString("45"), "admin-7")
	require.NoError(t, err)
	assert.Equal(t, domain.AuditActionMarkupChange, rec.Action)
	assert.Equal(t, "global", rec.TargetID)

	cfg, err := d.svc.GetMarkup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "45", cfg.MarkupPercentage.String())
	assert.Equal(t, "admin-7", cfg.UpdatedBy)
	// Floor and ceiling survive a markup change.
	assert.Equal(t, "0.1", cfg.MinimumPrice.String())
	assert.Equal(t, "50", cfg.MaximumPrice.String())
}

func TestPricingService_SetGlobalMarkup_OutOfRange(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.SetGlobalMarkup(context.Background(),
		decimal.RequireFromString("200.01"), "admin-7")
	requireCode(t, err, "VAL_006")

	_, err = d.svc.SetGlobalMarkup(context.Background(),
		decimal.RequireFromString("-1"), "admin-7")
	requireCode(t, err, "VAL_006")
}

func TestPricingService_GetMarkup_DefaultWhenUnset(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	cfg, err := d.svc.GetMarkup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "30", cfg.MarkupPercentage.String())
}

func TestPricingService_Quote_LiveFeed(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	d.costFeed.EXPECT().FetchCost(gomock.Any(), "telegram", "US").Return(liveQuote("0.25"), nil)
	d.costCache.EXPECT().Set(gomock.Any(), "telegram", "US",
		decimal.RequireFromString("0.25"), 30*time.Minute).Return(nil)

	quote, err := d.svc.Quote(context.Background(), "telegram", "US")
	require.NoError(t, err)
	assert.Equal(t, "0.25", quote.BaseCost.String())
	assert.Equal(t, "0.33", quote.EffectivePrice.String(), "0.25 * 1.30 rounds half-up to 0.33")
	assert.Equal(t, "0.08", quote.Profit.String())
	assert.False(t, quote.IsOverride)
	assert.False(t, quote.CostFromCache)
}

func TestPricingService_Quote_OverrideWins(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.SetOverride(context.Background(), "telegram", "US",
		decimal.RequireFromString("1.50"), "admin-7")
	require.NoError(t, err)

	d.costFeed.EXPECT().FetchCost(gomock.Any(), "telegram", "US").Return(liveQuote("0.25"), nil)
	d.costCache.EXPECT().Set(gomock.Any(), "telegram", "US",
		decimal.RequireFromString("0.25"), 30*time.Minute).Return(nil)

	quote, err := d.svc.Quote(context.Background(), "telegram", "US")
	require.NoError(t, err)
	assert.True(t, quote.IsOverride)
	assert.Equal(t, "1.5", quote.EffectivePrice.String())
	assert.Equal(t, "1.25", quote.Profit.String())
}

func TestPricingService_Quote_FeedDownFallsBackToCache(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	d.costFeed.EXPECT().FetchCost(gomock.Any(), "telegram", "US").
		Return(nil, errors.New("feed unavailable"))
	d.costCache.EXPECT().Get(gomock.Any(), "telegram", "US").
		Return(decimal.RequireFromString("0.25"), true, nil)

	quote, err := d.svc.Quote(context.Background(), "telegram", "US")
	require.NoError(t, err)
	assert.True(t, quote.CostFromCache)
	assert.Equal(t, "0.33", quote.EffectivePrice.String())
}

func TestPricingService_Quote_ZeroCostFallsBackToCache(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	d.costFeed.EXPECT().FetchCost(gomock.Any(), "telegram", "US").Return(liveQuote("0"), nil)
	d.costCache.EXPECT().Get(gomock.Any(), "telegram", "US").
		Return(decimal.RequireFromString("0.20"), true, nil)

	quote, err := d.svc.Quote(context.Background(), "telegram", "US")
	require.NoError(t, err)
	assert.True(t, quote.CostFromCache)
	assert.Equal(t, "0.2", quote.BaseCost.String())
}

func TestPricingService_Quote_StaleWhenNothingAvailable(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	d.costFeed.EXPECT().FetchCost(gomock.Any(), "telegram", "US").
		Return(nil, errors.New("feed unavailable"))
	d.costCache.EXPECT().Get(gomock.Any(), "telegram", "US").
		Return(decimal.Zero, false, nil)

	_, err := d.svc.Quote(context.Background(), "telegram", "US")
	requireCode(t, err, "PRC_001")
}

func TestPricingService_Quote_CacheWriteFailureIsNonFatal(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	d.costFeed.EXPECT().FetchCost(gomock.Any(), "telegram", "US").Return(liveQuote("0.25"), nil)
	d.costCache.EXPECT().Set(gomock.Any(), "telegram", "US",
		decimal.RequireFromString("0.25"), 30*time.Minute).Return(errors.New("redis down"))

	quote, err := d.svc.Quote(context.Background(), "telegram", "US")
	require.NoError(t, err, "a cache write failure never fails the quote")
	assert.Equal(t, "0.33", quote.EffectivePrice.String())
}

func TestPricingService_ListOverrides(t *testing.T) {
	d := setupPricingService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.SetOverride(context.Background(), "telegram", "US",
		decimal.RequireFromString("1.50"), "admin-7")
	require.NoError(t, err)
	_, err = d.svc.SetOverride(context.Background(), "whatsapp", "GB",
		decimal.RequireFromString("2.00"), "admin-7")
	require.NoError(t, err)

	rules, total, err := d.svc.ListOverrides(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rules, 2)
}
