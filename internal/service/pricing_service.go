package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"numrent-admin-core/internal/core/domain"
	"numrent-admin-core/internal/core/ports"
	"numrent-admin-core/internal/core/pricing"
	"numrent-admin-core/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PricingServiceImpl implements ports.PricingService. Configuration
// mutations write their audit record in the same transaction; quotes
// combine the live cost feed with the Redis last-known-good cache.
type PricingServiceImpl struct {
	pricingRepo ports.PricingRepository
	auditRepo   ports.AuditRepository
	costFeed    ports.CostFeed
	costCache   ports.CostCache
	transactor  ports.DBTransactor
	cacheTTL    time.Duration
	log         zerolog.Logger
}

// NewPricingService creates a new PricingServiceImpl.
func NewPricingService(
	pricingRepo ports.PricingRepository,
	auditRepo ports.AuditRepository,
	costFeed ports.CostFeed,
	costCache ports.CostCache,
	transactor ports.DBTransactor,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *PricingServiceImpl {
	return &PricingServiceImpl{
		pricingRepo: pricingRepo,
		auditRepo:   auditRepo,
		costFeed:    costFeed,
		costCache:   costCache,
		transactor:  transactor,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

// SetOverride writes a per-pair override. Re-setting an existing pair
// replaces its price.
func (s *PricingServiceImpl) SetOverride(ctx context.Context, serviceCode, countryCode string, price decimal.Decimal, actorID string) (*domain.AuditRecord, error) {
	if actorID == "" {
		return nil, apperror.ErrMissingActor()
	}
	if serviceCode == "" || countryCode == "" {
		return nil, apperror.Validation("service code and country code are required")
	}
	if !domain.ValidOverridePrice(price) {
		return nil, apperror.ErrOverridePriceOutOfRange(price.String())
	}

	prev, err := s.pricingRepo.GetOverride(ctx, serviceCode, countryCode)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get override: %w", err))
	}

	now := time.Now().UTC()
	rule := &domain.PricingRule{
		ServiceCode:   serviceCode,
		CountryCode:   countryCode,
		OverridePrice: price,
		LastUpdatedBy: actorID,
		LastUpdatedAt: now,
	}

	record := &domain.AuditRecord{
		ID:          domain.NewAuditRecordID(domain.AuditActionPriceOverride, pairTarget(serviceCode, countryCode), now),
		Action:      domain.AuditActionPriceOverride,
		ActorID:     actorID,
		TargetID:    pairTarget(serviceCode, countryCode),
		BeforeState: overrideState(prev),
		AfterState:  overrideState(rule),
		CreatedAt:   now,
	}

	err = s.inTx(ctx, func(dbTx pgx.Tx) error {
		if err := s.pricingRepo.UpsertOverride(ctx, dbTx, rule); err != nil {
			return fmt.Errorf("upsert override: %w", err)
		}
		return s.auditRepo.Create(ctx, dbTx, record)
	})
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	s.log.Info().
		Str("service", serviceCode).
		Str("country", countryCode).
		Str("price", price.String()).
		Str("actor_id", actorID).
		Msg("pricing override set")

	return record, nil
}

// ClearOverride removes a per-pair override. Clearing a pair with no
// override is a no-op that still returns the audit record of the attempt.
func (s *PricingServiceImpl) ClearOverride(ctx context.Context, serviceCode, countryCode, actorID string) (*domain.AuditRecord, error) {
	if actorID == "" {
		return nil, apperror.ErrMissingActor()
	}
	if serviceCode == "" || countryCode == "" {
		return nil, apperror.Validation("service code and country code are required")
	}

	prev, err := s.pricingRepo.GetOverride(ctx, serviceCode, countryCode)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get override: %w", err))
	}

	now := time.Now().UTC()
	record := &domain.AuditRecord{
		ID:          domain.NewAuditRecordID(domain.AuditActionPriceReset, pairTarget(serviceCode, countryCode), now),
		Action:      domain.AuditActionPriceReset,
		ActorID:     actorID,
		TargetID:    pairTarget(serviceCode, countryCode),
		BeforeState: overrideState(prev),
		AfterState:  overrideState(nil),
		CreatedAt:   now,
	}

	err = s.inTx(ctx, func(dbTx pgx.Tx) error {
		existed, err := s.pricingRepo.DeleteOverride(ctx, dbTx, serviceCode, countryCode)
		if err != nil {
			return fmt.Errorf("delete override: %w", err)
		}
		if !existed {
			s.log.Debug().
				Str("service", serviceCode).
				Str("country", countryCode).
				Msg("clear of absent override, recording anyway")
		}
		return s.auditRepo.Create(ctx, dbTx, record)
	})
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	return record, nil
}

// SetGlobalMarkup updates the global markup percentage, keeping the
// configured price floor and ceiling.
func (s *PricingServiceImpl) SetGlobalMarkup(ctx context.Context, pct decimal.Decimal, actorID string) (*domain.AuditRecord, error) {
	if actorID == "" {
		return nil, apperror.ErrMissingActor()
	}
	if !domain.ValidMarkupPercentage(pct) {
		return nil, apperror.ErrMarkupOutOfRange(pct.String())
	}

	prev, err := s.GetMarkup(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	next := &domain.MarkupConfig{
		MarkupPercentage: pct,
		MinimumPrice:     prev.MinimumPrice,
		MaximumPrice:     prev.MaximumPrice,
		UpdatedBy:        actorID,
		UpdatedAt:        now,
	}

	record := &domain.AuditRecord{
		ID:          domain.NewAuditRecordID(domain.AuditActionMarkupChange, "global", now),
		Action:      domain.AuditActionMarkupChange,
		ActorID:     actorID,
		TargetID:    "global",
		BeforeState: markupState(prev),
		AfterState:  markupState(next),
		CreatedAt:   now,
	}

	err = s.inTx(ctx, func(dbTx pgx.Tx) error {
		if err := s.pricingRepo.UpsertMarkup(ctx, dbTx, next); err != nil {
			return fmt.Errorf("upsert markup: %w", err)
		}
		return s.auditRepo.Create(ctx, dbTx, record)
	})
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	s.log.Info().
		Str("markup_pct", pct.String()).
		Str("actor_id", actorID).
		Msg("global markup changed")

	return record, nil
}

// GetMarkup returns the stored markup configuration, falling back to
// the default when nothing has been written yet.
func (s *PricingServiceImpl) GetMarkup(ctx context.Context) (*domain.MarkupConfig, error) {
	cfg, err := s.pricingRepo.GetMarkup(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get markup: %w", err))
	}
	if cfg == nil {
		return domain.DefaultMarkupConfig(), nil
	}
	return cfg, nil
}

// ListOverrides returns the stored overrides page.
func (s *PricingServiceImpl) ListOverrides(ctx context.Context, page, pageSize int) ([]domain.PricingRule, int64, error) {
	rules, total, err := s.pricingRepo.ListOverrides(ctx, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list overrides: %w", err))
	}
	return rules, total, nil
}

// Quote resolves the current user-facing price for a pair. A live feed
// failure or zero cost falls back to the cached last known good cost;
// with neither available the quote fails as stale.
func (s *PricingServiceImpl) Quote(ctx context.Context, serviceCode, countryCode string) (*ports.PriceQuote, error) {
	if serviceCode == "" || countryCode == "" {
		return nil, apperror.Validation("service code and country code are required")
	}

	baseCost, fromCache, err := s.resolveBaseCost(ctx, serviceCode, countryCode)
	if err != nil {
		return nil, err
	}

	cfg, err := s.GetMarkup(ctx)
	if err != nil {
		return nil, err
	}

	override, err := s.pricingRepo.GetOverride(ctx, serviceCode, countryCode)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get override: %w", err))
	}

	res, err := pricing.Resolve(baseCost, *cfg, override)
	if err != nil {
		return nil, err
	}

	return &ports.PriceQuote{
		ServiceCode:    serviceCode,
		CountryCode:    countryCode,
		BaseCost:       baseCost,
		EffectivePrice: res.EffectivePrice,
		Profit:         res.Profit,
		IsOverride:     res.IsOverride,
		Clamped:        res.Clamped,
		CostFromCache:  fromCache,
	}, nil
}

// resolveBaseCost prefers the live feed, caching good answers, and
// falls back to the cache when the feed fails or reports zero.
func (s *PricingServiceImpl) resolveBaseCost(ctx context.Context, serviceCode, countryCode string) (decimal.Decimal, bool, error) {
	quote, err := s.costFeed.FetchCost(ctx, serviceCode, countryCode)
	if err == nil && quote.BaseCost.IsPositive() {
		if cacheErr := s.costCache.Set(ctx, serviceCode, countryCode, quote.BaseCost, s.cacheTTL); cacheErr != nil {
			s.log.Warn().Err(cacheErr).
				Str("service", serviceCode).
				Str("country", countryCode).
				Msg("cost cache write failed")
		}
		return quote.BaseCost, false, nil
	}

	if err != nil {
		s.log.Warn().Err(err).
			Str("service", serviceCode).
			Str("country", countryCode).
			Msg("cost feed unavailable, trying cache")
	}

	cached, found, cacheErr := s.costCache.Get(ctx, serviceCode, countryCode)
	if cacheErr != nil {
		s.log.Warn().Err(cacheErr).Msg("cost cache read failed")
	}
	if found && cached.IsPositive() {
		return cached, true, nil
	}

	return decimal.Zero, false, apperror.ErrStaleCost()
}

// inTx runs fn inside one transaction, committing only when it succeeds.
func (s *PricingServiceImpl) inTx(ctx context.Context, fn func(dbTx pgx.Tx) error) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := fn(dbTx); err != nil {
		return err
	}
	return dbTx.Commit(ctx)
}

func pairTarget(serviceCode, countryCode string) string {
	return serviceCode + ":" + countryCode
}

func overrideState(rule *domain.PricingRule) string {
	if rule == nil {
		return `{"override":null}`
	}
	b, _ := json.Marshal(map[string]string{"override": rule.OverridePrice.StringFixed(2)})
	return string(b)
}

func markupState(cfg *domain.MarkupConfig) string {
	b, _ := json.Marshal(map[string]string{
		"markup_percentage": cfg.MarkupPercentage.String(),
		"minimum_price":     cfg.MinimumPrice.String(),
		"maximum_price":     cfg.MaximumPrice.String(),
	})
	return string(b)
}
