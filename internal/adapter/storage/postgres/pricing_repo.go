package postgres

import (
	"context"
	"errors"
	"fmt"

	"numrent-admin-core/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// The global markup configuration is a singleton row keyed by id = 1.
const markupSingletonID = 1

// PricingRepo implements ports.PricingRepository.
type PricingRepo struct {
	pool Pool
}

// NewPricingRepo creates a new PricingRepo.
func NewPricingRepo(pool Pool) *PricingRepo {
	return &PricingRepo{pool: pool}
}

// GetMarkup fetches the global markup configuration. Returns nil when
// no row has been written yet; callers fall back to the default.
func (r *PricingRepo) GetMarkup(ctx context.Context) (*domain.MarkupConfig, error) {
	query := `SELECT markup_percentage, minimum_price, maximum_price, updated_by, updated_at
		FROM markup_config WHERE id = $1`

	cfg := &domain.MarkupConfig{}
	err := r.pool.QueryRow(ctx, query, markupSingletonID).Scan(
		&cfg.MarkupPercentage, &cfg.MinimumPrice, &cfg.MaximumPrice,
		&cfg.UpdatedBy, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get markup config: %w", err)
	}
	return cfg, nil
}

// UpsertMarkup writes the global markup configuration within a transaction.
func (r *PricingRepo) UpsertMarkup(ctx context.Context, tx pgx.Tx, cfg *domain.MarkupConfig) error {
	query := `INSERT INTO markup_config (id, markup_percentage, minimum_price, maximum_price, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			markup_percentage = EXCLUDED.markup_percentage,
			minimum_price = EXCLUDED.minimum_price,
			maximum_price = EXCLUDED.maximum_price,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at`

	_, err := tx.Exec(ctx, query,
		markupSingletonID, cfg.MarkupPercentage, cfg.MinimumPrice,
		cfg.MaximumPrice, cfg.UpdatedBy, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert markup config: %w", err)
	}
	return nil
}

// GetOverride fetches the override for a service+country pair, nil when absent.
func (r *PricingRepo) GetOverride(ctx context.Context, serviceCode, countryCode string) (*domain.PricingRule, error) {
	query := `SELECT service_code, country_code, override_price, last_updated_by, last_updated_at
		FROM pricing_overrides WHERE service_code = $1 AND country_code = $2`

	rule := &domain.PricingRule{}
	err := r.pool.QueryRow(ctx, query, serviceCode, countryCode).Scan(
		&rule.ServiceCode, &rule.CountryCode, &rule.OverridePrice,
		&rule.LastUpdatedBy, &rule.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pricing override: %w", err)
	}
	return rule, nil
}

// UpsertOverride writes an override within a transaction. Re-setting an
// existing pair replaces its price.
func (r *PricingRepo) UpsertOverride(ctx context.Context, tx pgx.Tx, rule *domain.PricingRule) error {
	query := `INSERT INTO pricing_overrides (service_code, country_code, override_price, last_updated_by, last_updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (service_code, country_code) DO UPDATE SET
			override_price = EXCLUDED.override_price,
			last_updated_by = EXCLUDED.last_updated_by,
			last_updated_at = EXCLUDED.last_updated_at`

	_, err := tx.Exec(ctx, query,
		rule.ServiceCode, rule.CountryCode, rule.OverridePrice,
		rule.LastUpdatedBy, rule.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert pricing override: %w", err)
	}
	return nil
}

// DeleteOverride removes an override, reporting whether one existed.
func (r *PricingRepo) DeleteOverride(ctx context.Context, tx pgx.Tx, serviceCode, countryCode string) (bool, error) {
	query := `DELETE FROM pricing_overrides WHERE service_code = $1 AND country_code = $2`

	tag, err := tx.Exec(ctx, query, serviceCode, countryCode)
	if err != nil {
		return false, fmt.Errorf("delete pricing override: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListOverrides fetches overrides ordered by service then country.
func (r *PricingRepo) ListOverrides(ctx context.Context, page, pageSize int) ([]domain.PricingRule, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pricing_overrides`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count pricing overrides: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT service_code, country_code, override_price, last_updated_by, last_updated_at
		FROM pricing_overrides ORDER BY service_code, country_code LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list pricing overrides: %w", err)
	}
	defer rows.Close()

	var rules []domain.PricingRule
	for rows.Next() {
		rule := domain.PricingRule{}
		err := rows.Scan(
			&rule.ServiceCode, &rule.CountryCode, &rule.OverridePrice,
			&rule.LastUpdatedBy, &rule.LastUpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pricing override row: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate pricing override rows: %w", err)
	}
	return rules, total, nil
}
