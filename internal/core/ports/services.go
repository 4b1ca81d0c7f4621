package ports

import (
	"context"
	"time"

	"numrent-admin-core/internal/core/domain"

	"github.com/shopspring/decimal"
)

// --- External collaborator ports ---

// NotificationKind classifies a wallet notification.
type NotificationKind string

const (
	NotificationFundsAdded   NotificationKind = "FUNDS_ADDED"
	NotificationFundsRemoved NotificationKind = "FUNDS_REMOVED"
)

// Notification is the payload handed to notifiers after a ledger commit.
type Notification struct {
	AccountID   string
	Kind        NotificationKind
	Amount      decimal.Decimal
	Description string
}

// Notifier delivers a notification best-effort. Implementations may return
// an error, but the ledger only logs it; delivery failure never rolls back
// or fails the mutation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// CostQuote is one price tuple from the live provider cost feed.
type CostQuote struct {
	ServiceCode    string          `json:"service_code"`
	CountryCode    string          `json:"country_code"`
	BaseCost       decimal.Decimal `json:"base_cost"`
	AvailableCount int             `json:"available_count"`
}

// CostFeed fetches the live base cost for a (service, country) pair.
type CostFeed interface {
	FetchCost(ctx context.Context, serviceCode, countryCode string) (*CostQuote, error)
}

// CostCache stores the last known good base cost per (service, country),
// used as a fallback when the live feed reports zero or is unreachable.
type CostCache interface {
	Get(ctx context.Context, serviceCode, countryCode string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, serviceCode, countryCode string, cost decimal.Decimal, ttl time.Duration) error
}

// TokenVerifier validates admin JWTs issued by the external auth service and
// returns the authenticated actor id (token subject).
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

// --- Service ports (business logic) ---

// FundChangeRequest holds validated input for a wallet fund change.
type FundChangeRequest struct {
	AccountID string
	Amount    decimal.Decimal // signed: positive adds funds, negative removes
	Reason    string
	ActorID   string
}

// WalletService is the wallet ledger entry point.
type WalletService interface {
	ApplyFundChange(ctx context.Context, req FundChangeRequest) (*domain.LedgerEntry, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	ListEntries(ctx context.Context, accountID string, page, pageSize int) ([]domain.LedgerEntry, int64, error)
}

// PriceQuote is the result of resolving a live price for the admin console.
type PriceQuote struct {
	ServiceCode    string          `json:"service_code"`
	CountryCode    string          `json:"country_code"`
	BaseCost       decimal.Decimal `json:"base_cost"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Profit         decimal.Decimal `json:"profit"`
	IsOverride     bool            `json:"is_override"`
	Clamped        bool            `json:"clamped"`
	CostFromCache  bool            `json:"cost_from_cache"`
}

// PricingService manages the markup configuration and per-pair overrides.
type PricingService interface {
	SetOverride(ctx context.Context, serviceCode, countryCode string, price decimal.Decimal, actorID string) (*domain.AuditRecord, error)
	ClearOverride(ctx context.Context, serviceCode, countryCode, actorID string) (*domain.AuditRecord, error)
	SetGlobalMarkup(ctx context.Context, pct decimal.Decimal, actorID string) (*domain.AuditRecord, error)
	GetMarkup(ctx context.Context) (*domain.MarkupConfig, error)
	ListOverrides(ctx context.Context, page, pageSize int) ([]domain.PricingRule, int64, error)
	Quote(ctx context.Context, serviceCode, countryCode string) (*PriceQuote, error)
}

// StatusChangeRequest documents a user status change performed by the
// surrounding admin application.
type StatusChangeRequest struct {
	TargetID     string
	ActorID      string
	StatusBefore string
	StatusAfter  string
}

// AuditService exposes the audit log to the admin application.
type AuditService interface {
	RecordStatusChange(ctx context.Context, req StatusChangeRequest) (*domain.AuditRecord, error)
	Query(ctx context.Context, q AuditQuery) ([]domain.AuditRecord, int64, error)
}
