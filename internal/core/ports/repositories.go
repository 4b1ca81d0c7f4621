package ports

import (
	"context"
	"time"

	"numrent-admin-core/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence operations for accounts.
// Methods accepting pgx.Tx run inside the ledger's atomic transaction.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetForChange reads the account inside the transaction, returning the
	// version used as the check-and-set guard.
	GetForChange(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error)
	// CompareAndSetBalance updates the balance only if the stored version
	// still equals expectedVersion. Returns false (no error) on a version
	// mismatch, which callers treat as a retryable conflict.
	CompareAndSetBalance(ctx context.Context, tx pgx.Tx, id string, newBalance decimal.Decimal, expectedVersion int64) (bool, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.AccountStatus) error
}

// LedgerRepository defines persistence for immutable ledger entries.
type LedgerRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]domain.LedgerEntry, int64, error)
}

// PricingRepository defines persistence for pricing rules and the global
// markup configuration singleton.
type PricingRepository interface {
	GetMarkup(ctx context.Context) (*domain.MarkupConfig, error)
	UpsertMarkup(ctx context.Context, tx pgx.Tx, cfg *domain.MarkupConfig) error
	GetOverride(ctx context.Context, serviceCode, countryCode string) (*domain.PricingRule, error)
	UpsertOverride(ctx context.Context, tx pgx.Tx, rule *domain.PricingRule) error
	// DeleteOverride reports whether a rule existed; deleting a missing rule
	// is not an error (clearOverride is idempotent).
	DeleteOverride(ctx context.Context, tx pgx.Tx, serviceCode, countryCode string) (bool, error)
	ListOverrides(ctx context.Context, page, pageSize int) ([]domain.PricingRule, int64, error)
}

// AuditQuery holds filter + pagination for querying the audit log.
// Results are always ordered newest-first, ties broken by insertion order.
type AuditQuery struct {
	ActorID  *string
	TargetID *string
	Action   *domain.AuditAction
	Since    *time.Time
	Until    *time.Time
	Page     int
	PageSize int
}

// AuditRepository defines persistence for the append-only audit log.
type AuditRepository interface {
	// Create appends a record inside the transaction of the mutation it
	// documents, so the record commits only if the mutation does.
	Create(ctx context.Context, tx pgx.Tx, record *domain.AuditRecord) error
	// Append writes a record outside any transaction (status-change actions
	// whose mutation happens in an external system).
	Append(ctx context.Context, record *domain.AuditRecord) error
	Query(ctx context.Context, q AuditQuery) ([]domain.AuditRecord, int64, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
