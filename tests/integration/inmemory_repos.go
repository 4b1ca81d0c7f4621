package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"numrent-admin-core/internal/core/domain"
	"numrent-admin-core/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Account Repo ---

// inMemoryAccountRepo keeps full check-and-set semantics so concurrent
// fund changes race exactly like they do against postgres.
type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; ok {
		return fmt.Errorf("account already exists")
	}
	cp := *account
	r.accounts[account.ID] = &cp
	return nil
}

func (r *inMemoryAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAccountRepo) GetForChange(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryAccountRepo) CompareAndSetBalance(ctx context.Context, tx pgx.Tx, id string, newBalance decimal.Decimal, expectedVersion int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok || a.Version != expectedVersion {
		return false, nil
	}
	a.Balance = newBalance
	a.Version++
	a.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *inMemoryAccountRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account not found")
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu      sync.RWMutex
	entries []domain.LedgerEntry
}

func newInMemoryLedgerRepo() *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{}
}

func (r *inMemoryLedgerRepo) Create(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == entry.ID {
			return fmt.Errorf("duplicate ledger entry %s", entry.ID)
		}
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemoryLedgerRepo) ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]domain.LedgerEntry, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []domain.LedgerEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].AccountID == accountID {
			matched = append(matched, r.entries[i])
		}
	}
	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []domain.LedgerEntry{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// --- In-Memory Pricing Repo ---

type inMemoryPricingRepo struct {
	mu        sync.RWMutex
	markup    *domain.MarkupConfig
	overrides map[string]domain.PricingRule
}

func newInMemoryPricingRepo() *inMemoryPricingRepo {
	return &inMemoryPricingRepo{overrides: make(map[string]domain.PricingRule)}
}

func pairKey(serviceCode, countryCode string) string {
	return serviceCode + ":" + countryCode
}

func (r *inMemoryPricingRepo) GetMarkup(ctx context.Context) (*domain.MarkupConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.markup == nil {
		return nil, nil
	}
	cp := *r.markup
	return &cp, nil
}

func (r *inMemoryPricingRepo) UpsertMarkup(ctx context.Context, tx pgx.Tx, cfg *domain.MarkupConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cfg
	r.markup = &cp
	return nil
}

func (r *inMemoryPricingRepo) GetOverride(ctx context.Context, serviceCode, countryCode string) (*domain.PricingRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.overrides[pairKey(serviceCode, countryCode)]
	if !ok {
		return nil, nil
	}
	return &rule, nil
}

func (r *inMemoryPricingRepo) UpsertOverride(ctx context.Context, tx pgx.Tx, rule *domain.PricingRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[pairKey(rule.ServiceCode, rule.CountryCode)] = *rule
	return nil
}

func (r *inMemoryPricingRepo) DeleteOverride(ctx context.Context, tx pgx.Tx, serviceCode, countryCode string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(serviceCode, countryCode)
	_, ok := r.overrides[key]
	delete(r.overrides, key)
	return ok, nil
}

func (r *inMemoryPricingRepo) ListOverrides(ctx context.Context, page, pageSize int) ([]domain.PricingRule, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rules := make([]domain.PricingRule, 0, len(r.overrides))
	for _, rule := range r.overrides {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].ServiceCode != rules[j].ServiceCode {
			return rules[i].ServiceCode < rules[j].ServiceCode
		}
		return rules[i].CountryCode < rules[j].CountryCode
	})
	total := int64(len(rules))
	start := (page - 1) * pageSize
	if start >= len(rules) {
		return []domain.PricingRule{}, total, nil
	}
	end := start + pageSize
	if end > len(rules) {
		end = len(rules)
	}
	return rules[start:end], total, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.RWMutex
	records []domain.AuditRecord
	nextSeq int64
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, tx pgx.Tx, record *domain.AuditRecord) error {
	return r.Append(ctx, record)
}

func (r *inMemoryAuditRepo) Append(ctx context.Context, record *domain.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSeq++
	record.Seq = r.nextSeq
	r.records = append(r.records, *record)
	return nil
}

func (r *inMemoryAuditRepo) Query(ctx context.Context, q ports.AuditQuery) ([]domain.AuditRecord, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []domain.AuditRecord
	for _, rec := range r.records {
		if q.ActorID != nil && rec.ActorID != *q.ActorID {
			continue
		}
		if q.TargetID != nil && rec.TargetID != *q.TargetID {
			continue
		}
		if q.Action != nil && rec.Action != *q.Action {
			continue
		}
		if q.Since != nil && rec.CreatedAt.Before(*q.Since) {
			continue
		}
		if q.Until != nil && rec.CreatedAt.After(*q.Until) {
			continue
		}
		matched = append(matched, rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].Seq > matched[j].Seq
	})
	total := int64(len(matched))
	start := (q.Page - 1) * q.PageSize
	if start >= len(matched) {
		return []domain.AuditRecord{}, total, nil
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }

// --- Stub Cost Feed ---

// stubCostFeed serves scripted quotes; a pair missing from costs fails
// like an unreachable provider.
type stubCostFeed struct {
	mu    sync.RWMutex
	costs map[string]decimal.Decimal
}

func newStubCostFeed() *stubCostFeed {
	return &stubCostFeed{costs: make(map[string]decimal.Decimal)}
}

func (f *stubCostFeed) setCost(serviceCode, countryCode string, cost decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.costs[pairKey(serviceCode, countryCode)] = cost
}

func (f *stubCostFeed) dropCost(serviceCode, countryCode string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.costs, pairKey(serviceCode, countryCode))
}

func (f *stubCostFeed) FetchCost(ctx context.Context, serviceCode, countryCode string) (*ports.CostQuote, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	cost, ok := f.costs[pairKey(serviceCode, countryCode)]
	if !ok {
		return nil, fmt.Errorf("cost feed unavailable")
	}
	return &ports.CostQuote{
		ServiceCode:    serviceCode,
		CountryCode:    countryCode,
		BaseCost:       cost,
		AvailableCount: 100,
	}, nil
}
