package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"numrent-admin-core/internal/core/domain"
	"numrent-admin-core/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// mockTx implements pgx.Tx for testing.
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

// fakeTransactor hands out no-op transactions; the fakes below hold
// their own locks, so tests see the same commit-or-nothing behavior.
type fakeTransactor struct{}

func (t *fakeTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &mockTx{}, nil
}

// --- In-memory account repo with real CAS semantics ---

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	// failCASTimes forces the first N CAS calls to report a lost race.
	failCASTimes int
	// staleReads serves staleAccount from the next N GetForChange calls,
	// simulating a read that a concurrent writer has already outdated.
	staleReads   int
	staleAccount *domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *fakeAccountRepo) seed(id string, balance string) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	a := &domain.Account{
		ID:        id,
		Balance:   decimal.RequireFromString(balance),
		Currency:  "USD",
		Status:    domain.AccountStatusActive,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.accounts[id] = a
	return a
}

func (r *fakeAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.ID] = a
	return nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAccountRepo) GetForChange(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error) {
	r.mu.Lock()
	if r.staleReads > 0 && r.staleAccount != nil && r.staleAccount.ID == id {
		r.staleReads--
		cp := *r.staleAccount
		r.mu.Unlock()
		return &cp, nil
	}
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeAccountRepo) CompareAndSetBalance(ctx context.Context, tx pgx.Tx, id string, newBalance decimal.Decimal, expectedVersion int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCASTimes > 0 {
		r.failCASTimes--
		return false, nil
	}
	a, ok := r.accounts[id]
	if !ok {
		return false, fmt.Errorf("account not found")
	}
	if a.Version != expectedVersion {
		return false, nil
	}
	a.Balance = newBalance
	a.Version++
	a.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *fakeAccountRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account not found")
	}
	a.Status = status
	return nil
}

// --- In-memory ledger repo ---

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries []domain.LedgerEntry
}

func (r *fakeLedgerRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeLedgerRepo) ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]domain.LedgerEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.LedgerEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].AccountID == accountID {
			out = append(out, r.entries[i])
		}
	}
	total := int64(len(out))
	start := (page - 1) * pageSize
	if start >= len(out) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

// --- In-memory audit repo ---

type fakeAuditRepo struct {
	mu      sync.Mutex
	records []domain.AuditRecord
	nextSeq int64
}

func (r *fakeAuditRepo) insert(rec *domain.AuditRecord) {
	r.nextSeq++
	rec.Seq = r.nextSeq
	r.records = append(r.records, *rec)
}

func (r *fakeAuditRepo) Create(ctx context.Context, tx pgx.Tx, rec *domain.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(rec)
	return nil
}

func (r *fakeAuditRepo) Append(ctx context.Context, rec *domain.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(rec)
	return nil
}

func (r *fakeAuditRepo) Query(ctx context.Context, q ports.AuditQuery) ([]domain.AuditRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []domain.AuditRecord
	for i := len(r.records) - 1; i >= 0; i-- {
		rec := r.records[i]
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
	total := int64(len(matched))
	start := (q.Page - 1) * q.PageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// --- In-memory pricing repo ---

type fakePricingRepo struct {
	mu        sync.Mutex
	markup    *domain.MarkupConfig
	overrides map[string]domain.PricingRule
}

func newFakePricingRepo() *fakePricingRepo {
	return &fakePricingRepo{overrides: make(map[string]domain.PricingRule)}
}

func pairKey(serviceCode, countryCode string) string {
	return serviceCode + ":" + countryCode
}

func (r *fakePricingRepo) GetMarkup(ctx context.Context) (*domain.MarkupConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markup == nil {
		return nil, nil
	}
	cp := *r.markup
	return &cp, nil
}

func (r *fakePricingRepo) UpsertMarkup(ctx context.Context, tx pgx.Tx, cfg *domain.MarkupConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cfg
	r.markup = &cp
	return nil
}

func (r *fakePricingRepo) GetOverride(ctx context.Context, serviceCode, countryCode string) (*domain.PricingRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.overrides[pairKey(serviceCode, countryCode)]
	if !ok {
		return nil, nil
	}
	return &rule, nil
}

func (r *fakePricingRepo) UpsertOverride(ctx context.Context, tx pgx.Tx, rule *domain.PricingRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[pairKey(rule.ServiceCode, rule.CountryCode)] = *rule
	return nil
}

func (r *fakePricingRepo) DeleteOverride(ctx context.Context, tx pgx.Tx, serviceCode, countryCode string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(serviceCode, countryCode)
	_, ok := r.overrides[key]
	delete(r.overrides, key)
	return ok, nil
}

func (r *fakePricingRepo) ListOverrides(ctx context.Context, page, pageSize int) ([]domain.PricingRule, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.PricingRule
	for _, rule := range r.overrides {
		out = append(out, rule)
	}
	return out, int64(len(out)), nil
}
