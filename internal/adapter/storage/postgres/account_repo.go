package postgres

import (
	"context"
	"errors"
	"fmt"

	"numrent-admin-core/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (id, balance, currency, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Balance, a.Currency, a.Status, a.Version, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID fetches an account without locking. Returns nil when the
// account does not exist.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT id, balance, currency, status, version, created_at, updated_at
		FROM accounts WHERE id = $1`

	a := &domain.Account{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Balance, &a.Currency, &a.Status, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return a, nil
}

// GetForChange fetches an account inside a transaction without taking
// a row lock. The returned Version feeds CompareAndSetBalance.
func (r *AccountRepo) GetForChange(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error) {
	query := `SELECT id, balance, currency, status, version, created_at, updated_at
		FROM accounts WHERE id = $1`

	a := &domain.Account{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Balance, &a.Currency, &a.Status, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account for change: %w", err)
	}
	return a, nil
}

// CompareAndSetBalance writes newBalance only if the row still carries
// expectedVersion. Returns false when another writer got there first.
func (r *AccountRepo) CompareAndSetBalance(ctx context.Context, tx pgx.Tx, id string, newBalance decimal.Decimal, expectedVersion int64) (bool, error) {
	query := `UPDATE accounts SET balance = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3`

	tag, err := tx.Exec(ctx, query, newBalance, id, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("compare and set balance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateStatus changes an account's lifecycle status within a transaction.
func (r *AccountRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.AccountStatus) error {
	query := `UPDATE accounts SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update account status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", id)
	}
	return nil
}
