package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountStatus represents the lifecycle state of an account.
// Accounts are never deleted, only moved between soft states.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// Account is a user's wallet record. The balance is mutated only through
// ledger operations; Version guards against concurrent lost updates.
type Account struct {
	ID        string          `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Status    AccountStatus   `json:"status"`
	Version   int64           `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// EntryKind classifies a ledger entry by the sign of its amount.
type EntryKind string

const (
	EntryKindCredit EntryKind = "CREDIT"
	EntryKindDebit  EntryKind = "DEBIT"
)

// KindForAmount returns the entry kind matching the sign of amount.
func KindForAmount(amount decimal.Decimal) EntryKind {
	if amount.IsNegative() {
		return EntryKindDebit
	}
	return EntryKindCredit
}

// LedgerEntry is one immutable balance-changing transaction. It is never
// updated or deleted after creation.
type LedgerEntry struct {
	ID            uuid.UUID       `json:"id"`
	AccountID     string          `json:"account_id"`
	Kind          EntryKind       `json:"kind"`
	SignedAmount  decimal.Decimal `json:"signed_amount"`
	ReasonText    string          `json:"reason_text"`
	ActorID       string          `json:"actor_id"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ledgerNamespace is the UUIDv5 namespace for deterministic ledger entry ids.
var ledgerNamespace = uuid.MustParse("7cbb8f3e-1f0d-4a92-9a65-31cbb0c0d1aa")

// NewLedgerEntryID derives a deterministic entry id from the account, the
// entry kind and the operation timestamp. Retrying the same logical mutation
// yields the same id, so a duplicate write fails instead of double-applying.
func NewLedgerEntryID(accountID string, kind EntryKind, at time.Time) uuid.UUID {
	seed := fmt.Sprintf("%s|%s|%d", accountID, kind, at.UnixNano())
	return uuid.NewSHA1(ledgerNamespace, []byte(seed))
}

// Validate checks the internal consistency of a ledger entry.
func (e *LedgerEntry) Validate() error {
	if !e.BalanceAfter.Equal(e.BalanceBefore.Add(e.SignedAmount)) {
		return fmt.Errorf("ledger entry %s: balance_after %s != balance_before %s + amount %s",
			e.ID, e.BalanceAfter, e.BalanceBefore, e.SignedAmount)
	}
	if e.BalanceAfter.IsNegative() {
		return fmt.Errorf("ledger entry %s: negative balance_after %s", e.ID, e.BalanceAfter)
	}
	return nil
}
