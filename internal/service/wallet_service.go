package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"numrent-admin-core/config"
	"numrent-admin-core/internal/core/domain"
	"numrent-admin-core/internal/core/ports"
	"numrent-admin-core/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const minReasonLength = 5

// WalletServiceImpl implements ports.WalletService. Fund changes run
// under optimistic concurrency: read the account version, compute the
// new balance, and commit only if the version is unchanged. A lost
// race retries a bounded number of times before surfacing a conflict.
type WalletServiceImpl struct {
	accountRepo  ports.AccountRepository
	ledgerRepo   ports.LedgerRepository
	auditRepo    ports.AuditRepository
	notifier     ports.Notifier
	transactor   ports.DBTransactor
	maxChange    decimal.Decimal
	casRetries   int
	retryBackoff time.Duration
	log          zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	accountRepo ports.AccountRepository,
	ledgerRepo ports.LedgerRepository,
	auditRepo ports.AuditRepository,
	notifier ports.Notifier,
	transactor ports.DBTransactor,
	cfg config.LedgerConfig,
	log zerolog.Logger,
) *WalletServiceImpl {
	maxChange, err := decimal.NewFromString(cfg.MaxSingleChange)
	if err != nil || !maxChange.IsPositive() {
		maxChange = decimal.NewFromInt(10000)
	}
	retries := cfg.CASRetries
	if retries <= 0 {
		retries = 3
	}
	return &WalletServiceImpl{
		accountRepo:  accountRepo,
		ledgerRepo:   ledgerRepo,
		auditRepo:    auditRepo,
		notifier:     notifier,
		transactor:   transactor,
		maxChange:    maxChange,
		casRetries:   retries,
		retryBackoff: cfg.RetryBackoff,
		log:          log,
	}
}

// ApplyFundChange applies a signed balance change to an account,
// writing the ledger entry and audit record in the same transaction.
func (s *WalletServiceImpl) ApplyFundChange(ctx context.Context, req ports.FundChangeRequest) (*domain.LedgerEntry, error) {
	if err := s.validateFundChange(req); err != nil {
		return nil, err
	}

	var entry *domain.LedgerEntry
	for attempt := 0; attempt < s.casRetries; attempt++ {
		if attempt > 0 && s.retryBackoff > 0 {
			select {
			case <-ctx.Done():
				return nil, apperror.InternalError(ctx.Err())
			case <-time.After(s.retryBackoff):
			}
		}

		var conflicted bool
		var err error
		entry, conflicted, err = s.tryFundChange(ctx, req)
		if err != nil {
			return nil, err
		}
		if !conflicted {
			s.notifyFundChange(ctx, req)
			return entry, nil
		}

		s.log.Debug().
			Str("account_id", req.AccountID).
			Int("attempt", attempt+1).
			Msg("fund change lost version race, retrying")
	}

	return nil, apperror.ErrConflict("account")
}

// tryFundChange runs one optimistic attempt. conflicted=true means the
// version check failed and the caller should retry.
func (s *WalletServiceImpl) tryFundChange(ctx context.Context, req ports.FundChangeRequest) (*domain.LedgerEntry, bool, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetForChange(ctx, dbTx, req.AccountID)
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("load account: %w", err))
	}
	if account == nil {
		return nil, false, apperror.ErrNotFound("account")
	}

	newBalance := account.Balance.Add(req.Amount)
	if newBalance.IsNegative() {
		// The read may already be stale: a concurrent credit could have
		// raised the balance since. Confirm the version with a no-op
		// check-and-set before rejecting; a mismatch means the verdict
		// was based on an outdated balance and the attempt must retry.
		current, err := s.accountRepo.CompareAndSetBalance(ctx, dbTx, account.ID, account.Balance, account.Version)
		if err != nil {
			return nil, false, apperror.InternalError(fmt.Errorf("confirm balance read: %w", err))
		}
		if !current {
			return nil, true, nil
		}
		return nil, false, apperror.ErrInsufficientBalance(account.Balance.String(), req.Amount.Abs().String())
	}

	ok, err := s.accountRepo.CompareAndSetBalance(ctx, dbTx, account.ID, newBalance, account.Version)
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}
	if !ok {
		return nil, true, nil
	}

	now := time.Now().UTC()
	kind := domain.KindForAmount(req.Amount)
	entry := &domain.LedgerEntry{
		ID:            domain.NewLedgerEntryID(account.ID, kind, now),
		AccountID:     account.ID,
		Kind:          kind,
		SignedAmount:  req.Amount,
		ReasonText:    req.Reason,
		ActorID:       req.ActorID,
		BalanceBefore: account.Balance,
		BalanceAfter:  newBalance,
		CreatedAt:     now,
	}
	if err := entry.Validate(); err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("ledger entry invariant: %w", err))
	}
	if err := s.ledgerRepo.Create(ctx, dbTx, entry); err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("insert ledger entry: %w", err))
	}

	action := domain.AuditActionFundAdd
	if kind == domain.EntryKindDebit {
		action = domain.AuditActionFundRemove
	}
	record := &domain.AuditRecord{
		ID:          domain.NewAuditRecordID(action, account.ID, now),
		Action:      action,
		ActorID:     req.ActorID,
		TargetID:    account.ID,
		BeforeState: balanceState(account.Balance),
		AfterState:  balanceState(newBalance),
		CreatedAt:   now,
	}
	if err := s.auditRepo.Create(ctx, dbTx, record); err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("insert audit record: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("commit fund change: %w", err))
	}

	s.log.Info().
		Str("account_id", account.ID).
		Str("actor_id", req.ActorID).
		Str("amount", req.Amount.String()).
		Str("balance_after", newBalance.String()).
		Msg("fund change applied")

	return entry, false, nil
}

func (s *WalletServiceImpl) validateFundChange(req ports.FundChangeRequest) error {
	if req.ActorID == "" {
		return apperror.ErrMissingActor()
	}
	if len(strings.TrimSpace(req.Reason)) < minReasonLength {
		return apperror.ErrReasonTooShort(minReasonLength)
	}
	if req.Amount.IsZero() {
		return apperror.ErrZeroAmount()
	}
	if req.Amount.Abs().GreaterThan(s.maxChange) {
		return apperror.ErrAmountCeilingExceeded(s.maxChange.String())
	}
	return nil
}

// notifyFundChange fires the post-commit notification. Failures are
// logged only; the committed change stands either way.
func (s *WalletServiceImpl) notifyFundChange(ctx context.Context, req ports.FundChangeRequest) {
	if s.notifier == nil {
		return
	}

	kind := ports.NotificationFundsAdded
	if req.Amount.IsNegative() {
		kind = ports.NotificationFundsRemoved
	}
	err := s.notifier.Notify(ctx, ports.Notification{
		AccountID:   req.AccountID,
		Kind:        kind,
		Amount:      req.Amount.Abs(),
		Description: req.Reason,
	})
	if err != nil {
		s.log.Error().Err(err).
			Str("account_id", req.AccountID).
			Msg("fund change notification failed")
	}
}

// GetAccount fetches a single account.
func (s *WalletServiceImpl) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("account")
	}
	return account, nil
}

// ListEntries fetches an account's ledger page, newest first.
func (s *WalletServiceImpl) ListEntries(ctx context.Context, accountID string, page, pageSize int) ([]domain.LedgerEntry, int64, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, 0, apperror.ErrNotFound("account")
	}

	entries, total, err := s.ledgerRepo.ListByAccount(ctx, accountID, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list ledger entries: %w", err))
	}
	return entries, total, nil
}

func balanceState(balance decimal.Decimal) string {
	b, _ := json.Marshal(map[string]string{"balance": balance.StringFixed(2)})
	return string(b)
}
