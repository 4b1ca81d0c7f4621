package dto

import (
	"numrent-admin-core/internal/core/domain"
	"numrent-admin-core/internal/core/ports"

	"github.com/shopspring/decimal"
)

// Monetary fields travel as strings and are parsed with
// decimal.NewFromString; binding floats would lose precision.

// FundChangeRequest is the request body for a wallet fund change.
type FundChangeRequest struct {
	Amount string `json:"amount" binding:"required"`
	Reason string `json:"reason" binding:"required,min=5,max=500"`
}

// OverrideRequest is the request body for setting a pricing override.
type OverrideRequest struct {
	Price string `json:"price" binding:"required"`
}

// MarkupRequest is the request body for setting the global markup.
type MarkupRequest struct {
	MarkupPercentage string `json:"markup_percentage" binding:"required"`
}

// StatusChangeRequest is the request body for recording a user status change.
type StatusChangeRequest struct {
	TargetID     string `json:"target_id" binding:"required,max=100"`
	StatusBefore string `json:"status_before" binding:"required,max=50"`
	StatusAfter  string `json:"status_after" binding:"required,max=50"`
}

// AccountResponse is the response body for account queries.
type AccountResponse struct {
	ID        string `json:"id"`
	Balance   string `json:"balance"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// LedgerEntryResponse is the response body for a single ledger entry.
type LedgerEntryResponse struct {
	ID            string `json:"id"`
	AccountID     string `json:"account_id"`
	Kind          string `json:"kind"`
	SignedAmount  string `json:"signed_amount"`
	Reason        string `json:"reason"`
	ActorID       string `json:"actor_id"`
	BalanceBefore string `json:"balance_before"`
	BalanceAfter  string `json:"balance_after"`
	CreatedAt     string `json:"created_at"`
}

// OverrideResponse is the response body for a pricing override.
type OverrideResponse struct {
	ServiceCode   string `json:"service_code"`
	CountryCode   string `json:"country_code"`
	OverridePrice string `json:"override_price"`
	LastUpdatedBy string `json:"last_updated_by"`
	LastUpdatedAt string `json:"last_updated_at"`
}

// MarkupResponse is the response body for the markup configuration.
type MarkupResponse struct {
	MarkupPercentage string `json:"markup_percentage"`
	MinimumPrice     string `json:"minimum_price"`
	MaximumPrice     string `json:"maximum_price"`
	UpdatedBy        string `json:"updated_by,omitempty"`
}

// AuditRecordResponse is the response body for one audit record.
type AuditRecordResponse struct {
	ID          string `json:"id"`
	Action      string `json:"action"`
	ActorID     string `json:"actor_id"`
	TargetID    string `json:"target_id"`
	BeforeState string `json:"before_state"`
	AfterState  string `json:"after_state"`
	CreatedAt   string `json:"created_at"`
	Seq         int64  `json:"seq"`
}

// PagedResponse wraps a paginated list.
type PagedResponse struct {
	Items    any   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// ParseAmount parses a decimal string carried in a request body.
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

// ToAccountResponse maps a domain account onto the wire shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Balance:   a.Balance.StringFixed(2),
		Currency:  a.Currency,
		Status:    string(a.Status),
		UpdatedAt: a.UpdatedAt.UTC().Format(timeLayout),
	}
}

// ToLedgerEntryResponse maps a ledger entry onto the wire shape.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:            e.ID.String(),
		AccountID:     e.AccountID,
		Kind:          string(e.Kind),
		SignedAmount:  e.SignedAmount.StringFixed(2),
		Reason:        e.ReasonText,
		ActorID:       e.ActorID,
		BalanceBefore: e.BalanceBefore.StringFixed(2),
		BalanceAfter:  e.BalanceAfter.StringFixed(2),
		CreatedAt:     e.CreatedAt.UTC().Format(timeLayout),
	}
}

// ToOverrideResponse maps a pricing rule onto the wire shape.
func ToOverrideResponse(r *domain.PricingRule) OverrideResponse {
	return OverrideResponse{
		ServiceCode:   r.ServiceCode,
		CountryCode:   r.CountryCode,
		OverridePrice: r.OverridePrice.StringFixed(2),
		LastUpdatedBy: r.LastUpdatedBy,
		LastUpdatedAt: r.LastUpdatedAt.UTC().Format(timeLayout),
	}
}

// ToMarkupResponse maps the markup configuration onto the wire shape.
func ToMarkupResponse(cfg *domain.MarkupConfig) MarkupResponse {
	return MarkupResponse{
		MarkupPercentage: cfg.MarkupPercentage.String(),
		MinimumPrice:     cfg.MinimumPrice.StringFixed(2),
		MaximumPrice:     cfg.MaximumPrice.StringFixed(2),
		UpdatedBy:        cfg.UpdatedBy,
	}
}

// ToAuditRecordResponse maps an audit record onto the wire shape.
func ToAuditRecordResponse(rec *domain.AuditRecord) AuditRecordResponse {
	return AuditRecordResponse{
		ID:          rec.ID.String(),
		Action:      string(rec.Action),
		ActorID:     rec.ActorID,
		TargetID:    rec.TargetID,
		BeforeState: rec.BeforeState,
		AfterState:  rec.AfterState,
		CreatedAt:   rec.CreatedAt.UTC().Format(timeLayout),
		Seq:         rec.Seq,
	}
}

// QuoteResponse is the response body for a live price quote.
type QuoteResponse struct {
	ServiceCode    string `json:"service_code"`
	CountryCode    string `json:"country_code"`
	BaseCost       string `json:"base_cost"`
	EffectivePrice string `json:"effective_price"`
	Profit         string `json:"profit"`
	IsOverride     bool   `json:"is_override"`
	Clamped        bool   `json:"clamped"`
	CostFromCache  bool   `json:"cost_from_cache"`
}

// ToQuoteResponse maps a price quote onto the wire shape.
func ToQuoteResponse(q *ports.PriceQuote) QuoteResponse {
	return QuoteResponse{
		ServiceCode:    q.ServiceCode,
		CountryCode:    q.CountryCode,
		BaseCost:       q.BaseCost.StringFixed(2),
		EffectivePrice: q.EffectivePrice.StringFixed(2),
		Profit:         q.Profit.StringFixed(2),
		IsOverride:     q.IsOverride,
		Clamped:        q.Clamped,
		CostFromCache:  q.CostFromCache,
	}
}
