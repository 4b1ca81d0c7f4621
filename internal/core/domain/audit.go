package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditAction identifies the privileged action an audit record covers.
type AuditAction string

const (
	AuditActionFundAdd          AuditAction = "FUND_ADD"
	AuditActionFundRemove       AuditAction = "FUND_REMOVE"
	AuditActionUserStatusChange AuditAction = "USER_STATUS_CHANGE"
	AuditActionPriceOverride    AuditAction = "PRICE_OVERRIDE"
	AuditActionPriceReset       AuditAction = "PRICE_RESET"
	AuditActionMarkupChange     AuditAction = "MARKUP_CHANGE"
)

// ValidAuditAction reports whether a is a known action.
func ValidAuditAction(a AuditAction) bool {
	switch a {
	case AuditActionFundAdd, AuditActionFundRemove, AuditActionUserStatusChange,
		AuditActionPriceOverride, AuditActionPriceReset, AuditActionMarkupChange:
		return true
	}
	return false
}

// AuditRecord is one append-only entry in the admin audit log. Records are
// never mutated. Seq is assigned by the store and breaks created_at ties.
type AuditRecord struct {
	ID          uuid.UUID   `json:"id"`
	Action      AuditAction `json:"action"`
	ActorID     string      `json:"actor_id"`
	TargetID    string      `json:"target_id"`
	BeforeState string      `json:"before_state,omitempty"` // JSON snapshot
	AfterState  string      `json:"after_state,omitempty"`  // JSON snapshot
	CreatedAt   time.Time   `json:"created_at"`
	Seq         int64       `json:"-"`
}

var auditNamespace = uuid.MustParse("c2a4f0de-55b7-49c4-8a47-9f2de0a7b301")

// NewAuditRecordID derives a deterministic record id from the originating
// operation. A retried operation produces the same id, so the append stays
// exactly-once under retry.
func NewAuditRecordID(action AuditAction, targetID string, at time.Time) uuid.UUID {
	seed := fmt.Sprintf("%s|%s|%d", action, targetID, at.UnixNano())
	return uuid.NewSHA1(auditNamespace, []byte(seed))
}
