package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"numrent-admin-core/internal/core/domain"
	"numrent-admin-core/internal/core/ports"
	"numrent-admin-core/pkg/apperror"

	"github.com/rs/zerolog"
)

// AuditServiceImpl implements ports.AuditService.
type AuditServiceImpl struct {
	auditRepo ports.AuditRepository
	log       zerolog.Logger
}

// NewAuditService creates a new AuditServiceImpl.
func NewAuditService(auditRepo ports.AuditRepository, log zerolog.Logger) *AuditServiceImpl {
	return &AuditServiceImpl{auditRepo: auditRepo, log: log}
}

// RecordStatusChange documents a user status change performed by the
// surrounding admin application. The mutation itself lives elsewhere,
// so the record is appended outside any local transaction.
func (s *AuditServiceImpl) RecordStatusChange(ctx context.Context, req ports.StatusChangeRequest) (*domain.AuditRecord, error) {
	if req.ActorID == "" {
		return nil, apperror.ErrMissingActor()
	}
	if req.TargetID == "" {
		return nil, apperror.Validation("target id is required")
	}
	if req.StatusBefore == "" || req.StatusAfter == "" {
		return nil, apperror.Validation("status before and after are required")
	}

	now := time.Now().UTC()
	record := &domain.AuditRecord{
		ID:          domain.NewAuditRecordID(domain.AuditActionUserStatusChange, req.TargetID, now),
		Action:      domain.AuditActionUserStatusChange,
		ActorID:     req.ActorID,
		TargetID:    req.TargetID,
		BeforeState: statusState(req.StatusBefore),
		AfterState:  statusState(req.StatusAfter),
		CreatedAt:   now,
	}

	if err := s.auditRepo.Append(ctx, record); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append audit record: %w", err))
	}

	s.log.Info().
		Str("target_id", req.TargetID).
		Str("actor_id", req.ActorID).
		Str("status_after", req.StatusAfter).
		Msg("user status change recorded")

	return record, nil
}

// Query fetches audit records with filtering and pagination.
func (s *AuditServiceImpl) Query(ctx context.Context, q ports.AuditQuery) ([]domain.AuditRecord, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Action != nil && !domain.ValidAuditAction(*q.Action) {
		return nil, 0, apperror.Validation(fmt.Sprintf("unknown audit action %q", *q.Action))
	}

	records, total, err := s.auditRepo.Query(ctx, q)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("query audit records: %w", err))
	}
	return records, total, nil
}

func statusState(status string) string {
	b, _ := json.Marshal(map[string]string{"status": status})
	return string(b)
}
