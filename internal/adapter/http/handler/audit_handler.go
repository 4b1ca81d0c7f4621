package handler

import (
	"time"

	"numrent-admin-core/internal/adapter/http/dto"
	"numrent-admin-core/internal/adapter/http/middleware"
	"numrent-admin-core/internal/core/domain"
	"numrent-admin-core/internal/core/ports"
	"numrent-admin-core/pkg/apperror"
	"numrent-admin-core/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuditHandler handles audit log endpoints.
type AuditHandler struct {
	auditSvc ports.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditSvc ports.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// RecordStatusChange handles POST /api/v1/audit/status-change.
func (h *AuditHandler) RecordStatusChange(c *gin.Context) {
	var req dto.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	record, err := h.auditSvc.RecordStatusChange(c.Request.Context(), ports.StatusChangeRequest{
		TargetID:     req.TargetID,
		ActorID:      middleware.ActorID(c),
		StatusBefore: req.StatusBefore,
		StatusAfter:  req.StatusAfter,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToAuditRecordResponse(record))
}

// Query handles GET /api/v1/audit.
func (h *AuditHandler) Query(c *gin.Context) {
	page, pageSize := pagination(c)
	q := ports.AuditQuery{Page: page, PageSize: pageSize}

	if v := c.Query("actor_id"); v != "" {
		q.ActorID = &v
	}
	if v := c.Query("target_id"); v != "" {
		q.TargetID = &v
	}
	if v := c.Query("action"); v != "" {
		action := domain.AuditAction(v)
		q.Action = &action
	}
	if v := c.Query("since"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, apperror.Validation("since must be RFC3339"))
			return
		}
		q.Since = &ts
	}
	if v := c.Query("until"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, apperror.Validation("until must be RFC3339"))
			return
		}
		q.Until = &ts
	}

	records, total, err := h.auditSvc.Query(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.AuditRecordResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.ToAuditRecordResponse(&records[i]))
	}
	response.OK(c, dto.PagedResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}
