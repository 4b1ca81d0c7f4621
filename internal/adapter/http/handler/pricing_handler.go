package handler

import (
	"numrent-admin-core/internal/adapter/http/dto"
	"numrent-admin-core/internal/adapter/http/middleware"
	"numrent-admin-core/internal/core/ports"
	"numrent-admin-core/pkg/apperror"
	"numrent-admin-core/pkg/response"

	"github.com/gin-gonic/gin"
)

// PricingHandler handles markup, override and quote endpoints.
type PricingHandler struct {
	pricingSvc ports.PricingService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(pricingSvc ports.PricingService) *PricingHandler {
	return &PricingHandler{pricingSvc: pricingSvc}
}

// SetOverride handles PUT /api/v1/pricing/overrides/:service/:country.
func (h *PricingHandler) SetOverride(c *gin.Context) {
	var req dto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	price, err := dto.ParseAmount(req.Price)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount(req.Price))
		return
	}

	record, err := h.pricingSvc.SetOverride(c.Request.Context(),
		c.Param("service"), c.Param("country"), price, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAuditRecordResponse(record))
}

// ClearOverride handles DELETE /api/v1/pricing/overrides/:service/:country.
func (h *PricingHandler) ClearOverride(c *gin.Context) {
	record, err := h.pricingSvc.ClearOverride(c.Request.Context(),
		c.Param("service"), c.Param("country"), middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAuditRecordResponse(record))
}

// ListOverrides handles GET /api/v1/pricing/overrides.
func (h *PricingHandler) ListOverrides(c *gin.Context) {
	page, pageSize := pagination(c)

	rules, total, err := h.pricingSvc.ListOverrides(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.OverrideResponse, 0, len(rules))
	for i := range rules {
		items = append(items, dto.ToOverrideResponse(&rules[i]))
	}
	response.OK(c, dto.PagedResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// SetMarkup handles PUT /api/v1/pricing/markup.
func (h *PricingHandler) SetMarkup(c *gin.Context) {
	var req dto.MarkupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	pct, err := dto.ParseAmount(req.MarkupPercentage)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount(req.MarkupPercentage))
		return
	}

	record, err := h.pricingSvc.SetGlobalMarkup(c.Request.Context(), pct, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAuditRecordResponse(record))
}

// GetMarkup handles GET /api/v1/pricing/markup.
func (h *PricingHandler) GetMarkup(c *gin.Context) {
	cfg, err := h.pricingSvc.GetMarkup(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToMarkupResponse(cfg))
}

// Quote handles GET /api/v1/pricing/quote/:service/:country.
func (h *PricingHandler) Quote(c *gin.Context) {
	quote, err := h.pricingSvc.Quote(c.Request.Context(), c.Param("service"), c.Param("country"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToQuoteResponse(quote))
}
