package handler

import (
	"strconv"

	"numrent-admin-core/internal/adapter/http/dto"
	"numrent-admin-core/internal/adapter/http/middleware"
	"numrent-admin-core/internal/core/ports"
	"numrent-admin-core/pkg/apperror"
	"numrent-admin-core/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles account and ledger endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// ApplyFundChange handles POST /api/v1/accounts/:id/funds.
func (h *WalletHandler) ApplyFundChange(c *gin.Context) {
	var req dto.FundChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount(req.Amount))
		return
	}

	entry, err := h.walletSvc.ApplyFundChange(c.Request.Context(), ports.FundChangeRequest{
		AccountID: c.Param("id"),
		Amount:    amount,
		Reason:    req.Reason,
		ActorID:   middleware.ActorID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToLedgerEntryResponse(entry))
}

// GetAccount handles GET /api/v1/accounts/:id.
func (h *WalletHandler) GetAccount(c *gin.Context) {
	account, err := h.walletSvc.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAccountResponse(account))
}

// ListEntries handles GET /api/v1/accounts/:id/entries.
func (h *WalletHandler) ListEntries(c *gin.Context) {
	page, pageSize := pagination(c)

	entries, total, err := h.walletSvc.ListEntries(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.ToLedgerEntryResponse(&entries[i]))
	}
	response.OK(c, dto.PagedResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// pagination reads page/page_size query params with sane bounds.
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
