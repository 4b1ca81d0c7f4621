package handler

import (
	"numrent-admin-core/internal/adapter/http/middleware"
	"numrent-admin-core/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	PricingSvc     ports.PricingService
	AuditSvc       ports.AuditService
	TokenVerifier  ports.TokenVerifier
	HealthCheckers map[string]Pinger // nil = liveness-only health
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))

	r.GET("/health", HealthCheck(deps.HealthCheckers))

	auth := middleware.ActorAuth(deps.TokenVerifier, deps.Logger)
	v1 := r.Group("/api/v1", auth)

	walletHandler := NewWalletHandler(deps.WalletSvc)
	accounts := v1.Group("/accounts")
	{
		accounts.POST("/:id/funds", walletHandler.ApplyFundChange)
		accounts.GET("/:id", walletHandler.GetAccount)
		accounts.GET("/:id/entries", walletHandler.ListEntries)
	}

	pricingHandler := NewPricingHandler(deps.PricingSvc)
	pricing := v1.Group("/pricing")
	{
		pricing.PUT("/overrides/:service/:country", pricingHandler.SetOverride)
		pricing.DELETE("/overrides/:service/:country", pricingHandler.ClearOverride)
		pricing.GET("/overrides", pricingHandler.ListOverrides)
		pricing.PUT("/markup", pricingHandler.SetMarkup)
		pricing.GET("/markup", pricingHandler.GetMarkup)
		pricing.GET("/quote/:service/:country", pricingHandler.Quote)
	}

	auditHandler := NewAuditHandler(deps.AuditSvc)
	audit := v1.Group("/audit")
	{
		audit.POST("/status-change", auditHandler.RecordStatusChange)
		audit.GET("", auditHandler.Query)
	}

	return r
}
