package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/jobledger/internal/config"
	"github.com/ignatzorin/jobledger/internal/http/handlers"
	"github.com/ignatzorin/jobledger/internal/http/middleware"
	"github.com/ignatzorin/jobledger/internal/service"
)

// Handlers собирает все обработчики движка.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Profile     *handlers.ProfileHandler
	Job         *handlers.JobHandler
	Application *handlers.ApplicationHandler
	Scout       *handlers.ScoutHandler
	Payment     *handlers.PaymentHandler
	Ledger      *handlers.LedgerHandler
	Health      *handlers.HealthHandler
	WS          *handlers.WSHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokens *service.TokenManager) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/challenge", h.Auth.Challenge)
		authGroup.POST("/verify", h.Auth.Verify)
	}

	// Публичные чтения
	api.GET("/ws", h.WS.Handle)
	api.GET("/profiles/:owner", middleware.OptionalAuthMiddleware(tokens), h.Profile.Get)
	api.GET("/jobs/:address", h.Job.Get)
	api.GET("/applications/:address", h.Application.Get)
	api.GET("/scout-offers/:address", h.Scout.Get)
	api.GET("/contact-requests/:address", h.Payment.Get)
	api.GET("/ledger/records/:address", h.Ledger.GetRecord)
	api.GET("/ledger/balances/:address", h.Ledger.GetBalance)

	if cfg.Env == "development" {
		api.POST("/ledger/credit", h.Ledger.Credit)
	}

	// Подписанные операции
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))
	protected.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		protected.POST("/profiles", h.Profile.Create)
		protected.PUT("/profiles", h.Profile.Update)
		protected.POST("/profiles/nft", h.Profile.AttachNFT)

		protected.POST("/jobs", h.Job.Create)
		protected.POST("/jobs/:address/close", h.Job.Close)

		protected.POST("/jobs/:address/applications", h.Application.Apply)
		protected.PUT("/applications/:address/status", h.Application.UpdateStatus)

		protected.POST("/scout-offers", h.Scout.Send)
		protected.POST("/scout-offers/:address/respond", h.Scout.Respond)

		protected.POST("/contact-requests", h.Payment.Process)
		protected.POST("/contact-requests/:address/complete", h.Payment.Complete)
		protected.POST("/contact-requests/:address/refund", h.Payment.Refund)
	}

	return r
}
