package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"p2p-lending-backend/internal/adapter/middleware"
)

// Routes bundles what RegisterRoutes mounts.
type Routes struct {
	Health    *Handler
	Loans     *LoanHandler
	Offers    *OfferHandler
	Lifecycle *LifecycleHandler

	Users          middleware.UserLookup
	Redis          *redis.Client
	IdempotencyTTL time.Duration
	Metrics        http.Handler
}

func RegisterRoutes(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}

	api := e.Group("", middleware.CallerMiddleware(r.Users))
	api.POST("/loans", r.Loans.CreateLoan)
	api.GET("/loans", r.Loans.List)
	api.GET("/loans/open", r.Loans.ListOpen)
	api.GET("/loans/:loan_id", r.Loans.GetLoan)
	api.POST("/offers", r.Offers.SubmitOffer)

	lifecycle := api.Group("/loans/:loan_id", middleware.IdempotencyMiddleware(r.Redis, r.IdempotencyTTL))
	lifecycle.POST("/accept_offer", r.Lifecycle.AcceptOffer)
	lifecycle.POST("/pay", r.Lifecycle.MakePayment)
}
