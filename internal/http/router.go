package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/monaltech/saleor/internal/http/handlers"
	"github.com/monaltech/saleor/internal/http/middleware"
	"github.com/monaltech/saleor/internal/modules/cybersource"
	"github.com/monaltech/saleor/internal/storage"
)

// RouterDeps carries everything the HTTP layer needs wired in.
type RouterDeps struct {
	Logger   *slog.Logger
	Config   *cybersource.Config
	Payments handlers.PaymentProcessor
	Webhooks handlers.WebhookProcessor
	Archive  storage.Storage
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.ErrorHandler(deps.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pay := handlers.NewPaymentHandler(deps.Payments, deps.Logger)
	r.POST("/pay", pay.Pay)

	wh := handlers.NewWebhookHandler(deps.Webhooks, deps.Config, deps.Logger)
	wh.Archive = deps.Archive

	hooks := r.Group("/webhooks/cybersource")
	{
		hooks.POST("/notify", wh.Notify)
		// The hosted page returns the customer with a POST, but some
		// card issuers' 3DS flows come back as a GET.
		hooks.POST("/return", wh.Return)
		hooks.GET("/return", wh.Return)
	}

	return r
}
