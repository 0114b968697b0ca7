package server

import (
	"pixa-backend/internal/handler"
	custommw "pixa-backend/internal/middleware"
	"pixa-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo              *echo.Echo
	jwtSecret         string
	webhookHandler    *handler.WebhookHandler
	creditsHandler    *handler.CreditsHandler
	refundHandler     *handler.RefundHandler
	generationHandler *handler.GenerationHandler
}

func NewServer(
	log *zap.Logger,
	jwtSecret string,
	webhookService service.WebhookService,
	ledgerService service.LedgerService,
	refundService service.RefundService,
	generationService service.GenerationService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:              e,
		jwtSecret:         jwtSecret,
		webhookHandler:    handler.NewWebhookHandler(webhookService, log),
		creditsHandler:    handler.NewCreditsHandler(ledgerService),
		refundHandler:     handler.NewRefundHandler(refundService),
		generationHandler: handler.NewGenerationHandler(generationService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- provider webhooks (signature-gated, no JWT) --------
	api.POST("/webhooks/razorpay", s.webhookHandler.RazorpayWebhook)

	// -------- client-facing (JWT) --------
	authed := api.Group("", custommw.JWTAuth(s.jwtSecret))
	authed.POST("/users/bootstrap", s.creditsHandler.Bootstrap)
	authed.GET("/me", s.creditsHandler.Me)
	authed.GET("/credits/transactions", s.creditsHandler.Transactions)
	authed.POST("/credits/debit", s.creditsHandler.Debit)
	authed.POST("/refunds/request", s.refundHandler.RequestRefund)
	authed.POST("/generations", s.generationHandler.Generate)
	authed.GET("/creations", s.generationHandler.ListCreations)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
