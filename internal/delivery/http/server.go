package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"go.uber.org/zap"

	"github.com/journey-scanner/internal/config"
	"github.com/journey-scanner/internal/delivery/http/handler"
	"github.com/journey-scanner/internal/delivery/http/middleware"
)

// Server is the Fiber HTTP server wiring all journey endpoints.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	journeyHandler *handler.JourneyHandler
	scanHandler    *handler.ScanHandler
	receiptHandler *handler.ReceiptHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	journeyHandler *handler.JourneyHandler,
	scanHandler *handler.ScanHandler,
	receiptHandler *handler.ReceiptHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Journey Scanner",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		journeyHandler: journeyHandler,
		scanHandler:    scanHandler,
		receiptHandler: receiptHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Journey lifecycle
	api.Post("/journeys", s.journeyHandler.CreateJourney)
	api.Get("/journeys/:id", s.journeyHandler.GetStatus)

	// Scan flow
	api.Post("/journeys/:id/payment", s.scanHandler.ConfirmPayment)
	api.Get("/journeys/:id/qr", s.scanHandler.NextQR)
	api.Post("/journeys/:id/scan", s.scanHandler.SubmitScan)
	api.Get("/journeys/:id/summary", s.scanHandler.Summary)

	// Receipts
	api.Get("/journeys/:id/receipt.pdf", s.receiptHandler.PrintReceipt)
	api.Get("/receipts/:id", s.receiptHandler.GetArchivedReceipt)
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
