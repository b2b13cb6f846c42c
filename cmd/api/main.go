package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/facturio/autonomo-api/internal/application/auth"
	"github.com/facturio/autonomo-api/internal/application/billing"
	"github.com/facturio/autonomo-api/internal/application/expenses"
	"github.com/facturio/autonomo-api/internal/application/stats"
	"github.com/facturio/autonomo-api/internal/application/usecase"
	infrafacturae "github.com/facturio/autonomo-api/internal/infrastructure/facturae"
	infrapdf "github.com/facturio/autonomo-api/internal/infrastructure/pdf"
	"github.com/facturio/autonomo-api/internal/infrastructure/postgres"
	httpRouter "github.com/facturio/autonomo-api/internal/interfaces/http"
	"github.com/facturio/autonomo-api/pkg/config"
	"github.com/facturio/autonomo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	clientUC := usecase.NewClientUseCase(clientRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, clientRepo)
	quoteUC := billing.NewQuoteUseCase(txRunner, quoteRepo, invoiceRepo, clientRepo)
	transactionUC := expenses.NewTransactionUseCase(transactionRepo, categoryRepo)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := billing.NewPDFUseCase(invoiceRepo, clientRepo, userRepo, pdfGenerator)
	facturaeBuilder := infrafacturae.NewXMLBuilderService()
	facturaeUC := billing.NewFacturaeUseCase(invoiceRepo, clientRepo, userRepo, facturaeBuilder)

	statsUC := stats.NewStatsUseCase(invoiceRepo, transactionRepo, txRunner, stats.FallbackConfig{
		Enabled:  cfg.Fiscal.FlatRateFallback,
		VATRate:  cfg.Fiscal.FallbackVATRate,
		IRPFRate: cfg.Fiscal.FallbackIRPFRate,
	}, log.Zerolog())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Autónomo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ClientUC:      clientUC,
		CategoryUC:    categoryUC,
		InvoiceUC:     invoiceUC,
		PDFUC:         pdfUC,
		FacturaeUC:    facturaeUC,
		QuoteUC:       quoteUC,
		TransactionUC: transactionUC,
		StatsUC:       statsUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
