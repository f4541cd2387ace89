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
	"github.com/jhoicas/Timesheet-api/internal/application/auth"
	"github.com/jhoicas/Timesheet-api/internal/application/billing"
	"github.com/jhoicas/Timesheet-api/internal/application/invoicing"
	"github.com/jhoicas/Timesheet-api/internal/bootstrap"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
	"github.com/jhoicas/Timesheet-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Timesheet-api/internal/interfaces/http"
	"github.com/jhoicas/Timesheet-api/pkg/config"
	"github.com/jhoicas/Timesheet-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	if cfg.JWT.Secret == "" {
		panic("JWT_SECRET requerido")
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
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

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	templateRepo := postgres.NewInvoiceTemplateRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	timesheetRepo := postgres.NewTimesheetRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	inv, err := bootstrap.NewInvoicing(cfg.Invoice, bootstrap.InvoiceDeps{
		Invoices: invoiceRepo,
		Items:    []invoice.ItemRepository{timesheetRepo},
		Log:      log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("servicio de facturación")
	}

	invoiceUC := invoicing.NewInvoiceUseCase(
		inv.Service, customerRepo, templateRepo, invoiceRepo, inv.Files, txRunner, log,
	)
	customerUC := billing.NewCustomerUseCase(customerRepo)
	templateUC := billing.NewTemplateUseCase(templateRepo, inv.Service)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // el render PDF de facturas grandes tarda
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Timesheet Invoice API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		InvoiceUC:  invoiceUC,
		CustomerUC: customerUC,
		TemplateUC: templateUC,
		Users:      userRepo,
		JWTSecret:  cfg.JWT.Secret,
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
