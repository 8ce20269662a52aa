package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/exhibition-api/internal/application/billing"
	"github.com/jhoicas/exhibition-api/internal/application/dto"
	inframail "github.com/jhoicas/exhibition-api/internal/infrastructure/mail"
	inframetrics "github.com/jhoicas/exhibition-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/exhibition-api/internal/infrastructure/pdf"
	"github.com/jhoicas/exhibition-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/exhibition-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/exhibition-api/internal/interfaces/http"
	"github.com/jhoicas/exhibition-api/pkg/config"
	"github.com/jhoicas/exhibition-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("email_backend", cfg.Mail.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("esquema al día")
	}

	customerRepo := postgres.NewCustomerRepository(pool)
	billRepo := postgres.NewBillRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Métricas: si están deshabilitadas los casos de uso reciben NopMetrics
	var metrics billing.Metrics = billing.NopMetrics{}
	var businessMetrics *inframetrics.BusinessMetrics
	if cfg.Features.Metrics {
		businessMetrics = inframetrics.New()
		metrics = businessMetrics
	}

	// Correo de bienvenida: SMTP (gomail) o consola según EMAIL_BACKEND
	mailLog := log.Component("mail")
	notifier := inframail.NewWelcomeNotifier(
		inframail.NewSender(cfg.Mail, mailLog),
		cfg.Mail.From, cfg.Mail.TeamName, mailLog,
	)

	customerUC := billing.NewCustomerUseCase(customerRepo, billRepo, notifier, metrics, log.Component("customers"))
	billUC := billing.NewBillUseCase(billRepo, customerRepo, metrics, log.Component("bills"))
	exportUC := billing.NewExportUseCase(txRunner, infraxlsx.NewExporter(), metrics, log.Component("export"))
	statementUC := billing.NewStatementUseCase(txRunner, infrapdf.NewMarotoPDFGenerator(), cfg.Site.Title)

	httpLog := log.Component("http")
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{Code: "HTTP_" + strconv.Itoa(code), Message: err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.AccessLog(httpLog))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Features.Swagger {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    cfg.Site.Title + " API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if businessMetrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(businessMetrics.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CustomerUC:  customerUC,
		BillUC:      billUC,
		ExportUC:    exportUC,
		StatementUC: statementUC,
		Site:        cfg.Site,
		Log:         httpLog,
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
