package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stellar-burgers/internal/application/ports"
	"github.com/jhoicas/stellar-burgers/internal/application/receipt"
	"github.com/jhoicas/stellar-burgers/internal/application/state"
	"github.com/jhoicas/stellar-burgers/internal/infrastructure/burgerapi"
	"github.com/jhoicas/stellar-burgers/internal/infrastructure/credentials"
	infrapdf "github.com/jhoicas/stellar-burgers/internal/infrastructure/pdf"
	"github.com/jhoicas/stellar-burgers/internal/infrastructure/postgres"
	"github.com/jhoicas/stellar-burgers/internal/infrastructure/reporting"
	httpRouter "github.com/jhoicas/stellar-burgers/internal/interfaces/http"
	"github.com/jhoicas/stellar-burgers/pkg/config"
	"github.com/jhoicas/stellar-burgers/pkg/logger"
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
		Str("api", cfg.API.BaseURL).
		Str("credentials", cfg.Credentials.Driver).
		Msg("iniciando aplicación")

	// Sentry: solo si hay DSN
	var reporter ports.ErrorReporter
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.App.Env,
			Release:     cfg.App.Name,
		}); err != nil {
			log.Error().Err(err).Msg("inicializar Sentry")
		} else {
			defer sentry.Flush(2 * time.Second)
			reporter = reporting.NewSentryReporter(nil)
		}
	}

	ctx := context.Background()

	// Tokens e historial local: memoria o PostgreSQL
	var (
		creds   ports.CredentialStore = credentials.NewMemoryStore()
		archive ports.OrderArchive
	)
	if cfg.Credentials.Driver == "postgres" {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migrar esquema")
		}
		creds = postgres.NewCredentialRepository(pool, cfg.App.Name)
		archive = postgres.NewPlacedOrderRepository(pool, cfg.App.Name)
	}

	client := burgerapi.New(cfg.API.BaseURL, cfg.API.Timeout, creds, burgerapi.WithLogger(log))
	st := state.New(state.Deps{
		Catalog:     client,
		Auth:        client,
		Orders:      client,
		Credentials: creds,
		Logger:      log,
		Reporter:    reporter,
	})

	bootCtx, cancelBoot := context.WithTimeout(ctx, 2*cfg.API.Timeout)
	if err := st.Bootstrap(bootCtx); err != nil {
		// El servidor arranca igual: el catálogo y el feed se pueden recargar por HTTP.
		log.Warn().Err(err).Msg("arranque incompleto")
	}
	cancelBoot()
	auth := st.Selectors().AuthStatus(st.Snapshot())
	log.Info().
		Bool("authenticated", auth.IsAuthenticated).
		Int("ingredients", len(st.Snapshot().Catalog.Items)).
		Msg("estado inicial cargado")

	// PDF: comprobante del pedido
	receipts := receipt.NewUseCase(infrapdf.NewMarotoReceiptRenderer(""), archive, cfg.Receipt.FeedURL)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.API.Timeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	if cfg.Sentry.DSN != "" {
		app.Use(sentryfiber.New(sentryfiber.Options{Repanic: true}))
	}
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stellar Burgers API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		State:    st,
		Receipts: receipts,
		Logger:   log,
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
