package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/franquicias-api/internal/application/usecase"
	"github.com/jhoicas/franquicias-api/internal/infrastructure/redis"
	"github.com/jhoicas/franquicias-api/internal/infrastructure/store"
	"github.com/jhoicas/franquicias-api/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/franquicias-api/internal/interfaces/http"
	"github.com/jhoicas/franquicias-api/pkg/config"
	"github.com/jhoicas/franquicias-api/pkg/logger"
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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := telemetry.Init(ctx, log, cfg.App, cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar OpenTelemetry")
	}

	st, err := store.Open(ctx, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer st.Close()

	// Caché de reportes: Redis si está configurado; si no, desactivada.
	reportCache, closeCache := redis.OpenReportCache(ctx, cfg.Redis, log)
	defer closeCache()

	franchiseUC := usecase.NewFranchiseUseCase(st.Repo, reportCache, log, cfg.Store.MaxRetries)
	reportUC := usecase.NewReportUseCase(st.Repo, reportCache, log)

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: las rutas de escritura no requieren autenticación")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(otelfiber.Middleware())
	app.Use(httpRouter.MetricsMiddleware())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:          cfg.App.Name,
		FranchiseUC:      franchiseUC,
		ReportUC:         reportUC,
		BatchConcurrency: cfg.App.BatchConcurrency,
		JWTSecret:        cfg.JWT.Secret,
		Ping:             st.Ping,
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
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de OpenTelemetry")
	}

	log.Info().Msg("aplicación detenida")
}
