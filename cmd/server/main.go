package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alias1177/CrashSignal/internal/api/openai"
	"github.com/Alias1177/CrashSignal/internal/checker"
	"github.com/Alias1177/CrashSignal/internal/commentary"
	"github.com/Alias1177/CrashSignal/internal/config"
	"github.com/Alias1177/CrashSignal/internal/database"
	"github.com/Alias1177/CrashSignal/internal/handler/web"
	"github.com/Alias1177/CrashSignal/internal/metrics"
	sig "github.com/Alias1177/CrashSignal/internal/signal"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}
	config.SetupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []checker.Option{checker.WithObserver(metrics.New(reg))}
	if cfg.Database.Enabled() {
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("journal database unavailable")
		}
		defer db.Close()
		opts = append(opts, checker.WithJournal(db))
	}

	explainer := commentary.NewClient(openai.Factory(cfg))
	svc := checker.New(sig.Default(), explainer, opts...)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = web.NewRenderer()
	e.Use(middleware.Recover())
	e.Use(web.RequestLogging())

	web.NewHandler(svc).RegisterRoutes(e)
	if cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("model", cfg.CommentaryModel).Msg("Signal checker listening")
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
