package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"RugScan/internal/domain/repository"
	"RugScan/internal/handler/api"
	"RugScan/internal/handler/ws"
	"RugScan/internal/service/ratelimit"
	"RugScan/internal/usecase"
	"RugScan/pkg/config"
	xhttp "RugScan/pkg/http"
	applogger "RugScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg    *config.Config
	log    *applogger.Logger
	uc     *usecase.AnalysisUseCase
	alerts repository.AlertPublisher

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	uc *usecase.AnalysisUseCase,
	alerts repository.AlertPublisher,
) *App {
	return &App{
		cfg:    cfg,
		log:    log,
		uc:     uc,
		alerts: alerts,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	// Aggregate repeated error logs onto the alert producer when one exists.
	if pub, ok := a.alerts.(applogger.Publisher); ok {
		a.log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "rugscan.error-logs",
			Publisher:      pub,
		})
		defer a.log.RemoveCollector()
	}

	handler := &routes{
		api: api.NewAnalysisEchoHandler(a.log, a.uc),
		ws:  ws.NewProgressHandler(a.log, a.uc),
	}
	if a.cfg.RateLimit.Enabled {
		handler.limiter = ratelimit.New()
		handler.capacity = a.cfg.RateLimit.Capacity
		handler.refill = a.cfg.RateLimit.RefillPerSec
	}

	a.httpServer = xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("analysis service started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Strings("chains", a.uc.Chains()))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(context.Background())
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.alerts != nil {
		if err := a.alerts.Close(); err != nil {
			a.log.Warn("alert publisher close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}

// routes registers both handlers on one Echo instance, with an optional
// per-IP token bucket on the API group.
type routes struct {
	api *api.AnalysisEchoHandler
	ws  *ws.ProgressHandler

	limiter  *ratelimit.Limiter
	capacity float64
	refill   float64
}

func (r *routes) RegisterRoutes(e *echo.Echo) {
	if r.limiter != nil {
		e.Use(r.rateLimit)
	}
	r.api.RegisterRoutes(e)
	r.ws.RegisterRoutes(e)
}

func (r *routes) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !r.limiter.Allow(c.RealIP(), r.capacity, r.refill) {
			return xhttp.DataResponse(c, 429, "rate limit exceeded")
		}
		return next(c)
	}
}
