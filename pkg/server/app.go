package server

import (
	"context"
	"errors"
	"io"
	"time"

	"FinAssist/pkg/config"
	xhttp "FinAssist/pkg/http"
	applogger "FinAssist/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	closers    []io.Closer
}

// New creates a new App. Closers are closed in reverse order on shutdown.
func New(cfg *config.Config, logger *applogger.Logger, httpServer *xhttp.Server, closers ...io.Closer) *App {
	return &App{
		cfg:        cfg,
		logger:     applogger.OrNop(logger),
		httpServer: httpServer,
		closers:    closers,
	}
}

// HTTPServer returns the HTTP server.
func (a *App) HTTPServer() *xhttp.Server { return a.httpServer }

// Run starts the HTTP server and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("finassist started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("addr", a.httpServer.Addr()),
	)

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.Shutdown()
}

// Shutdown gracefully stops the server and releases infrastructure clients.
func (a *App) Shutdown() error {
	timeout := a.httpServer.ShutdownTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
