package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func (app *application) newServer(port string) *http.Server {
	return &http.Server{
		Addr:         port,
		Handler:      app.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}
}

func (app *application) serve(port string) error {
	srv := app.newServer(port)

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		s := <-quit

		app.logger.Info("shutting down server", slog.String("signal", s.String()), slog.Duration("shutdown_timeout", shutdownTimeout))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownError <- app.shutdown(ctx, srv)
	}()

	app.logger.Info("starting server",
		slog.String("port", port),
		slog.String("env", app.config.Environment),
		slog.String("version", app.config.Version),
		slog.String("store", app.config.StoreDriver),
		slog.Bool("rate_limit", app.config.RateLimitEnabled),
		slog.Bool("notifications", app.mailService != nil),
	)

	var err error
	if app.config.Environment == "production" {
		err = srv.ListenAndServeTLS(app.config.TLSCertFile, app.config.TLSKeyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownError; err != nil {
		return err
	}

	app.logger.Info("stopped server", slog.String("addr", srv.Addr), slog.String("store", app.config.StoreDriver))

	return nil
}

// shutdown drains in-flight requests, then stops the background goroutines and
// the notification consumer. The store and broker are closed by main.
func (app *application) shutdown(ctx context.Context, srv *http.Server) error {
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	app.logger.Info("completing background tasks", slog.String("addr", srv.Addr))

	app.stopBackground()

	finished := make(chan struct{})
	go func() {
		app.wg.Wait()
		if app.mailService != nil {
			app.mailService.Close()
		}
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stopBackground closes done at most once.
func (app *application) stopBackground() {
	app.stopOnce.Do(func() { close(app.done) })
}
