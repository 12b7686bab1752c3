package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// healthCheckHandler reports 503 while the store cannot be reached.
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "available", http.StatusOK

	if app.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := app.ping(ctx); err != nil {
			app.logger.Error("store ping failed", slog.String("store", app.config.StoreDriver), slog.String("error", err.Error()), slog.String("request_id", requestIDFromContext(r.Context())))
			status, code = "unavailable", http.StatusServiceUnavailable
		}
	}

	env := envelope{
		"status": status,
		"system_info": map[string]string{
			"environment": app.config.Environment,
			"version":     app.config.Version,
			"store":       app.config.StoreDriver,
		},
	}

	err := app.writeJSON(w, code, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
