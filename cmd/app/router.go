package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/api/healthcheck", app.healthCheckHandler)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	// users
	router.HandlerFunc(http.MethodPost, "/api/users", app.registerUserHandler)
	router.HandlerFunc(http.MethodGet, "/api/users", app.listUsersHandler)
	router.HandlerFunc(http.MethodPost, "/api/login", app.loginUserHandler)

	// blogs
	router.HandlerFunc(http.MethodGet, "/api/blogs", app.listBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/api/blogs", app.requireAuthUser(app.createBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/api/blogs/:id", app.requireAuthUser(app.deleteBlogHandler))

	if app.config.UpdateRequiresOwner {
		router.HandlerFunc(http.MethodPut, "/api/blogs/:id", app.requireAuthUser(app.updateBlogHandler))
	} else {
		router.HandlerFunc(http.MethodPut, "/api/blogs/:id", app.updateBlogHandler)
	}

	return app.metrics(app.recoverPanic(app.requestID(app.logRequest(app.enableCORS(app.rateLimit(app.authenticate(router)))))))
}
