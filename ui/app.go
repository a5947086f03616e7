// Package ui exposes the delivery pipeline over HTTP.
package ui

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"routeboard/internal/pipeline"
	"routeboard/ports"
)

// App represents the web application
type App struct {
	router *chi.Mux
	rules  pipeline.Rules
	store  ports.RecordStore
}

// Config holds web application configuration
type Config struct {
	Port string
}

// NewApp creates a new web application around the given rules and store.
func NewApp(rules pipeline.Rules, store ports.RecordStore) *App {
	app := &App{
		router: chi.NewRouter(),
		rules:  rules,
		store:  store,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Post("/api/import", a.handleImport)
	a.router.Post("/api/status", a.handleStatus)
	a.router.Get("/api/records", a.handleListRecords)
	a.router.Delete("/api/records", a.handleClearRecords)
	a.router.Get("/api/summary", a.handleSummary)
	a.router.Get("/report", a.handleReport)
}

// Router exposes the configured handler for tests and embedding.
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server on the configured port.
func (a *App) Start(config Config) error {
	addr := ":" + config.Port
	log.Printf("[UI] Starting delivery board server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}
