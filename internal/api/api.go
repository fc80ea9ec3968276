// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/shelfdex/shelfdex/internal/config"
	"github.com/shelfdex/shelfdex/pkg/middleware"
	"github.com/shelfdex/shelfdex/pkg/module"
)

// NewModule creates the API module over the shared domain systems.
func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain) *module.Module {
	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(runtime.Logger))

	return m
}
