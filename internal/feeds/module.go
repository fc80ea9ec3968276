package feeds

import (
	"log/slog"
	"net/http"

	"github.com/shelfdex/shelfdex/internal/books"
	"github.com/shelfdex/shelfdex/internal/config"
	"github.com/shelfdex/shelfdex/pkg/middleware"
	"github.com/shelfdex/shelfdex/pkg/module"
	"github.com/shelfdex/shelfdex/pkg/routes"
)

// NewModule creates the OPDS module over the shared catalog system.
func NewModule(cfg *config.Config, sys books.System, logger *slog.Logger) *module.Module {
	handler := NewHandler(sys, logger.With("module", "opds"), cfg.API.Pagination)

	mux := http.NewServeMux()
	routes.Register(mux, handler.Routes())

	m := module.New(basePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(logger))

	return m
}
