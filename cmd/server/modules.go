package main

import (
	"encoding/json"
	"net/http"

	"github.com/shelfdex/shelfdex/internal/api"
	"github.com/shelfdex/shelfdex/internal/config"
	"github.com/shelfdex/shelfdex/internal/feeds"
	"github.com/shelfdex/shelfdex/internal/infrastructure"
	"github.com/shelfdex/shelfdex/pkg/module"
)

type Modules struct {
	API  *module.Module
	OPDS *module.Module
}

func NewModules(cfg *config.Config, infra *infrastructure.Infrastructure) *Modules {
	runtime := api.NewRuntime(cfg, infra)
	domain := api.NewDomain(cfg, runtime)

	return &Modules{
		API:  api.NewModule(cfg, runtime, domain),
		OPDS: feeds.NewModule(cfg, domain.Books, infra.Logger),
	}
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.OPDS)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
