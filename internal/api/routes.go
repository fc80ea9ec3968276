package api

import (
	"net/http"

	"github.com/shelfdex/shelfdex/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Books.Handler().Routes(),
	)
}
