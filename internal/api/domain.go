package api

import (
	"github.com/shelfdex/shelfdex/internal/books"
	"github.com/shelfdex/shelfdex/internal/config"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Books books.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	booksSystem := books.New(
		runtime.Database.Pool(),
		runtime.Logger,
		runtime.Pagination,
		cfg.Catalog.BaseURL,
	)

	return &Domain{
		Books: booksSystem,
	}
}
