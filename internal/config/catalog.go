package config

import (
	"fmt"
	"net/url"
	"os"
)

const (
	EnvCatalogBaseURL = "SHELFDEX_CATALOG_BASE_URL"
)

// CatalogConfig holds settings for the upstream ebook catalog that
// generated links and feed entries point at.
type CatalogConfig struct {
	BaseURL string `toml:"base_url"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *CatalogConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *CatalogConfig) Merge(overlay *CatalogConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
}

func (c *CatalogConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://www.gutenberg.org"
	}
}

func (c *CatalogConfig) loadEnv() {
	if v := os.Getenv(EnvCatalogBaseURL); v != "" {
		c.BaseURL = v
	}
}

func (c *CatalogConfig) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url: %q", c.BaseURL)
	}
	return nil
}
