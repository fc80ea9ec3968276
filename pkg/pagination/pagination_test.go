package pagination_test

import (
	"net/url"
	"testing"

	"github.com/shelfdex/shelfdex/pkg/pagination"
)

func testConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 28, MaxPageSize: 100}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"valid values unchanged", 3, 50, 3, 50},
		{"zero page floors to one", 0, 50, 1, 50},
		{"negative page floors to one", -2, 50, 1, 50},
		{"zero size defaults", 1, 0, 1, 28},
		{"oversize capped", 1, 500, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequest{Page: tt.page, PageSize: tt.pageSize}
			req.Normalize(testConfig())
			if req.Page != tt.wantPage || req.PageSize != tt.wantPageSize {
				t.Errorf("Normalize() = {%d, %d}, want {%d, %d}",
					req.Page, req.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"both present", "page=4&limit=10", 4, 10},
		{"missing", "", 1, 28},
		{"non-numeric page", "page=abc&limit=10", 1, 10},
		{"non-numeric limit", "page=2&limit=xyz", 2, 28},
		{"limit above maximum", "page=2&limit=9999", 2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			req := pagination.FromQuery(values, testConfig())
			if req.Page != tt.wantPage || req.PageSize != tt.wantPageSize {
				t.Errorf("FromQuery(%q) = {%d, %d}, want {%d, %d}",
					tt.query, req.Page, req.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		want     int
	}{
		{"exact division", 100, 25, 4},
		{"remainder rounds up", 101, 25, 5},
		{"empty result is one page", 0, 25, 1},
		{"single record", 1, 25, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pagination.TotalPages(tt.total, tt.pageSize); got != tt.want {
				t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
			}
		})
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       int
	}{
		{"within range", 3, 5, 3},
		{"below range", 0, 5, 1},
		{"above range degrades to last", 9, 5, 5},
		{"empty set clamps to one", 7, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pagination.ClampPage(tt.page, tt.totalPages); got != tt.want {
				t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.totalPages, got, tt.want)
			}
		})
	}
}

func TestNewPageResult(t *testing.T) {
	result := pagination.NewPageResult([]string{"a", "b"}, 42, 2, 2)

	if result.Total != 42 || result.Page != 2 || result.PageSize != 2 {
		t.Errorf("unexpected envelope: %+v", result)
	}
	if result.TotalPages != 21 {
		t.Errorf("TotalPages = %d, want 21", result.TotalPages)
	}
}

func TestNewPageResultNilResults(t *testing.T) {
	result := pagination.NewPageResult[string](nil, 0, 1, 28)

	if result.Results == nil {
		t.Error("Results should be an empty slice, not nil")
	}
	if result.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", result.TotalPages)
	}
}
