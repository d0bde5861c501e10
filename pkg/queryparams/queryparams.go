package queryparams

import "math"

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ListParams carries paging options parsed from the query string.
type ListParams struct {
	Page    int `query:"page"`
	PerPage int `query:"perPage"`
}

// DefaultListParams returns the first page with the default size.
func DefaultListParams() ListParams {
	return ListParams{Page: DefaultPage, PerPage: DefaultPerPage}
}

// Validate clamps out-of-range values to the defaults.
func (p *ListParams) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
}

// CalculateOffset returns the row offset for the current page.
func (p ListParams) CalculateOffset() int {
	return (p.Page - 1) * p.PerPage
}

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

type PaginatedResult struct {
	Data interface{}    `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginatedResult wraps a page of data with its metadata.
func NewPaginatedResult(data interface{}, total int64, p ListParams) *PaginatedResult {
	pages := 0
	if p.PerPage > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.PerPage)))
	}
	return &PaginatedResult{
		Data: data,
		Meta: PaginationMeta{
			CurrentPage: p.Page,
			PerPage:     p.PerPage,
			TotalItems:  total,
			TotalPages:  pages,
		},
	}
}
