package model

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Pagination struct {
	Page  int
	Limit int
}

// NewPagination clamps page and limit to sane values.
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the list payload returned by every paginated endpoint.
type Page[T any] struct {
	Total       int `json:"total"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Items       []T `json:"items"`
}

func NewPage[T any](items []T, total int, p Pagination) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Page[T]{Total: total, CurrentPage: p.Page, TotalPages: pages, Items: items}
}
