package services

import "math"

const (
	fallbackDefaultLimit = 10
	fallbackMaxLimit     = 100
)

// PaginationOptions bounds the page size.
type PaginationOptions struct {
	DefaultLimit int
	MaxLimit     int
}

// Page is one page of a listing.
type Page[T any] struct {
	Data        []T
	CurrentPage int
	PerPage     int
	TotalItems  int64
	TotalPages  int
}

// window clamps page and limit and returns the row offset. The page is capped
// so the offset always fits a 32-bit SQL OFFSET.
func (o PaginationOptions) window(page, limit int) (int, int, int) {
	defaultLimit, maxLimit := o.DefaultLimit, o.MaxLimit
	if defaultLimit <= 0 {
		defaultLimit = fallbackDefaultLimit
	}
	if maxLimit < defaultLimit {
		maxLimit = max(defaultLimit, fallbackMaxLimit)
	}

	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt32/limit + 1; page > maxPage {
		page = maxPage
	}
	return page, limit, (page - 1) * limit
}

func newPage[T any](data []T, page, limit int, total int64) *Page[T] {
	return &Page[T]{
		Data:        data,
		CurrentPage: page,
		PerPage:     limit,
		TotalItems:  total,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
	}
}
