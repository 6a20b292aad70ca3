package domain

import "math"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is one offset-paginated slice of a larger result set.
type Page[T any] struct {
	Data    []T
	Total   int64
	HasNext bool
	HasPrev bool
}

// NewPage computes the page flags from the 1-based page number and limit.
func NewPage[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Data:    items,
		Total:   total,
		HasNext: endsBefore(page, limit, total),
		HasPrev: page > 1,
	}
}

// NormalizePaging clamps page to at least 1 and limit to (0, MaxPageLimit].
// A non-positive limit falls back to DefaultPageLimit.
func NormalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	return page, limit
}

// Offset returns the number of rows to skip for page. It saturates at
// math.MaxInt so a huge page lands past the end instead of wrapping.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// endsBefore reports whether page*limit < total without overflowing.
func endsBefore(page, limit int, total int64) bool {
	if page <= 0 || limit <= 0 {
		return total > 0
	}
	if int64(page) > math.MaxInt64/int64(limit) {
		return false
	}
	return int64(page)*int64(limit) < total
}
