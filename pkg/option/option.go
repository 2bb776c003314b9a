package option

import (
	"strings"

	"github.com/Pexry/pexry2-sub001/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption mutates a gorm query before execution.
type QueryOption func(*gorm.DB) *gorm.DB

// QuerySortBy whitelists sortable columns. Field values outside Allow
// fall back to created_at descending.
type QuerySortBy struct {
	Field string
	Desc  bool
	Allow map[string]bool
}

// ApplyPagination applies the clamped page size plus one extra row so
// callers can detect whether a next page exists, and offsets by the
// decoded page token.
func ApplyPagination(p pagination.Pagination) QueryOption {
	return func(q *gorm.DB) *gorm.DB {
		q = q.Limit(p.Limit() + 1)
		if offset := pagination.DecodeToken(p.PageToken); offset > 0 {
			q = q.Offset(int(offset))
		}
		return q
	}
}

// WithSortBy orders the query by an allowed column.
func WithSortBy(s QuerySortBy) QueryOption {
	return func(q *gorm.DB) *gorm.DB {
		field := strings.TrimSpace(s.Field)
		if field == "" || (s.Allow != nil && !s.Allow[field]) {
			return q.Order("created_at DESC")
		}
		direction := "ASC"
		if s.Desc {
			direction = "DESC"
		}
		return q.Order(field + " " + direction)
	}
}

// WithWhere appends an extra condition that the exemplar filter cannot
// express, such as IS NULL checks or comparisons.
func WithWhere(query any, args ...any) QueryOption {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where(query, args...)
	}
}
