package domain

import (
	"fmt"
	"math"
)

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional HTTP query params.
// ok is false when either value is nil or zero: the caller should then return
// every row unpaginated. Negative values are rejected with ErrValidation.
func NewPaginationParams(page, limit *int) (p PaginationParams, ok bool, err error) {
	if page != nil && *page < 0 {
		return PaginationParams{}, false, fmt.Errorf("%w: page must not be negative", ErrValidation)
	}
	if limit != nil && *limit < 0 {
		return PaginationParams{}, false, fmt.Errorf("%w: limit must not be negative", ErrValidation)
	}
	if page == nil || limit == nil || *page == 0 || *limit == 0 {
		return PaginationParams{}, false, nil
	}
	return PaginationParams{Page: *page, Limit: *limit}, true, nil
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
// An offset that would overflow int is capped at math.MaxInt, which still
// lies past the last row, so such a page reads as empty.
func (p PaginationParams) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}
