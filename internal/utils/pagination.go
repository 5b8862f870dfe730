// Package utils provides small helpers shared across layers. This file owns
// the pagination policy for list endpoints: how raw page/page_size query
// values are parsed and bounded.
package utils

import "strconv"

// Pagination bounds for list endpoints. The cap keeps a single response from
// hauling an entire campaign history (groups embed their results arrays).
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageParams parses raw page and page_size query values into bounded
// pagination coordinates. Unparseable or missing values take the defaults;
// page is floored at 1 and page_size clamped to [1, MaxPageSize].
func PageParams(pageRaw, sizeRaw string) (page, pageSize int) {
	page = AtoiDefault(pageRaw, DefaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = AtoiDefault(sizeRaw, DefaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// AtoiDefault converts s with strconv.Atoi, returning def when s is empty or
// not an integer. No trimming is applied; " 42" is not a valid value.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
