// Package pagination slices ordered collections into fixed-size page windows.
package pagination

import (
	"strconv"
)

// DefaultPageSize is the fallback window size when none is configured.
const DefaultPageSize = 10

// Paginator computes page windows of a fixed size. The size is injected at
// construction (normally from configuration).
type Paginator struct {
	size int
}

// New creates a Paginator with the given page size.
func New(size int) *Paginator {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Paginator{size: size}
}

// Size returns the configured page size.
func (p *Paginator) Size() int {
	return p.size
}

// Page describes one window over an ordered collection, with enough metadata
// to render page links.
type Page struct {
	Number     int
	TotalItems int
	TotalPages int
	Offset     int
	Limit      int
	HasPrev    bool
	HasNext    bool
	Prev       int
	Next       int
	Numbers    []int
}

// Page resolves a raw page-number parameter against a collection of
// totalItems items. It never fails: a missing or non-numeric parameter means
// page 1, numbers past the end clamp to the last page, and an empty
// collection yields a single empty page.
func (p *Paginator) Page(raw string, totalItems int) Page {
	if totalItems < 0 {
		totalItems = 0
	}

	totalPages := (totalItems + p.size - 1) / p.size
	if totalPages < 1 {
		totalPages = 1
	}

	number := 1
	if n, err := strconv.Atoi(raw); err == nil && n > 1 {
		number = n
	}
	if number > totalPages {
		number = totalPages
	}

	numbers := make([]int, totalPages)
	for i := range numbers {
		numbers[i] = i + 1
	}

	return Page{
		Number:     number,
		TotalItems: totalItems,
		TotalPages: totalPages,
		Offset:     (number - 1) * p.size,
		Limit:      p.size,
		HasPrev:    number > 1,
		HasNext:    number < totalPages,
		Prev:       number - 1,
		Next:       number + 1,
		Numbers:    numbers,
	}
}
