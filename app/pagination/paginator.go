// Package pagination splits a counted collection into clamped pages.
//
// Out-of-range requests never fail: anything below the first page or not a
// number resolves to page 1, anything past the end resolves to the last page.
// An empty collection still has one (empty) page.
package pagination

import (
	"strconv"
	"strings"
)

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 10

// Paginator describes a collection of Total items split into pages of Size.
type Paginator struct {
	Total int
	Size  int
}

// Page is one resolved page of a Paginator.
type Page struct {
	Number     int
	Size       int
	TotalPages int
	TotalCount int
}

// New returns a paginator for total items. Non-positive sizes fall back to DefaultPageSize.
func New(total, size int) Paginator {
	if size < 1 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	return Paginator{Total: total, Size: size}
}

// NumPages is the number of pages, never less than one.
func (p Paginator) NumPages() int {
	if p.Total == 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

// Page clamps number into [1, NumPages] and returns that page.
func (p Paginator) Page(number int) Page {
	last := p.NumPages()
	if number < 1 {
		number = 1
	}
	if number > last {
		number = last
	}
	return Page{
		Number:     number,
		Size:       p.Size,
		TotalPages: last,
		TotalCount: p.Total,
	}
}

// PageOf returns the page that holds the item at the 1-based position.
func (p Paginator) PageOf(position int) int {
	if position < 1 {
		return 1
	}
	return p.Page((position + p.Size - 1) / p.Size).Number
}

// Offset is the number of items before this page.
func (pg Page) Offset() int {
	return (pg.Number - 1) * pg.Size
}

// Limit is the maximum number of items on this page.
func (pg Page) Limit() int {
	return pg.Size
}

// HasNext reports whether a later page exists.
func (pg Page) HasNext() bool {
	return pg.Number < pg.TotalPages
}

// HasPrevious reports whether an earlier page exists.
func (pg Page) HasPrevious() bool {
	return pg.Number > 1
}

// ParseNumber reads a raw page query value. Anything that is not an integer is page 1.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}
