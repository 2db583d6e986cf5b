package models

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a 1-based offset page.
type PageRequest struct {
	Number int
	Size   int
}

// Offset returns (Number-1)*Size.
func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

// Valid reports whether Number >= 1, Size is within [1, MaxPageSize] and
// Offset does not overflow.
func (p PageRequest) Valid() bool {
	return p.Number >= 1 && p.Size >= 1 && p.Size <= MaxPageSize && p.OffsetFits()
}

// OffsetFits reports whether (Number-1)*Size fits in an int.
func (p PageRequest) OffsetFits() bool {
	if p.Size < 1 || p.Number < 1 {
		return true
	}
	return p.Number-1 <= math.MaxInt/p.Size
}

// Page is one slice of a filtered, ordered result set. Total counts the
// whole filtered set.
type Page[T any] struct {
	Items  []T
	Number int
	Size   int
	Total  int
}
