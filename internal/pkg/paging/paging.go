// Package paging holds page requests and result pages for listing queries.
package paging

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"orderservice/internal/pkg/errs"
)

const (
	DefaultSize = 10
	MaxSize     = 100
	// MaxPage keeps MaxPage*MaxSize well inside int.
	MaxPage     = 1_000_000
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Request is a validated 0-based page request.
type Request struct {
	page      int
	size      int
	sortBy    string
	direction Direction
}

// NewRequest validates a page request. sortBy must be one of sortable; an empty
// sortBy picks sortable[0], an empty direction picks Desc.
func NewRequest(page, size int, sortBy, direction string, sortable ...string) (Request, error) {
	var errPage, errSize, errSort, errDirection error
	switch {
	case page < 0:
		errPage = errs.NewValueIsInvalidErrorWithCause("page", fmt.Errorf("%d is negative", page))
	case page > MaxPage:
		errPage = errs.NewValueIsOutOfRangeError("page", page, 0, MaxPage)
	}
	if size < 1 || size > MaxSize {
		errSize = errs.NewValueIsOutOfRangeError("size", size, 1, MaxSize)
	}

	if sortBy == "" && len(sortable) > 0 {
		sortBy = sortable[0]
	}
	if !slices.Contains(sortable, sortBy) {
		errSort = errs.NewValueIsInvalidErrorWithCause("sortBy",
			fmt.Errorf("%q is not one of %s", sortBy, strings.Join(sortable, ", ")))
	}

	dir := Direction(strings.ToLower(strings.TrimSpace(direction)))
	switch dir {
	case "":
		dir = Desc
	case Asc, Desc:
	default:
		errDirection = errs.NewValueIsInvalidErrorWithCause("sortDir",
			fmt.Errorf("%q is not one of asc, desc", direction))
	}

	if err := errors.Join(errPage, errSize, errSort, errDirection); err != nil {
		return Request{}, err
	}
	return Request{page: page, size: size, sortBy: sortBy, direction: dir}, nil
}

func (r Request) Page() int            { return r.page }
func (r Request) Size() int            { return r.size }
func (r Request) SortBy() string       { return r.sortBy }
func (r Request) Direction() Direction { return r.direction }

// Offset is the number of rows preceding the page.
func (r Request) Offset() int {
	return r.page * r.size
}

// Page is one slice of a sorted result set with its metadata.
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
}

// NewPage builds a page for req. A nil content becomes an empty slice.
func NewPage[T any](content []T, req Request, totalElements int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		Number:        req.page,
		Size:          req.size,
		TotalElements: totalElements,
	}
}

// TotalPages is 0 for an empty result set.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page[T]) First() bool {
	return p.Number == 0
}

func (p Page[T]) Last() bool {
	return !p.HasNext()
}

func (p Page[T]) HasNext() bool {
	return p.Number+1 < p.TotalPages()
}

func (p Page[T]) HasPrevious() bool {
	return p.Number > 0
}

// Map converts the content of a page, keeping its metadata.
func Map[T, R any](p Page[T], f func(T) R) Page[R] {
	content := make([]R, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, f(item))
	}
	return Page[R]{
		Content:       content,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
	}
}
