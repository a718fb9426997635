// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package models

import "math"

// Page is one page of a paginated list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
}

// NewPage assembles a page. items is never encoded as null.
func NewPage[T any](items []T, total, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		TotalPages: TotalPages(total, limit),
		Page:       page,
		Limit:      limit,
	}
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// TotalPages returns ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Offset returns the index of the first item on a 1-based page. Pages too
// far out to index saturate at math.MaxInt, which lies past every
// collection.
func Offset(page, limit int) int {
	if page < 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// ClipList is the unpaginated clip listing.
type ClipList struct {
	Clips []Clip `json:"clips"`
}
