// Package listing filters, searches and orders already fetched reports and
// suggestions. Every function returns a new slice and leaves its input alone.
package listing

import (
	"slices"
	"strings"
	"time"

	"lapor/internal/domain"
)

type Item interface {
	ListStatus() string
	ListCategory() string
	ListCreatedAt() time.Time
	SearchFields() []string
}

type Order string

const (
	Newest Order = "newest"
	Oldest Order = "oldest"
)

// ParseOrder falls back to Newest for anything it does not recognise.
func ParseOrder(s string) Order {
	if Order(s) == Oldest {
		return Oldest
	}
	return Newest
}

type Query struct {
	Status   string
	Category string
	Search   string
	Order    Order
}

func QueryFrom(req domain.ListRequest) Query {
	return Query{
		Status:   req.Status,
		Category: req.Category,
		Search:   req.Query,
		Order:    ParseOrder(req.Sort),
	}
}

// Apply runs status, category and search filters in that order, then sorts.
func Apply[T Item](items []T, q Query) []T {
	out := ByStatus(items, q.Status)
	out = ByCategory(out, q.Category)
	out = Search(out, q.Search)
	return Sort(out, q.Order)
}

// ByStatus keeps items in the given status. Empty or "all" keeps everything.
func ByStatus[T Item](items []T, status string) []T {
	if isAll(status) {
		return slices.Clone(items)
	}
	return filter(items, func(it T) bool { return it.ListStatus() == status })
}

func ByCategory[T Item](items []T, category string) []T {
	if isAll(category) {
		return slices.Clone(items)
	}
	return filter(items, func(it T) bool { return it.ListCategory() == category })
}

// Search keeps items whose title, description or category contains query,
// ignoring case.
func Search[T Item](items []T, query string) []T {
	if query == "" {
		return slices.Clone(items)
	}
	q := strings.ToLower(query)
	return filter(items, func(it T) bool {
		for _, f := range it.SearchFields() {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	})
}

// Sort orders by creation time. Items created at the same instant keep their
// relative order.
func Sort[T Item](items []T, order Order) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		c := a.ListCreatedAt().Compare(b.ListCreatedAt())
		if order == Oldest {
			return c
		}
		return -c
	})
	return out
}

func isAll(v string) bool {
	return v == "" || v == domain.FilterAll
}

func filter[T Item](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
