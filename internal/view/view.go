// Package view derives the visible page of a collection: free-text filter,
// optional stable sort, then a page slice. Every function here is pure.
package view

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// Page is one visible slice of a filtered collection.
type Page[E types.Entity] struct {
	Items              []E
	TotalFilteredCount int
}

// Apply filters items by criteria over fields, sorts them by spec and returns
// the page selected by cursor. A page past the end is empty.
func Apply[E types.Entity](items []E, fields []string, criteria types.FilterCriteria, spec types.SortSpec, cursor types.PageCursor) Page[E] {
	filtered := Filter(items, fields, criteria)
	filtered = Sort(filtered, spec)
	return Page[E]{
		Items:              Paginate(filtered, cursor),
		TotalFilteredCount: len(filtered),
	}
}

// Matches reports whether any of fields contains query, ignoring case.
// Missing and nil fields compare as "".
func Matches(e types.Entity, fields []string, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, name := range fields {
		v, _ := e.Field(name)
		if strings.Contains(strings.ToLower(types.StringValue(v)), q) {
			return true
		}
	}
	return false
}

// Filter returns the items matching criteria, in their original order.
func Filter[E types.Entity](items []E, fields []string, criteria types.FilterCriteria) []E {
	out := make([]E, 0, len(items))
	for _, e := range items {
		if Matches(e, fields, criteria.Query) {
			out = append(out, e)
		}
	}
	return out
}

// Sort returns a stably sorted copy of items. A zero spec keeps the order.
// Numbers compare numerically, everything else as case-insensitive text,
// and missing values sort first.
func Sort[E types.Entity](items []E, spec types.SortSpec) []E {
	out := slices.Clone(items)
	if spec.Field == "" {
		return out
	}
	slices.SortStableFunc(out, func(a, b E) int {
		c := compareValues(a, b, spec.Field)
		if spec.Desc {
			return -c
		}
		return c
	})
	return out
}

func compareValues(a, b types.Entity, field string) int {
	av, _ := a.Field(field)
	bv, _ := b.Field(field)
	switch {
	case av == nil && bv == nil:
		return 0
	case av == nil:
		return -1
	case bv == nil:
		return 1
	}
	if an, ok := numeric(av); ok {
		if bn, ok := numeric(bv); ok {
			return cmp.Compare(an, bn)
		}
	}
	return strings.Compare(strings.ToLower(types.StringValue(av)), strings.ToLower(types.StringValue(bv)))
}

// numeric accepts numbers but not numeric-looking strings, so codes such as
// "0012" keep text order.
func numeric(v any) (float64, bool) {
	if _, isString := v.(string); isString {
		return 0, false
	}
	return types.NumberValue(v)
}

// Paginate returns the cursor's slice of items. Non-positive page sizes fall
// back to types.DefaultPageSize and negative indexes to 0.
func Paginate[E types.Entity](items []E, cursor types.PageCursor) []E {
	size := cursor.PageSize
	if size <= 0 {
		size = types.DefaultPageSize
	}
	index := max(cursor.PageIndex, 0)

	if index >= PageCount(len(items), size) {
		return []E{}
	}
	start := index * size
	end := start + min(size, len(items)-start)
	return slices.Clone(items[start:end])
}

// PageCount returns ceil(total/size), or 0 for an invalid size.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}
