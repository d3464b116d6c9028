package types

import "errors"

// DefaultPageSize is the rows-per-page used when none is configured.
const DefaultPageSize = 10

// ErrPageSizeInvalid is returned for a non-positive page size.
var ErrPageSizeInvalid = errors.New("page size must be positive")

// PageCursor selects one page of a filtered collection.
// PageIndex*PageSize may exceed the collection length; that page is empty.
type PageCursor struct {
	PageIndex int
	PageSize  int
}

// Offset returns the index of the first row of the page.
func (c PageCursor) Offset() int {
	return c.PageIndex * c.PageSize
}

// FilterCriteria is the free-text search applied to a collection.
type FilterCriteria struct {
	Query string
}

// SortSpec orders rows by one field. A zero SortSpec keeps backend order.
type SortSpec struct {
	Field string
	Desc  bool
}
