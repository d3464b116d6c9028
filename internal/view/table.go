package view

import (
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// Table is the interactive state of one data table: search text, sort and
// page cursor. Changing the page size always returns to the first page.
// Changing the search text keeps the page index, so a narrower query can
// leave the table on an empty page until the caller moves back.
type Table struct {
	query  string
	sort   types.SortSpec
	cursor types.PageCursor
}

// NewTable returns a table on page 0. A non-positive pageSize selects
// types.DefaultPageSize.
func NewTable(pageSize int) *Table {
	if pageSize <= 0 {
		pageSize = types.DefaultPageSize
	}
	return &Table{cursor: types.PageCursor{PageSize: pageSize}}
}

// Query returns the current search text.
func (t *Table) Query() string { return t.query }

// Criteria returns the current filter criteria.
func (t *Table) Criteria() types.FilterCriteria { return types.FilterCriteria{Query: t.query} }

// Cursor returns the current page cursor.
func (t *Table) Cursor() types.PageCursor { return t.cursor }

// SortSpec returns the current sort.
func (t *Table) SortSpec() types.SortSpec { return t.sort }

// SetQuery replaces the search text. The page index is left unchanged.
func (t *Table) SetQuery(q string) {
	t.query = q
}

// SetSort replaces the sort.
func (t *Table) SetSort(spec types.SortSpec) {
	t.sort = spec
}

// SetPageSize changes the rows per page and resets to page 0.
func (t *Table) SetPageSize(size int) error {
	if size <= 0 {
		return types.ErrPageSizeInvalid
	}
	t.cursor = types.PageCursor{PageIndex: 0, PageSize: size}
	return nil
}

// SetPage moves to page index i. Negative indexes clamp to 0.
func (t *Table) SetPage(i int) {
	t.cursor.PageIndex = max(i, 0)
}

// Next advances one page unless the cursor is on the last page for total rows.
func (t *Table) Next(total int) bool {
	if t.cursor.PageIndex+1 >= PageCount(total, t.cursor.PageSize) {
		return false
	}
	t.cursor.PageIndex++
	return true
}

// Prev moves back one page unless already on page 0.
func (t *Table) Prev() bool {
	if t.cursor.PageIndex == 0 {
		return false
	}
	t.cursor.PageIndex--
	return true
}

// Render applies the table state to items.
func Render[E types.Entity](t *Table, items []E, fields []string) Page[E] {
	return Apply(items, fields, t.Criteria(), t.sort, t.cursor)
}
