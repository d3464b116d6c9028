package view

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

var searchFields = []string{"name", "email", "city"}

func people() []types.Record {
	return []types.Record{
		{"id": "1", "name": "Bob Stone", "email": "bob@example.com", "city": nil},
		{"id": "2", "name": "alice", "email": "ALICE@corp.io", "city": "Lisbon"},
		{"id": "3", "name": "Carol", "email": "carol@example.com"},
		{"id": "4", "name": nil, "email": "dave@Example.com", "city": "Oslo"},
		{"id": "5", "name": "Eve", "email": "eve@corp.io", "city": "lisbon"},
	}
}

func pageIDs[E types.Entity](items []E) []types.ID {
	out := make([]types.ID, len(items))
	for i, e := range items {
		out[i] = e.EntityID()
	}
	return out
}

func TestFilterCaseInsensitiveAcrossFields(t *testing.T) {
	tests := []struct {
		query string
		want  []types.ID
	}{
		{query: "", want: []types.ID{"1", "2", "3", "4", "5"}},
		{query: "EXAMPLE", want: []types.ID{"1", "3", "4"}},
		{query: "lisbon", want: []types.ID{"2", "5"}},
		{query: "alice", want: []types.ID{"2"}},
		{query: "zzz", want: []types.ID{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Filter(people(), searchFields, types.FilterCriteria{Query: tt.query})
			assert.Equal(t, tt.want, pageIDs(got))
		})
	}
}

func TestFilterCorrectness(t *testing.T) {
	items := people()
	for _, q := range []string{"", "o", "E", "corp", "@", "li", "x", "Stone"} {
		got := Filter(items, searchFields, types.FilterCriteria{Query: q})

		inCollection := map[types.ID]bool{}
		for _, e := range items {
			inCollection[e.EntityID()] = true
		}
		for _, e := range got {
			assert.True(t, inCollection[e.EntityID()], "result must be a subset")
			assert.True(t, Matches(e, searchFields, q), "query %q must match %v", q, e)
		}
		for _, e := range items {
			if Matches(e, searchFields, q) {
				assert.Contains(t, pageIDs(got), e.EntityID(), "matching entity must be kept")
			}
		}
		if q == "" {
			assert.Len(t, got, len(items))
		}
	}
}

func TestMatchesMissingFieldNeverFails(t *testing.T) {
	e := types.Record{"id": "1"}
	assert.False(t, Matches(e, []string{"name", "nope"}, "a"))
	assert.True(t, Matches(e, []string{"name"}, ""))
}

func TestMatchesTypedEntity(t *testing.T) {
	phone := "+351 555"
	c := types.Customer{ID: "9", Name: "Ada", Email: "ada@x.io", Phone: &phone}
	assert.True(t, Matches(c, []string{"phone"}, "555"))
	assert.False(t, Matches(types.Customer{ID: "8"}, []string{"phone"}, "555"))
}

func numbered(n int) []types.Record {
	out := make([]types.Record, n)
	for i := range out {
		out[i] = types.Record{"id": fmt.Sprint(i), "name": fmt.Sprintf("row %d", i)}
	}
	return out
}

func TestPaginationCompleteness(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 10, 11, 25} {
		for _, size := range []int{1, 3, 5, 10, 30} {
			t.Run(fmt.Sprintf("n=%d size=%d", n, size), func(t *testing.T) {
				items := numbered(n)
				pages := PageCount(n, size)

				var seen []types.ID
				for i := 0; i < pages; i++ {
					p := Apply(items, searchFields, types.FilterCriteria{}, types.SortSpec{}, types.PageCursor{PageIndex: i, PageSize: size})
					assert.Equal(t, n, p.TotalFilteredCount)
					require.NotEmpty(t, p.Items)
					require.LessOrEqual(t, len(p.Items), size)
					seen = append(seen, pageIDs(p.Items)...)
				}
				assert.Equal(t, pageIDs(items), append([]types.ID{}, seen...))

				past := Apply(items, searchFields, types.FilterCriteria{}, types.SortSpec{}, types.PageCursor{PageIndex: pages, PageSize: size})
				assert.Empty(t, past.Items, "page past the end is empty, not an error")
			})
		}
	}
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(1, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 0, PageCount(5, 0))
}

func TestPaginateNormalizesCursor(t *testing.T) {
	items := numbered(15)
	assert.Len(t, Paginate(items, types.PageCursor{PageIndex: 0, PageSize: 0}), types.DefaultPageSize)
	assert.Equal(t, pageIDs(items[:5]), pageIDs(Paginate(items, types.PageCursor{PageIndex: -2, PageSize: 5})))
}

func TestPaginateHugeCursor(t *testing.T) {
	items := numbered(15)
	tests := []struct {
		name   string
		cursor types.PageCursor
		want   int
	}{
		{"index overflows offset", types.PageCursor{PageIndex: math.MaxInt/2 + 1, PageSize: 2}, 0},
		{"max index", types.PageCursor{PageIndex: math.MaxInt, PageSize: math.MaxInt}, 0},
		{"max size", types.PageCursor{PageIndex: 0, PageSize: math.MaxInt}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var page []types.Record
			require.NotPanics(t, func() { page = Paginate(items, tt.cursor) })
			assert.Len(t, page, tt.want)
		})
	}
	assert.Equal(t, 1, PageCount(15, math.MaxInt))
}

func TestPaginateDoesNotAliasInput(t *testing.T) {
	items := numbered(3)
	page := Paginate(items, types.PageCursor{PageSize: 2})
	page[0] = types.Record{"id": "x"}
	assert.Equal(t, types.ID("0"), items[0].EntityID())
}

func TestSort(t *testing.T) {
	items := []types.Record{
		{"id": "1", "name": "bravo", "price": 3.5},
		{"id": "2", "name": "Alpha", "price": 10.0},
		{"id": "3", "name": nil, "price": 3.5},
		{"id": "4", "name": "charlie"},
	}

	t.Run("zero spec keeps order", func(t *testing.T) {
		assert.Equal(t, []types.ID{"1", "2", "3", "4"}, pageIDs(Sort(items, types.SortSpec{})))
	})
	t.Run("text ascending ignores case, nil first", func(t *testing.T) {
		assert.Equal(t, []types.ID{"3", "2", "1", "4"}, pageIDs(Sort(items, types.SortSpec{Field: "name"})))
	})
	t.Run("numeric descending is stable", func(t *testing.T) {
		got := Sort(items, types.SortSpec{Field: "price", Desc: true})
		assert.Equal(t, []types.ID{"2", "1", "3", "4"}, pageIDs(got))
	})
	t.Run("input untouched", func(t *testing.T) {
		Sort(items, types.SortSpec{Field: "name"})
		assert.Equal(t, types.ID("1"), items[0].EntityID())
	})
}

func TestApplyFiltersBeforePaging(t *testing.T) {
	items := numbered(30)
	p := Apply(items, []string{"name"}, types.FilterCriteria{Query: "row 1"}, types.SortSpec{}, types.PageCursor{PageIndex: 1, PageSize: 5})

	// "row 1" and "row 10".."row 19"
	assert.Equal(t, 11, p.TotalFilteredCount)
	assert.Equal(t, []types.ID{"14", "15", "16", "17", "18"}, pageIDs(p.Items))
}

func TestFilteredEmptyScenario(t *testing.T) {
	collection := []types.Record{{"id": 1, "name": "Bob"}}

	p := Apply(collection, []string{"name"}, types.FilterCriteria{Query: "zzz"}, types.SortSpec{}, types.PageCursor{PageSize: 10})

	assert.Empty(t, p.Items)
	assert.Equal(t, 0, p.TotalFilteredCount)
	assert.Equal(t, NoMatches, Classify(len(collection), p.TotalFilteredCount))
	assert.Equal(t, "no records match", Classify(len(collection), p.TotalFilteredCount).String())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, NoRecords, Classify(0, 0))
	assert.Equal(t, "no records", NoRecords.String())
	assert.Equal(t, NoMatches, Classify(3, 0))
	assert.Equal(t, HasRows, Classify(3, 1))
	assert.True(t, strings.HasPrefix(HasRows.String(), "has"))
}
