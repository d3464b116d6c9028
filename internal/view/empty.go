package view

// EmptyState tells apart the reasons a table shows no rows.
type EmptyState int

const (
	// HasRows means the filtered collection is not empty.
	HasRows EmptyState = iota
	// NoRecords means the collection itself is empty.
	NoRecords
	// NoMatches means the search excluded every record.
	NoMatches
)

func (s EmptyState) String() string {
	switch s {
	case NoRecords:
		return "no records"
	case NoMatches:
		return "no records match"
	default:
		return "has rows"
	}
}

// Classify returns the empty state for a collection of collectionLen items
// of which filtered matched the search.
func Classify(collectionLen, filtered int) EmptyState {
	switch {
	case collectionLen == 0:
		return NoRecords
	case filtered == 0:
		return NoMatches
	default:
		return HasRows
	}
}
