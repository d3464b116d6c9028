package types

import "time"

// Fetch states of a collection.
const (
	StateIdle    = "idle"
	StateLoading = "loading"
	StateLoaded  = "loaded"
	StateError   = "error"
)

// FetchStatus is the lifecycle state of a collection's most recent fetch.
// Message is set only in StateError. LoadedAt is the time of the last
// successful load and survives later errors.
type FetchStatus struct {
	State    string
	Message  string
	LoadedAt time.Time
}

// Loading reports whether a fetch is in flight.
func (s FetchStatus) Loading() bool { return s.State == StateLoading }

// Failed reports whether the last fetch failed.
func (s FetchStatus) Failed() bool { return s.State == StateError }

func (s FetchStatus) String() string {
	if s.State == StateError {
		return s.State + ": " + s.Message
	}
	return s.State
}
