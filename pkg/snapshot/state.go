package snapshot

import (
	"context"
	"errors"
	"time"
)

// DefaultErrorMessage is shown to the user whenever a refresh fails. The raw
// error is kept in State.Err for diagnostics.
const DefaultErrorMessage = "Failed to load data. Please check if the backend is running."

var (
	// ErrSuperseded is returned by Refresh when a newer request was issued
	// before this one completed; its result was discarded.
	ErrSuperseded = errors.New("refresh superseded by a newer request")

	// ErrStopped is returned once the cache has been stopped.
	ErrStopped = errors.New("snapshot cache stopped")
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusFailed:
		return "error"
	default:
		return "unknown"
	}
}

// State is an immutable copy of what a screen should render.
//
// Data holds the last successfully fetched snapshot. A failed refresh sets
// Status, Message and Err but leaves Data and HasData untouched.
type State[T any] struct {
	Status   Status
	Data     T
	HasData  bool
	Message  string
	Err      error
	Seq      uint64 // latest issued request
	LoadedAt time.Time
}

func (s State[T]) Loading() bool { return s.Status == StatusLoading }
func (s State[T]) Failed() bool  { return s.Status == StatusFailed }

// FetchFunc performs one remote read. It should honour ctx cancellation.
type FetchFunc[T any] func(ctx context.Context) (T, error)

type seqKey struct{}

// Sequence returns the request sequence number carried by a fetch context,
// or 0 if ctx did not come from a Cache.
func Sequence(ctx context.Context) uint64 {
	seq, _ := ctx.Value(seqKey{}).(uint64)
	return seq
}
