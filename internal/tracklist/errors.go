package tracklist

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStructuralMatch marks a line that fits none of the supported shapes.
	ErrNoStructuralMatch = errors.New("no structural match")

	// ErrNoTracksFound is returned when a whole listing yields zero tracks.
	ErrNoTracksFound = errors.New("no valid timestamps found")

	ErrEmptySource = errors.New("empty source")
)

// SourceError reports a failure to read a listing from its source.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func newSourceError(source string, err error) error {
	return &SourceError{Source: source, Err: err}
}
