package ingest

import (
	"errors"
	"fmt"
)

// ErrMissingField indicates a required nested structure was absent from a raw
// record.
var ErrMissingField = errors.New("required field missing")

// RecordError identifies the record that failed to normalise. Key is the
// mission identifier when available, otherwise empty; Index is the position
// of the record in the batch.
type RecordError struct {
	Index int
	Key   string
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("record %d: field %q: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("record %d (mission %s): field %q: %v", e.Index, e.Key, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
