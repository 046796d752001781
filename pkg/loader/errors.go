package loader

import (
	"fmt"
)

// LoadError is an I/O failure on a specific file or directory. It is
// fatal for the whole load operation.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// TimestampError reports an unparsable timestamp on an otherwise
// well-formed record. Unlike malformed JSON, it indicates a
// structural assumption violation and is surfaced to the caller.
type TimestampError struct {
	Path  string
	Line  int
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("%s:%d: unparsable timestamp %q: %v", e.Path, e.Line, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error { return e.Err }
