package table

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCategory is returned when a label outside the domain is stored.
	ErrUnknownCategory = errors.New("label not in category domain")
	// ErrDuplicateCategory is returned when a label is added to a domain twice.
	ErrDuplicateCategory = errors.New("label already in category domain")
	ErrDuplicateColumn   = errors.New("duplicate column name")
	ErrLengthMismatch    = errors.New("column length mismatch")
	ErrNoHeader          = errors.New("no header row")
)

// CategoryError reports a rejected label for a categorical column.
type CategoryError struct {
	Column string
	Label  string
	Err    error
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("column %q: %q: %v", e.Column, e.Label, e.Err)
}

func (e *CategoryError) Unwrap() error { return e.Err }

// LoadError reports an unreadable or unparseable input file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// WriteError reports a destination that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }
