// ABOUTME: Track ingestion errors
// ABOUTME: ParseError pins a problem to a row and column of the input

package trackio

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat is returned when no decoder matches the input.
var ErrUnknownFormat = errors.New("unknown track format")

// Kind classifies a parse failure.
type Kind int

const (
	// KindSyntax is malformed structure: no separator, broken XML, bad quoting.
	KindSyntax Kind = iota
	// KindValue is a coordinate that is not a number.
	KindValue
	// KindRange is a coordinate outside the valid latitude/longitude range.
	KindRange
	// KindMissing is a track point without latitude or longitude.
	KindMissing
	// KindDuplicate is a coordinate given twice on one track point.
	KindDuplicate
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax error"
	case KindValue:
		return "ill-formed coordinate value"
	case KindRange:
		return "coordinate out of range"
	case KindMissing:
		return "missing coordinate"
	case KindDuplicate:
		return "duplicate coordinate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseError locates a problem in a track file. Row and Column are 1-based;
// zero means unknown.
type ParseError struct {
	Row    int
	Column int
	Kind   Kind
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%d:%d %s", e.Row, e.Column, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
