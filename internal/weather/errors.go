// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLocation is returned when the zip code does not have a valid format
	ErrInvalidLocation = errors.New("invalid zip code format")

	// ErrMalformedURL is returned when no valid request URL can be assembled
	ErrMalformedURL = errors.New("malformed request URL")

	// ErrTransport is returned when the HTTP request itself failed
	ErrTransport = errors.New("transport failure")

	// ErrCannotParse is matched by every ParseError
	ErrCannotParse = errors.New("cannot parse response")

	// ErrMissingTimestamp is matched by every TimestampError
	ErrMissingTimestamp = errors.New("missing or unparsable timestamp")
)

// ParseError identifies the first field of a response document that could not be extracted.
// Index is the position in the hourly array, or -1 for fields outside of it.
type ParseError struct {
	Field string
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("cannot parse %s", e.Field)
	if e.Index >= 0 {
		msg = fmt.Sprintf("cannot parse %s of hour %d", e.Field, e.Index)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrCannotParse
}

// TimestampError reports the hourly record whose epoch could not be interpreted.
type TimestampError struct {
	Index int
	Value string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("%s: hour %d has value %q", ErrMissingTimestamp, e.Index, e.Value)
}

func (e *TimestampError) Is(target error) bool {
	return target == ErrMissingTimestamp
}
