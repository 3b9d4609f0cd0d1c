// Package errs defines the error kinds used across dbcrossbar's drivers
// and pipeline (spec §7), following the concrete-struct style
// ariga.io/atlas/sql/migrate uses for NotExistError / NotCleanError
// instead of opaque sentinel strings, so callers can errors.As into the
// kind they care about.
package errs

import "fmt"

// ParseError reports a native or portable grammar that rejected its
// input, with the position and the token that was expected.
type ParseError struct {
	Kind     string // Grammar or production that failed, e.g. "bigquery.data_type".
	Position int    // Byte offset into the input.
	Expected string // What the parser expected to see there.
	Input    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s at byte %d: expected %s (in %q)", e.Kind, e.Position, e.Expected, e.Input)
}

// Unsupported reports that a combination of portable type and
// destination forbids representation, or that the copy planner found no
// route from source to destination.
type Unsupported struct {
	Source      string
	Destination string
	Reason      string
}

func (e *Unsupported) Error() string {
	if e.Source == "" && e.Destination == "" {
		return fmt.Sprintf("unsupported: %s", e.Reason)
	}
	return fmt.Sprintf("unsupported: no route from %s to %s: %s", e.Source, e.Destination, e.Reason)
}

// ArgumentError reports that argument verification rejected an option
// the driver does not support (§4.6).
type ArgumentError struct {
	Option string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument error: %s: %s", e.Option, e.Reason)
}

// RemoteError wraps a failure reported by a backend.
type RemoteError struct {
	Backend string
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: remote error: %v", e.Backend, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IoError reports a truncated stream or dropped connection.
type IoError struct {
	Context string
	Err     error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("i/o error: %s: %v", e.Context, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// Cancelled is returned when a copy's cancellation token fires.
var Cancelled = &cancelledError{}

type cancelledError struct{}

func (*cancelledError) Error() string { return "copy cancelled" }
