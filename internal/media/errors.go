package media

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrCancelled is returned when an operation is cancelled
	ErrCancelled = errors.New("operation cancelled")

	// ErrRecordMissing is returned when a stored object exists but no media
	// record references it. The blob store and the catalog have diverged;
	// callers must surface this, not paper over it.
	ErrRecordMissing = errors.New("no media record for stored object")

	// ErrUnsupportedKind is returned when a file is neither an image nor a video
	ErrUnsupportedKind = errors.New("unsupported media kind")
)

// DiscoveryError represents a failure while walking a directory for media
type DiscoveryError struct {
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery error for %s: %v", e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// ReadError represents a failure to read a local source file
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error for %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ProbeError represents an existence-check backend failure. A failed probe
// means "unknown", never "absent": the task must fail rather than upload
// blind.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe error for %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// TransferError represents an upload backend failure. Code carries the
// backend HTTP status when one is available, zero otherwise.
type TransferError struct {
	Path string
	Code int
	Err  error
}

func (e *TransferError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("transfer error for %s (code %d): %v", e.Path, e.Code, e.Err)
	}
	return fmt.Sprintf("transfer error for %s: %v", e.Path, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// RecordError represents a metadata write or lookup failure
type RecordError struct {
	Path string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record error for %s: %v", e.Path, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
