package dataset

import "errors"

// Sentinel kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrLoad marks a fatal load failure: missing file, unreadable CSV, or a
	// required column absent from the header. Per-row problems never raise it.
	ErrLoad = errors.New("dataset load failed")
)
