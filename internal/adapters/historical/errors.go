package historical

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmptyDataset = errors.New("historical dataset is empty")
	ErrBadHeader    = errors.New("historical dataset header mismatch")
)
