package classifier

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidArtifact = errors.New("invalid artifact")
	ErrFeatureWidth    = errors.New("feature width mismatch")
)
