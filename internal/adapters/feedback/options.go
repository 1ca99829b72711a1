package feedback

import "os"

// Option applies a configuration option to the CSVRecorder.
type Option func(*CSVRecorder)

// WithFileMode sets the permission bits used when creating the log file.
func WithFileMode(mode os.FileMode) Option {
	return func(r *CSVRecorder) {
		if mode != 0 {
			r.fileMode = mode
		}
	}
}
