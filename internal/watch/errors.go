package watch

import "errors"

var (
	// ErrWatcherNotFound is returned when a watcher ID is not found
	ErrWatcherNotFound = errors.New("watcher not found")

	// ErrInvalidPattern is returned when a watch pattern is invalid
	ErrInvalidPattern = errors.New("invalid watch pattern")
)
