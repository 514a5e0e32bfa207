package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when triggering a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	// ErrInvalidConfig is returned for invalid scheduler configuration
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
