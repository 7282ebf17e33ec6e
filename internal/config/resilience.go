package config

import (
	"time"

	"fiery_print_jobs/internal/retry"
)

// ResilienceConfig carries the retry profiles for the calls that must
// succeed before the run can start. Per-row report writes are deliberately
// absent: those are logged and skipped, never retried.
type ResilienceConfig struct {
	SheetFetch retry.Config
	SheetClear retry.Config
	FieryLogin retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	SheetFetch: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
	SheetClear: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
	FieryLogin: retry.Config{
		MaxRetries: 2,
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
		Timeout:    15 * time.Second,
	},
}
