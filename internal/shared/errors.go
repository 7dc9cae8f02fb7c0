package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors, fatal before any work starts
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrToolNotFound       = fmt.Errorf("downloader not found")
	ErrAuthFailed         = fmt.Errorf("authentication failed")

	// Input validation errors, fatal before any network call
	ErrInvalidInput = fmt.Errorf("invalid input")

	// Per-row and per-item errors, recovered by skipping
	ErrAPIRequest = fmt.Errorf("API request failed")
	ErrToolFailed = fmt.Errorf("downloader invocation failed")

	// Filesystem errors, fatal for the run
	ErrFilesystem = fmt.Errorf("filesystem operation failed")

	ErrServiceUnavailable = fmt.Errorf("service unavailable")
)

// IsFatal reports whether err belongs to the set that aborts a run.
//
// Per-row errors (ErrAPIRequest) and per-item errors (ErrToolFailed) are
// caught, logged, and skipped by the batch phases; everything else in the
// taxonomy aborts.
func IsFatal(err error) bool {
	for _, target := range []error{
		ErrMissingCredentials,
		ErrInvalidConfig,
		ErrToolNotFound,
		ErrAuthFailed,
		ErrInvalidInput,
		ErrFilesystem,
		ErrServiceUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
