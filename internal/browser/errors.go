// internal/browser/errors.go
package browser

import "errors"

// Common browser driver errors
var (
	// ErrNavigationTimeout means a page load did not reach a ready state
	// within the navigation timeout. The navigator retries these.
	ErrNavigationTimeout = errors.New("navigation timeout")

	// ErrWaitTimeout means a selector did not appear within its bounded
	// wait. Callers treat this as "structure absent", never as fatal.
	ErrWaitTimeout = errors.New("selector wait timeout")
)
