package scraper

import (
	"fmt"
	"time"
)

// AuthenticationError means the portal rejected the credentials, or the
// session never made it past the login page.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// AvailabilityError means an expected page or element did not appear within
// its wait ceiling. The site may be slow, down, or restructured.
type AvailabilityError struct {
	Target  string
	Timeout time.Duration
	Err     error
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("%s did not appear within %s: %v", e.Target, e.Timeout, e.Err)
}

func (e *AvailabilityError) Unwrap() error { return e.Err }

// ExtractionError means an element was found but its content did not have
// the expected shape.
type ExtractionError struct {
	Field string
	Raw   string
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extracting %s from %q: %v", e.Field, e.Raw, e.Err)
	}
	return fmt.Sprintf("extracting %s from %q", e.Field, e.Raw)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
