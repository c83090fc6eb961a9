// internal/scoring/errors.go
package scoring

import (
	"errors"
	"fmt"
)

// ErrProfileNotFound is returned when scoring or recommending without a profile.
var ErrProfileNotFound = errors.New("profile not found")

// ScoringFailure wraps any unexpected failure while computing a score.
type ScoringFailure struct {
	Cause error
}

func (e *ScoringFailure) Error() string {
	return fmt.Sprintf("career scoring failed: %v", e.Cause)
}

func (e *ScoringFailure) Unwrap() error {
	return e.Cause
}

// IsScoringFailure reports whether err is or wraps a ScoringFailure.
func IsScoringFailure(err error) bool {
	var sf *ScoringFailure
	return errors.As(err, &sf)
}
