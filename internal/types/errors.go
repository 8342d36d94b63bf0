package types

import (
	"errors"
	"fmt"
)

// ErrOracleUnavailable marks oracle failures that are worth retrying.
// After the attempt cap the candidate is skipped, never promoted.
var ErrOracleUnavailable = errors.New("oracle unavailable")

// ErrMalformedResponse marks an oracle reply that failed shape
// validation. Retried like unavailability: the next attempt carries no
// state from this one.
var ErrMalformedResponse = errors.New("malformed oracle response")

// MalformedTranscriptError is fatal for the whole video: downstream
// time-range reasoning depends on monotonic timestamps, so there is no
// partial processing.
type MalformedTranscriptError struct {
	VideoID string
	Reason  string
}

func (e *MalformedTranscriptError) Error() string {
	return fmt.Sprintf("malformed transcript %s: %s", e.VideoID, e.Reason)
}

// IsMalformedTranscript reports whether err is (or wraps) a
// MalformedTranscriptError.
func IsMalformedTranscript(err error) bool {
	var mte *MalformedTranscriptError
	return errors.As(err, &mte)
}
