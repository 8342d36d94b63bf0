package gemini

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type retryConfig struct {
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	multiplier     float64
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		maxRetries:     3,
		initialBackoff: 45 * time.Second,
		maxBackoff:     90 * time.Second,
		multiplier:     1.5,
	}
}

// wait sleeps for the backoff appropriate to this attempt, preferring
// the delay the API suggested over our own schedule.
func (c retryConfig) wait(ctx context.Context, attempt int, apiDelay time.Duration) error {
	base := c.initialBackoff
	if apiDelay > 0 {
		base = apiDelay + 5*time.Second
	}
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * c.multiplier)
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}

	t := time.NewTimer(backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "429") ||
		strings.Contains(s, "RESOURCE_EXHAUSTED") ||
		strings.Contains(s, "quota")
}

// Matches "Please retry in 45.387061394s" and "retryDelay: 45s".
var retryDelayRE = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

func extractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}
	m := retryDelayRE.FindStringSubmatch(err.Error())
	if len(m) < 2 {
		return 0
	}
	sec, parseErr := strconv.ParseFloat(m[1], 64)
	if parseErr != nil {
		return 0
	}
	return time.Duration(sec * float64(time.Second))
}
