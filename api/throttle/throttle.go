/* throttle.go
 * Contains the courtesy rate limiter placed between calls to upstream platforms. Scraping order
 * does not matter for correctness; the delays exist purely to respect upstream rate limits
 */

package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces out upstream calls. The zero interval disables throttling,
// which tests rely on.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a Limiter that allows one call per interval.
func New(interval time.Duration) *Limiter {
	if interval <= 0 {
		return &Limiter{}
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Wait blocks until the next call is allowed or the context is cancelled.
// Preconditions: receives the calling context
// Postconditions: returns nil when the caller may proceed, or the context error on cancellation
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
