package event

import (
	"time"

	"github.com/rs/zerolog"
)

// RetryPolicy bounds retry-with-backoff for failed deliveries.
type RetryPolicy struct {
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration

	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration

	// MaxAttempts is the number of retries after the original delivery.
	MaxAttempts int
}

// DefaultRetryPolicy returns the default retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		MaxAttempts: 3,
	}
}

// Delay returns the backoff delay for the given zero-based attempt,
// doubling from BaseDelay and capped at MaxDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// config contains dispatcher construction settings.
type config struct {
	historySize int
	drainLimit  int
	retry       RetryPolicy
	logger      zerolog.Logger
}

// defaultConfig returns sensible dispatcher defaults.
func defaultConfig() config {
	return config{
		historySize: 100,
		drainLimit:  64,
		retry:       DefaultRetryPolicy(),
		logger:      zerolog.Nop(),
	}
}

// Option configures a Dispatcher at construction time.
type Option func(*config)

// WithHistorySize sets the capacity of the dispatch history ring buffer.
func WithHistorySize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.historySize = size
		}
	}
}

// WithDrainLimit bounds the number of deferred events drained per dispatch
// pass before the remainder is handed to a fresh goroutine.
func WithDrainLimit(limit int) Option {
	return func(c *config) {
		if limit > 0 {
			c.drainLimit = limit
		}
	}
}

// WithRetryPolicy sets the retry policy for failed deliveries.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *config) {
		if p.BaseDelay > 0 && p.MaxDelay >= p.BaseDelay && p.MaxAttempts >= 0 {
			c.retry = p
		}
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// dispatchOptions contains per-call scheduling settings.
type dispatchOptions struct {
	priority   Priority
	debounce   time.Duration
	throttle   time.Duration
	allowRetry bool
	silent     bool
}

// defaultDispatchOptions returns the per-call defaults.
func defaultDispatchOptions() dispatchOptions {
	return dispatchOptions{
		priority: PriorityNormal,
	}
}

// DispatchOption configures a single Dispatch call.
type DispatchOption func(*dispatchOptions)

// WithPriority sets the drain priority used if the event is deferred.
func WithPriority(p Priority) DispatchOption {
	return func(o *dispatchOptions) {
		o.priority = p
	}
}

// WithDebounce collapses same-kind dispatches inside the window into one
// delayed delivery carrying the last payload.
func WithDebounce(d time.Duration) DispatchOption {
	return func(o *dispatchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithThrottle drops same-kind dispatches arriving inside the window after
// the first accepted one.
func WithThrottle(d time.Duration) DispatchOption {
	return func(o *dispatchOptions) {
		if d > 0 {
			o.throttle = d
		}
	}
}

// WithRetry marks the event eligible for retry-with-backoff when a
// listener fails.
func WithRetry() DispatchOption {
	return func(o *dispatchOptions) {
		o.allowRetry = true
	}
}

// Silent suppresses rejection logging for this call. Rejections still
// return false and still reach error observers.
func Silent() DispatchOption {
	return func(o *dispatchOptions) {
		o.silent = true
	}
}
