package worker

import (
	"math"
	"time"
)

// Rebuilding a single xlsx report is cheap, so the queue keeps few
// retries and grows the pause between them quickly.
const (
	defaultMaxRetries    = 5
	defaultInitialDelay  = 2 * time.Second
	defaultMaxDelay      = 1 * time.Minute
	defaultBackoffFactor = 2
)

// RetryPolicy governs export task retries: exponential pause with an
// upper bound.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// withDefaults fills unset fields with the export queue defaults.
func (r RetryPolicy) withDefaults() RetryPolicy {
	if r.MaxRetries == 0 {
		r.MaxRetries = defaultMaxRetries
	}
	if r.InitialDelay == 0 {
		r.InitialDelay = defaultInitialDelay
	}
	if r.MaxDelay == 0 {
		r.MaxDelay = defaultMaxDelay
	}
	if r.BackoffFactor == 0 {
		r.BackoffFactor = defaultBackoffFactor
	}
	return r
}

// Exhausted reports that attempt was the last one and the task goes
// to the dead letter list.
func (r RetryPolicy) Exhausted(attempt int) bool {
	return attempt >= r.MaxRetries
}

// NextDelay returns the pause before the attempt-th try (1-based).
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = time.Second
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = defaultBackoffFactor
	}

	delay := float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1))
	d := time.Duration(delay)
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		d = time.Second
	}
	return d
}
