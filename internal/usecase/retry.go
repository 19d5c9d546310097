package usecase

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryPolicy bounds the retry behavior applied to every adapter call:
// at most maxRetries extra attempts, exponential backoff between them,
// and only errors accepted by retryable are retried at all.
type retryPolicy struct {
	maxRetries uint64
	initial    time.Duration
	maxWait    time.Duration
	retryable  func(error) bool
}

// newScrapeRetryPolicy returns the production policy: one retry with
// backoff starting at 1s and capped at 4s.
func newScrapeRetryPolicy(retryable func(error) bool) *retryPolicy {
	return &retryPolicy{
		maxRetries: 1,
		initial:    time.Second,
		maxWait:    4 * time.Second,
		retryable:  retryable,
	}
}

// Do runs op under the policy. Non-retryable errors fail immediately.
func (p *retryPolicy) Do(op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.initial
	bo.MaxInterval = p.maxWait

	wrapped := func() error {
		err := op()
		if err != nil && !p.retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(wrapped, backoff.WithMaxRetries(bo, p.maxRetries))
}
