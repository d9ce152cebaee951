package services

import (
	"context"
	"time"
)

const (
	backoffAttempts = 3
	backoffFloor    = 4 * time.Second
	backoffCeiling  = 60 * time.Second
)

// withBackoff runs fn up to backoffAttempts times, sleeping an
// exponentially growing interval (floor 4s, ceiling 60s) between
// attempts. Only transient errors are retried; anything else returns
// immediately.
func withBackoff(ctx context.Context, fn func() error) error {
	var err error
	wait := backoffFloor
	for attempt := 0; attempt < backoffAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
			if wait > backoffCeiling {
				wait = backoffCeiling
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
	}
	return err
}
