package repository

import (
	"context"
	"time"
)

// retryDelay is the pause between InsertBatch attempts of the memory store.
var retryDelay = time.Second

// Retry calls fn up to attempts times, waiting delay between failures. It
// returns the last error, or ctx.Err() when ctx ends while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
