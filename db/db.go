// Package db stores the states of tennis games so they can be retrieved after the server restarts.
package db

import (
	"context"
	"fmt"
	"time"
)

// Config contains common settings for all database backends.
type Config struct {
	// QueryPeriod is the amount of time a single call to a backend may take.
	QueryPeriod time.Duration
}

// Validate checks the config.
func (cfg Config) Validate() error {
	switch {
	case cfg.QueryPeriod <= 0:
		return fmt.Errorf("positive query period required")
	}
	return nil
}

// WithTimeout runs the function with a context that is cancelled after the query period.
func (cfg Config) WithTimeout(ctx context.Context, f func(ctx context.Context) error) error {
	ctx, cancelFunc := context.WithTimeout(ctx, cfg.QueryPeriod)
	defer cancelFunc()
	return f(ctx)
}
