package app

import "context"

// Runner defines the minimal lifecycle contract for runnable applications.
type Runner interface {
	// Run starts the application and blocks until ctx is done or a
	// component fails.
	Run(ctx context.Context) error
}
