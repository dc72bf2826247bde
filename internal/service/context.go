package service

import (
	"context"
	"time"
)

const defaultOpTimeout = 5 * time.Second

// opContext bounds one lifecycle operation. gorm hands the connection back
// to the pool when the context expires.
func opContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
