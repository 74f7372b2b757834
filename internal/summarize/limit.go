package summarize

import (
	"context"

	"golang.org/x/time/rate"
)

type limitedClient struct {
	Client
	limiter *rate.Limiter
}

// Limit throttles c to perMinute calls per minute with a burst of one.
// A non-positive rate returns c unchanged.
func Limit(c Client, perMinute float64) Client {
	if perMinute <= 0 {
		return c
	}
	return &limitedClient{
		Client:  c,
		limiter: rate.NewLimiter(rate.Limit(perMinute/60.0), 1),
	}
}

// Complete waits for the limiter, then calls the wrapped client.
func (l *limitedClient) Complete(ctx context.Context, system, user string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.Client.Complete(ctx, system, user)
}
