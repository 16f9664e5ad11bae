package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jpillora/backoff"
	"github.com/sony/gobreaker"

	"github.com/weatherdeck/weatherdeck/internal/weather"
)

// RetryConfig controls the retry policy around one upstream.
type RetryConfig struct {
	MaxRetries int
	Min        time.Duration
	Max        time.Duration
}

// HTTPClientConfig bundles the shared HTTP client and retry settings.
type HTTPClientConfig struct {
	Client *http.Client
	Retry  RetryConfig
}

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// newCircuit builds the per-upstream circuit breaker.
func newCircuit(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequestWithResilience executes the HTTP request with retries, exponential
// backoff, and a circuit breaker. Rate limiting and 5xx responses are
// retried; other non-2xx responses fail immediately.
func doRequestWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	delay := &backoff.Backoff{
		Min:    cfg.Retry.Min,
		Max:    cfg.Retry.Max,
		Factor: 2,
	}

	var attempt int
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			if resp.StatusCode == http.StatusTooManyRequests {
				resp.Body.Close()
				return nil, errRateLimited
			}
			if resp.StatusCode >= 500 {
				resp.Body.Close()
				return nil, errServerError
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
			}

			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		if errors.Is(err, errUnexpected) {
			return nil, err
		}
		if attempt >= cfg.Retry.MaxRetries {
			return nil, err
		}

		timer := time.NewTimer(delay.Duration())
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}

// classify maps a transport-level error onto the pipeline failure taxonomy.
func classify(err error) *weather.Failure {
	switch {
	case errors.Is(err, errUnexpected),
		errors.Is(err, errRateLimited),
		errors.Is(err, errServerError):
		return weather.RejectedFailure(err)
	default:
		return weather.NetworkFailure(err)
	}
}
