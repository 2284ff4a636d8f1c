package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jgrizzled/melon-list/internal/domain"
)

// HTTPOptions tune the shared market data transport.
type HTTPOptions struct {
	// RequestsPerSecond caps outgoing requests. Zero or less disables the limiter.
	RequestsPerSecond int
	// MaxRetries is the number of extra attempts after an HTTP 429. Zero disables retry.
	MaxRetries int
	// RetryBaseDelay is doubled after every rate-limited attempt.
	RetryBaseDelay time.Duration
}

// fetcher issues rate-limited GETs and backs off on HTTP 429.
type fetcher struct {
	name       string
	httpClient *http.Client
	limiter    *rate.Limiter
	delay      time.Duration
	maxRetries int
}

func newFetcher(name string, opts HTTPOptions) *fetcher {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &fetcher{
		name:       name,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(limit, 1),
		delay:      opts.RetryBaseDelay,
		maxRetries: max(opts.MaxRetries, 0),
	}
}

// get returns the response body of a 200 reply. Every failure wraps domain.ErrDataUnavailable.
func (f *fetcher) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := range f.maxRetries + 1 {
		if attempt > 0 {
			baseDelay := f.delay
			if baseDelay == 0 {
				baseDelay = 2 * time.Second
			}
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%s: %w: %w", f.name, domain.ErrDataUnavailable, ctx.Err())
			case <-time.After(delay):
			}
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s rate limiter: %w: %w", f.name, domain.ErrDataUnavailable, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating %s request: %w", f.name, err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s request failed: %w: %w", f.name, domain.ErrDataUnavailable, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s response: %w: %w", f.name, domain.ErrDataUnavailable, err)
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("%s rate limited (attempt %d/%d): %w", f.name, attempt+1, f.maxRetries+1, domain.ErrDataUnavailable)
			continue
		}

		return nil, fmt.Errorf("%s HTTP %d: %s: %w", f.name, resp.StatusCode, string(body), domain.ErrDataUnavailable)
	}

	return nil, lastErr
}
