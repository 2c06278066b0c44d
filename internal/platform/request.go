// Package platform holds the HTTP plumbing shared by the marketplace and
// catalog clients: local rate limiting, bounded retries with backoff, and
// status-to-sentinel mapping.
package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// maxErrorBody caps how much of an error response is kept in the message.
const maxErrorBody = 512

// RequesterConfig tunes a Requester.
type RequesterConfig struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
}

// Requester executes HTTP requests under a token-bucket limiter and retries
// 429 and 5xx responses and transport errors.
type Requester struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     RequesterConfig
}

// NewRequester creates a Requester. A zero RequestsPerSecond disables local
// throttling.
func NewRequester(cfg RequesterConfig) *Requester {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 8 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Requester{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, cfg.Burst),
		cfg:     cfg,
	}
}

// Do builds a request with build and executes it, retrying retryable
// failures. build is called once per attempt. The response body is returned
// for 2xx statuses; other statuses map to domain sentinel errors.
func (r *Requester) Do(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) ([]byte, error) {
	backoff := r.cfg.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff); err != nil {
				return nil, err
			}
			backoff = min(backoff*2, r.cfg.MaxBackoff)
		}
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := build(ctx)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		body, retryAfter, err := r.once(req)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable(err) {
			return nil, err
		}
		if retryAfter > backoff {
			backoff = min(retryAfter, r.cfg.MaxBackoff)
		}
	}
	return nil, lastErr
}

func (r *Requester) once(req *http.Request) ([]byte, time.Duration, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return nil, 0, req.Context().Err()
		}
		return nil, 0, fmt.Errorf("%w: http request: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read response: %v", domain.ErrUnavailable, err)
	}
	if err := CheckStatus(resp.StatusCode, body); err != nil {
		return nil, retryAfter(resp.Header.Get("Retry-After")), err
	}
	return body, 0, nil
}

// CheckStatus maps a non-2xx status to a wrapped domain sentinel.
func CheckStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	bodyStr := string(body)
	switch {
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bodyStr)
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, bodyStr)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, bodyStr)
	case statusCode >= 500:
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrUnavailable, statusCode, bodyStr)
	default:
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrInvalidInput, statusCode, bodyStr)
	}
}

func retryable(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrUnavailable)
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
