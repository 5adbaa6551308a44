package fetch

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"github.com/stylist/engine/internal/domain"
)

// Options configures the outbound HTTP client. Zero values fall back to
// conservative defaults.
type Options struct {
	Timeout           time.Duration
	MaxRetries        int
	MaxBodyBytes      int64
	UserAgent         string
	RequestsPerSecond float64
}

// Response is a fully read HTTP response with the body already decompressed.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client executes outbound requests with rate limiting, body decompression
// and retry-aware error classification.
type Client struct {
	httpClient   *http.Client
	rateLimiter  *rate.Limiter
	userAgent    string
	maxRetries   int
	maxBodyBytes int64
	backoffBase  time.Duration
}

// NewClient creates a new fetch client
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = 2 << 20 // 2 MiB
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "stylist-engine/1.0"
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 2
	}

	// Burst of 5 lets a page batch start promptly without exceeding the
	// sustained rate.
	limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		rateLimiter:  limiter,
		userAgent:    opts.UserAgent,
		maxRetries:   opts.MaxRetries,
		maxBodyBytes: opts.MaxBodyBytes,
		backoffBase:  time.Second,
	}
}

// Get executes a single GET request. Transport failures are classified as
// timeout or transient; non-2xx statuses are returned for the caller to judge.
func (c *Client) Get(ctx context.Context, reqURL string, headers map[string]string) (*Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := c.readBody(resp)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// GetWithRetry executes a GET request, retrying transient failures with
// exponential backoff. Timeouts are reported immediately and never retried.
func (c *Client) GetWithRetry(ctx context.Context, reqURL string, headers map[string]string) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(ctx, c.backoffDelay(attempt)); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrFetchTimeout, err)
			}
		}

		resp, err := c.Get(ctx, reqURL, headers)
		if err != nil {
			if errors.Is(err, domain.ErrFetchTimeout) {
				log.Printf("[FETCH] timeout for %s: %v", reqURL, err)
				return nil, err
			}
			log.Printf("[FETCH] attempt %d failed for %s: %v", attempt+1, reqURL, err)
			lastErr = err
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		if retryableStatus(resp.StatusCode) {
			log.Printf("[FETCH] attempt %d got status %d for %s", attempt+1, resp.StatusCode, reqURL)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrFetchTransient, resp.StatusCode)
			continue
		}

		// Client errors other than 429 will not improve on retry
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchTransient, resp.StatusCode)
	}

	return nil, lastErr
}

// readBody reads and decompresses the response body, bounded by the
// configured size cap.
func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip reader: %v", domain.ErrFetchTransient, err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fr := flate.NewReader(resp.Body)
		defer fr.Close()
		reader = fr
	}

	body, err := io.ReadAll(io.LimitReader(reader, c.maxBodyBytes))
	if err != nil {
		return nil, classifyTransportError(err)
	}
	return body, nil
}

// classifyTransportError maps a transport failure to the fetch error taxonomy.
// Deadline and timeout failures are distinct from retryable transient ones.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrFetchTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrFetchTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrFetchTransient, err)
}

// retryableStatus reports whether a status code is worth retrying
func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// backoffDelay returns the exponential delay before the given retry attempt:
// 1s before the first retry, 2s before the second, 4s before the third.
func (c *Client) backoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	return c.backoffBase << (attempt - 1)
}

// sleepWithContext sleeps for the duration unless the context ends first
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
