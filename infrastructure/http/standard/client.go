// ABOUTME: Standard HTTP client implementation with retry logic and timeout support
// ABOUTME: Supports basic auth and request rate limiting for billed provider endpoints

package standard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"serp-cluster-api/core/interfaces"
)

const (
	maxRetries = 3
	userAgent  = "SerpClusterAPI/1.0"
)

// ClientOptions configures the HTTP client.
type ClientOptions struct {
	// Timeout bounds each request including retries of the body read
	Timeout time.Duration

	// BasicAuthUser and BasicAuthPassword are attached to every
	// request when BasicAuthUser is non-empty
	BasicAuthUser     string
	BasicAuthPassword string

	// BearerToken is attached as an Authorization header when set;
	// mutually exclusive with basic auth
	BearerToken string

	// RequestsPerSecond throttles outgoing requests; 0 disables
	// throttling. Providers with strict concurrency limits reject
	// bursts, so batched calls are paced here rather than per caller.
	RequestsPerSecond float64
}

// StandardHTTPClient implements the HTTPClient interface using the
// standard library.
type StandardHTTPClient struct {
	client  *http.Client
	opts    ClientOptions
	limiter *rate.Limiter
}

// NewStandardHTTPClient creates a new HTTP client with the specified options.
func NewStandardHTTPClient(opts ClientOptions) *StandardHTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	c := &StandardHTTPClient{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c
}

// Get performs an HTTP GET request with retries on transport errors
// and 5xx responses.
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	return c.doWithRetry(ctx, http.MethodGet, url, "", nil)
}

// Post performs an HTTP POST request with a JSON body. The body is
// buffered so retries can replay it.
func (c *StandardHTTPClient) Post(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
	}
	return c.doWithRetry(ctx, http.MethodPost, url, "application/json", payload)
}

// PostMultipart performs an HTTP POST request with a multipart body,
// buffered like Post so retries can replay it.
func (c *StandardHTTPClient) PostMultipart(ctx context.Context, url, contentType string, body io.Reader) (interfaces.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
	}
	return c.doWithRetry(ctx, http.MethodPost, url, contentType, payload)
}

func (c *StandardHTTPClient) doWithRetry(ctx context.Context, method, url, contentType string, payload []byte) (interfaces.Response, error) {
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 100ms, 200ms, 400ms
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := c.newRequest(ctx, method, url, contentType, payload)
		if err != nil {
			return nil, err
		}

		resp, err = c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		// Don't retry on success or 4xx errors
		if resp.StatusCode < 500 {
			break
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
		resp = nil
	}

	if resp == nil {
		return nil, lastErr
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

func (c *StandardHTTPClient) newRequest(ctx context.Context, method, url, contentType string, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.opts.BasicAuthUser != "" {
		req.SetBasicAuth(c.opts.BasicAuthUser, c.opts.BasicAuthPassword)
	} else if c.opts.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.BearerToken)
	}
	return req, nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
