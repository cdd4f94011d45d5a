// ABOUTME: DataForSEO SERP provider client for the live/advanced organic endpoint
// ABOUTME: One POST resolves a whole keyword batch; task-level errors map to the core taxonomy

package dataforseo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"serp-cluster-api/core/domain"
	coreerrors "serp-cluster-api/core/errors"
	"serp-cluster-api/core/interfaces"
	htmlutil "serp-cluster-api/pkg/utils/html"
)

const (
	// DefaultBaseURL is the live organic SERP endpoint
	DefaultBaseURL = "https://api.dataforseo.com/v3/serp/google/organic/live/advanced"

	// taskStatusOK is DataForSEO's per-task success code
	taskStatusOK = 20000

	// taskStatusRateLimited is returned when concurrent task limits are hit
	taskStatusRateLimited = 40202

	defaultDepth = 10
)

// Options configures the provider client.
type Options struct {
	// BaseURL overrides the endpoint, mainly for tests
	BaseURL string

	// Depth is the number of results requested per keyword (default 10)
	Depth int

	// KeepQuery keeps query strings on normalized result URLs
	KeepQuery bool
}

// Client implements the SerpProvider interface against DataForSEO.
// Credentials travel as basic auth on the injected HTTP client.
type Client struct {
	httpClient interfaces.HTTPClient
	logger     interfaces.Logger
	opts       Options
}

// NewClient creates a new provider client.
func NewClient(httpClient interfaces.HTTPClient, logger interfaces.Logger, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Depth <= 0 {
		opts.Depth = defaultDepth
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		opts:       opts,
	}
}

// task is one item of the POST payload. Keywords are base64 encoded as
// the endpoint requires for arbitrary character sets.
type task struct {
	Keyword      string `json:"keyword"`
	LocationCode int    `json:"location_code"`
	LanguageCode string `json:"language_code"`
	Depth        int    `json:"depth"`
}

type apiResponse struct {
	StatusCode    int       `json:"status_code"`
	StatusMessage string    `json:"status_message"`
	Tasks         []apiTask `json:"tasks"`
}

type apiTask struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Data          struct {
		Keyword      string `json:"keyword"`
		LocationCode int    `json:"location_code"`
		LanguageCode string `json:"language_code"`
	} `json:"data"`
	Result []struct {
		Keyword string `json:"keyword"`
		Items   []struct {
			Type  string `json:"type"`
			URL   string `json:"url"`
			Title string `json:"title"`
		} `json:"items"`
	} `json:"result"`
}

// FetchBatch resolves a keyword batch in one billed POST.
func (c *Client) FetchBatch(ctx context.Context, keywords []domain.Keyword) (*interfaces.BatchResult, error) {
	if len(keywords) == 0 {
		return &interfaces.BatchResult{
			Results: map[domain.Keyword]domain.SerpResult{},
			Errors:  map[domain.Keyword]error{},
		}, nil
	}

	payload := make([]task, 0, len(keywords))
	byEncoded := make(map[string]domain.Keyword, len(keywords))
	for _, kw := range keywords {
		encoded := base64.StdEncoding.EncodeToString([]byte(kw.Text))
		byEncoded[encoded] = kw
		payload = append(payload, task{
			Keyword:      encoded,
			LocationCode: kw.Locale.LocationCode,
			LanguageCode: kw.Locale.LanguageCode,
			Depth:        c.opts.Depth,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding provider payload: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, c.opts.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &coreerrors.ExternalAPIError{
			API:     "dataforseo",
			Message: err.Error(),
		}
	}
	defer resp.Body().Close()

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode(), coreerrors.ErrProviderAuth)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode(), coreerrors.ErrRateLimited)
	default:
		return nil, &coreerrors.ExternalAPIError{
			API:        "dataforseo",
			StatusCode: resp.StatusCode(),
			Message:    "unexpected response status",
		}
	}

	raw, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("reading provider response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing provider response: %w", err)
	}

	return c.collectTasks(keywords, byEncoded, &parsed)
}

// collectTasks maps each response task back to its keyword and splits
// per-item successes from failures.
func (c *Client) collectTasks(keywords []domain.Keyword, byEncoded map[string]domain.Keyword, parsed *apiResponse) (*interfaces.BatchResult, error) {
	out := &interfaces.BatchResult{
		Results: map[domain.Keyword]domain.SerpResult{},
		Errors:  map[domain.Keyword]error{},
	}

	for _, t := range parsed.Tasks {
		kw, ok := c.matchKeyword(t, byEncoded)
		if !ok {
			if c.logger != nil {
				c.logger.Warn("Provider task does not match any requested keyword", map[string]interface{}{
					"task_keyword": t.Data.Keyword,
				})
			}
			continue
		}

		switch {
		case t.StatusCode == taskStatusOK && len(t.Result) > 0:
			out.Results[kw] = c.buildResult(t)
		case t.StatusCode == taskStatusRateLimited:
			out.Errors[kw] = fmt.Errorf("%s: %w", t.StatusMessage, coreerrors.ErrRateLimited)
		default:
			out.Errors[kw] = &coreerrors.ExternalAPIError{
				API:        "dataforseo",
				StatusCode: t.StatusCode,
				Message:    t.StatusMessage,
			}
		}
	}

	// Keywords the response never mentioned still need an outcome.
	for _, kw := range keywords {
		if _, ok := out.Results[kw]; ok {
			continue
		}
		if _, ok := out.Errors[kw]; ok {
			continue
		}
		out.Errors[kw] = &coreerrors.ExternalAPIError{
			API:     "dataforseo",
			Message: "keyword missing from provider response",
		}
	}

	return out, nil
}

// matchKeyword resolves a response task to the requested keyword, via
// the echoed base64 payload first and the result keyword text second.
func (c *Client) matchKeyword(t apiTask, byEncoded map[string]domain.Keyword) (domain.Keyword, bool) {
	if kw, ok := byEncoded[t.Data.Keyword]; ok {
		return kw, true
	}
	if decoded, err := base64.StdEncoding.DecodeString(t.Data.Keyword); err == nil {
		text := domain.NormalizeKeyword(string(decoded))
		for _, kw := range byEncoded {
			if kw.Text == text {
				return kw, true
			}
		}
	}
	if len(t.Result) > 0 {
		text := domain.NormalizeKeyword(t.Result[0].Keyword)
		for _, kw := range byEncoded {
			if kw.Text == text {
				return kw, true
			}
		}
	}
	return domain.Keyword{}, false
}

// buildResult extracts the organic items from a successful task.
func (c *Client) buildResult(t apiTask) domain.SerpResult {
	var urls, titles []string
	for _, item := range t.Result[0].Items {
		if item.Type != "organic" {
			continue
		}
		urls = append(urls, item.URL)
		titles = append(titles, htmlutil.StripHTML(item.Title))
	}
	return domain.NewSerpResult(urls, titles, c.opts.Depth, domain.URLNormalization{KeepQuery: c.opts.KeepQuery})
}
