// ABOUTME: OpenAI cluster labeler producing an intent category and short name per cluster
// ABOUTME: Synchronous chat completions plus a JSONL builder for the discounted Batch API

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"serp-cluster-api/core/domain"
	coreerrors "serp-cluster-api/core/errors"
	"serp-cluster-api/core/interfaces"
)

const (
	// DefaultBaseURL is the OpenAI API root
	DefaultBaseURL = "https://api.openai.com"

	defaultModel = "gpt-4o-mini"

	systemPrompt = "You are an SEO expert specializing in search intent analysis."

	// maxKeywordsPerPrompt and maxTitlesPerPrompt bound token usage
	maxKeywordsPerPrompt = 20
	maxTitlesPerPrompt   = 10

	defaultBatchThreshold = 20
	defaultPollInterval   = 5 * time.Second
)

// Options configures the labeler client.
type Options struct {
	// BaseURL overrides the API root, mainly for tests
	BaseURL string

	// Model is the chat model used for labeling (default gpt-4o-mini)
	Model string

	// BatchThreshold is the prompt count at which labeling switches
	// to the discounted Batch API (default 20)
	BatchThreshold int

	// PollInterval is how often a pending batch job is polled
	// (default 5s)
	PollInterval time.Duration
}

// Client implements the ClusterLabeler interface against the OpenAI
// chat completions API. The API key travels as a bearer token on the
// injected HTTP client.
type Client struct {
	httpClient interfaces.HTTPClient
	logger     interfaces.Logger
	opts       Options
}

// NewClient creates a new labeler client.
func NewClient(httpClient interfaces.HTTPClient, logger interfaces.Logger, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.BatchThreshold <= 0 {
		opts.BatchThreshold = defaultBatchThreshold
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		opts:       opts,
	}
}

// labelPayload is the JSON object the model is asked to produce.
type labelPayload struct {
	Reasoning string `json:"reasoning"`
	Intent    string `json:"intent"`
	Label     string `json:"label"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// LabelClusters labels each prompted cluster. Runs at or above the
// batch threshold go through the discounted Batch API; smaller runs,
// and batch runs that fail, use a synchronous chat completion per
// cluster. A failed cluster is skipped, not fatal: the caller treats
// missing entries as "unlabeled".
func (c *Client) LabelClusters(ctx context.Context, prompts []interfaces.ClusterPrompt) (map[string]interfaces.ClusterLabel, error) {
	if len(prompts) >= c.opts.BatchThreshold {
		out, err := c.labelViaBatch(ctx, prompts)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if c.logger != nil {
			c.logger.Warn("Batch labeling failed, falling back to per-cluster requests", map[string]interface{}{
				"clusters": len(prompts),
				"error":    err.Error(),
			})
		}
	}

	out := make(map[string]interfaces.ClusterLabel, len(prompts))

	for _, prompt := range prompts {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		label, err := c.labelOne(ctx, prompt)
		if err != nil {
			if c.logger != nil {
				c.logger.Warn("Cluster labeling request failed", map[string]interface{}{
					"cluster_id": prompt.ClusterID,
					"error":      err.Error(),
				})
			}
			continue
		}
		out[prompt.ClusterID] = label
	}

	return out, nil
}

func (c *Client) labelOne(ctx context.Context, prompt interfaces.ClusterPrompt) (interfaces.ClusterLabel, error) {
	req := chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(prompt)},
		},
	}
	req.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(req)
	if err != nil {
		return interfaces.ClusterLabel{}, err
	}

	resp, err := c.httpClient.Post(ctx, c.opts.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return interfaces.ClusterLabel{}, err
	}
	defer resp.Body().Close()

	raw, err := io.ReadAll(resp.Body())
	if err != nil {
		return interfaces.ClusterLabel{}, err
	}

	if resp.StatusCode() != 200 {
		return interfaces.ClusterLabel{}, &coreerrors.ExternalAPIError{
			API:        "openai",
			StatusCode: resp.StatusCode(),
			Message:    string(raw),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return interfaces.ClusterLabel{}, fmt.Errorf("parsing completion response: %w", err)
	}
	if parsed.Error != nil {
		return interfaces.ClusterLabel{}, &coreerrors.ExternalAPIError{
			API:     "openai",
			Message: parsed.Error.Message,
		}
	}
	if len(parsed.Choices) == 0 {
		return interfaces.ClusterLabel{}, fmt.Errorf("completion response has no choices")
	}

	var payload labelPayload
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), &payload); err != nil {
		return interfaces.ClusterLabel{}, fmt.Errorf("parsing label payload: %w", err)
	}

	return interfaces.ClusterLabel{
		Label:  strings.TrimSpace(payload.Label),
		Intent: domain.ParseIntent(payload.Intent),
	}, nil
}

// buildUserPrompt renders the labeling instructions for one cluster.
func buildUserPrompt(prompt interfaces.ClusterPrompt) string {
	keywords := prompt.Keywords
	if len(keywords) > maxKeywordsPerPrompt {
		keywords = keywords[:maxKeywordsPerPrompt]
	}
	titles := prompt.Titles
	if len(titles) > maxTitlesPerPrompt {
		titles = titles[:maxTitlesPerPrompt]
	}

	var b strings.Builder
	b.WriteString("Analyze the following keyword cluster and SERP titles to determine the user intent and a descriptive label.\n\n")
	b.WriteString("Keywords:\n")
	b.WriteString(strings.Join(keywords, ", "))
	b.WriteString("\n\nTop Ranking Titles:\n")
	for _, t := range titles {
		b.WriteString("- ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	b.WriteString("\nStep 1: Analyze the keywords and titles to understand the core topic.\n")
	b.WriteString("Step 2: Identify the common user needs.\n")
	b.WriteString("Step 3: Reason whether the intent is Informational, Commercial, Transactional, or Navigational.\n")
	b.WriteString("Step 4: Create a short, human-readable label (2-4 words) for this cluster.\n\n")
	b.WriteString(`Output the result in JSON format with keys: "reasoning", "intent", "label".`)
	return b.String()
}

// batchRequestLine is one line of a Batch API input file.
type batchRequestLine struct {
	CustomID string      `json:"custom_id"`
	Method   string      `json:"method"`
	URL      string      `json:"url"`
	Body     chatRequest `json:"body"`
}

// BuildBatchJSONL renders the prompts as a Batch API input file, one
// chat completion request per line keyed by cluster ID.
func (c *Client) BuildBatchJSONL(prompts []interfaces.ClusterPrompt) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for _, prompt := range prompts {
		req := chatRequest{
			Model: c.opts.Model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: buildUserPrompt(prompt)},
			},
		}
		req.ResponseFormat.Type = "json_object"

		line := batchRequestLine{
			CustomID: prompt.ClusterID,
			Method:   "POST",
			URL:      "/v1/chat/completions",
			Body:     req,
		}
		if err := enc.Encode(line); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// batchOutputLine is one line of a completed Batch API output file.
type batchOutputLine struct {
	CustomID string `json:"custom_id"`
	Response struct {
		Body chatResponse `json:"body"`
	} `json:"response"`
}

// ParseBatchOutput converts a completed Batch API output file into
// cluster labels. Malformed lines are skipped so one bad completion
// does not discard the rest of the batch.
func (c *Client) ParseBatchOutput(output []byte) map[string]interfaces.ClusterLabel {
	out := make(map[string]interfaces.ClusterLabel)

	for _, line := range bytes.Split(output, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var parsed batchOutputLine
		if err := json.Unmarshal(line, &parsed); err != nil {
			continue
		}
		if len(parsed.Response.Body.Choices) == 0 {
			continue
		}

		var payload labelPayload
		if err := json.Unmarshal([]byte(parsed.Response.Body.Choices[0].Message.Content), &payload); err != nil {
			continue
		}

		out[parsed.CustomID] = interfaces.ClusterLabel{
			Label:  strings.TrimSpace(payload.Label),
			Intent: domain.ParseIntent(payload.Intent),
		}
	}

	return out
}

// batchJob mirrors the Batch API job object for the fields we consume.
type batchJob struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	OutputFileID string `json:"output_file_id"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type batchCreateRequest struct {
	InputFileID      string `json:"input_file_id"`
	Endpoint         string `json:"endpoint"`
	CompletionWindow string `json:"completion_window"`
}

// labelViaBatch runs the full Batch API flow: upload the JSONL input
// file, create the batch job, poll until it settles, and parse the
// output file.
func (c *Client) labelViaBatch(ctx context.Context, prompts []interfaces.ClusterPrompt) (map[string]interfaces.ClusterLabel, error) {
	jsonl, err := c.BuildBatchJSONL(prompts)
	if err != nil {
		return nil, err
	}

	fileID, err := c.uploadBatchFile(ctx, jsonl)
	if err != nil {
		return nil, fmt.Errorf("uploading batch input: %w", err)
	}

	job, err := c.createBatchJob(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("creating batch job: %w", err)
	}
	if c.logger != nil {
		c.logger.Info("Batch labeling job submitted", map[string]interface{}{
			"batch_id": job.ID,
			"clusters": len(prompts),
		})
	}

	job, err = c.awaitBatch(ctx, job)
	if err != nil {
		return nil, err
	}

	output, err := c.downloadFile(ctx, job.OutputFileID)
	if err != nil {
		return nil, fmt.Errorf("retrieving batch output: %w", err)
	}

	return c.ParseBatchOutput(output), nil
}

// uploadBatchFile uploads the JSONL input as a Batch API file and
// returns its file ID.
func (c *Client) uploadBatchFile(ctx context.Context, jsonl []byte) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("purpose", "batch"); err != nil {
		return "", err
	}
	part, err := w.CreateFormFile("file", "clusters.jsonl")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(jsonl); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	resp, err := c.httpClient.PostMultipart(ctx, c.opts.BaseURL+"/v1/files", w.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := decodeResponse(resp, &parsed); err != nil {
		return "", err
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("file upload response has no id")
	}
	return parsed.ID, nil
}

// createBatchJob creates a batch job over the uploaded input file.
func (c *Client) createBatchJob(ctx context.Context, fileID string) (batchJob, error) {
	body, err := json.Marshal(batchCreateRequest{
		InputFileID:      fileID,
		Endpoint:         "/v1/chat/completions",
		CompletionWindow: "24h",
	})
	if err != nil {
		return batchJob{}, err
	}

	resp, err := c.httpClient.Post(ctx, c.opts.BaseURL+"/v1/batches", bytes.NewReader(body))
	if err != nil {
		return batchJob{}, err
	}

	var job batchJob
	if err := decodeResponse(resp, &job); err != nil {
		return batchJob{}, err
	}
	if job.ID == "" {
		return batchJob{}, fmt.Errorf("batch create response has no id")
	}
	return job, nil
}

// awaitBatch polls the job until it reaches a terminal status. The
// poll interval bounds how quickly small batches complete end to end.
func (c *Client) awaitBatch(ctx context.Context, job batchJob) (batchJob, error) {
	for {
		switch job.Status {
		case "completed":
			if job.OutputFileID == "" {
				return batchJob{}, fmt.Errorf("batch %s completed without an output file", job.ID)
			}
			return job, nil
		case "failed", "expired", "cancelled":
			msg := "batch " + job.ID + " " + job.Status
			if job.Error != nil && job.Error.Message != "" {
				msg += ": " + job.Error.Message
			}
			return batchJob{}, &coreerrors.ExternalAPIError{
				API:     "openai",
				Message: msg,
			}
		}

		select {
		case <-time.After(c.opts.PollInterval):
		case <-ctx.Done():
			return batchJob{}, ctx.Err()
		}

		resp, err := c.httpClient.Get(ctx, c.opts.BaseURL+"/v1/batches/"+job.ID)
		if err != nil {
			return batchJob{}, fmt.Errorf("polling batch %s: %w", job.ID, err)
		}
		var polled batchJob
		if err := decodeResponse(resp, &polled); err != nil {
			return batchJob{}, fmt.Errorf("polling batch %s: %w", job.ID, err)
		}
		job = polled
	}
}

// downloadFile fetches the raw content of a Batch API file.
func (c *Client) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.httpClient.Get(ctx, c.opts.BaseURL+"/v1/files/"+fileID+"/content")
	if err != nil {
		return nil, err
	}
	defer resp.Body().Close()

	raw, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, &coreerrors.ExternalAPIError{
			API:        "openai",
			StatusCode: resp.StatusCode(),
			Message:    string(raw),
		}
	}
	return raw, nil
}

// decodeResponse reads a JSON API response into v, converting non-200
// statuses into ExternalAPIErrors.
func decodeResponse(resp interfaces.Response, v interface{}) error {
	defer resp.Body().Close()

	raw, err := io.ReadAll(resp.Body())
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return &coreerrors.ExternalAPIError{
			API:        "openai",
			StatusCode: resp.StatusCode(),
			Message:    string(raw),
		}
	}
	return json.Unmarshal(raw, v)
}
