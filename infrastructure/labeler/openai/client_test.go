package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"serp-cluster-api/core/domain"
	"serp-cluster-api/core/interfaces"
)

// mockHTTPClient is a mock implementation of the HTTPClient interface
type mockHTTPClient struct {
	postFunc          func(ctx context.Context, url string, body io.Reader) (interfaces.Response, error)
	getFunc           func(ctx context.Context, url string) (interfaces.Response, error)
	postMultipartFunc func(ctx context.Context, url, contentType string, body io.Reader) (interfaces.Response, error)
}

func (m *mockHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	if m.getFunc == nil {
		return nil, fmt.Errorf("not implemented")
	}
	return m.getFunc(ctx, url)
}

func (m *mockHTTPClient) Post(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	return m.postFunc(ctx, url, body)
}

func (m *mockHTTPClient) PostMultipart(ctx context.Context, url, contentType string, body io.Reader) (interfaces.Response, error) {
	if m.postMultipartFunc == nil {
		return nil, fmt.Errorf("not implemented")
	}
	return m.postMultipartFunc(ctx, url, contentType, body)
}

// mockResponse is a mock implementation of the Response interface
type mockResponse struct {
	statusCode int
	body       string
}

func (m *mockResponse) StatusCode() int          { return m.statusCode }
func (m *mockResponse) Body() io.ReadCloser      { return io.NopCloser(strings.NewReader(m.body)) }
func (m *mockResponse) Header(key string) string { return "" }

func completionBody(label, intent string) string {
	content, _ := json.Marshal(map[string]string{
		"reasoning": "these keywords compare products",
		"intent":    intent,
		"label":     label,
	})
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": string(content)}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestLabelClusters_Success(t *testing.T) {
	client := NewClient(&mockHTTPClient{
		postFunc: func(_ context.Context, url string, _ io.Reader) (interfaces.Response, error) {
			if !strings.HasSuffix(url, "/v1/chat/completions") {
				t.Errorf("unexpected URL %q", url)
			}
			return &mockResponse{statusCode: 200, body: completionBody("Running Shoes", "Commercial")}, nil
		},
	}, nil, Options{})

	labels, err := client.LabelClusters(context.Background(), []interfaces.ClusterPrompt{
		{ClusterID: "abc123", Keywords: []string{"running shoes", "best running shoes"}, Titles: []string{"Top 10 Running Shoes"}},
	})

	if err != nil {
		t.Fatalf("LabelClusters returned error: %v", err)
	}
	got := labels["abc123"]
	if got.Label != "Running Shoes" {
		t.Errorf("label = %q", got.Label)
	}
	if got.Intent != domain.IntentCommercial {
		t.Errorf("intent = %q, want commercial", got.Intent)
	}
}

func TestLabelClusters_PartialFailure(t *testing.T) {
	var call int
	client := NewClient(&mockHTTPClient{
		postFunc: func(_ context.Context, _ string, _ io.Reader) (interfaces.Response, error) {
			call++
			if call == 1 {
				return &mockResponse{statusCode: 500, body: `{"error":{"message":"overloaded"}}`}, nil
			}
			return &mockResponse{statusCode: 200, body: completionBody("Banana Bread", "Informational")}, nil
		},
	}, &noopLogger{}, Options{})

	labels, err := client.LabelClusters(context.Background(), []interfaces.ClusterPrompt{
		{ClusterID: "one", Keywords: []string{"a"}},
		{ClusterID: "two", Keywords: []string{"b"}},
	})

	if err != nil {
		t.Fatalf("per-cluster failures must not fail the call: %v", err)
	}
	if _, ok := labels["one"]; ok {
		t.Error("failed cluster should stay unlabeled")
	}
	if labels["two"].Label != "Banana Bread" {
		t.Errorf("surviving cluster mislabeled: %+v", labels["two"])
	}
}

func TestLabelClusters_UnknownIntentBecomesOther(t *testing.T) {
	client := NewClient(&mockHTTPClient{
		postFunc: func(_ context.Context, _ string, _ io.Reader) (interfaces.Response, error) {
			return &mockResponse{statusCode: 200, body: completionBody("Mystery", "Philosophical")}, nil
		},
	}, nil, Options{})

	labels, err := client.LabelClusters(context.Background(), []interfaces.ClusterPrompt{
		{ClusterID: "x", Keywords: []string{"a"}},
	})
	if err != nil {
		t.Fatalf("LabelClusters returned error: %v", err)
	}
	if labels["x"].Intent != domain.IntentOther {
		t.Errorf("unknown intent should map to other, got %q", labels["x"].Intent)
	}
}

func TestLabelClusters_PromptLimits(t *testing.T) {
	var captured chatRequest
	client := NewClient(&mockHTTPClient{
		postFunc: func(_ context.Context, _ string, body io.Reader) (interfaces.Response, error) {
			raw, _ := io.ReadAll(body)
			json.Unmarshal(raw, &captured)
			return &mockResponse{statusCode: 200, body: completionBody("x", "Other")}, nil
		},
	}, nil, Options{Model: "gpt-4o-mini"})

	keywords := make([]string, 30)
	for i := range keywords {
		keywords[i] = fmt.Sprintf("kw%d", i)
	}
	titles := make([]string, 15)
	for i := range titles {
		titles[i] = fmt.Sprintf("title%d", i)
	}

	_, err := client.LabelClusters(context.Background(), []interfaces.ClusterPrompt{
		{ClusterID: "big", Keywords: keywords, Titles: titles},
	})
	if err != nil {
		t.Fatalf("LabelClusters returned error: %v", err)
	}

	user := captured.Messages[1].Content
	if strings.Contains(user, "kw20") {
		t.Error("prompt should cap keywords at 20")
	}
	if strings.Contains(user, "title10") {
		t.Error("prompt should cap titles at 10")
	}
	if captured.ResponseFormat.Type != "json_object" {
		t.Errorf("response format = %q", captured.ResponseFormat.Type)
	}
}

func TestBuildBatchJSONL_And_ParseBatchOutput(t *testing.T) {
	client := NewClient(nil, nil, Options{})

	prompts := []interfaces.ClusterPrompt{
		{ClusterID: "c1", Keywords: []string{"a"}},
		{ClusterID: "c2", Keywords: []string{"b"}},
	}

	jsonl, err := client.BuildBatchJSONL(prompts)
	if err != nil {
		t.Fatalf("BuildBatchJSONL returned error: %v", err)
	}

	lines := bytes.Split(bytes.TrimSpace(jsonl), []byte{'\n'})
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSONL lines, got %d", len(lines))
	}
	var line batchRequestLine
	if err := json.Unmarshal(lines[0], &line); err != nil {
		t.Fatalf("line is not valid JSON: %v", err)
	}
	if line.CustomID != "c1" || line.URL != "/v1/chat/completions" || line.Method != "POST" {
		t.Errorf("unexpected batch line: %+v", line)
	}

	// Round-trip a fake output file, with one malformed line mixed in.
	output := fmt.Sprintf(`{"custom_id":"c1","response":{"body":%s}}
not-json
{"custom_id":"c2","response":{"body":%s}}`,
		completionBody("Label One", "Navigational"),
		completionBody("Label Two", "Transactional"))

	labels := client.ParseBatchOutput([]byte(output))
	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}
	if labels["c1"].Intent != domain.IntentNavigational || labels["c2"].Label != "Label Two" {
		t.Errorf("unexpected labels: %+v", labels)
	}
}

func TestLabelClusters_BatchFlow(t *testing.T) {
	var pollCount int
	var chatCalls int

	mock := &mockHTTPClient{
		postMultipartFunc: func(_ context.Context, url, contentType string, body io.Reader) (interfaces.Response, error) {
			if !strings.HasSuffix(url, "/v1/files") {
				t.Errorf("unexpected upload URL %q", url)
			}
			if !strings.HasPrefix(contentType, "multipart/form-data") {
				t.Errorf("content type = %q", contentType)
			}
			raw, _ := io.ReadAll(body)
			form := string(raw)
			if !strings.Contains(form, `name="purpose"`) || !strings.Contains(form, "batch") {
				t.Error("upload form is missing the batch purpose field")
			}
			if !strings.Contains(form, `"custom_id":"c1"`) {
				t.Error("upload form is missing the JSONL input")
			}
			return &mockResponse{statusCode: 200, body: `{"id":"file-in"}`}, nil
		},
		postFunc: func(_ context.Context, url string, body io.Reader) (interfaces.Response, error) {
			chatCalls++
			if !strings.HasSuffix(url, "/v1/batches") {
				t.Errorf("unexpected POST URL %q", url)
			}
			var req batchCreateRequest
			raw, _ := io.ReadAll(body)
			if err := json.Unmarshal(raw, &req); err != nil {
				t.Fatalf("batch create body is not valid JSON: %v", err)
			}
			if req.InputFileID != "file-in" || req.Endpoint != "/v1/chat/completions" || req.CompletionWindow != "24h" {
				t.Errorf("unexpected batch create request: %+v", req)
			}
			return &mockResponse{statusCode: 200, body: `{"id":"batch-1","status":"validating"}`}, nil
		},
		getFunc: func(_ context.Context, url string) (interfaces.Response, error) {
			if strings.HasSuffix(url, "/v1/batches/batch-1") {
				pollCount++
				if pollCount == 1 {
					return &mockResponse{statusCode: 200, body: `{"id":"batch-1","status":"in_progress"}`}, nil
				}
				return &mockResponse{statusCode: 200, body: `{"id":"batch-1","status":"completed","output_file_id":"file-out"}`}, nil
			}
			if strings.HasSuffix(url, "/v1/files/file-out/content") {
				output := fmt.Sprintf(`{"custom_id":"c1","response":{"body":%s}}
{"custom_id":"c2","response":{"body":%s}}`,
					completionBody("Trail Shoes", "Commercial"),
					completionBody("Shoe Care", "Informational"))
				return &mockResponse{statusCode: 200, body: output}, nil
			}
			t.Errorf("unexpected GET URL %q", url)
			return nil, fmt.Errorf("unexpected URL")
		},
	}

	client := NewClient(mock, nil, Options{BatchThreshold: 2, PollInterval: time.Millisecond})

	labels, err := client.LabelClusters(context.Background(), []interfaces.ClusterPrompt{
		{ClusterID: "c1", Keywords: []string{"trail shoes"}},
		{ClusterID: "c2", Keywords: []string{"shoe care"}},
	})
	if err != nil {
		t.Fatalf("LabelClusters returned error: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}
	if labels["c1"].Label != "Trail Shoes" || labels["c1"].Intent != domain.IntentCommercial {
		t.Errorf("unexpected c1 label: %+v", labels["c1"])
	}
	if labels["c2"].Intent != domain.IntentInformational {
		t.Errorf("unexpected c2 label: %+v", labels["c2"])
	}
	if pollCount != 2 {
		t.Errorf("expected 2 status polls, got %d", pollCount)
	}
	if chatCalls != 1 {
		t.Errorf("expected only the batch create POST, got %d", chatCalls)
	}
}

func TestLabelClusters_BatchFailureFallsBackToSync(t *testing.T) {
	client := NewClient(&mockHTTPClient{
		postMultipartFunc: func(_ context.Context, _, _ string, _ io.Reader) (interfaces.Response, error) {
			return &mockResponse{statusCode: 500, body: `{"error":{"message":"upload failed"}}`}, nil
		},
		postFunc: func(_ context.Context, url string, _ io.Reader) (interfaces.Response, error) {
			if !strings.HasSuffix(url, "/v1/chat/completions") {
				t.Errorf("fallback should use chat completions, got %q", url)
			}
			return &mockResponse{statusCode: 200, body: completionBody("Fallback", "Other")}, nil
		},
	}, &noopLogger{}, Options{BatchThreshold: 2, PollInterval: time.Millisecond})

	labels, err := client.LabelClusters(context.Background(), []interfaces.ClusterPrompt{
		{ClusterID: "c1", Keywords: []string{"a"}},
		{ClusterID: "c2", Keywords: []string{"b"}},
	})
	if err != nil {
		t.Fatalf("LabelClusters returned error: %v", err)
	}
	if labels["c1"].Label != "Fallback" || labels["c2"].Label != "Fallback" {
		t.Errorf("fallback labels missing: %+v", labels)
	}
}

func TestLabelClusters_SmallRunStaysSync(t *testing.T) {
	client := NewClient(&mockHTTPClient{
		postMultipartFunc: func(_ context.Context, _, _ string, _ io.Reader) (interfaces.Response, error) {
			t.Error("small runs should not touch the Batch API")
			return nil, fmt.Errorf("unexpected call")
		},
		postFunc: func(_ context.Context, _ string, _ io.Reader) (interfaces.Response, error) {
			return &mockResponse{statusCode: 200, body: completionBody("Solo", "Other")}, nil
		},
	}, nil, Options{BatchThreshold: 5})

	labels, err := client.LabelClusters(context.Background(), []interfaces.ClusterPrompt{
		{ClusterID: "only", Keywords: []string{"a"}},
	})
	if err != nil {
		t.Fatalf("LabelClusters returned error: %v", err)
	}
	if labels["only"].Label != "Solo" {
		t.Errorf("unexpected label: %+v", labels["only"])
	}
}

// noopLogger discards all log output
type noopLogger struct{}

func (noopLogger) Debug(string, map[string]interface{}) {}
func (noopLogger) Info(string, map[string]interface{})  {}
func (noopLogger) Warn(string, map[string]interface{})  {}
func (noopLogger) Error(string, map[string]interface{}) {}
