package serp

import (
	"context"
	"time"

	"serp-cluster-api/core/domain"
	"serp-cluster-api/core/interfaces"
)

// mockCache is a mock implementation of the Cache interface
type mockCache struct {
	getFunc    func(ctx context.Context, key string) ([]byte, error)
	setFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	deleteFunc func(ctx context.Context, key string) error
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, key)
	}
	return nil
}

// mockProvider is a mock implementation of the SerpProvider interface
type mockProvider struct {
	fetchFunc func(ctx context.Context, keywords []domain.Keyword) (*interfaces.BatchResult, error)
	calls     [][]domain.Keyword
}

func (m *mockProvider) FetchBatch(ctx context.Context, keywords []domain.Keyword) (*interfaces.BatchResult, error) {
	m.calls = append(m.calls, keywords)
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, keywords)
	}
	return &interfaces.BatchResult{
		Results: map[domain.Keyword]domain.SerpResult{},
		Errors:  map[domain.Keyword]error{},
	}, nil
}

// mockLogger is a no-op logger that records warnings
type mockLogger struct {
	warnings []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.warnings = append(m.warnings, msg)
}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}
