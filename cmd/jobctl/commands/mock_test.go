package commands

import (
	"context"
	"sync"

	"tree-service-leads/internal/domain/model"
)

// mockClient records calls and delegates to optional funcs.
type mockClient struct {
	mu sync.Mutex

	LoginFn     func(ctx context.Context, email, apiKey string) (string, error)
	ListJobsFn  func(ctx context.Context) ([]*model.Job, error)
	GetJobFn    func(ctx context.Context, id string) (*model.Job, error)
	CreateJobFn func(ctx context.Context, action string, fields map[string]any) (string, error)

	GetCalls    []string
	CreateCalls []map[string]any
}

func (m *mockClient) Login(ctx context.Context, email, apiKey string) (string, error) {
	return m.LoginFn(ctx, email, apiKey)
}

func (m *mockClient) ListJobs(ctx context.Context) ([]*model.Job, error) {
	return m.ListJobsFn(ctx)
}

func (m *mockClient) GetJob(ctx context.Context, id string) (*model.Job, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, id)
	m.mu.Unlock()
	return m.GetJobFn(ctx, id)
}

func (m *mockClient) Get(ctx context.Context, id string) (*model.Job, error) {
	return m.GetJob(ctx, id)
}

func (m *mockClient) CreateJob(ctx context.Context, action string, fields map[string]any) (string, error) {
	m.CreateCalls = append(m.CreateCalls, fields)
	return m.CreateJobFn(ctx, action, fields)
}
