// Package client talks to the admin API over HTTP. It backs the jobctl CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/infra/scheduler"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

const DefaultBaseURL = "http://localhost:8080"

// Client is the subset of the admin API the CLI uses. Get makes it a
// scheduler.JobReader.
type Client interface {
	scheduler.JobReader
	Login(ctx context.Context, email, apiKey string) (string, error)
	ListJobs(ctx context.Context) ([]*model.Job, error)
	GetJob(ctx context.Context, id string) (*model.Job, error)
	CreateJob(ctx context.Context, action string, fields map[string]any) (string, error)
}

type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Error is a non-2xx response.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// APIClient implements Client
type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ Client = (*APIClient)(nil)

func New(opts Options) (*APIClient, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &APIClient{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		http:    &http.Client{Timeout: opts.Timeout},
	}, nil
}

type result struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id"`
	Token string `json:"token"`
	Error string `json:"error"`
}

func (c *APIClient) Login(ctx context.Context, email, apiKey string) (string, error) {
	var res result
	body := map[string]string{"email": email, "api_key": apiKey}
	if err := c.do(ctx, http.MethodPost, "/api/v1/session", body, &res); err != nil {
		return "", err
	}
	return res.Token, nil
}

func (c *APIClient) ListJobs(ctx context.Context) ([]*model.Job, error) {
	var res struct {
		Items []*model.Job `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/jobs", nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *APIClient) GetJob(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	if err := c.do(ctx, http.MethodGet, "/api/v1/jobs/"+url.PathEscape(id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *APIClient) Get(ctx context.Context, id string) (*model.Job, error) {
	return c.GetJob(ctx, id)
}

func (c *APIClient) CreateJob(ctx context.Context, action string, fields map[string]any) (string, error) {
	var res result
	body := map[string]any{"action": action, "fields": fields}
	if err := c.do(ctx, http.MethodPost, "/api/v1/jobs", body, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

func (c *APIClient) do(ctx context.Context, method, endpoint string, body, v any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var res result
		if json.Unmarshal(data, &res) == nil && res.Error != "" {
			return &Error{Code: resp.StatusCode, Message: res.Error}
		}
		return &Error{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if v != nil && len(data) > 0 {
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}
	return nil
}
