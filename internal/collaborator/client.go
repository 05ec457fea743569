// Package collaborator is the HTTP client for the remote portfolio API that
// owns projects, work experiences and admin authentication.
package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	loginPath          = "/api/auth/login"
	projectsPath       = "/api/projects"
	workExperiencePath = "/api/work-experience"
)

type requestIDKey struct{}

// WithRequestID attaches a request id that is forwarded as X-Request-ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored in ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Client talks to the collaborator API
type Client struct {
	resolver   Resolver
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client. A zero timeout leaves requests unbounded
// except by their context.
func NewClient(resolver Resolver, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		resolver:   resolver,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Login exchanges credentials for a session token
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, "login", http.MethodPost, loginPath, "", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", ErrEmptyToken
	}
	return resp.Token, nil
}

// ListProjects fetches the full project collection
func (c *Client) ListProjects(ctx context.Context, token string) ([]Project, error) {
	projects := []Project{}
	if err := c.do(ctx, "list_projects", http.MethodGet, projectsPath, token, nil, &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []Project{}
	}
	return projects, nil
}

// ListWorkExperiences fetches the full work experience collection
func (c *Client) ListWorkExperiences(ctx context.Context, token string) ([]WorkExperience, error) {
	items := []WorkExperience{}
	if err := c.do(ctx, "list_work_experience", http.MethodGet, workExperiencePath, token, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []WorkExperience{}
	}
	return items, nil
}

// CreateProject posts a new project and returns the record the collaborator
// created.
func (c *Client) CreateProject(ctx context.Context, token string, p NewProject) (*Project, error) {
	var created Project
	if err := c.do(ctx, "create_project", http.MethodPost, projectsPath, token, p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateWorkExperience posts a new work experience
func (c *Client) CreateWorkExperience(ctx context.Context, token string, w NewWorkExperience) (*WorkExperience, error) {
	var created WorkExperience
	if err := c.do(ctx, "create_work_experience", http.MethodPost, workExperiencePath, token, w, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteProject deletes a project by id
func (c *Client) DeleteProject(ctx context.Context, token, id string) error {
	return c.do(ctx, "delete_project", http.MethodDelete, projectsPath+"/"+url.PathEscape(id), token, nil, nil)
}

// DeleteWorkExperience deletes a work experience by id
func (c *Client) DeleteWorkExperience(ctx context.Context, token, id string) error {
	return c.do(ctx, "delete_work_experience", http.MethodDelete, workExperiencePath+"/"+url.PathEscape(id), token, nil, nil)
}

// do performs one request. out may be nil; an empty success body leaves it
// untouched.
func (c *Client) do(ctx context.Context, op, method, path, token string, in, out any) error {
	start := time.Now()
	log := c.logger.With("operation", op, "request_id", RequestID(ctx))

	base, err := c.resolver.BaseURL(ctx)
	if err != nil {
		log.Error("Collaborator unresolved", "error", err)
		return err
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Collaborator request failed", "error", err, "latency_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", op, err)
	}

	attrs := []any{"method", method, "path", path, "status", resp.StatusCode, "latency_ms", time.Since(start).Milliseconds()}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, raw)
		log.Warn("Collaborator returned error status", append(attrs, "message", apiErr.Message)...)
		return apiErr
	}
	log.Debug("Collaborator request completed", attrs...)

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}
