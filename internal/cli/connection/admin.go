package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/minikv-go/internal/infra/buildinfo"
)

// AdminClient queries the server's admin HTTP listener.
type AdminClient struct {
	baseURL string
	client  *http.Client
}

// AdminResponse mirrors the admin JSON envelope.
type AdminResponse struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Health is the payload of GET /health.
type Health struct {
	Status      string `json:"status" yaml:"status"`
	Version     string `json:"version" yaml:"version"`
	Uptime      string `json:"uptime" yaml:"uptime"`
	Keys        int    `json:"keys" yaml:"keys"`
	Connections int    `json:"connections" yaml:"connections"`
}

// NewAdminClient creates an admin client. A bare host:port gets an http:// scheme.
func NewAdminClient(addr string, timeout time.Duration) *AdminClient {
	baseURL := addr
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AdminClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the base URL of the client.
func (c *AdminClient) BaseURL() string {
	return c.baseURL
}

// Health fetches GET /health.
func (c *AdminClient) Health(ctx context.Context) (*Health, error) {
	env, err := c.get(ctx, "/health")
	if err != nil {
		return nil, err
	}
	var h Health
	if err := json.Unmarshal(env.Data, &h); err != nil {
		return nil, fmt.Errorf("parse health: %w", err)
	}
	return &h, nil
}

// Ready fetches GET /ready. A not-ready server yields an error carrying its reason.
func (c *AdminClient) Ready(ctx context.Context) error {
	_, err := c.get(ctx, "/ready")
	return err
}

func (c *AdminClient) get(ctx context.Context, path string) (*AdminResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "minikv-cli/"+buildinfo.Version)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer res.Body.Close()

	var env AdminResponse
	decErr := json.NewDecoder(res.Body).Decode(&env)
	if res.StatusCode >= 400 {
		if decErr == nil && env.Message != "" {
			return nil, fmt.Errorf("[%s] %s", env.Code, env.Message)
		}
		return nil, fmt.Errorf("request %s failed with status %d", path, res.StatusCode)
	}
	if decErr != nil {
		return nil, fmt.Errorf("parse response: %w", decErr)
	}
	return &env, nil
}
