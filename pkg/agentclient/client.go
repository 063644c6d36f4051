// Package agentclient fetches snapshots from hyperion agents. It is meant
// for consumers such as a scheduler that scores nodes by utilization.
package agentclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	DefaultPort     = 9090
	DefaultTimeout  = 600 * time.Millisecond
	DefaultCacheTTL = 5 * time.Second
)

// NodeMetrics is the snapshot served by an agent's /metrics endpoint
type NodeMetrics struct {
	NodeName    string  `json:"node_name"`
	CPUUsagePct float64 `json:"cpu_usage_pct"`
	MemUsagePct float64 `json:"mem_usage_pct"`
	GPUCount    uint32  `json:"gpu_count"`
}

type cacheEntry struct {
	metrics   *NodeMetrics
	fetchedAt time.Time
}

// Client fetches metrics from node agents, keeping a short-lived per-host cache
type Client struct {
	httpClient *http.Client
	port       int
	ttl        time.Duration
	now        func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// Option customizes a Client
type Option func(*Client)

// WithPort sets the agent port
func WithPort(port int) Option {
	return func(c *Client) {
		c.port = port
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithCacheTTL sets how long a fetched snapshot is reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.ttl = ttl
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a new agent client
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		port:       DefaultPort,
		ttl:        DefaultCacheTTL,
		now:        time.Now,
		cache:      make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the metrics of the agent on host, from cache when fresh enough
func (c *Client) Get(ctx context.Context, host string) (*NodeMetrics, error) {
	if c.ttl > 0 {
		c.mu.RLock()
		entry, found := c.cache[host]
		c.mu.RUnlock()

		if found && c.now().Sub(entry.fetchedAt) < c.ttl {
			return entry.metrics, nil
		}
	}

	metrics, err := c.fetch(ctx, host)
	if err != nil {
		return nil, err
	}

	if c.ttl > 0 {
		c.mu.Lock()
		c.cache[host] = cacheEntry{metrics: metrics, fetchedAt: c.now()}
		c.mu.Unlock()
	}

	return metrics, nil
}

// Healthy checks the agent's liveness endpoint
func (c *Client) Healthy(ctx context.Context, host string) error {
	resp, err := c.do(ctx, host, "/healthz")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("agent %s returned non-200 status: %d", host, resp.StatusCode)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, host string) (*NodeMetrics, error) {
	resp, err := c.do(ctx, host, "/metrics")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent %s returned non-200 status: %d", host, resp.StatusCode)
	}

	var nm NodeMetrics
	if err := json.NewDecoder(resp.Body).Decode(&nm); err != nil {
		return nil, fmt.Errorf("failed to decode metrics from %s: %w", host, err)
	}

	return &nm, nil
}

func (c *Client) do(ctx context.Context, host, path string) (*http.Response, error) {
	url := "http://" + net.JoinHostPort(host, strconv.Itoa(c.port)) + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", host, err)
	}
	return resp, nil
}
