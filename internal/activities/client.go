package activities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"activitiesui/pkg/logger"
)

const defaultTimeout = 20 * time.Second

// Observer receives the outcome of every API call
type Observer interface {
	ObserveBackendCall(endpoint, method string, status int, d time.Duration)
}

// Client is a JSON REST client for one downstream API
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
}

// NewClient creates a client for baseURL. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration, observer Observer) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		observer:   observer,
	}
}

// request is one API call. Name labels it in metrics without ids.
type request struct {
	Name   string
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

func (c *Client) get(ctx context.Context, name, path string, query url.Values, dest interface{}) error {
	return c.do(ctx, request{Name: name, Method: http.MethodGet, Path: path, Query: query}, dest)
}

func (c *Client) post(ctx context.Context, name, path string, body, dest interface{}) error {
	return c.do(ctx, request{Name: name, Method: http.MethodPost, Path: path, Body: body}, dest)
}

func (c *Client) put(ctx context.Context, name, path string, body, dest interface{}) error {
	return c.do(ctx, request{Name: name, Method: http.MethodPut, Path: path, Body: body}, dest)
}

func (c *Client) do(ctx context.Context, r request, dest interface{}) error {
	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("activities: marshal %s request: %w", r.Name, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return fmt.Errorf("activities: create %s request: %w", r.Name, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(r, 0, start)
		return fmt.Errorf("activities: %s %s: %w", r.Method, r.Path, err)
	}
	defer resp.Body.Close()
	c.observe(r, resp.StatusCode, start)
	logger.GetDefault().LogBackendCall(ctx, r.Method, r.Path, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("activities: read %s response: %w", r.Name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Method: r.Method, Path: r.Path, Body: string(respBody)}
	}

	if dest == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("activities: unmarshal %s response: %w", r.Name, err)
	}
	return nil
}

func (c *Client) observe(r request, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveBackendCall(r.Name, r.Method, status, time.Since(start))
	}
}
