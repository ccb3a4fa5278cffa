package qualifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go-qualifier/internal/models"
)

const (
	PathQualify        = "/qualify"
	PathQualifyFromURL = "/qualify-from-url"
	PathHealth         = "/health"

	maxErrorBody = 512
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("qualification service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("qualification service returned %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithTimeout bounds each request at the transport. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Endpoint returns the path a request is posted to.
func Endpoint(req models.QualificationRequest) (string, error) {
	switch req.(type) {
	case models.URLRequest, *models.URLRequest:
		return PathQualifyFromURL, nil
	case models.ManualRequest, *models.ManualRequest:
		return PathQualify, nil
	}
	return "", fmt.Errorf("unsupported request type %T", req)
}

// Qualify posts req to its endpoint and decodes the result.
func (c *Client) Qualify(ctx context.Context, req models.QualificationRequest) (models.QualificationResult, error) {
	path, err := Endpoint(req)
	if err != nil {
		return models.QualificationResult{}, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return models.QualificationResult{}, fmt.Errorf("marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return models.QualificationResult{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return models.QualificationResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.QualificationResult{}, statusError(resp)
	}

	var result models.QualificationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.QualificationResult{}, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

// Health calls the service health endpoint and returns its status string.
func (c *Client) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PathHealth, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var hr healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return hr.Status, nil
}

type healthResponse struct {
	Status string `json:"status"`
}

func statusError(resp *http.Response) *StatusError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
