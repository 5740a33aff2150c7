// Package inference talks to the hosted model-inference API.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ethiogpt/toolsgate/internal/metrics"
)

const (
	// DefaultBaseURL is the hosted inference endpoint models are addressed under.
	DefaultBaseURL = "https://api-inference.huggingface.co/models"
	// DefaultTimeout is the total request timeout.
	DefaultTimeout = 60 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second

	// maxErrorBody caps how much of an upstream error body is kept.
	maxErrorBody = 512
	// maxResponseBody caps generated payloads (images, audio).
	maxResponseBody = 32 << 20
)

// ErrAPIKeyMissing is returned when no inference API key is configured.
var ErrAPIKeyMissing = errors.New("Hugging Face API key not configured")

// APIError is a non-2xx answer from the inference API.
type APIError struct {
	Model      string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inference request to %s failed with status %d", e.Model, e.StatusCode)
}

// Options configures a Client.
type Options struct {
	APIKey  string
	BaseURL string
	// Timeout bounds each attempt and also the whole call, backoff included.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    metrics.Recorder
	// MaxRetries is how many times a 502/503/504 answer is retried.
	MaxRetries int
}

// Client performs requests against the inference API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	metrics metrics.Recorder
	retries int
	timeout time.Duration
}

// NewHTTPClient creates an HTTP client tuned for inference calls.
// Redirects are not followed.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: TLSHandshakeTimeout,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// New creates a Client.
func New(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(opts.Timeout)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	recorder := opts.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return &Client{
		apiKey:  opts.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
		logger:  logger.With("component", "inference"),
		metrics: recorder,
		retries: opts.MaxRetries,
		timeout: timeout,
	}
}

// request is the JSON envelope the inference API accepts.
type request struct {
	Inputs     any            `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// postJSON sends {"inputs": ..., "parameters": ...} to a model and returns the raw body.
func (c *Client) postJSON(ctx context.Context, model string, inputs any, params map[string]any) ([]byte, error) {
	payload, err := json.Marshal(request{Inputs: inputs, Parameters: params})
	if err != nil {
		return nil, fmt.Errorf("encode inference request: %w", err)
	}
	return c.post(ctx, model, "application/json", payload)
}

// post sends a raw body to a model endpoint, retrying while the model loads.
func (c *Client) post(ctx context.Context, model, contentType string, body []byte) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	for attempt := 0; ; attempt++ {
		data, err := c.do(ctx, model, contentType, body)
		if err == nil || attempt >= c.retries || !retryable(err) {
			return data, err
		}

		delay := NextRetryDelay(attempt)
		c.logger.Warn("retrying inference request",
			"model", model,
			"attempt", attempt+1,
			"delay", delay,
		)
		if err := sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("inference request to %s: %w", model, err)
		}
	}
}

// do performs a single request.
func (c *Client) do(ctx context.Context, model, contentType string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", "toolsgate/1.0")

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveInferenceDuration(model, time.Since(start))
	if err != nil {
		c.logger.Error("inference request failed", "model", model, "error", err)
		return nil, fmt.Errorf("inference request to %s: %w", model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Model: model, StatusCode: resp.StatusCode, Body: string(snippet)}
		c.logger.Error("inference request rejected",
			"model", model,
			"status_code", resp.StatusCode,
		)
		return nil, apiErr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read inference response from %s: %w", model, err)
	}
	return data, nil
}
