// Package predict is the HTTP client for the dual-model sentiment service.
// It posts text to /predict and decodes the loosely-typed response without
// schema validation; absent fields are reported, never invented.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"sentimen/internal/logging"

	"go.uber.org/zap"
)

// DefaultBaseURL is where the inference service listens by default.
const DefaultBaseURL = "http://127.0.0.1:8000"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 4 << 20

// Predictor is the single operation the front ends need.
type Predictor interface {
	Predict(ctx context.Context, text string) (*Result, error)
}

// Config holds configuration for the client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   30 * time.Second,
		UserAgent: "sentimen",
	}
}

// Client talks to the sentiment service.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a client with the given config. Zero fields fall back
// to DefaultConfig.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BaseURL returns the service root the client was built for.
func (c *Client) BaseURL() string { return c.baseURL }

// Predict runs the text through both models with a single POST /predict.
func (c *Client) Predict(ctx context.Context, text string) (*Result, error) {
	return c.predict(ctx, "/predict", text)
}

// PredictModel runs the text through one model only.
func (c *Client) PredictModel(ctx context.Context, model, text string) (*Result, error) {
	if !slices.Contains(ValidModels, model) {
		return nil, fmt.Errorf("unknown model %q (valid: %v)", model, ValidModels)
	}
	return c.predict(ctx, "/predict/"+model, text)
}

func (c *Client) predict(ctx context.Context, path, text string) (*Result, error) {
	body, err := c.do(ctx, http.MethodPost, path, PredictRequest{Text: text})
	if err != nil {
		return nil, err
	}
	res, err := ParseResult(body)
	if err != nil {
		return nil, &RequestError{Kind: KindDecode, Op: "POST " + path, Err: err}
	}
	return res, nil
}

// ModelsInfo fetches the model catalogue.
func (c *Client) ModelsInfo(ctx context.Context) (*ModelsInfo, error) {
	body, err := c.do(ctx, http.MethodGet, "/models/info", nil)
	if err != nil {
		return nil, err
	}
	info, err := parseModelsInfo(body)
	if err != nil {
		return nil, &RequestError{Kind: KindDecode, Op: "GET /models/info", Err: err}
	}
	return info, nil
}

// Status fetches the service root, which describes the available endpoints.
func (c *Client) Status(ctx context.Context) (*ServiceStatus, error) {
	body, err := c.do(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return nil, err
	}
	st, err := parseServiceStatus(body)
	if err != nil {
		return nil, &RequestError{Kind: KindDecode, Op: "GET /", Err: err}
	}
	return st, nil
}

// do performs exactly one HTTP exchange and returns the body of a 2xx
// response. There is no retry.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	op := method + " " + path
	log := logging.Get(logging.CategoryAPI).With(zap.String("op", op))
	if id := RequestIDFrom(ctx); id != "" {
		log = log.With(zap.String("request_id", id))
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &RequestError{Kind: KindTransport, Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &RequestError{Kind: KindTransport, Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, &RequestError{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Warn("failed to read response", zap.Error(err))
		return nil, &RequestError{Kind: KindTransport, Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	log.Debug("response received",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{
			Kind:       KindStatus,
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(body),
		}
	}
	return body, nil
}

type requestIDKey struct{}

// WithRequestID tags ctx with a correlation ID that is logged and sent as
// the X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the correlation ID stored by WithRequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// CloseIdleConnections releases pooled connections. Call it on shutdown.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
