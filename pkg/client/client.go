// Package client is a Go SDK for the ReactionLab HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/ReactionLab/pkg/types/common"
	rtypes "github.com/turtacn/ReactionLab/pkg/types/reaction"
)

const Version = "0.1.0"

// ErrInvalidBaseURL is returned by NewClient for an empty or non-HTTP base URL.
var ErrInvalidBaseURL = stderrors.New("reactlab: invalid base URL")

// Logger defines the logging interface used by the Client
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client talks to a running ReactionLab server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reactlab: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, e.Message, e.RequestID)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsTooLarge() bool {
	return e.StatusCode == http.StatusRequestEntityTooLarge
}

func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// PredictionError is a prediction the server answered but could not make:
// an unknown compound, an incompatible catalyst and so on.
type PredictionError struct {
	Code    string
	Message string
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("reactlab: %s: %s", e.Code, e.Message)
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrInvalidBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme must be http or https", ErrInvalidBaseURL)
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    fmt.Sprintf("reactlab-go-sdk/%s", Version),
		logger:       noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Endpoints
// ─────────────────────────────────────────────────────────────────────────────

// Predict posts req to /predict.  A prediction the server rejects comes back
// as a *PredictionError.  Requests that save to history are not retried.
func (c *Client) Predict(ctx context.Context, req rtypes.PredictRequest) (*rtypes.PredictResponse, error) {
	form := url.Values{}
	form.Set("compound", req.Compound)
	form.Set("catalyst", req.Catalyst)
	form.Set("reaction_type", req.ReactionType)
	if req.SaveToDB {
		form.Set("save_to_db", "true")
	}

	var body struct {
		rtypes.PredictResponse
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/predict",
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		retry:       !req.SaveToDB,
		result:      &body,
	})
	if err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, &PredictionError{Code: body.Code, Message: body.Error}
	}
	return &body.PredictResponse, nil
}

// History returns saved predictions, newest first.  A non-positive limit
// uses the server default.
func (c *Client) History(ctx context.Context, limit int) ([]rtypes.RecordDTO, error) {
	path := "/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp rtypes.HistoryResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: path, retry: true, result: &resp}); err != nil {
		return nil, err
	}
	return resp.Reactions, nil
}

// Catalog returns the compounds, catalysts and reaction types the server knows.
func (c *Client) Catalog(ctx context.Context) (*rtypes.CatalogResponse, error) {
	var resp rtypes.CatalogResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/catalog", retry: true, result: &resp}); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ready fetches /readyz once.  When the server is not ready the decoded
// report is returned together with the *APIError.
func (c *Client) Ready(ctx context.Context) (*common.HealthReport, error) {
	var report common.HealthReport
	err := c.do(ctx, request{method: http.MethodGet, path: "/readyz", result: &report, errorResult: true})
	return &report, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Transport
// ─────────────────────────────────────────────────────────────────────────────

type request struct {
	method      string
	path        string
	body        []byte
	contentType string
	retry       bool
	result      interface{}
	// errorResult decodes error bodies into result as well.
	errorResult bool
}

func (c *Client) do(ctx context.Context, r request) error {
	if !strings.HasPrefix(r.path, "/") {
		r.path = "/" + r.path
	}
	fullURL := c.baseURL + r.path

	attempts := 1
	if r.retry {
		attempts += c.retryMax
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debugf("Retry attempt %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var bodyReader io.Reader
		if r.body != nil {
			bodyReader = bytes.NewReader(r.body)
		}
		req, err := http.NewRequestWithContext(ctx, r.method, fullURL, bodyReader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		requestID := uuid.New().String()
		if r.contentType != "" {
			req.Header.Set("Content-Type", r.contentType)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			c.logger.Errorf("Request failed: %v", err)
			lastErr = err
			continue
		}
		c.logger.Debugf("%s %s %d (%v)", r.method, r.path, resp.StatusCode, time.Since(start))

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < attempts-1 {
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				c.logger.Infof("Rate limited, retrying after %d seconds", seconds)
				select {
				case <-time.After(time.Duration(seconds) * time.Second):
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		if resp.StatusCode >= 400 {
			apiErr := decodeAPIError(resp.StatusCode, requestID, respBody)
			if r.errorResult && r.result != nil {
				_ = json.Unmarshal(respBody, r.result)
			}
			lastErr = apiErr
			if apiErr.IsServerError() {
				continue
			}
			return apiErr
		}

		if r.result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, r.result); err != nil {
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}
		}
		return nil
	}
	return lastErr
}

// decodeAPIError reads the {success, error, code} envelope, falling back to
// the raw body.
func decodeAPIError(status int, requestID string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, RequestID: requestID}
	if len(body) == 0 {
		return apiErr
	}
	var envelope common.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Error
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	if backoff < 4 {
		return backoff
	}
	// 0-25% jitter
	return backoff + time.Duration(rand.Int63n(int64(backoff/4)))
}

//Personal.AI order the ending
