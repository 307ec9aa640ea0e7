// Package remote provides asynchronous rules backed by external
// services: an HTTP endpoint and a Redis set.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"digital.vasic.constraints/pkg/logging"
	"digital.vasic.constraints/pkg/rule"
)

// ErrUnexpectedStatus is returned when an endpoint answers with
// a status that is neither 2xx nor 4xx.
var ErrUnexpectedStatus = errors.New("unexpected status")

// HTTPOption configures an HTTPChecker.
type HTTPOption func(*HTTPChecker)

// HTTPChecker validates values against HTTP endpoints. The
// endpoint answers 2xx for valid values and 4xx for invalid
// ones.
type HTTPChecker struct {
	httpClient *http.Client
	headers    map[string]string
	param      string
	logger     logging.Logger
}

// NewHTTPChecker creates a checker with a 10 second timeout.
func NewHTTPChecker(opts ...HTTPOption) *HTTPChecker {
	c := &HTTPChecker{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		headers:    make(map[string]string),
		param:      "value",
		logger:     logging.NullLogger{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPChecker) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPChecker) { c.httpClient = hc }
}

// WithHeader adds a header sent with every request, such as an
// API key.
func WithHeader(key, value string) HTTPOption {
	return func(c *HTTPChecker) { c.headers[key] = value }
}

// WithParam overrides the query parameter carrying the value.
func WithParam(name string) HTTPOption {
	return func(c *HTTPChecker) { c.param = name }
}

// WithLogger sets the logger receiving remote call records.
func WithLogger(l logging.Logger) HTTPOption {
	return func(c *HTTPChecker) { c.logger = logging.OrNull(l) }
}

// Definition returns the "remote" rule. Its requirement is the
// endpoint URL; a "{value}" placeholder is replaced by the
// escaped value, otherwise the value is sent as a query
// parameter.
func (c *HTTPChecker) Definition() rule.Definition {
	return rule.Definition{
		Name:            "remote",
		Priority:        -1,
		RequirementType: rule.RequirementString,
		Validate: func(
			_ context.Context,
			value rule.Value,
			requirements any,
		) rule.Verdict {
			endpoint, _ := requirements.(string)
			return rule.Defer(func(ctx context.Context) (bool, error) {
				return c.Check(ctx, endpoint, value.String())
			})
		},
	}
}

func (c *HTTPChecker) target(endpoint, value string) (string, error) {
	if strings.Contains(endpoint, "{value}") {
		return strings.ReplaceAll(
			endpoint, "{value}", url.QueryEscape(value),
		), nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set(c.param, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Check asks the endpoint whether value is valid.
func (c *HTTPChecker) Check(
	ctx context.Context,
	endpoint, value string,
) (bool, error) {
	target, err := c.target(endpoint, value)
	if err != nil {
		return false, err
	}

	call := logging.RemoteCallLog{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		PassID:    rule.PassID(ctx),
		Rule:      "remote",
		Method:    http.MethodGet,
		URL:       target,
		Headers:   c.headers,
	}
	start := time.Now()
	defer func() {
		call.DurationMs = time.Since(start).Milliseconds()
		c.logger.LogRemoteCall(call)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		call.Error = err.Error()
		return false, fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		call.Error = err.Error()
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	call.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return false, nil
	default:
		err := fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, resp.StatusCode)
		call.Error = err.Error()
		return false, err
	}
}
