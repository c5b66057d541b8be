// Package webhook posts extraction reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/gachalog/pkg/config"
	"github.com/ccollicutt/gachalog/pkg/output"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = config.DefaultWebhookTimeout

// maxResponseBody caps how much of a response is kept.
const maxResponseBody = 1024 * 1024

// Client sends extraction reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used to report delivery results.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new webhook client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendOptions configures a webhook request.
type SendOptions struct {
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Response contains the result of a webhook request.
type Response struct {
	Name       string
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts a report to a webhook endpoint.
func (c *Client) Send(ctx context.Context, report *output.Report, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{}

	payload, err := json.Marshal(report)
	if err != nil {
		resp.Error = fmt.Errorf("marshaling report: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(payload))
	if err != nil {
		resp.Error = fmt.Errorf("creating request: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "gachalog-webhook")
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		resp.Error = fmt.Errorf("request failed: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		resp.Error = fmt.Errorf("reading response: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(body)
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return resp
}

// Dispatch sends the report to every webhook whose trigger allows it and
// returns one response per webhook that fired. Failures are logged and
// returned, never fatal.
func (c *Client) Dispatch(ctx context.Context, report *output.Report, hooks []config.WebhookConfig) []*Response {
	var responses []*Response

	for _, wh := range hooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if !ShouldFire(wh.Trigger, report.HasRecords()) {
			c.logger.Debug("webhook skipped",
				zap.String("webhook", name),
				zap.String("trigger", string(wh.Trigger)))
			continue
		}

		resp := c.Send(ctx, report, SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})
		resp.Name = name

		if resp.Success() {
			c.logger.Info("webhook sent",
				zap.String("webhook", name),
				zap.Int("status", resp.StatusCode),
				zap.Duration("duration", resp.Duration))
		} else {
			c.logger.Warn("webhook failed",
				zap.String("webhook", name),
				zap.Error(resp.Error))
		}

		responses = append(responses, resp)
	}

	return responses
}

// ShouldFire reports whether a webhook with the given trigger fires for a
// run that did or did not extract records. Unknown triggers behave like
// on_records.
func ShouldFire(trigger config.WebhookTrigger, hasRecords bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasRecords
	}
}
