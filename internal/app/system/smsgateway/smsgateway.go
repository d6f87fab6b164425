// Package smsgateway sends text messages through an HTTP SMS provider.
// Volunteer reminders and office announcements go out this way. The
// provider API is a JSON POST with bearer-token auth; transient
// failures are retried with backoff.
package smsgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Message is one outbound text.
type Message struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Config configures the gateway client. When DryRun is set the client
// logs instead of calling the provider.
type Config struct {
	BaseURL    string
	APIKey     string
	From       string
	Timeout    time.Duration
	MaxRetries int
	DryRun     bool
}

// Client talks to the SMS provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
	maxRetries int
	dryRun     bool
	logger     *zap.Logger
}

// New returns a gateway Client.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if !cfg.DryRun {
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("smsgateway: base URL is required")
		}
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("smsgateway: API key is required")
		}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 2
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		from:       cfg.From,
		maxRetries: maxRetries,
		dryRun:     cfg.DryRun,
		logger:     logger,
	}, nil
}

type sendRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Body string `json:"body"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// Send delivers msg. In dry-run mode it logs and returns nil.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("smsgateway: recipient is required")
	}
	if msg.Body == "" {
		return fmt.Errorf("smsgateway: body is required")
	}

	if c.dryRun {
		c.logger.Info("dry-run sms",
			zap.String("to", msg.To),
			zap.Int("body_len", len(msg.Body)))
		return nil
	}

	var result sendResponse
	err := c.post(ctx, "/messages", sendRequest{From: c.from, To: msg.To, Body: msg.Body}, &result)
	if err != nil {
		return fmt.Errorf("failed to send sms to %s: %w", msg.To, err)
	}

	c.logger.Info("sms sent",
		zap.String("to", msg.To),
		zap.String("message_id", result.MessageID),
		zap.String("status", result.Status))
	return nil
}

// post executes a JSON POST with retries on transient failures.
func (c *Client) post(ctx context.Context, path string, body, target any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		if retryableStatus(resp.StatusCode) && attempt < c.maxRetries {
			drainBody(resp)
			lastErr = fmt.Errorf("request failed with status %d", resp.StatusCode)
			continue
		}

		return decodeResponse(resp, target)
	}

	return lastErr
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}

// decodeResponse decodes a JSON response into target, or returns an
// error carrying the provider's message for non-2xx statuses.
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if err != nil {
			return fmt.Errorf("read error response body: %w", err)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if target == nil {
		_, err := io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
