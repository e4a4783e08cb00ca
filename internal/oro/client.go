// Package oro is a minimal OroCommerce admin API client covering OAuth2
// client-credentials authentication and SKU-keyed product upserts.
package oro

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/tabhan/oro-product-manager/internal/config"
)

const contentTypeJSONAPI = "application/vnd.api+json"

// userAgent identifies oroctl on outbound requests.
var userAgent = "oroctl/dev"

// SetUserAgent overrides the User-Agent sent on API calls, normally with the
// build version.
func SetUserAgent(ua string) {
	userAgent = ua
}

// Client talks to one OroCommerce instance. A fresh token is fetched every
// run; nothing is persisted between invocations.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *slog.Logger
	requestID  string
	dryRun     bool
}

// NewClient creates a client for the configured OroCommerce instance. In dry
// run mode no network calls are made; each request is printed instead.
func NewClient(cfg *config.Config, logger *slog.Logger, dryRun bool) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		requestID:  uuid.NewString(),
		dryRun:     dryRun,
	}
}

// RequestID returns the correlation ID attached to every request of this
// invocation.
func (c *Client) RequestID() string {
	return c.requestID
}

// doJSONAPI sends one admin API request with the bearer token and JSON:API
// headers, returning the response status and body.
func (c *Client) doJSONAPI(ctx context.Context, token *Token, method, url string, body []byte) (int, []byte, error) {
	c.logger.Debug("sending API request",
		"method", method,
		"url", url,
		"request_id", c.requestID,
	)

	if c.dryRun {
		c.printDryRun(method, url, body)
		return 0, nil, nil
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.Value)
	req.Header.Set("Accept", contentTypeJSONAPI)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", c.requestID)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSONAPI)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response body: %w", err)
	}

	c.logger.Debug("API response",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
	)

	return resp.StatusCode, respBody, nil
}

// printDryRun writes the request that would have been sent to stdout.
func (c *Client) printDryRun(method, url string, body []byte) {
	if body == nil {
		fmt.Printf("[dry-run] %s %s\n", method, url)
		return
	}
	fmt.Printf("[dry-run] %s %s\n%s\n", method, url, body)
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
