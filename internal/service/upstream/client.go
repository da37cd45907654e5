package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dearpower/dearpower-go/internal/constants"
	"github.com/dearpower/dearpower-go/pkg/errors"
	"go.uber.org/zap"
)

// Client issues JSON GETs against one upstream API, bounding every call with its own
// timeout. Failures come back as *errors.APIError: StatusCode is the upstream status, or 0
// when no response arrived (Cause then holds the transport error).
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

func NewClient(name, baseURL string, httpClient *http.Client, timeout time.Duration, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = constants.APIConfig.LookupTimeout
	}
	return &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
	}
}

func (c *Client) Name() string {
	return c.name
}

// GetJSON fetches baseURL+path?params and decodes the body into dest.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, dest any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.NewAPIError("failed to create request", 0, map[string]any{
			"service": c.name,
			"url":     reqURL,
		}).WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.APIConfig.UserAgent)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Upstream request failed",
			zap.String("service", c.name),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		return errors.NewAPIError("request failed", 0, map[string]any{
			"service": c.name,
			"url":     reqURL,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Upstream response",
		zap.String("service", c.name),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.NewAPIError(fmt.Sprintf("%s API error: %s", c.name, resp.Status), resp.StatusCode, map[string]any{
			"service": c.name,
			"url":     reqURL,
			"body":    string(body),
		})
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		// a deadline hit mid-body surfaces here rather than from Do
		status := resp.StatusCode
		if errors.IsTimeout(err) || ctx.Err() != nil {
			status = 0
		}
		return errors.NewAPIError("failed to decode response", status, map[string]any{
			"service": c.name,
			"url":     reqURL,
		}).WithCause(err)
	}

	return nil
}

// IsTransport reports whether err is an APIError for a request that got no response.
func IsTransport(err error) bool {
	var apiErr *errors.APIError
	return asAPIError(err, &apiErr) && apiErr.StatusCode == 0
}

// IsDecode reports whether a 2xx response carried a body that could not be decoded.
func IsDecode(err error) bool {
	var apiErr *errors.APIError
	return asAPIError(err, &apiErr) && apiErr.StatusCode >= 200 && apiErr.StatusCode < 300
}
