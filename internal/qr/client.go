// Package qr builds image URLs for the public QR render service. The
// service is a stateless HTTP GET endpoint: the same payload always yields
// the same URL, which is what makes lazy QR regeneration safe.
package qr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public render endpoint used when no override is
// configured. It requires no API key.
const DefaultBaseURL = "https://api.qrserver.com/v1/create-qr-code/"

// ErrUnavailable is returned when the render service cannot be reached or
// answers with a non-2xx status. Callers degrade gracefully: the order is
// still created, just without a QR image.
var ErrUnavailable = errors.New("qr service unavailable")

// Client renders QR image URLs with a bounded request timeout.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a Client for the given base URL (empty selects the default)
// with the given timeout on reachability checks.
func New(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// RenderURL returns the image URL for the payload. It is a pure function
// of its inputs and performs no I/O.
func (c *Client) RenderURL(payload string, size int) string {
	return fmt.Sprintf("%s?size=%dx%d&data=%s", c.BaseURL, size, size, url.QueryEscape(payload))
}

// Render returns the image URL after verifying that the service answers.
// On any transport failure or non-2xx status it returns ErrUnavailable so
// the caller can continue without a QR.
func (c *Client) Render(ctx context.Context, payload string, size int) (string, error) {
	u := c.RenderURL(payload, size)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", ErrUnavailable
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", ErrUnavailable
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", ErrUnavailable
	}
	return u, nil
}
