// Package hledger talks HTTP to an hledger-web server.
package hledger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Yus314/MoLe-sub005/internal/model"
)

// Client fetches a path relative to a profile's server URL. The caller
// closes the returned body.
type Client interface {
	Get(ctx context.Context, profile model.Profile, path string) (io.ReadCloser, error)
}

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	http      *http.Client
	userAgent string
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(h *HTTPClient) { h.userAgent = ua }
}

// NewHTTPClient creates a client whose requests time out after timeout.
func NewHTTPClient(timeout time.Duration, opts ...Option) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &HTTPClient{
		http:      &http.Client{Timeout: timeout},
		userAgent: "hlsync",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get issues GET <profile.URL>/<path>.
// 401 and 403 become *AuthError, 404 *NotFoundError and other non-2xx
// statuses *StatusError. Transport failures are returned as they come.
func (c *HTTPClient) Get(ctx context.Context, profile model.Profile, path string) (io.ReadCloser, error) {
	target, err := ResolveURL(profile.URL, path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/html;q=0.9")
	req.Header.Set("User-Agent", c.userAgent)
	if cred := profile.Credentials; cred != nil && cred.User != "" {
		req.SetBasicAuth(cred.User, cred.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.Body, nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		drain(resp.Body)
		return nil, &AuthError{URL: target, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		drain(resp.Body)
		return nil, &NotFoundError{URL: target}
	default:
		drain(resp.Body)
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode, Status: strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode)))}
	}
}

// ResolveURL joins a server base URL and a relative path. It rejects URLs
// without an http(s) scheme or host with a *url.Error.
func ResolveURL(base, path string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &url.Error{Op: "parse", URL: base, Err: fmt.Errorf("not an http(s) server URL")}
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	return u.String(), nil
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
