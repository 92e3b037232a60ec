// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultUserAgent is sent when HTTPConfig leaves UserAgent empty.
const defaultUserAgent = "docc4llm"

// HTTPConfig configures HTTPProvider.
type HTTPConfig struct {
	// Timeout bounds one request. Default: 30s.
	Timeout time.Duration
	// MaxBytes caps response body size. Default: 32MB.
	MaxBytes int64
	// UserAgent sent with requests.
	UserAgent string
	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
}

// defaults fills unset fields.
func (c *HTTPConfig) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 32 << 20
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
}

// HTTPProvider serves a hosted archive over HTTP. It cannot list folders.
type HTTPProvider struct {
	base   *url.URL
	client *http.Client
	config HTTPConfig
}

// NewHTTPProvider creates provider for archive hosted at baseURL.
func NewHTTPProvider(baseURL string, cfg HTTPConfig) (*HTTPProvider, error) {
	cfg.defaults()

	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, &ProviderError{Op: "open", Path: baseURL, Err: err}
	}

	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, &ProviderError{Op: "open", Path: baseURL, Err: fmt.Errorf("unsupported scheme %q", base.Scheme)}
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &HTTPProvider{base: base, client: client, config: cfg}, nil
}

// Fetch downloads one archive file.
func (p *HTTPProvider) Fetch(ctx context.Context, path string) ([]byte, error) {
	resp, err := p.do(ctx, http.MethodGet, path)
	if err != nil {
		return nil, &ProviderError{Op: "fetch", Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := statusError(resp.StatusCode); err != nil {
		return nil, &ProviderError{Op: "fetch", Path: path, Err: err}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.config.MaxBytes))
	if err != nil {
		return nil, &ProviderError{Op: "fetch", Path: path, Err: fmt.Errorf("read body: %w", err)}
	}

	return body, nil
}

// Exists issues a HEAD request for path.
func (p *HTTPProvider) Exists(ctx context.Context, path string) bool {
	resp, err := p.do(ctx, http.MethodHead, path)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()

	return statusError(resp.StatusCode) == nil
}

// List always fails: hosted archives expose no directory index.
func (p *HTTPProvider) List(_ context.Context, dir string) ([]Entry, error) {
	return nil, &ProviderError{Op: "list", Path: dir, Err: ErrListUnsupported}
}

// do sends one request for archive path.
func (p *HTTPProvider) do(ctx context.Context, method, path string) (*http.Response, error) {
	target := p.base.ResolveReference(&url.URL{Path: cleanArchivePath(path)})

	req, err := http.NewRequestWithContext(ctx, method, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", p.config.UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http %s: %w", strings.ToLower(method), err)
	}

	return resp, nil
}

// statusError maps HTTP status to provider error.
func statusError(code int) error {
	switch {
	case code == http.StatusNotFound || code == http.StatusGone:
		return fmt.Errorf("%w: http %d", ErrNotFound, code)
	case code < 200 || code >= 300:
		return fmt.Errorf("http %d", code)
	default:
		return nil
	}
}
