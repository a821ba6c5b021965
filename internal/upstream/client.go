// Package upstream talks to the Lou's List data delivery endpoint.
package upstream

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"louslist/internal/config"
	"louslist/internal/domain"
)

var _ domain.Upstream = (*Client)(nil)

// maxBodyBytes bounds the size of a single listing download.
const maxBodyBytes = 64 << 20

// Client posts listing requests to the upstream endpoint.
type Client struct {
	cfg     config.UpstreamConfig
	http    *http.Client
	maxBody int64
}

// NewClient creates a Client. Every request is bounded by cfg.Timeout in
// addition to the caller's context.
func NewClient(cfg config.UpstreamConfig) *Client {
	return &Client{
		cfg:     cfg,
		maxBody: maxBodyBytes,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		},
	}
}

// FetchCSV downloads the listing for term, or for the configured default
// term when term is empty. Transport failures and non-2xx answers are
// returned as *domain.NetworkError, as is a body larger than the size cap.
func (c *Client) FetchCSV(ctx context.Context, term string) ([]byte, error) {
	if term == "" {
		term = c.cfg.DefaultTerm
	}

	form := url.Values{}
	form.Set("Group", c.cfg.Group)
	form.Set("Semester", term)
	form.Set("Extended", c.cfg.Extended)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.ErrNetwork(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.ErrNetwork(fmt.Errorf("upstream returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, domain.ErrNetwork(fmt.Errorf("read upstream body: %w", err))
	}
	if int64(len(body)) > c.maxBody {
		return nil, domain.ErrNetwork(fmt.Errorf("upstream body exceeds %d bytes", c.maxBody))
	}
	return body, nil
}
