// Copyright (C) 2026 UniPay Project
//
// This file is part of unipay-go.
//
// unipay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// unipay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with unipay-go.  If not, see <https://www.gnu.org/licenses/>.

package client

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unipay-project/unipay-go/pkg/payerr"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 2
	defaultBackoff    = 500 * time.Millisecond
)

// HTTPClient posts signed request bodies to payment gateways with bounded
// retries. Retries cover transport failures and 5xx statuses; a 4xx is the
// gateway rejecting the request and is never retried.
type HTTPClient struct {
	hc         *http.Client
	maxRetries int
	backoff    time.Duration
	log        *zap.Logger
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) { c.hc.Timeout = d }
}

// WithMaxRetries sets how many times a failed attempt is repeated.
func WithMaxRetries(n int) HTTPOption {
	return func(c *HTTPClient) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff sets the base delay between attempts. The delay doubles each
// retry.
func WithBackoff(d time.Duration) HTTPOption {
	return func(c *HTTPClient) { c.backoff = d }
}

// WithHTTPLogger sets the logger for request attempts and failures.
func WithHTTPLogger(l *zap.Logger) HTTPOption {
	return func(c *HTTPClient) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTransport replaces the underlying http.RoundTripper, mainly for tests
// and for deployments that need a proxy.
func WithTransport(rt http.RoundTripper) HTTPOption {
	return func(c *HTTPClient) { c.hc.Transport = rt }
}

// NewHTTPClient creates an HTTPClient with a 10s timeout and 2 retries.
func NewHTTPClient(opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		hc:         &http.Client{Timeout: defaultTimeout},
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post sends body to url with contentType and returns the response body.
// It fails with *payerr.NetworkError once retries are exhausted; the last
// status code, if any arrived, is carried on the error.
func (c *HTTPClient) Post(ctx context.Context, url, contentType, body string) (string, error) {
	var lastErr error
	var lastStatus int

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", &payerr.NetworkError{Reason: "request canceled", Err: ctx.Err()}
			case <-time.After(c.backoff << (attempt - 1)):
			}
			c.log.Debug("retrying gateway request",
				zap.String("url", url),
				zap.Int("attempt", attempt+1))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
		if err != nil {
			return "", &payerr.NetworkError{Reason: "build request", Err: err}
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := c.hc.Do(req)
		if err != nil {
			lastErr = err
			lastStatus = 0
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			lastStatus = resp.StatusCode
			continue
		}

		switch {
		case resp.StatusCode >= 500:
			lastErr = nil
			lastStatus = resp.StatusCode
			continue
		case resp.StatusCode >= 400:
			return "", &payerr.NetworkError{
				StatusCode: resp.StatusCode,
				Reason:     "gateway rejected request: " + truncate(string(respBody), 200),
			}
		default:
			return string(respBody), nil
		}
	}

	reason := "retries exhausted"
	if lastStatus >= 500 {
		reason = "gateway kept failing"
	}
	return "", &payerr.NetworkError{StatusCode: lastStatus, Reason: reason, Err: lastErr}
}

// PostForm posts an application/x-www-form-urlencoded body.
func (c *HTTPClient) PostForm(ctx context.Context, url, body string) (string, error) {
	return c.Post(ctx, url, "application/x-www-form-urlencoded; charset=utf-8", body)
}

// PostXML posts a text/xml body, the WeChat v2 convention.
func (c *HTTPClient) PostXML(ctx context.Context, url, body string) (string, error) {
	return c.Post(ctx, url, "text/xml; charset=utf-8", body)
}

// PostJSON posts an application/json body.
func (c *HTTPClient) PostJSON(ctx context.Context, url, body string) (string, error) {
	return c.Post(ctx, url, "application/json; charset=utf-8", body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
