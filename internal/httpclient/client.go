package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// Request describes one HTTP call. Body is kept as bytes so retries can resend it.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   url.Values
	Body    []byte
}

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess reports a 2xx status
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client wraps net/http.Client with default headers, optional HTTP/2 and an
// optional retry handler
type Client struct {
	client       *http.Client
	config       ClientConfig
	logger       zerolog.Logger
	retryHandler *RetryHandler
}

// NewClient creates a client with the given configuration and no retries
func NewClient(cfg ClientConfig, logger zerolog.Logger) (*Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		DialContext: (&net.Dialer{
			Timeout: cfg.DialTimeout,
		}).DialContext,
		Proxy: http.ProxyFromEnvironment,
	}

	if cfg.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		} else {
			logger.Debug().Msg("HTTP/2 support enabled")
		}
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, common.WrapError(err, "failed to parse proxy URL")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		logger.Info().Str("proxy", cfg.Proxy).Msg("HTTP client configured with proxy")
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
	if !cfg.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if cfg.MaxRedirects > 0 {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		}
	}

	return &Client{
		client: client,
		config: cfg,
		logger: logger,
	}, nil
}

// Do performs a request, retrying when a retry handler is configured
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.retryHandler != nil {
		return c.retryHandler.DoWithRetry(ctx, c.do, req)
	}
	return c.do(ctx, req)
}

func (c *Client) do(ctx context.Context, req *Request) (*Response, error) {
	target := req.URL
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, common.WrapError(err, "failed to create HTTP request")
	}

	for key, value := range c.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if c.config.UserAgent != "" && req.Headers["User-Agent"] == "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, common.NewNetworkError(req.URL, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.NewNetworkError(req.URL, "failed to read response body", err)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL).
		Int("status_code", resp.StatusCode).
		Int("bytes", len(data)).
		Msg("HTTP request completed")

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}, nil
}

// DoJSON sends in as a JSON body (when non-nil) and decodes a successful
// response into out (when non-nil). Non-2xx statuses become *common.HTTPError.
func (c *Client) DoJSON(ctx context.Context, req *Request, in, out interface{}) (*Response, error) {
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, common.WrapError(err, "failed to encode request body")
		}
		req.Body = payload
		if req.Headers == nil {
			req.Headers = make(map[string]string)
		}
		req.Headers["Content-Type"] = "application/json"
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return resp, err
	}
	if !resp.IsSuccess() {
		return resp, common.NewHTTPErrorWithURL(resp.StatusCode, truncate(resp.Body, 512), req.URL)
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return resp, common.WrapErrorf(err, "failed to decode response from %s", req.URL)
		}
	}
	return resp, nil
}

func truncate(body []byte, n int) string {
	if len(body) > n {
		body = body[:n]
	}
	return string(body)
}
