package httpclient

import (
	"time"

	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/rs/zerolog"
)

// ClientBuilder builds HTTP clients with fluent interface
type ClientBuilder struct {
	config ClientConfig
	retry  *RetryConfig
	logger zerolog.Logger
}

// NewClientBuilder creates a new ClientBuilder with default configuration
func NewClientBuilder(logger zerolog.Logger) *ClientBuilder {
	return &ClientBuilder{
		config: DefaultClientConfig(),
		logger: logger.With().Str("component", "HTTPClient").Logger(),
	}
}

// WithConfig applies the file configuration. Retries are not enabled here;
// callers opt in with WithRetry.
func (b *ClientBuilder) WithConfig(cfg config.HTTPClientConfig) *ClientBuilder {
	if cfg.TimeoutSecs > 0 {
		b.config.Timeout = time.Duration(cfg.TimeoutSecs) * time.Second
	}
	b.config.EnableHTTP2 = cfg.EnableHTTP2
	b.config.Proxy = cfg.Proxy
	return b
}

// WithTimeout sets the request timeout
func (b *ClientBuilder) WithTimeout(timeout time.Duration) *ClientBuilder {
	b.config.Timeout = timeout
	return b
}

// WithUserAgent sets the User-Agent header
func (b *ClientBuilder) WithUserAgent(userAgent string) *ClientBuilder {
	b.config.UserAgent = userAgent
	return b
}

// WithHeader adds a header sent with every request
func (b *ClientBuilder) WithHeader(key, value string) *ClientBuilder {
	headers := make(map[string]string, len(b.config.CustomHeaders)+1)
	for k, v := range b.config.CustomHeaders {
		headers[k] = v
	}
	headers[key] = value
	b.config.CustomHeaders = headers
	return b
}

// WithHTTP2 enables or disables HTTP/2 support
func (b *ClientBuilder) WithHTTP2(enabled bool) *ClientBuilder {
	b.config.EnableHTTP2 = enabled
	return b
}

// WithFollowRedirects sets whether to follow redirects
func (b *ClientBuilder) WithFollowRedirects(follow bool) *ClientBuilder {
	b.config.FollowRedirects = follow
	return b
}

// WithRetry enables retries with exponential backoff
func (b *ClientBuilder) WithRetry(cfg RetryConfig) *ClientBuilder {
	b.retry = &cfg
	return b
}

// Build creates and returns a new Client
func (b *ClientBuilder) Build() (*Client, error) {
	client, err := NewClient(b.config, b.logger)
	if err != nil {
		return nil, err
	}
	if b.retry != nil && b.retry.MaxRetries > 0 {
		client.retryHandler = NewRetryHandler(*b.retry, b.logger)
	}
	return client, nil
}
