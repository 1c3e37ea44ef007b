package httpclient

import (
	"time"

	"github.com/docwrangler/docwrangler/internal/config"
)

// ClientConfig holds configuration for HTTP clients
type ClientConfig struct {
	Timeout             time.Duration     // Request timeout
	FollowRedirects     bool              // Whether to follow redirects
	MaxRedirects        int               // Maximum number of redirects to follow
	Proxy               string            // Proxy URL
	CustomHeaders       map[string]string // Headers added to all requests
	UserAgent           string            // User-Agent header
	MaxIdleConns        int               // Maximum idle connections
	MaxIdleConnsPerHost int               // Maximum idle connections per host
	IdleConnTimeout     time.Duration     // Idle connection timeout
	TLSHandshakeTimeout time.Duration     // TLS handshake timeout
	DialTimeout         time.Duration     // Connection dial timeout
	EnableHTTP2         bool              // Enable HTTP/2 support
}

// DefaultClientConfig returns the default HTTP client configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:             30 * time.Second,
		FollowRedirects:     true,
		MaxRedirects:        10,
		UserAgent:           "docwrangler/1.0",
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialTimeout:         10 * time.Second,
		EnableHTTP2:         true,
		CustomHeaders: map[string]string{
			"Accept":          "*/*",
			"Accept-Language": "en-US,en;q=0.9",
		},
	}
}

// RetryConfig configures the retry handler
type RetryConfig struct {
	MaxRetries       int
	BaseDelay        time.Duration
	MaxDelay         time.Duration
	RetryStatusCodes []int
}

// RetryConfigFrom converts the file configuration to a RetryConfig
func RetryConfigFrom(cfg config.RetryConfig) RetryConfig {
	base := time.Duration(cfg.BaseDelayMs) * time.Millisecond
	return RetryConfig{
		MaxRetries:       cfg.MaxRetries,
		BaseDelay:        base,
		MaxDelay:         base * 8,
		RetryStatusCodes: cfg.RetryStatusCodes,
	}
}
