package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(maxRetries int, codes ...int) RetryConfig {
	return RetryConfig{
		MaxRetries:       maxRetries,
		BaseDelay:        time.Millisecond,
		MaxDelay:         5 * time.Millisecond,
		RetryStatusCodes: codes,
	}
}

func TestRetryHandler_RecoversAfterRateLimit(t *testing.T) {
	var requestCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requestCount, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClientBuilder(zerolog.Nop()).WithRetry(fastRetry(3, http.StatusTooManyRequests)).Build()
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &Request{Method: http.MethodGet, URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requestCount))
}

func TestRetryHandler_MaxRetriesExceeded(t *testing.T) {
	var requestCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requestCount, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClientBuilder(zerolog.Nop()).WithRetry(fastRetry(2, http.StatusServiceUnavailable)).Build()
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &Request{Method: http.MethodGet, URL: server.URL})
	require.Error(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requestCount))
	var httpErr *common.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestRetryHandler_NonRetryableStatusReturnsAtOnce(t *testing.T) {
	var requestCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requestCount, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewClientBuilder(zerolog.Nop()).WithRetry(fastRetry(3, http.StatusServiceUnavailable)).Build()
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &Request{Method: http.MethodGet, URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
}

func TestRetryHandler_CalculateDelay(t *testing.T) {
	rh := NewRetryHandler(RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 350 * time.Millisecond}, zerolog.Nop())
	assert.Equal(t, 100*time.Millisecond, rh.CalculateDelay(0))
	assert.Equal(t, 200*time.Millisecond, rh.CalculateDelay(1))
	assert.Equal(t, 350*time.Millisecond, rh.CalculateDelay(2))
	assert.Equal(t, 350*time.Millisecond, rh.CalculateDelay(10))
}

func TestRetryConfigFrom(t *testing.T) {
	rc := RetryConfigFrom(config.NewDefaultHTTPClientConfig().Retry)
	assert.Equal(t, 2, rc.MaxRetries)
	assert.Equal(t, 2*time.Second, rc.BaseDelay)
	assert.Equal(t, 16*time.Second, rc.MaxDelay)
	assert.Contains(t, rc.RetryStatusCodes, http.StatusTooManyRequests)
}
