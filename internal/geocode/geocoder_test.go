package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/docwrangler/docwrangler/internal/httpclient"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nominatimServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("lat") {
		case "52.52":
			_, _ = w.Write([]byte(`{"address":{"city":"Berlin","state":"Berlin","country":"Germany"}}`))
		case "47.1":
			_, _ = w.Write([]byte(`{"address":{"village":"Smallville","state":"Kansas","country":"United States"}}`))
		case "0":
			_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
}

func newTestGeocoder(t *testing.T, endpoint string, cache *Cache, offline bool) *Geocoder {
	t.Helper()
	cfg := config.NewDefaultGeocodeConfig()
	cfg.Endpoint = endpoint
	cfg.UserAgent = "test-agent"
	cfg.MinDelayMs = 0
	cfg.Offline = offline

	client, err := httpclient.NewClientBuilder(zerolog.Nop()).WithTimeout(5 * time.Second).Build()
	require.NoError(t, err)
	return NewGeocoder(cfg, client, cache, zerolog.Nop())
}

func TestGeocoder_Reverse(t *testing.T) {
	var calls int32
	server := nominatimServer(t, &calls)
	defer server.Close()

	cache, err := LoadCache("", 4, zerolog.Nop())
	require.NoError(t, err)
	g := newTestGeocoder(t, server.URL, cache, false)
	ctx := context.Background()

	p, err := g.Reverse(ctx, 52.52, 13.405)
	require.NoError(t, err)
	assert.Equal(t, Place{Country: "Germany", City: "Berlin", State: "Berlin", Found: true}, p)

	p, err = g.Reverse(ctx, 47.1, -97.0)
	require.NoError(t, err)
	assert.Equal(t, "Smallville", p.City, "city falls back to village")

	p, err = g.Reverse(ctx, 0, 0)
	require.NoError(t, err)
	assert.False(t, p.Found)

	_, err = g.Reverse(ctx, 10.5, 10.5)
	assert.Error(t, err, "server errors are not retried")

	// cached coordinate, rounded to 4 decimals
	p, err = g.Reverse(ctx, 52.520001, 13.405001)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", p.City)

	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	stats := g.Stats()
	assert.Equal(t, 5, stats.Lookups)
	assert.Equal(t, 1, stats.CacheHits)
	assert.Equal(t, 4, stats.RemoteCalls)
	assert.Equal(t, 1, stats.NotFound)
	assert.Equal(t, 1, stats.Failures)
}

func TestGeocoder_MinimumDelay(t *testing.T) {
	var calls int32
	server := nominatimServer(t, &calls)
	defer server.Close()

	cache, err := LoadCache("", 4, zerolog.Nop())
	require.NoError(t, err)
	g := newTestGeocoder(t, server.URL, cache, false)
	g.cfg.MinDelayMs = 100
	g = NewGeocoder(g.cfg, g.client, cache, zerolog.Nop())

	start := time.Now()
	_, _ = g.Reverse(context.Background(), 52.52, 1)
	_, _ = g.Reverse(context.Background(), 52.52, 2)
	_, _ = g.Reverse(context.Background(), 52.52, 3)
	assert.GreaterOrEqual(t, time.Since(start), 190*time.Millisecond)
}

func TestGeocoder_Offline(t *testing.T) {
	cache, err := LoadCache("", 4, zerolog.Nop())
	require.NoError(t, err)
	cache.Put(1, 2, Place{Country: "X", Found: true})

	g := newTestGeocoder(t, "http://127.0.0.1:1", cache, true)
	p, err := g.Reverse(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "X", p.Country)

	_, err = g.Reverse(context.Background(), 3, 4)
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestCache_PersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache, err := LoadCache(path, 4, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, "52.5200,13.4050", cache.Key(52.52, 13.405))
	assert.Equal(t, "0.0000,0.0000", cache.Key(-0.00001, 0.00001))

	cache.Put(52.52, 13.405, Place{City: "Berlin", Found: true})
	require.NoError(t, cache.Save())

	reloaded, err := LoadCache(path, 4, zerolog.Nop())
	require.NoError(t, err)
	p, ok := reloaded.Get(52.52, 13.405)
	require.True(t, ok)
	assert.Equal(t, "Berlin", p.City)
}

func TestCache_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	cache, err := LoadCache(path, 4, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())
}
