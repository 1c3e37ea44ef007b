package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/docwrangler/docwrangler/internal/httpclient"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrNotCached is returned in offline mode for coordinates missing from the cache
var ErrNotCached = errors.New("coordinate not in geocode cache")

// Stats counts geocoder activity for the run summary
type Stats struct {
	Lookups     int
	CacheHits   int
	RemoteCalls int
	NotFound    int
	Failures    int
}

// nominatimResponse is the subset of the reverse endpoint payload we read
type nominatimResponse struct {
	Error   string            `json:"error"`
	Address map[string]string `json:"address"`
}

// Geocoder reverse geocodes coordinates through a Nominatim compatible
// endpoint. Remote calls are spaced by the configured minimum delay and are
// never retried.
type Geocoder struct {
	cfg     config.GeocodeConfig
	client  *httpclient.Client
	cache   *Cache
	limiter *rate.Limiter
	logger  zerolog.Logger
	stats   Stats
}

// NewGeocoder creates a Geocoder. client may be nil in offline mode.
func NewGeocoder(cfg config.GeocodeConfig, client *httpclient.Client, cache *Cache, logger zerolog.Logger) *Geocoder {
	minDelay := time.Duration(cfg.MinDelayMs) * time.Millisecond
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &Geocoder{
		cfg:     cfg,
		client:  client,
		cache:   cache,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With().Str("component", "Geocoder").Logger(),
	}
}

// Stats returns the counters collected so far
func (g *Geocoder) Stats() Stats {
	return g.stats
}

// Reverse returns the place for a coordinate, consulting the cache first
func (g *Geocoder) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	g.stats.Lookups++
	if p, ok := g.cache.Get(lat, lon); ok {
		g.stats.CacheHits++
		return p, nil
	}
	if g.cfg.Offline || g.client == nil {
		return Place{}, ErrNotCached
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return Place{}, err
	}
	g.stats.RemoteCalls++

	var payload nominatimResponse
	_, err := g.client.DoJSON(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    g.cfg.Endpoint,
		Headers: map[string]string{
			"User-Agent": g.cfg.UserAgent,
			"Accept":     "application/json",
		},
		Query: url.Values{
			"format":          []string{"jsonv2"},
			"lat":             []string{strconv.FormatFloat(lat, 'f', -1, 64)},
			"lon":             []string{strconv.FormatFloat(lon, 'f', -1, 64)},
			"accept-language": []string{g.cfg.Language},
			"addressdetails":  []string{"1"},
		},
	}, nil, &payload)
	if err != nil {
		g.stats.Failures++
		return Place{}, err
	}

	p := placeFromAddress(payload.Address)
	if payload.Error != "" || !p.Found {
		g.stats.NotFound++
		p = Place{}
	}
	g.cache.Put(lat, lon, p)
	return p, nil
}

// placeFromAddress picks the city from city, town or village in that order
func placeFromAddress(address map[string]string) Place {
	if len(address) == 0 {
		return Place{}
	}
	city := address["city"]
	if city == "" {
		city = address["town"]
	}
	if city == "" {
		city = address["village"]
	}
	return Place{
		Country: address["country"],
		City:    city,
		State:   address["state"],
		Found:   true,
	}
}
