package geocode

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/rs/zerolog"
)

// Place is the administrative location of a coordinate. Found is false when
// the service had no address for it.
type Place struct {
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Found   bool   `json:"found"`
}

// Cache is a JSON file of places keyed by rounded coordinates. It is read
// fully on load and written fully on Save.
type Cache struct {
	path        string
	precision   int
	entries     map[string]Place
	dirty       bool
	fileManager *common.FileManager
	logger      zerolog.Logger
}

// LoadCache reads the cache at path. A missing file starts an empty cache and
// an unreadable one is discarded with a warning. An empty path keeps the cache
// in memory only.
func LoadCache(path string, precision int, logger zerolog.Logger) (*Cache, error) {
	c := &Cache{
		path:        path,
		precision:   precision,
		entries:     make(map[string]Place),
		fileManager: common.NewFileManager(logger),
		logger:      logger.With().Str("component", "GeocodeCache").Logger(),
	}
	if path == "" {
		return c, nil
	}

	data, err := c.fileManager.ReadFile(path)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.logger.Info().Str("path", path).Msg("No geocode cache yet, starting empty")
			return c, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("Geocode cache is corrupt, starting empty")
		c.entries = make(map[string]Place)
		return c, nil
	}
	c.logger.Info().Str("path", path).Int("entries", len(c.entries)).Msg("Loaded geocode cache")
	return c, nil
}

// Key rounds a coordinate pair to the cache precision
func (c *Cache) Key(lat, lon float64) string {
	return fmt.Sprintf("%.*f,%.*f", c.precision, round(lat, c.precision), c.precision, round(lon, c.precision))
}

func round(v float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0 // avoid "-0.0000" keys
	}
	return r
}

// Get returns the cached place for a coordinate
func (c *Cache) Get(lat, lon float64) (Place, bool) {
	p, ok := c.entries[c.Key(lat, lon)]
	return p, ok
}

// Put stores a place for a coordinate
func (c *Cache) Put(lat, lon float64, p Place) {
	c.entries[c.Key(lat, lon)] = p
	c.dirty = true
}

// Len returns the number of cached coordinates
func (c *Cache) Len() int {
	return len(c.entries)
}

// Save writes the cache back when it changed
func (c *Cache) Save() error {
	if c.path == "" || !c.dirty {
		return nil
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return common.WrapError(err, "failed to encode geocode cache")
	}
	if err := c.fileManager.WriteFile(c.path, data, common.DefaultFileWriteOptions()); err != nil {
		return err
	}
	c.dirty = false
	c.logger.Info().Str("path", c.path).Int("entries", len(c.entries)).Msg("Saved geocode cache")
	return nil
}
