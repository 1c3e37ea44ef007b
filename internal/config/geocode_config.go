package config

// GeocodeConfig configures reverse geocoding of survey coordinates
type GeocodeConfig struct {
	Endpoint   string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" validate:"required,absurl"`
	UserAgent  string `json:"user_agent,omitempty" yaml:"user_agent,omitempty" validate:"required"`
	Language   string `json:"language,omitempty" yaml:"language,omitempty"`
	MinDelayMs int    `json:"min_delay_ms,omitempty" yaml:"min_delay_ms,omitempty" validate:"min=0"`
	TimeoutSec int    `json:"timeout_sec,omitempty" yaml:"timeout_sec,omitempty" validate:"min=1"`
	CacheFile  string `json:"cache_file,omitempty" yaml:"cache_file,omitempty"`
	// Precision is the number of decimals kept in cache keys
	Precision int  `json:"precision,omitempty" yaml:"precision,omitempty" validate:"min=0,max=8"`
	Offline   bool `json:"offline,omitempty" yaml:"offline,omitempty"`
}

// NewDefaultGeocodeConfig creates default geocode configuration
func NewDefaultGeocodeConfig() GeocodeConfig {
	return GeocodeConfig{
		Endpoint:   DefaultGeocodeEndpoint,
		UserAgent:  DefaultGeocodeUserAgent,
		Language:   DefaultGeocodeLanguage,
		MinDelayMs: DefaultGeocodeMinDelayMs,
		TimeoutSec: DefaultGeocodeTimeoutSec,
		CacheFile:  DefaultGeocodeCacheFile,
		Precision:  DefaultGeocodePrecision,
	}
}
