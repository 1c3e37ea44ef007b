package config

// ScraperConfig configures the same-prefix page scraper
type ScraperConfig struct {
	UserAgent      string `json:"user_agent,omitempty" yaml:"user_agent,omitempty" validate:"required"`
	MaxDepth       int    `json:"max_depth,omitempty" yaml:"max_depth,omitempty" validate:"min=0"`
	DelayMs        int    `json:"delay_ms,omitempty" yaml:"delay_ms,omitempty" validate:"min=0"`
	RequestTimeout int    `json:"request_timeout_secs,omitempty" yaml:"request_timeout_secs,omitempty" validate:"min=1"`
	OutputFile     string `json:"output_file,omitempty" yaml:"output_file,omitempty"`
}

// NewDefaultScraperConfig creates default scraper configuration
func NewDefaultScraperConfig() ScraperConfig {
	return ScraperConfig{
		UserAgent:      DefaultScraperUserAgent,
		MaxDepth:       DefaultScraperMaxDepth,
		RequestTimeout: DefaultScraperTimeout,
		OutputFile:     DefaultScraperOutput,
	}
}
