package config

// URLConfig holds the settings shared by URL normalization and redirect parsing.
type URLConfig struct {
	// BaseURL is joined with bare paths and redirect targets
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"required,absurl"`
	// RedirectsFile is the default redirect rule file for the survey pipeline
	RedirectsFile string `json:"redirects_file,omitempty" yaml:"redirects_file,omitempty"`
}

// NewDefaultURLConfig creates default URL configuration
func NewDefaultURLConfig() URLConfig {
	return URLConfig{
		BaseURL: DefaultBaseURL,
	}
}
