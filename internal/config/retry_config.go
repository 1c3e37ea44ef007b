package config

// HTTPClientConfig configures the shared HTTP client used by remote services
type HTTPClientConfig struct {
	TimeoutSecs int         `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"min=1"`
	EnableHTTP2 bool        `json:"enable_http2" yaml:"enable_http2"`
	Proxy       string      `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,absurl"`
	Retry       RetryConfig `json:"retry,omitempty" yaml:"retry,omitempty"`
}

// RetryConfig defines retries for services that allow them
type RetryConfig struct {
	// Maximum number of retry attempts
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"min=0,max=10"`
	// Base delay in milliseconds for exponential backoff
	BaseDelayMs int `json:"base_delay_ms,omitempty" yaml:"base_delay_ms,omitempty" validate:"min=0"`
	// HTTP status codes that should trigger retries
	RetryStatusCodes []int `json:"retry_status_codes,omitempty" yaml:"retry_status_codes,omitempty"`
}

// NewDefaultHTTPClientConfig creates default HTTP client configuration
func NewDefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		TimeoutSecs: DefaultHTTPTimeoutSec,
		EnableHTTP2: true,
		Retry: RetryConfig{
			MaxRetries:       DefaultHTTPMaxRetries,
			BaseDelayMs:      DefaultHTTPRetryDelayMs,
			RetryStatusCodes: []int{429, 500, 502, 503, 504},
		},
	}
}

// QualtricsConfig configures the survey response exporter
type QualtricsConfig struct {
	BaseURL         string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"required,absurl"`
	SurveyID        string `json:"survey_id,omitempty" yaml:"survey_id,omitempty"`
	FilterID        string `json:"filter_id,omitempty" yaml:"filter_id,omitempty"`
	TokenEnv        string `json:"token_env,omitempty" yaml:"token_env,omitempty" validate:"required"`
	PollIntervalSec int    `json:"poll_interval_sec,omitempty" yaml:"poll_interval_sec,omitempty" validate:"min=1"`
	TimeoutSec      int    `json:"timeout_sec,omitempty" yaml:"timeout_sec,omitempty" validate:"min=1"`
	OutputFile      string `json:"output_file,omitempty" yaml:"output_file,omitempty" validate:"required,tableext"`
}

// NewDefaultQualtricsConfig creates default Qualtrics configuration
func NewDefaultQualtricsConfig() QualtricsConfig {
	return QualtricsConfig{
		BaseURL:         DefaultQualtricsBaseURL,
		TokenEnv:        DefaultQualtricsTokenEnv,
		PollIntervalSec: DefaultQualtricsPollInterval,
		TimeoutSec:      DefaultQualtricsTimeoutSec,
		OutputFile:      DefaultQualtricsOutputFile,
	}
}
