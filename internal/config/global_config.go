package config

import (
	"encoding/json"
	"path/filepath"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// GlobalConfig contains all configuration sections for the tools
type GlobalConfig struct {
	LogConfig        LogConfig        `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	URLConfig        URLConfig        `json:"url_config,omitempty" yaml:"url_config,omitempty"`
	SurveyConfig     SurveyConfig     `json:"survey_config,omitempty" yaml:"survey_config,omitempty"`
	FeedbackConfig   FeedbackConfig   `json:"feedback_config,omitempty" yaml:"feedback_config,omitempty"`
	DatasetConfig    DatasetConfig    `json:"dataset_config,omitempty" yaml:"dataset_config,omitempty"`
	GeocodeConfig    GeocodeConfig    `json:"geocode_config,omitempty" yaml:"geocode_config,omitempty"`
	ArchiveConfig    ArchiveConfig    `json:"archive_config,omitempty" yaml:"archive_config,omitempty"`
	MetadataConfig   MetadataConfig   `json:"metadata_config,omitempty" yaml:"metadata_config,omitempty"`
	InventoryConfig  InventoryConfig  `json:"inventory_config,omitempty" yaml:"inventory_config,omitempty"`
	ScraperConfig    ScraperConfig    `json:"scraper_config,omitempty" yaml:"scraper_config,omitempty"`
	QualtricsConfig  QualtricsConfig  `json:"qualtrics_config,omitempty" yaml:"qualtrics_config,omitempty"`
	HTTPClientConfig HTTPClientConfig `json:"http_client_config,omitempty" yaml:"http_client_config,omitempty"`
	OutputConfig     OutputConfig     `json:"output_config,omitempty" yaml:"output_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LogConfig:        NewDefaultLogConfig(),
		URLConfig:        NewDefaultURLConfig(),
		SurveyConfig:     NewDefaultSurveyConfig(),
		FeedbackConfig:   NewDefaultFeedbackConfig(),
		DatasetConfig:    NewDefaultDatasetConfig(),
		GeocodeConfig:    NewDefaultGeocodeConfig(),
		ArchiveConfig:    NewDefaultArchiveConfig(),
		MetadataConfig:   NewDefaultMetadataConfig(),
		InventoryConfig:  NewDefaultInventoryConfig(),
		ScraperConfig:    NewDefaultScraperConfig(),
		QualtricsConfig:  NewDefaultQualtricsConfig(),
		HTTPClientConfig: NewDefaultHTTPClientConfig(),
		OutputConfig:     NewDefaultOutputConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// Values absent from the file keep their defaults. YAML is used for .yaml and
// .yml files, JSON otherwise.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	if providedPath != "" && !fileExists(providedPath) {
		return nil, common.NewValidationError("config_file", providedPath, "config file does not exist")
	}

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		logger.Debug().Msg("No config file found, using defaults")
		return cfg, nil
	}

	fileManager := common.NewFileManager(logger)
	data, err := fileManager.ReadFile(filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	logger.Debug().Str("path", filePath).Msg("Loaded config file")
	return cfg, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if isYAMLFile(ext) {
		return parseYAMLConfig(data, filePath, cfg)
	}
	return parseJSONConfig(data, filePath, cfg)
}

func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

func parseYAMLConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
	}
	return nil
}

func parseJSONConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
