package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, DefaultBaseURL, cfg.URLConfig.BaseURL)
	assert.Equal(t, "Link URL", cfg.SurveyConfig.Columns.Link)
	assert.Equal(t, "Survey Data", cfg.SurveyConfig.OutputSheet)
	assert.Equal(t, 1000, cfg.GeocodeConfig.MinDelayMs)
	assert.Contains(t, cfg.MetadataConfig.RemoveKeys, "aliases")
	assert.Equal(t, "how-to", cfg.MetadataConfig.TypeRemap["tasks"])
	assert.Len(t, cfg.InventoryConfig.XMLLanguages, 7)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadGlobalConfig("/nonexistent/config.json", zerolog.Nop())

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config file does not exist")
}

func TestLoadGlobalConfig_JSONFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.json")
	configData := `{
		"log_config": {"log_level": "debug"},
		"url_config": {"base_url": "https://docs.example.com"},
		"scraper_config": {"user_agent": "test-agent"}
	}`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, "https://docs.example.com", cfg.URLConfig.BaseURL)
	assert.Equal(t, "test-agent", cfg.ScraperConfig.UserAgent)
	// untouched sections keep defaults
	assert.Equal(t, DefaultSurveyOutputFile, cfg.SurveyConfig.OutputFile)
}

func TestLoadGlobalConfig_YAMLFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	configData := `
survey_config:
  testing_keyword: qa-check
  known_replacements:
    - from: https://docs.example.com/old/
      to: https://docs.example.com/new/
geocode_config:
  min_delay_ms: 1500
  offline: true
metadata_config:
  remove_keys: [aliases]
`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, "qa-check", cfg.SurveyConfig.TestingKeyword)
	require.Len(t, cfg.SurveyConfig.KnownReplacements, 1)
	assert.Equal(t, "https://docs.example.com/new/", cfg.SurveyConfig.KnownReplacements[0].To)
	assert.Equal(t, 1500, cfg.GeocodeConfig.MinDelayMs)
	assert.True(t, cfg.GeocodeConfig.Offline)
	assert.Equal(t, []string{"aliases"}, cfg.MetadataConfig.RemoveKeys)
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("survey_config: [unclosed"), 0644))

	_, err := LoadGlobalConfig(configFile, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal YAML")
}

func TestGetConfigPath_EnvVariable(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("{}"), 0644))
	t.Setenv(ConfigPathEnv, configFile)

	assert.Equal(t, configFile, GetConfigPath(""))
	assert.Equal(t, configFile, GetConfigPath("/does/not/exist.yaml"))
}
