package config

// InventoryConfig configures the doc inventory, metadata audit and XML inventory tools
type InventoryConfig struct {
	ContentDir    string   `json:"content_dir,omitempty" yaml:"content_dir,omitempty" validate:"required"`
	IncludesDir   string   `json:"includes_dir,omitempty" yaml:"includes_dir,omitempty"`
	MappingFile   string   `json:"mapping_file,omitempty" yaml:"mapping_file,omitempty"`
	XMLLanguages  []string `json:"xml_languages,omitempty" yaml:"xml_languages,omitempty" validate:"dive,required"`
	XMLOutputFile string   `json:"xml_output_file,omitempty" yaml:"xml_output_file,omitempty"`
	ReadingOutput string   `json:"reading_output,omitempty" yaml:"reading_output,omitempty" validate:"omitempty,tableext"`
	UseGitHistory bool     `json:"use_git_history" yaml:"use_git_history"`
}

// NewDefaultInventoryConfig creates default inventory configuration
func NewDefaultInventoryConfig() InventoryConfig {
	return InventoryConfig{
		ContentDir:    DefaultInventoryContentDir,
		IncludesDir:   DefaultInventoryIncludesDir,
		XMLLanguages:  []string{"cn", "en", "he", "it", "ja", "ru", "tr"},
		XMLOutputFile: DefaultXMLInventoryOutput,
		ReadingOutput: DefaultReadingLevelOutput,
		UseGitHistory: true,
	}
}
