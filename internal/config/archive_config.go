package config

// ArchiveConfig configures the docset archiver
type ArchiveConfig struct {
	IncludesDir     string `json:"includes_dir,omitempty" yaml:"includes_dir,omitempty"`
	OutputDir       string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	MaxIncludeDepth int    `json:"max_include_depth,omitempty" yaml:"max_include_depth,omitempty" validate:"min=1"`
	SkipIndexFiles  bool   `json:"skip_index_files" yaml:"skip_index_files"`
}

// NewDefaultArchiveConfig creates default archive configuration
func NewDefaultArchiveConfig() ArchiveConfig {
	return ArchiveConfig{
		OutputDir:       ".",
		MaxIncludeDepth: DefaultArchiveMaxIncludeDepth,
		SkipIndexFiles:  true,
	}
}

// MetadataConfig configures front-matter pruning
type MetadataConfig struct {
	RemoveKeys  []string          `json:"remove_keys,omitempty" yaml:"remove_keys,omitempty"`
	MergeKeys   []string          `json:"merge_keys,omitempty" yaml:"merge_keys,omitempty"`
	TargetKey   string            `json:"target_key,omitempty" yaml:"target_key,omitempty" validate:"required"`
	TypeRemap   map[string]string `json:"type_remap,omitempty" yaml:"type_remap,omitempty"`
	ValidTypes  []string          `json:"valid_types,omitempty" yaml:"valid_types,omitempty" validate:"required,min=1"`
	IndentWidth int               `json:"indent_width,omitempty" yaml:"indent_width,omitempty" validate:"min=0,max=8"`
}

// NewDefaultMetadataConfig creates default metadata configuration
func NewDefaultMetadataConfig() MetadataConfig {
	return MetadataConfig{
		RemoveKeys: []string{
			"_build", "aliases", "display_breadcrumb", "linkTitle", "menu",
			"catalog", "catalogType", "journeys", "tags", "authors", "date", "versions",
		},
		MergeKeys: []string{"categories", "doctypes"},
		TargetKey: "type",
		TypeRemap: map[string]string{
			"task":     "how-to",
			"tasks":    "how-to",
			"concepts": "concept",
		},
		ValidTypes:  []string{"tutorial", "how-to", "concept", "reference", "getting-started", "redoc"},
		IndentWidth: 2,
	}
}
