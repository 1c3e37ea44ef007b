package config

// Replacement is a literal substring rewrite applied to cleaned URLs
type Replacement struct {
	From string `json:"from" yaml:"from" validate:"required"`
	To   string `json:"to" yaml:"to"`
}

// SurveyColumns names the spreadsheet columns the survey stages read and write
type SurveyColumns struct {
	Link         string `json:"link,omitempty" yaml:"link,omitempty" validate:"required"`
	OriginalLink string `json:"original_link,omitempty" yaml:"original_link,omitempty" validate:"required"`
	Canonical    string `json:"canonical,omitempty" yaml:"canonical,omitempty" validate:"required"`
	Comment      string `json:"comment,omitempty" yaml:"comment,omitempty" validate:"required"`
	Rating       string `json:"rating,omitempty" yaml:"rating,omitempty" validate:"required"`
	ResponseID   string `json:"response_id,omitempty" yaml:"response_id,omitempty" validate:"required"`
	StartDate    string `json:"start_date,omitempty" yaml:"start_date,omitempty" validate:"required"`
	Latitude     string `json:"latitude,omitempty" yaml:"latitude,omitempty" validate:"required"`
	Longitude    string `json:"longitude,omitempty" yaml:"longitude,omitempty" validate:"required"`
}

// SurveyConfig configures the survey cleanup pipeline
type SurveyConfig struct {
	Columns           SurveyColumns `json:"columns,omitempty" yaml:"columns,omitempty"`
	InputSheet        string        `json:"input_sheet,omitempty" yaml:"input_sheet,omitempty"`
	OutputSheet       string        `json:"output_sheet,omitempty" yaml:"output_sheet,omitempty" validate:"required"`
	OutputFile        string        `json:"output_file,omitempty" yaml:"output_file,omitempty" validate:"required,tableext"`
	SubheadingMarker  string        `json:"subheading_marker,omitempty" yaml:"subheading_marker,omitempty"`
	TestingKeyword    string        `json:"testing_keyword,omitempty" yaml:"testing_keyword,omitempty"`
	EmailReplacement  string        `json:"email_replacement" yaml:"email_replacement"`
	KnownReplacements []Replacement `json:"known_replacements,omitempty" yaml:"known_replacements,omitempty" validate:"dive"`
}

// NewDefaultSurveyConfig creates default survey configuration
func NewDefaultSurveyConfig() SurveyConfig {
	return SurveyConfig{
		Columns: SurveyColumns{
			Link:         DefaultSurveyLinkColumn,
			OriginalLink: DefaultSurveyOriginalColumn,
			Canonical:    DefaultSurveyCanonicalColumn,
			Comment:      DefaultSurveyCommentColumn,
			Rating:       DefaultSurveyRatingColumn,
			ResponseID:   DefaultSurveyResponseIDColumn,
			StartDate:    DefaultSurveyStartDateColumn,
			Latitude:     DefaultSurveyLatitudeColumn,
			Longitude:    DefaultSurveyLongitudeColumn,
		},
		OutputSheet:      DefaultSurveySheetName,
		OutputFile:       DefaultSurveyOutputFile,
		SubheadingMarker: DefaultSurveySubheadingMarker,
		TestingKeyword:   DefaultSurveyTestingKeyword,
		KnownReplacements: []Replacement{
			{
				From: "https://docs.nginx.com/nginxaas-azure/known-issues/",
				To:   "https://docs.nginx.com/nginxaas/azure/known-issues/",
			},
		},
	}
}

// FeedbackConfig configures the feedback tagging step
type FeedbackConfig struct {
	URLColumn   string   `json:"url_column,omitempty" yaml:"url_column,omitempty" validate:"required"`
	DropColumns []string `json:"drop_columns,omitempty" yaml:"drop_columns,omitempty"`
	SkipRows    int      `json:"skip_rows,omitempty" yaml:"skip_rows,omitempty" validate:"min=0"`
}

// NewDefaultFeedbackConfig creates default feedback tagging configuration
func NewDefaultFeedbackConfig() FeedbackConfig {
	return FeedbackConfig{
		URLColumn: DefaultFeedbackURLColumn,
		DropColumns: []string{
			"Status",
			"Progress",
			"Duration (in seconds)",
			"Finished",
			"RecipientFirstName",
			"RecipientEmail",
			"ExternalReference",
			"DistributionChannel",
			"UserLanguage",
			"Link URL",
			"Q2 - Actionability",
			"Q2 - Effort",
			"Q2 - Effort Numeric",
			"Q2 - Emotion Intensity",
			"Q2 - Emotion",
			"Q2 - Parent Topics",
			"Q2 - Sentiment Polarity",
			"Q2 - Sentiment Score",
			"Q2 - Sentiment",
			"Q2 - Topic Sentiment Label",
			"Q2 - Topic Sentiment Score",
			"Q2 - Topics",
			"Q2 - Topic Hierarchy Level 1",
		},
	}
}

// ProductPrefix maps a canonical URL prefix to a product label
type ProductPrefix struct {
	Prefix  string `json:"prefix" yaml:"prefix" validate:"required"`
	Product string `json:"product" yaml:"product" validate:"required"`
}

// DatasetConfig configures the feedback dataset aggregation
type DatasetConfig struct {
	OutputFile     string          `json:"output_file,omitempty" yaml:"output_file,omitempty" validate:"required,tableext"`
	Delimiter      string          `json:"delimiter,omitempty" yaml:"delimiter,omitempty" validate:"required"`
	UnknownProduct string          `json:"unknown_product,omitempty" yaml:"unknown_product,omitempty"`
	Products       []ProductPrefix `json:"products,omitempty" yaml:"products,omitempty" validate:"dive"`
}

// NewDefaultDatasetConfig creates default dataset configuration. Product
// prefixes are checked in order, so nested sections precede their parents.
func NewDefaultDatasetConfig() DatasetConfig {
	return DatasetConfig{
		OutputFile:     DefaultDatasetOutputFile,
		Delimiter:      DefaultDatasetDelimiter,
		UnknownProduct: DefaultDatasetUnknownProduct,
		Products: []ProductPrefix{
			{Prefix: "https://docs.nginx.com/nginx-instance-manager/", Product: "NGINX Instance Manager (NIM)"},
			{Prefix: "https://docs.nginx.com/nginx-one-console/", Product: "NGINX One Console (N1C)"},
			{Prefix: "https://docs.nginx.com/nginx-ingress-controller/", Product: "NGINX Ingress Controller (NIC)"},
			{Prefix: "https://docs.nginx.com/nginx-gateway-fabric/", Product: "NGINX Gateway Fabric (NGF)"},
			{Prefix: "https://docs.nginx.com/nginx-agent/", Product: "NGINX Agent"},
			{Prefix: "https://docs.nginx.com/nginx-app-protect-dos/", Product: "NGINX App Protect DoS"},
			{Prefix: "https://docs.nginx.com/nginxaas/azure/", Product: "NGINXaaS Azure"},
			{Prefix: "https://docs.nginx.com/nginxaas/google/", Product: "NGINXaaS Google"},
			{Prefix: "https://docs.nginx.com/solutions/", Product: "Subscription Licensing"},
			{Prefix: "https://docs.nginx.com/waf/", Product: "F5 WAF for NGINX"},
			{Prefix: "https://docs.nginx.com/nginx-service-mesh/", Product: "NGINX Service Mesh"},
			{Prefix: "https://docs.nginx.com/nginx-unit/", Product: "NGINX Unit"},
			{Prefix: "https://docs.nginx.com/nginx-amplify/", Product: "NGINX Amplify"},
			{Prefix: "https://docs.nginx.com/glossary/", Product: "Glossary"},
			{Prefix: "https://docs.nginx.com/nginx/", Product: "NGINX (OSS/Plus)"},
		},
	}
}
