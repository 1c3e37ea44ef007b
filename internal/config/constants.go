package config

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogDir        = "logs"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// URL Defaults
	DefaultBaseURL = "https://docs.nginx.com"

	// Survey Defaults
	DefaultSurveyOutputFile       = "cleaned_data.xlsx"
	DefaultSurveySheetName        = "Survey Data"
	DefaultSurveyLinkColumn       = "Link URL"
	DefaultSurveyOriginalColumn   = "Original Link URL"
	DefaultSurveyCanonicalColumn  = "Canonical Link URL"
	DefaultSurveyCommentColumn    = "Q2"
	DefaultSurveyRatingColumn     = "Q1"
	DefaultSurveyResponseIDColumn = "ResponseId"
	DefaultSurveyStartDateColumn  = "StartDate"
	DefaultSurveyLatitudeColumn   = "LocationLatitude"
	DefaultSurveyLongitudeColumn  = "LocationLongitude"
	DefaultSurveySubheadingMarker = "Any suggestions for improvement?"
	DefaultSurveyTestingKeyword   = "testing"

	// Feedback tagging Defaults
	DefaultFeedbackURLColumn = "current_url"

	// Dataset Defaults
	DefaultDatasetOutputFile     = "nginx_ai_dataset.xlsx"
	DefaultDatasetDelimiter      = "|||"
	DefaultDatasetUnknownProduct = "Unknown"

	// Geocode Defaults
	DefaultGeocodeEndpoint   = "https://nominatim.openstreetmap.org/reverse"
	DefaultGeocodeUserAgent  = "docwrangler-reverse-geocoder"
	DefaultGeocodeLanguage   = "en-US"
	DefaultGeocodeMinDelayMs = 1000
	DefaultGeocodeCacheFile  = "geocode_cache.json"
	DefaultGeocodePrecision  = 4
	DefaultGeocodeTimeoutSec = 10

	// Archive Defaults
	DefaultArchiveMaxIncludeDepth = 10

	// Inventory Defaults
	DefaultInventoryContentDir  = "content"
	DefaultInventoryIncludesDir = "content/includes"
	DefaultXMLInventoryOutput   = "nginx_org_inventory.xlsx"

	// Reading level Defaults
	DefaultReadingLevelOutput = "reading_levels.csv"

	// Scraper Defaults
	DefaultScraperUserAgent = "Mozilla/5.0 (compatible; docwrangler-scraper/1.0)"
	DefaultScraperOutput    = "found_pages.txt"
	DefaultScraperMaxDepth  = 0
	DefaultScraperTimeout   = 20

	// Qualtrics Defaults
	DefaultQualtricsBaseURL      = "https://iad1.qualtrics.com/API/v3"
	DefaultQualtricsTokenEnv     = "QUALTRICS_API_TOKEN"
	DefaultQualtricsPollInterval = 3
	DefaultQualtricsTimeoutSec   = 300
	DefaultQualtricsOutputFile   = "survey_export.xlsx"

	// HTTP client Defaults
	DefaultHTTPTimeoutSec   = 30
	DefaultHTTPMaxRetries   = 2
	DefaultHTTPRetryDelayMs = 2000
)
