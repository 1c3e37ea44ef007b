package config

// OutputConfig defines how tabular results are stored
type OutputConfig struct {
	// CompressionCodec applies to parquet output: zstd, snappy, gzip or none
	CompressionCodec string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty" validate:"omitempty,oneof=zstd snappy gzip none"`
	// SQLiteTable is the table name used for .db and .sqlite outputs
	SQLiteTable string `json:"sqlite_table,omitempty" yaml:"sqlite_table,omitempty"`
	// AutoFitColumns widens xlsx columns to their longest value
	AutoFitColumns bool `json:"auto_fit_columns" yaml:"auto_fit_columns"`
}

// NewDefaultOutputConfig creates default output configuration
func NewDefaultOutputConfig() OutputConfig {
	return OutputConfig{
		CompressionCodec: "zstd",
		SQLiteTable:      "records",
		AutoFitColumns:   true,
	}
}
