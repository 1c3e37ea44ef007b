package common

import "time"

// Time layouts shared by the tools
const (
	LayoutDateTime      = "2006-01-02 15:04:05"
	LayoutFileTimestamp = "20060102_150405"
)

// FileTimestamp formats t for use in generated file and folder names
func FileTimestamp(t time.Time) string {
	return t.Format(LayoutFileTimestamp)
}

// TimestampedName returns "<prefix>_<timestamp><ext>"
func TimestampedName(prefix, ext string, t time.Time) string {
	return prefix + "_" + FileTimestamp(t) + ext
}
