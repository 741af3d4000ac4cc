package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	LogLevel string
	Header   HeaderConfig
	Layout   LayoutConfig
	Output   OutputConfig
}

// HeaderConfig sizes the page-1 header band split into seller and buyer halves.
type HeaderConfig struct {
	BandHeight float64 // points
	BandRatio  float64 // share of page height
}

// LayoutConfig tunes text and table reconstruction from the PDF content stream.
type LayoutConfig struct {
	SnapTolerance float64 // points; ruling lines closer than this merge
	RowTolerance  float64 // points; baselines closer than this share a line
}

// OutputConfig holds batch output locations.
type OutputConfig struct {
	Dir string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LogLevel: getEnv("UPD_LOG_LEVEL", "info"),
		Header: HeaderConfig{
			BandHeight: getEnvAsFloat64("UPD_HEADER_BAND_HEIGHT", 140),
			BandRatio:  getEnvAsFloat64("UPD_HEADER_BAND_RATIO", 0.25),
		},
		Layout: LayoutConfig{
			SnapTolerance: getEnvAsFloat64("UPD_SNAP_TOLERANCE", 5),
			RowTolerance:  getEnvAsFloat64("UPD_ROW_TOLERANCE", 2),
		},
		Output: OutputConfig{
			Dir: getEnv("UPD_OUTPUT_DIR", "./out"),
		},
	}
}

// Validate checks value ranges and returns a CONFIG_ERROR AppError listing
// every failed field.
func (c *Config) Validate() error {
	v := NewValidator().
		Field("log_level", c.LogLevel, OneOf("debug", "info", "warn", "error")).
		Field("header.band_height", c.Header.BandHeight, Positive).
		Field("header.band_ratio", c.Header.BandRatio, Positive, AtMost(1)).
		Field("layout.snap_tolerance", c.Layout.SnapTolerance, Positive).
		Field("layout.row_tolerance", c.Layout.RowTolerance, Positive)
	if v.HasErrors() {
		return NewAppError(CodeConfig, v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
