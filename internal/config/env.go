package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// RescaleConfig is the fixed page geometry the external rescaler produces.
// Width and height are pixels, density is pixels per inch.
type RescaleConfig struct {
	Width   int
	Height  int
	Gravity string
	Density int
	Quality int
}

// RotateConfig holds the page rotation angles for landscape merges.
type RotateConfig struct {
	Landscape int
	Reverse   int
}

// PreviewConfig controls the optional preview render of a finished document.
type PreviewConfig struct {
	DPI     int
	Quality int
	Gray    bool
}

// ArchiveConfig controls the optional upload of finished documents.
// An empty bucket disables archiving; an empty password uploads plaintext.
type ArchiveConfig struct {
	Bucket   string
	Prefix   string
	Password string
}

// ToolsConfig overrides the external tool binaries. Empty values fall back
// to PATH discovery.
type ToolsConfig struct {
	RescalerBin string
	CompilerBin string
}

// Config is the top-level configuration.
type Config struct {
	Logging LoggingConfig
	Axiom   AxiomConfig
	Rescale RescaleConfig
	Rotate  RotateConfig
	Preview PreviewConfig
	Archive ArchiveConfig
	Tools   ToolsConfig
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	// Logging defaults
	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", "true")),
		File:       getEnv("LOG_FILE", ""),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	// Axiom defaults
	baseDataset := getEnv("AXIOM_DATASET", "dev")
	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		APIKey:        getEnv("AXIOM_API_KEY", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       baseDataset + "_scanbind",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	// Rescale geometry defaults match the scanner output the toolchain was
	// tuned for: portrait pages cropped from the top.
	cfg.Rescale = RescaleConfig{
		Width:   parseInt(getEnv("RESCALE_WIDTH", "1390"), 1390),
		Height:  parseInt(getEnv("RESCALE_HEIGHT", "1950"), 1950),
		Gravity: getEnv("RESCALE_GRAVITY", "North"),
		Density: parseInt(getEnv("RESCALE_DENSITY", "178"), 178),
		Quality: parseInt(getEnv("RESCALE_QUALITY", "85"), 85),
	}
	if cfg.Rescale.Density <= 0 {
		cfg.Rescale.Density = 178
	}

	cfg.Rotate = RotateConfig{
		Landscape: parseInt(getEnv("ROTATE_LANDSCAPE", "90"), 90),
		Reverse:   parseInt(getEnv("ROTATE_REVERSE", "270"), 270),
	}

	cfg.Preview = PreviewConfig{
		DPI:     parseInt(getEnv("PREVIEW_DPI", "120"), 120),
		Quality: parseInt(getEnv("PREVIEW_QUALITY", "85"), 85),
		Gray:    parseBool(getEnv("PREVIEW_GRAY", "0")),
	}

	cfg.Archive = ArchiveConfig{
		Bucket:   getEnv("ARCHIVE_S3_BUCKET", ""),
		Prefix:   getEnv("ARCHIVE_S3_PREFIX", "scanbind"),
		Password: getEnv("ARCHIVE_PASSWORD", ""),
	}

	cfg.Tools = ToolsConfig{
		RescalerBin: getEnv("RESCALER_BIN", ""),
		CompilerBin: getEnv("COMPILER_BIN", "pdflatex"),
	}

	return cfg
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}
