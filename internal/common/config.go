package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Extraction ExtractionConfig
	Cleaning   CleaningConfig
	Join       JoinConfig
	Batch      BatchConfig
}

// ExtractionConfig holds PDF extraction configuration
type ExtractionConfig struct {
	Strategy  string // "auto" | "pdftotext" | "text"
	Pdftotext string // binary name or absolute path
	MaxSizeMB int64  // reject PDFs above this size
	Timeout   time.Duration
}

// CleaningConfig holds token-cleaning and name-validation configuration.
// The denylist is per-run state, never a process-wide singleton, so
// concurrent document runs cannot interfere.
type CleaningConfig struct {
	NameDenylist []string
}

// JoinConfig holds client-roster join configuration
type JoinConfig struct {
	FuzzyThreshold float64 // minimum name similarity for a fuzzy match
}

// BatchConfig holds multi-document batch configuration
type BatchConfig struct {
	Workers int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			Strategy:  getEnv("EXTRACTION_STRATEGY", "auto"),
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
			MaxSizeMB: int64(getEnvAsInt("MAX_PDF_SIZE_MB", 50)),
			Timeout:   getEnvAsDuration("EXTRACTION_TIMEOUT", 60*time.Second),
		},
		Cleaning: CleaningConfig{
			NameDenylist: defaultNameDenylist(),
		},
		Join: JoinConfig{
			FuzzyThreshold: getEnvAsFloat64("JOIN_FUZZY_THRESHOLD", 0.85),
		},
		Batch: BatchConfig{
			Workers: getEnvAsInt("BATCH_WORKERS", 4),
		},
	}
}

// defaultNameDenylist returns name patterns known to be extraction
// garbage. Scrambled header text shows up as a plausible-looking
// uppercase "name" and has to be filtered by exact match.
func defaultNameDenylist() []string {
	return []string{
		"LACIOSN ÓZRA NÓCIAZITCO DE ANTCUE OGDICÓ",
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Extraction.MaxSizeMB <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_PDF_SIZE_MB must be positive", ErrInvalidInput)
	}
	if c.Extraction.Timeout <= 0 {
		return NewAppError("CONFIG_ERROR", "EXTRACTION_TIMEOUT must be positive", ErrInvalidInput)
	}
	if c.Join.FuzzyThreshold <= 0 || c.Join.FuzzyThreshold > 1 {
		return NewAppError("CONFIG_ERROR", "JOIN_FUZZY_THRESHOLD must be in (0,1]", ErrInvalidInput)
	}
	if c.Batch.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "BATCH_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
