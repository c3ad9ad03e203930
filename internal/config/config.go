package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"coursedash/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Logging LoggingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string `validate:"required,numeric"`
	GinMode     string `validate:"oneof=debug release test"`
	CORSOrigins []string
}

// DataConfig holds catalog ingestion settings
type DataConfig struct {
	Dir             string `validate:"required"`
	SheetName       string
	ColumnMapFile   string
	LoadConcurrency int `validate:"min=1,max=64"`
	TopDepartments  int `validate:"min=1"`
	RefreshInterval time.Duration
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `validate:"oneof=ERROR WARN INFO DEBUG"`
	Mode  string `validate:"oneof=dev prod"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  *loadServerConfig(),
		Data:    *loadDataConfig(),
		Logging: *loadLoggingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		GinMode:     getEnvOrDefault("GIN_MODE", "release"),
		CORSOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", nil),
	}
}

// Defaults for DataConfig when the environment leaves them unset
const (
	DefaultLoadConcurrency = 4
	DefaultTopDepartments  = 15
)

// LoadDataConfig reads only the data settings, without validation. The CLI
// uses it for flag defaults.
func LoadDataConfig() DataConfig {
	return *loadDataConfig()
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Dir:             getEnvOrDefault("DATA_DIR", "."),
		SheetName:       getEnvOrDefault("SHEET_NAME", ""),
		ColumnMapFile:   getEnvOrDefault("COLUMN_MAP_FILE", ""),
		LoadConcurrency: getEnvIntOrDefault("LOAD_CONCURRENCY", DefaultLoadConcurrency),
		TopDepartments:  getEnvIntOrDefault("TOP_N_DEPARTMENTS", DefaultTopDepartments),
		RefreshInterval: getEnvDurationOrDefault("REFRESH_INTERVAL", 0),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
		Mode:  strings.ToLower(getEnvOrDefault("LOG_MODE", "dev")),
	}
}

var validate = validator.New()

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return errors.ConfigInvalid(first.Namespace() + " failed '" + first.Tag() + "' validation")
		}
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if config.Data.RefreshInterval < 0 {
		return errors.ConfigInvalid("REFRESH_INTERVAL must not be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
