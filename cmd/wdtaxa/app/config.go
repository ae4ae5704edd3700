package app

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/wdtaxa/internal/config"
	"github.com/agentstation/wdtaxa/pkg/constants"
	"github.com/agentstation/wdtaxa/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	ConfigFile string

	// Endpoints
	UserAgent        string
	WDQSURL          string
	IPNIURL          string
	GBIFURL          string
	IndexFungorumURL string

	// Transport
	HTTPTimeout       time.Duration
	QueryTimeout      time.Duration
	RequestsPerSecond float64
	CacheTTL          time.Duration
	BatchCooldown     time.Duration

	// Output
	OutputDir   string
	MetricsFile string

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration in order of precedence:
//  1. Command-line flags (applied later by cobra)
//  2. Environment variables (WDTAXA_ prefix)
//  3. .env and .env.local
//  4. Config file (~/.wdtaxa.yaml or ./.wdtaxa.yaml)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	config.SetDefaults(v)
	config.Bind(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".wdtaxa")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config file", "cannot read "+configFile, err)
		}
	}

	return &Config{
		ConfigFile: v.ConfigFileUsed(),

		UserAgent:        v.GetString(config.KeyUserAgent),
		WDQSURL:          v.GetString(config.KeyWDQSURL),
		IPNIURL:          v.GetString(config.KeyIPNIURL),
		GBIFURL:          v.GetString(config.KeyGBIFURL),
		IndexFungorumURL: v.GetString(config.KeyIndexFungorumURL),

		HTTPTimeout:       config.GetDuration(v, config.KeyHTTPTimeout, constants.DefaultHTTPTimeout),
		QueryTimeout:      config.GetDuration(v, config.KeyQueryTimeout, constants.QueryHTTPTimeout),
		RequestsPerSecond: v.GetFloat64(config.KeyRequestsPerSecond),
		CacheTTL:          config.GetDuration(v, config.KeyCacheTTL, constants.CacheTTL),
		BatchCooldown:     v.GetDuration(config.KeyBatchCooldown),

		OutputDir:   v.GetString(config.KeyOutputDir),
		MetricsFile: v.GetString(config.KeyMetricsFile),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}, nil
}

// Validate rejects settings the pipelines cannot run with.
func (c *Config) Validate() error {
	if c.UserAgent == "" {
		return errors.NewValidationError(config.KeyUserAgent, c.UserAgent, "a descriptive User-Agent is required by the Wikimedia API policy")
	}
	if c.BatchCooldown < 0 {
		return errors.NewValidationError(config.KeyBatchCooldown, c.BatchCooldown, "must not be negative")
	}
	if c.RequestsPerSecond < 0 {
		return errors.NewValidationError(config.KeyRequestsPerSecond, c.RequestsPerSecond, "must not be negative")
	}
	return nil
}

// UpdateFromFlags applies parsed global flags, which take precedence over
// config files and environment.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads .env then .env.local; neither overrides variables
// already set in the environment.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
