package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. PRU_LOG_LEVEL.
const EnvPrefix = "PRU_"

// PsycheCatalogURL is the raw image catalog endpoint for the Psyche mission.
const PsycheCatalogURL = "https://solarsystem.nasa.gov/api/v1/raw_image_psyche_items/"

// SupportedMissions lists the mission names a catalog backend exists for.
var SupportedMissions = []string{"psyche"}

// Config holds all configuration options for pru
type Config struct {
	Catalog       CatalogConfig      `yaml:"catalog" json:"catalog"`
	RateLimit     RateLimitConfig    `yaml:"rate_limit" json:"rate_limit"`
	Output        OutputConfig       `yaml:"output" json:"output"`
	Download      DownloadConfig     `yaml:"download" json:"download"`
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`
	Logging       LoggingConfig      `yaml:"logging" json:"logging"`
}

// CatalogConfig selects the mission backend and its query defaults
type CatalogConfig struct {
	Mission            string        `yaml:"mission" json:"mission"`
	BaseURL            string        `yaml:"base_url" json:"base_url"`
	PerPage            int           `yaml:"per_page" json:"per_page"`
	MinDate            string        `yaml:"min_date" json:"min_date"`
	MaxDate            string        `yaml:"max_date" json:"max_date"`
	MaxConcurrentPages int           `yaml:"max_concurrent_pages" json:"max_concurrent_pages"`
	RequestTimeout     time.Duration `yaml:"request_timeout" json:"request_timeout"`
	// Instruments replaces the mission's built-in code table when set.
	Instruments map[string][]string `yaml:"instruments,omitempty" json:"instruments,omitempty"`
}

// RateLimitConfig paces requests per host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory     string `yaml:"directory" json:"directory"`
	WriteMetadata bool   `yaml:"write_metadata" json:"write_metadata"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	ConcurrentDownloads int           `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	Timeout             time.Duration `yaml:"timeout" json:"timeout"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	File    string `yaml:"file" json:"file"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Mission:            "psyche",
			BaseURL:            PsycheCatalogURL,
			PerPage:            100,
			MinDate:            "2000-01-01",
			MaxDate:            "2100-01-01",
			MaxConcurrentPages: 8,
			RequestTimeout:     30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Output: OutputConfig{
			Directory:     ".",
			WriteMetadata: true,
		},
		Download: DownloadConfig{
			ConcurrentDownloads: 3,
			Timeout:             60 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadFromEnv loads configuration from PRU_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	str := func(name string, dst *string) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(name string, dst *bool) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	duration := func(name string, dst *time.Duration) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = d
		}
	}

	str("MISSION", &c.Catalog.Mission)
	str("BASE_URL", &c.Catalog.BaseURL)
	integer("PER_PAGE", &c.Catalog.PerPage)
	str("MIN_DATE", &c.Catalog.MinDate)
	str("MAX_DATE", &c.Catalog.MaxDate)
	integer("MAX_CONCURRENT_PAGES", &c.Catalog.MaxConcurrentPages)
	duration("REQUEST_TIMEOUT", &c.Catalog.RequestTimeout)

	if v := os.Getenv(EnvPrefix + "REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREQUESTS_PER_SECOND: %w", EnvPrefix, err))
		} else {
			c.RateLimit.RequestsPerSecond = rps
		}
	}
	integer("RATE_BURST", &c.RateLimit.Burst)

	str("OUTPUT_DIR", &c.Output.Directory)
	boolean("WRITE_METADATA", &c.Output.WriteMetadata)
	integer("CONCURRENT_DOWNLOADS", &c.Download.ConcurrentDownloads)
	duration("DOWNLOAD_TIMEOUT", &c.Download.Timeout)
	boolean("NOTIFICATIONS_ENABLED", &c.Notifications.Enabled)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FILE", &c.Logging.File)
	boolean("NO_COLOR", &c.Logging.NoColor)

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".pru.yaml",
		".pru.yml",
		filepath.Join(home, ".config", "pru", "config.yaml"),
		filepath.Join(home, ".pru.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(SupportedMissions, strings.ToLower(c.Catalog.Mission)) {
		errs = append(errs, fmt.Errorf("unsupported mission %q (supported: %s)", c.Catalog.Mission, strings.Join(SupportedMissions, ", ")))
	}
	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("catalog base URL is required"))
	}
	if c.Catalog.PerPage <= 0 {
		errs = append(errs, errors.New("results per page must be positive"))
	}
	if c.Catalog.MaxConcurrentPages < 0 {
		errs = append(errs, errors.New("max concurrent pages cannot be negative"))
	}
	if c.Catalog.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	for code, tokens := range c.Catalog.Instruments {
		if len(tokens) == 0 {
			errs = append(errs, fmt.Errorf("instrument %q has no search tokens", code))
		}
	}

	if c.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("requests per second cannot be negative"))
	}

	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.ConcurrentDownloads > 16 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 16"))
	}
	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags applies flag values that were explicitly set.
// Keys use the flag names of the fetch command.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if num, ok := flags["num"].(int); ok && num > 0 {
		c.Catalog.PerPage = num
	}
	if minDate, ok := flags["mindate"].(string); ok && minDate != "" {
		c.Catalog.MinDate = minDate
	}
	if maxDate, ok := flags["maxdate"].(string); ok && maxDate != "" {
		c.Catalog.MaxDate = maxDate
	}
	if notify, ok := flags["notify"].(bool); ok && notify {
		c.Notifications.Enabled = true
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if noColor, ok := flags["no-color"].(bool); ok && noColor {
		c.Logging.NoColor = true
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".pru.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
