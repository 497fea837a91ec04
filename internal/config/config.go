package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration. One instance is
// constructed at process start and passed into each component
// constructor.
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/rfq-workflow/")
	v.AddConfigPath("$HOME/.rfq-workflow")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("RFQ_WORKFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// LLM provider defaults
	v.SetDefault("llm.provider", "openai")

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "")

	// OpenRouter defaults
	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.model", "openai/gpt-4o-mini")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.referer", "https://github.com/anciri/mail-processing-workflow")
	v.SetDefault("openrouter.title", "Email Processing Workflow")

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-pro")

	// Extraction defaults
	v.SetDefault("extraction.mbox_path", "")
	v.SetDefault("extraction.account", "")
	v.SetDefault("extraction.inbox", "Inbox")
	v.SetDefault("extraction.folder", "")
	v.SetDefault("extraction.subfolder", "")
	v.SetDefault("extraction.max_body_size", 5000)
	v.SetDefault("extraction.progress_interval", 10)

	// Enrichment defaults
	v.SetDefault("enrichment.max_tokens", 700)
	v.SetDefault("enrichment.concurrency", 10)
	v.SetDefault("enrichment.sleep_between_batches", "0s")
	v.SetDefault("enrichment.retry_attempts", 3)
	v.SetDefault("enrichment.retry_multiplier", 2.0)
	v.SetDefault("enrichment.retry_min_wait", "2s")
	v.SetDefault("enrichment.retry_max_wait", "20s")
	v.SetDefault("enrichment.categories", []string{})

	// Output defaults
	v.SetDefault("output.dir", "outputs")
	v.SetDefault("output.accepted", "emails.xlsx")
	v.SetDefault("output.excluded", "emails_excluded.xlsx")
	v.SetDefault("output.errors", "emails_errors.xlsx")
	v.SetDefault("output.processed", "emails_processed.xlsx")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
