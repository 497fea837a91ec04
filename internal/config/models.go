package config

import (
	"path/filepath"
	"time"
)

// OpenAIConfig represents the configuration for OpenAI-compatible endpoints
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Referer string
	Title   string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey string
	Model  string
}

// ExtractionConfig represents the configuration for the traversal run
type ExtractionConfig struct {
	MboxPath         string
	Account          string
	Inbox            string
	Folder           string
	Subfolder        string
	MaxBodySize      int
	ProgressInterval int
}

// EnrichmentConfig represents the configuration for the enrichment run
type EnrichmentConfig struct {
	MaxTokens           int
	Concurrency         int
	SleepBetweenBatches time.Duration
	RetryAttempts       int
	RetryMultiplier     float64
	RetryMinWait        time.Duration
	RetryMaxWait        time.Duration
	Categories          []string
}

// OutputConfig represents the output table locations
type OutputConfig struct {
	Dir       string
	Accepted  string
	Excluded  string
	Errors    string
	Processed string
}

// AcceptedPath returns the full path of the accepted table.
func (o OutputConfig) AcceptedPath() string { return filepath.Join(o.Dir, o.Accepted) }

// ExcludedPath returns the full path of the excluded table.
func (o OutputConfig) ExcludedPath() string { return filepath.Join(o.Dir, o.Excluded) }

// ErrorsPath returns the full path of the errors table.
func (o OutputConfig) ErrorsPath() string { return filepath.Join(o.Dir, o.Errors) }

// ProcessedPath returns the full path of the merged table.
func (o OutputConfig) ProcessedPath() string { return filepath.Join(o.Dir, o.Processed) }

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:  c.GetString("openai.api_key"),
		Model:   c.GetString("openai.model"),
		BaseURL: c.GetString("openai.base_url"),
	}
}

// GetOpenRouter returns the OpenRouter configuration
func (c *Config) GetOpenRouter() OpenAIConfig {
	return OpenAIConfig{
		APIKey:  c.GetString("openrouter.api_key"),
		Model:   c.GetString("openrouter.model"),
		BaseURL: c.GetString("openrouter.base_url"),
		Referer: c.GetString("openrouter.referer"),
		Title:   c.GetString("openrouter.title"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey: c.GetString("gemini.api_key"),
		Model:  c.GetString("gemini.model"),
	}
}

// GetExtraction returns the extraction configuration
func (c *Config) GetExtraction() ExtractionConfig {
	return ExtractionConfig{
		MboxPath:         c.GetString("extraction.mbox_path"),
		Account:          c.GetString("extraction.account"),
		Inbox:            c.GetString("extraction.inbox"),
		Folder:           c.GetString("extraction.folder"),
		Subfolder:        c.GetString("extraction.subfolder"),
		MaxBodySize:      c.GetInt("extraction.max_body_size"),
		ProgressInterval: c.GetInt("extraction.progress_interval"),
	}
}

// GetEnrichment returns the enrichment configuration
func (c *Config) GetEnrichment() EnrichmentConfig {
	sleep, err := c.GetDuration("enrichment.sleep_between_batches")
	if err != nil {
		sleep = 0
	}
	minWait, err := c.GetDuration("enrichment.retry_min_wait")
	if err != nil {
		minWait = 2 * time.Second
	}
	maxWait, err := c.GetDuration("enrichment.retry_max_wait")
	if err != nil {
		maxWait = 20 * time.Second
	}
	return EnrichmentConfig{
		MaxTokens:           c.GetInt("enrichment.max_tokens"),
		Concurrency:         c.GetInt("enrichment.concurrency"),
		SleepBetweenBatches: sleep,
		RetryAttempts:       c.GetInt("enrichment.retry_attempts"),
		RetryMultiplier:     c.GetFloat64("enrichment.retry_multiplier"),
		RetryMinWait:        minWait,
		RetryMaxWait:        maxWait,
		Categories:          c.GetStringSlice("enrichment.categories"),
	}
}

// GetOutput returns the output configuration
func (c *Config) GetOutput() OutputConfig {
	return OutputConfig{
		Dir:       c.GetString("output.dir"),
		Accepted:  c.GetString("output.accepted"),
		Excluded:  c.GetString("output.excluded"),
		Errors:    c.GetString("output.errors"),
		Processed: c.GetString("output.processed"),
	}
}
