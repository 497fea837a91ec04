package config

import (
	"testing"
	"time"
)

func defaultsConfig() *Config {
	return NewFromViper(NewEmptyViper())
}

func TestDefaults_Provider(t *testing.T) {
	cfg := defaultsConfig()

	if got := cfg.GetString("llm.provider"); got != "openai" {
		t.Errorf("llm.provider = %q, want openai", got)
	}
	if got := cfg.GetOpenAI().Model; got != "gpt-4o-mini" {
		t.Errorf("openai model = %q", got)
	}
	if got := cfg.GetOpenRouter().BaseURL; got != "https://openrouter.ai/api/v1" {
		t.Errorf("openrouter base url = %q", got)
	}
	if got := cfg.GetGemini().Model; got != "gemini-pro" {
		t.Errorf("gemini model = %q", got)
	}
}

func TestDefaults_Extraction(t *testing.T) {
	ext := defaultsConfig().GetExtraction()

	if ext.Inbox != "Inbox" {
		t.Errorf("Inbox = %q", ext.Inbox)
	}
	if ext.MaxBodySize != 5000 {
		t.Errorf("MaxBodySize = %d", ext.MaxBodySize)
	}
	if ext.ProgressInterval != 10 {
		t.Errorf("ProgressInterval = %d", ext.ProgressInterval)
	}
}

func TestDefaults_Enrichment(t *testing.T) {
	enrichment := defaultsConfig().GetEnrichment()

	if enrichment.MaxTokens != 700 {
		t.Errorf("MaxTokens = %d", enrichment.MaxTokens)
	}
	if enrichment.Concurrency != 10 {
		t.Errorf("Concurrency = %d", enrichment.Concurrency)
	}
	if enrichment.RetryAttempts != 3 {
		t.Errorf("RetryAttempts = %d", enrichment.RetryAttempts)
	}
	if enrichment.RetryMinWait != 2*time.Second {
		t.Errorf("RetryMinWait = %v", enrichment.RetryMinWait)
	}
	if enrichment.RetryMaxWait != 20*time.Second {
		t.Errorf("RetryMaxWait = %v", enrichment.RetryMaxWait)
	}
	if enrichment.RetryMultiplier != 2.0 {
		t.Errorf("RetryMultiplier = %v, want 2.0", enrichment.RetryMultiplier)
	}
	if enrichment.SleepBetweenBatches != 0 {
		t.Errorf("SleepBetweenBatches = %v", enrichment.SleepBetweenBatches)
	}
	if len(enrichment.Categories) != 0 {
		t.Errorf("Categories = %v, want empty", enrichment.Categories)
	}
}

func TestDefaults_OutputPaths(t *testing.T) {
	out := defaultsConfig().GetOutput()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"accepted", out.AcceptedPath(), "outputs/emails.xlsx"},
		{"excluded", out.ExcludedPath(), "outputs/emails_excluded.xlsx"},
		{"errors", out.ErrorsPath(), "outputs/emails_errors.xlsx"},
		{"processed", out.ProcessedPath(), "outputs/emails_processed.xlsx"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s path = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestOverrides(t *testing.T) {
	v := NewEmptyViper()
	v.Set("enrichment.concurrency", 3)
	v.Set("output.dir", "/tmp/run")
	cfg := NewFromViper(v)

	if got := cfg.GetEnrichment().Concurrency; got != 3 {
		t.Errorf("Concurrency = %d, want 3", got)
	}
	if got := cfg.GetOutput().AcceptedPath(); got != "/tmp/run/emails.xlsx" {
		t.Errorf("AcceptedPath = %q", got)
	}
}
