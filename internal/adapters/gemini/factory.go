package gemini

import (
	"go.uber.org/zap"

	"github.com/anciri/mail-processing-workflow/internal/config"
	"github.com/anciri/mail-processing-workflow/internal/core"
)

// Factory creates new instances of Client
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for Client instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

// CreateCompletionClient creates a new Gemini-backed completion client
func (f *Factory) CreateCompletionClient() (core.CompletionClient, error) {
	geminiCfg := f.cfg.GetGemini()
	maxTokens := f.cfg.GetEnrichment().MaxTokens
	return NewClient(geminiCfg.APIKey, geminiCfg.Model, maxTokens, f.logger)
}
