package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/anciri/mail-processing-workflow/internal/adapters/gemini"
	"github.com/anciri/mail-processing-workflow/internal/adapters/openai"
	"github.com/anciri/mail-processing-workflow/internal/config"
	"github.com/anciri/mail-processing-workflow/internal/core"
)

// LLMFactory creates completion clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{cfg: cfg, logger: logger}
}

// CreateCompletionClient creates a completion client based on the
// configured provider.
func (f *LLMFactory) CreateCompletionClient() (core.CompletionClient, error) {
	provider := f.cfg.GetString("llm.provider")

	switch provider {
	case "openai":
		return openai.NewFactory(f.cfg, f.logger).CreateCompletionClient()
	case "openrouter":
		return openai.NewFactory(f.cfg, f.logger).CreateOpenRouterClient()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger).CreateCompletionClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
