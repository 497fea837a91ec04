package openai

import (
	"net/http"

	"github.com/sashabaranov/go-openai"
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

// headerTransport injects the attribution headers OpenRouter expects
// on every request.
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(req)
}

// CreateCompletionClient creates a Client against the OpenAI API.
func (f *Factory) CreateCompletionClient() (core.CompletionClient, error) {
	openaiCfg := f.cfg.GetOpenAI()
	maxTokens := f.cfg.GetEnrichment().MaxTokens

	clientCfg := openai.DefaultConfig(openaiCfg.APIKey)
	if openaiCfg.BaseURL != "" {
		clientCfg.BaseURL = openaiCfg.BaseURL
	}

	return NewClient(openai.NewClientWithConfig(clientCfg), openaiCfg.Model, maxTokens, f.logger), nil
}

// CreateOpenRouterClient creates a Client against the OpenRouter
// endpoint with its attribution headers.
func (f *Factory) CreateOpenRouterClient() (core.CompletionClient, error) {
	routerCfg := f.cfg.GetOpenRouter()
	maxTokens := f.cfg.GetEnrichment().MaxTokens

	clientCfg := openai.DefaultConfig(routerCfg.APIKey)
	clientCfg.BaseURL = routerCfg.BaseURL
	clientCfg.HTTPClient = &http.Client{
		Transport: &headerTransport{
			base:    http.DefaultTransport,
			referer: routerCfg.Referer,
			title:   routerCfg.Title,
		},
	}

	f.logger.Info("Using OpenRouter endpoint",
		zap.String("base_url", routerCfg.BaseURL),
		zap.String("model", routerCfg.Model))

	return NewClient(openai.NewClientWithConfig(clientCfg), routerCfg.Model, maxTokens, f.logger), nil
}
