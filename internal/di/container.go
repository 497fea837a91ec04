package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/anciri/mail-processing-workflow/internal/adapters/mbox"
	"github.com/anciri/mail-processing-workflow/internal/adapters/xlsx"
	"github.com/anciri/mail-processing-workflow/internal/config"
	"github.com/anciri/mail-processing-workflow/internal/core"
	"github.com/anciri/mail-processing-workflow/internal/enrich"
	"github.com/anciri/mail-processing-workflow/internal/extract"
	"github.com/anciri/mail-processing-workflow/internal/factory"
	"github.com/anciri/mail-processing-workflow/internal/location"
	"github.com/anciri/mail-processing-workflow/internal/logging"
	"github.com/anciri/mail-processing-workflow/internal/qualify"
	"github.com/anciri/mail-processing-workflow/internal/textutil"
	"github.com/anciri/mail-processing-workflow/internal/traverse"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text sanitizer
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *textutil.Sanitizer {
		return textutil.NewSanitizer(cfg.GetExtraction().MaxBodySize, logger)
	}); err != nil {
		return nil, err
	}

	// Register qualification filter and location resolver
	if err := container.Provide(qualify.NewFilter); err != nil {
		return nil, err
	}
	if err := container.Provide(location.NewResolver); err != nil {
		return nil, err
	}

	// Register field extractor
	if err := container.Provide(extract.New); err != nil {
		return nil, err
	}

	// Register traversal engine
	if err := container.Provide(func(
		filter *qualify.Filter,
		extractor *extract.Extractor,
		resolver *location.Resolver,
		sanitizer *textutil.Sanitizer,
		cfg *config.Config,
		logger *zap.Logger,
	) *traverse.Engine {
		return traverse.NewEngine(filter, extractor, resolver, sanitizer, logger,
			cfg.GetExtraction().ProgressInterval)
	}); err != nil {
		return nil, err
	}

	// Register LLM factory and completion client
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.LLMFactory) (core.CompletionClient, error) {
		return f.CreateCompletionClient()
	}); err != nil {
		return nil, err
	}

	// Register prompt builder and enrichment orchestrator
	if err := container.Provide(func(cfg *config.Config) *enrich.PromptBuilder {
		return enrich.NewPromptBuilder(cfg.GetEnrichment().Categories)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		client core.CompletionClient,
		prompts *enrich.PromptBuilder,
		cfg *config.Config,
		logger *zap.Logger,
	) *enrich.Orchestrator {
		enrichCfg := cfg.GetEnrichment()
		return enrich.NewOrchestrator(client, prompts, enrich.Options{
			BatchSize:           enrichCfg.Concurrency,
			SleepBetweenBatches: enrichCfg.SleepBetweenBatches,
			Retry: enrich.RetryPolicy{
				Attempts:   enrichCfg.RetryAttempts,
				Multiplier: enrichCfg.RetryMultiplier,
				MinWait:    enrichCfg.RetryMinWait,
				MaxWait:    enrichCfg.RetryMaxWait,
			},
		}, logger)
	}); err != nil {
		return nil, err
	}

	// Register mail store
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *mbox.Store {
		return mbox.NewStore(cfg.GetExtraction().MboxPath, logger)
	}); err != nil {
		return nil, err
	}

	// Register table store
	if err := container.Provide(xlsx.NewStore); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s *xlsx.Store) core.TableStore {
		return s
	}); err != nil {
		return nil, err
	}

	return container, nil
}
