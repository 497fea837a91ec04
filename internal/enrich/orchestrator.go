// Package enrich batches accepted records through a text-completion
// service and parses the structured responses tolerantly.
package enrich

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/anciri/mail-processing-workflow/internal/core"
)

// RetryPolicy parameterizes the per-call retry behavior. One policy
// instance is applied uniformly to every call.
type RetryPolicy struct {
	Attempts   int
	Multiplier float64
	MinWait    time.Duration
	MaxWait    time.Duration
}

// Options configures an Orchestrator.
type Options struct {
	// BatchSize is the concurrency limit: at most BatchSize remote
	// calls are in flight at any instant.
	BatchSize int

	// SleepBetweenBatches is an optional fixed delay after each batch.
	SleepBetweenBatches time.Duration

	Retry RetryPolicy
}

// Orchestrator issues one completion call per record, bounded by a
// static batch-sized admission policy, and returns exactly one result
// per input record in input order. It never aborts on a single
// record's failure.
type Orchestrator struct {
	client  core.CompletionClient
	prompts *PromptBuilder
	opts    Options
	logger  *zap.Logger
}

// NewOrchestrator creates an Orchestrator. The prompt builder is fixed
// for the orchestrator's lifetime; swapping vocabularies requires a
// new instance.
func NewOrchestrator(client core.CompletionClient, prompts *PromptBuilder, opts Options, logger *zap.Logger) *Orchestrator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1
	}
	if opts.Retry.Attempts <= 0 {
		opts.Retry.Attempts = 1
	}
	return &Orchestrator{
		client:  client,
		prompts: prompts,
		opts:    opts,
		logger:  logger,
	}
}

// Enrich processes records in fixed-size batches. Within a batch each
// call runs concurrently and writes into its own index slot, so the
// returned slice order always equals the input order.
func (o *Orchestrator) Enrich(ctx context.Context, records []core.Record) []core.EnrichmentResult {
	results := make([]core.EnrichmentResult, len(records))
	if len(records) == 0 {
		return results
	}

	o.logger.Info("Starting enrichment",
		zap.Int("records", len(records)),
		zap.Int("concurrency", o.opts.BatchSize))

	for batchStart := 0; batchStart < len(records); batchStart += o.opts.BatchSize {
		batchEnd := batchStart + o.opts.BatchSize
		if batchEnd > len(records) {
			batchEnd = len(records)
		}

		o.logger.Debug("Processing batch",
			zap.Int("from", batchStart+1),
			zap.Int("to", batchEnd),
			zap.Int("total", len(records)))

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx] = o.enrichOne(ctx, idx, &records[idx])
			}(i)
		}
		wg.Wait()

		if o.opts.SleepBetweenBatches > 0 && batchEnd < len(records) {
			select {
			case <-ctx.Done():
				// Remaining slots are filled with the failure
				// sentinel so the output length still matches.
				for i := batchEnd; i < len(records); i++ {
					results[i] = apiErrorResult()
				}
				return results
			case <-time.After(o.opts.SleepBetweenBatches):
			}
		}
	}

	o.logger.Info("Enrichment complete", zap.Int("results", len(results)))
	return results
}

// enrichOne runs the retry-wrapped call for a single record and maps
// every failure mode to a sentinel result.
func (o *Orchestrator) enrichOne(ctx context.Context, idx int, record *core.Record) core.EnrichmentResult {
	id := idx + 1

	prompt, err := o.prompts.Build(id, record)
	if err != nil {
		o.logger.Error("Prompt build failed", zap.Int("record", id), zap.Error(err))
		return apiErrorResult()
	}

	content, err := o.completeWithRetry(ctx, prompt)
	if err != nil {
		o.logger.Warn("Enrichment call failed after retries",
			zap.Int("record", id),
			zap.Error(err))
		return apiErrorResult()
	}

	return ParseResponse(content)
}

func (o *Orchestrator) completeWithRetry(ctx context.Context, prompt string) (string, error) {
	policy := o.opts.Retry

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.MinWait
	bo.MaxInterval = policy.MaxWait
	if policy.Multiplier > 0 {
		bo.Multiplier = policy.Multiplier
	}
	bo.MaxElapsedTime = 0

	var content string
	operation := func() error {
		var callErr error
		content, callErr = o.client.Complete(ctx, SystemPrompt, prompt)
		return callErr
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(policy.Attempts-1)), ctx))
	if err != nil {
		return "", err
	}
	return content, nil
}
