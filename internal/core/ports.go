package core

import (
	"context"
	"time"
)

// RawMessage is a provider-supplied message object. Any accessor may
// fail independently; callers must treat every accessor as fallible.
type RawMessage interface {
	SenderName() (string, error)
	SenderAddress() (string, error)
	To() (string, error)
	CC() (string, error)
	ReceivedTime() (time.Time, error)
	SentTime() (time.Time, error)
	CreationTime() (time.Time, error)
	Subject() (string, error)
	Body() (string, error)
	AttachmentNames() ([]string, error)
}

// MessageSource is an opaque provider of message objects in native
// order. A failure to open or iterate the source is fatal for the
// whole traversal run.
type MessageSource interface {
	// Name identifies the source (folder path) for logging.
	Name() string

	// Each calls fn once per message in provider order. The provider
	// is not safe for concurrent use; Each must be driven from a
	// single goroutine.
	Each(ctx context.Context, fn func(msg RawMessage) error) error
}

// CompletionClient defines the interface for the text-completion
// service used during enrichment.
type CompletionClient interface {
	// Complete sends a prompt and returns the raw completion text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// TableStore persists and reloads the tabular outputs of a run.
type TableStore interface {
	SaveRecords(path string, records []Record) error
	SaveExcluded(path string, excluded []ExcludedRecord) error
	SaveErrors(path string, errs []ProcessingError) error
	LoadRecords(path string) ([]Record, error)
	SaveMerged(path string, records []Record, results []EnrichmentResult) error
}
