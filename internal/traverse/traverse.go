// Package traverse walks a message source, applies date and
// qualification filtering, and routes each item into the accepted,
// excluded or error bucket.
package traverse

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/anciri/mail-processing-workflow/internal/core"
	"github.com/anciri/mail-processing-workflow/internal/dates"
	"github.com/anciri/mail-processing-workflow/internal/extract"
	"github.com/anciri/mail-processing-workflow/internal/textutil"
)

// TagQualify marks records admitted through the fail-open path: the
// qualifier returned an error instead of a decision, or the message
// content could not be read for qualification at all.
const TagQualify = "ERROR_QUALIFY"

const dateUnreadableError = "Cannot read date (date filtering active)"

// Qualifier decides whether a message proceeds to extraction.
type Qualifier interface {
	Qualify(subject, body string) (qualifies bool, reason string)
}

// LocationResolver infers a location for excluded-record building.
type LocationResolver interface {
	Resolve(subject, body, senderEmail string) core.Location
}

// ProgressFunc receives a periodic signal while the traversal runs.
// It is advisory only and must not influence correctness.
type ProgressFunc func(total, accepted, excluded int)

// Result carries the three labeled buckets plus statistics of one
// traversal run.
type Result struct {
	Accepted []core.Record
	Excluded []core.ExcludedRecord
	Errors   []core.ProcessingError
	Stats    *core.ProcessingStats
}

// Engine iterates a message source on a single goroutine; the provider
// is assumed not safely shared across threads.
type Engine struct {
	qualifier        Qualifier
	extractor        *extract.Extractor
	resolver         LocationResolver
	sanitizer        *textutil.Sanitizer
	logger           *zap.Logger
	progressInterval int
	progress         ProgressFunc
}

// NewEngine creates a traversal engine. progressInterval <= 0 disables
// progress signals.
func NewEngine(
	qualifier Qualifier,
	extractor *extract.Extractor,
	resolver LocationResolver,
	sanitizer *textutil.Sanitizer,
	logger *zap.Logger,
	progressInterval int,
) *Engine {
	return &Engine{
		qualifier:        qualifier,
		extractor:        extractor,
		resolver:         resolver,
		sanitizer:        sanitizer,
		logger:           logger,
		progressInterval: progressInterval,
	}
}

// SetProgress registers a progress callback. Must be called before
// Traverse.
func (e *Engine) SetProgress(fn ProgressFunc) {
	e.progress = fn
}

// Traverse processes every item of source in provider order. start and
// end are inclusive bounds; a zero time leaves that bound open. Only a
// source-level iteration failure is returned as an error; everything
// below it is recovered into the buckets and counters.
func (e *Engine) Traverse(ctx context.Context, source core.MessageSource, start, end time.Time) (*Result, error) {
	res := &Result{Stats: core.NewProcessingStats()}
	filtering := !start.IsZero() || !end.IsZero()

	e.logger.Info("Starting folder traversal",
		zap.String("source", source.Name()),
		zap.Bool("date_filter", filtering))

	err := source.Each(ctx, func(msg core.RawMessage) error {
		res.Stats.TotalItems++

		if e.progress != nil && e.progressInterval > 0 && res.Stats.TotalItems%e.progressInterval == 0 {
			e.progress(res.Stats.TotalItems, len(res.Accepted), len(res.Excluded))
		}

		if filtering {
			msgTime, ok := dates.ForFiltering(msg)
			if !ok {
				// The item is dropped from both buckets: without a
				// timestamp the window decision cannot be made.
				res.Errors = append(res.Errors, core.ProcessingError{
					Error:   dateUnreadableError,
					Subject: subjectOrUnknown(msg),
				})
				return nil
			}
			if (!start.IsZero() && msgTime.Before(start)) || (!end.IsZero() && msgTime.After(end)) {
				res.Stats.FilteredByDate++
				return nil
			}
		}

		subject, subjErr := msg.Subject()
		body, bodyErr := msg.Body()
		if subjErr != nil || bodyErr != nil {
			// The content cannot be qualified; admit the message so
			// the extraction tags record what went wrong instead of
			// letting it vanish from every bucket.
			record := e.extractor.Extract(msg)
			record.ErrorTags = append(record.ErrorTags, TagQualify)
			e.logger.Warn("Message content unreadable, admitting without qualification",
				zap.NamedError("subject_error", subjErr),
				zap.NamedError("body_error", bodyErr))
			res.Accepted = append(res.Accepted, record)
			return nil
		}

		qualifies, reason, qualifyErr := e.qualify(subject, body)

		if !qualifies {
			if excluded, ok := e.buildExcluded(msg, subject, body, reason); ok {
				res.Excluded = append(res.Excluded, excluded)
			}
			return nil
		}

		record := e.extractor.Extract(msg)
		if qualifyErr != nil {
			// Fail-open admission is kept, but made visible.
			record.ErrorTags = append(record.ErrorTags, TagQualify)
			e.logger.Warn("Qualifier failed, admitting message",
				zap.String("subject", subject),
				zap.Error(qualifyErr))
		}
		res.Accepted = append(res.Accepted, record)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("traverse %s: %w", source.Name(), err)
	}

	res.Stats.Finalize(res.Accepted, res.Excluded, res.Errors)

	e.logger.Info("Traversal complete",
		zap.Int("total", res.Stats.TotalItems),
		zap.Int("accepted", res.Stats.ExtractedCount),
		zap.Int("excluded", res.Stats.ExcludedCount),
		zap.Int("errors", res.Stats.ErrorCount),
		zap.Int("filtered_by_date", res.Stats.FilteredByDate))

	return res, nil
}

// qualify shields the traversal from a panicking qualifier: a message
// that cannot be classified still proceeds to extraction rather than
// being silently dropped.
func (e *Engine) qualify(subject, body string) (qualifies bool, reason string, err error) {
	defer func() {
		if r := recover(); r != nil {
			qualifies = true
			reason = ""
			err = fmt.Errorf("qualifier panic: %v", r)
		}
	}()
	qualifies, reason = e.qualifier.Qualify(subject, body)
	return qualifies, reason, nil
}

// buildExcluded creates the excluded record best-effort; when a field
// needed for it cannot be read the record is simply omitted.
func (e *Engine) buildExcluded(msg core.RawMessage, subject, body, reason string) (core.ExcludedRecord, bool) {
	senderEmail := ""
	if addr, err := msg.SenderAddress(); err == nil {
		senderEmail = textutil.ExtractAddress(addr)
	}

	senderName, err := msg.SenderName()
	if err != nil {
		return core.ExcludedRecord{}, false
	}

	date := ""
	if received, err := msg.ReceivedTime(); err == nil && !received.IsZero() {
		date = received.Format(extract.DateLayout)
	}

	return core.ExcludedRecord{
		FromName:        senderName,
		FromEmail:       senderEmail,
		Date:            date,
		Subject:         subject,
		Body:            e.sanitizer.CleanBody(body),
		Location:        e.resolver.Resolve(subject, body, senderEmail),
		ExclusionReason: reason,
	}, true
}

func subjectOrUnknown(msg core.RawMessage) string {
	if subject, err := msg.Subject(); err == nil {
		return subject
	}
	return "Unknown"
}
