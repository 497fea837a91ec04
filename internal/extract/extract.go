// Package extract converts raw message objects into structured
// records, tolerating per-field failures independently.
package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/anciri/mail-processing-workflow/internal/core"
	"github.com/anciri/mail-processing-workflow/internal/location"
	"github.com/anciri/mail-processing-workflow/internal/textutil"
)

// Error tags appended when a single field cannot be read. Tags are
// non-exclusive; a record may carry several.
const (
	TagFromName    = "ERROR_FROM_NAME"
	TagFromEmail   = "ERROR_FROM_EMAIL"
	TagTo          = "ERROR_TO"
	TagCC          = "ERROR_CC"
	TagDate        = "ERROR_DATE"
	TagSubject     = "ERROR_SUBJECT"
	TagBody        = "ERROR_BODY"
	TagAttachments = "ERROR_ATTACHMENTS"
	TagLocation    = "ERROR_LOCATION"
)

// DateLayout is the formatted-date layout used in output tables.
const DateLayout = "2006-01-02 15:04:05"

// Extractor builds records out of raw messages. Each field access is
// attempted independently; a failure tags the record and leaves the
// field at its empty default, but never drops the record.
type Extractor struct {
	sanitizer *textutil.Sanitizer
	resolver  *location.Resolver
	logger    *zap.Logger
}

// New creates an Extractor.
func New(sanitizer *textutil.Sanitizer, resolver *location.Resolver, logger *zap.Logger) *Extractor {
	return &Extractor{
		sanitizer: sanitizer,
		resolver:  resolver,
		logger:    logger,
	}
}

// Extract reads every field of msg into a Record. Partial extraction
// is always preferred over rejection.
func (e *Extractor) Extract(msg core.RawMessage) core.Record {
	var record core.Record
	var tags []string

	if name, err := msg.SenderName(); err != nil {
		tags = append(tags, TagFromName)
	} else {
		record.FromName = name
	}

	if addr, err := msg.SenderAddress(); err != nil {
		tags = append(tags, TagFromEmail)
	} else {
		record.FromEmail = textutil.ExtractAddress(addr)
	}

	if to, err := msg.To(); err != nil {
		tags = append(tags, TagTo)
	} else {
		record.To = to
	}

	if cc, err := msg.CC(); err != nil {
		tags = append(tags, TagCC)
	} else {
		record.CC = cc
	}

	if received, err := msg.ReceivedTime(); err != nil {
		tags = append(tags, TagDate)
	} else if !received.IsZero() {
		record.Date = received.Format(DateLayout)
	}

	if subject, err := msg.Subject(); err != nil {
		tags = append(tags, TagSubject)
	} else {
		record.Subject = subject
	}

	if body, err := msg.Body(); err != nil {
		tags = append(tags, TagBody)
	} else {
		record.Body = e.sanitizer.CleanBody(body)
	}

	if names, err := msg.AttachmentNames(); err != nil {
		tags = append(tags, TagAttachments)
	} else {
		record.Attachments = strings.Join(names, "; ")
	}

	record.Location = e.resolver.Resolve(record.Subject, record.Body, record.FromEmail)

	record.ErrorTags = tags
	if len(tags) > 0 && e.logger != nil {
		e.logger.Debug("Partial extraction",
			zap.String("subject", record.Subject),
			zap.Strings("tags", tags))
	}
	return record
}
