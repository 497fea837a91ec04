package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const truncationMarker = "... [truncated]"

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	bracketedRe  = regexp.MustCompile(`<([^>]+)>`)
	addressRe    = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
)

// Sanitizer normalizes message text before it is stored or embedded
// into prompts.
type Sanitizer struct {
	maxBodySize int
	logger      *zap.Logger
}

// NewSanitizer creates a Sanitizer. maxBodySize <= 0 disables
// truncation.
func NewSanitizer(maxBodySize int, logger *zap.Logger) *Sanitizer {
	return &Sanitizer{
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

// CleanBody collapses whitespace and line breaks into single spaces
// and truncates the result to the configured maximum length, appending
// a truncation marker when content was cut.
func (s *Sanitizer) CleanBody(body string) string {
	if body == "" {
		return ""
	}

	cleaned := strings.TrimSpace(whitespaceRe.ReplaceAllString(body, " "))

	if s.maxBodySize > 0 && len(cleaned) > s.maxBodySize {
		truncated := cleaned[:s.maxBodySize]
		// Keep the cut on a valid UTF-8 boundary.
		for !utf8.ValidString(truncated) && len(truncated) > 0 {
			truncated = truncated[:len(truncated)-1]
		}
		if s.logger != nil {
			s.logger.Debug("Body truncated",
				zap.Int("original_size", len(cleaned)),
				zap.Int("truncated_size", len(truncated)),
				zap.Int("max_size", s.maxBodySize))
		}
		return truncated + truncationMarker
	}

	return cleaned
}

// ExtractAddress strips a display-name wrapper from a sender string,
// e.g. "John Doe <john@example.com>" -> "john@example.com". When no
// wrapper is present it falls back to scanning for an email pattern,
// and finally returns the trimmed input unchanged.
func ExtractAddress(sender string) string {
	if sender == "" {
		return ""
	}

	if m := bracketedRe.FindStringSubmatch(sender); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := addressRe.FindString(sender); m != "" {
		return strings.TrimSpace(m)
	}
	return strings.TrimSpace(sender)
}
