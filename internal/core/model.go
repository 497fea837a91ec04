package core

import (
	"fmt"
	"sort"
	"strings"
)

// Location represents a location inferred for a message sender.
// City and State are reserved fields; the current resolver only
// populates Country.
type Location struct {
	City    string
	State   string
	Country string
}

// String renders the non-empty parts as a comma-joined list.
func (l Location) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.State, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Record represents one accepted message after extraction. Field-level
// extraction failures are tagged in ErrorTags; a record with tags is
// "partial" but is never dropped.
type Record struct {
	FromName    string
	FromEmail   string
	To          string
	CC          string
	Date        string
	Subject     string
	Body        string
	Attachments string
	Location    Location
	ErrorTags   []string
}

// Complete reports whether every field was extracted without error.
func (r *Record) Complete() bool {
	return len(r.ErrorTags) == 0
}

// ExcludedRecord represents a message that failed qualification.
type ExcludedRecord struct {
	FromName        string
	FromEmail       string
	Date            string
	Subject         string
	Body            string
	Location        Location
	ExclusionReason string
}

// ProcessingError records a message that could not be date-resolved
// while date filtering was active.
type ProcessingError struct {
	Error   string
	Subject string
	Date    string
}

// ProcessingStats holds the running counters for one traversal.
type ProcessingStats struct {
	TotalItems        int
	ExtractedCount    int
	ExcludedCount     int
	ErrorCount        int
	FilteredByDate    int
	CompleteCount     int
	PartialErrorCount int
	ErrorBreakdown    map[string]int
}

// NewProcessingStats creates an empty stats accumulator.
func NewProcessingStats() *ProcessingStats {
	return &ProcessingStats{ErrorBreakdown: make(map[string]int)}
}

// Finalize computes the derived counters from the traversal buckets.
func (s *ProcessingStats) Finalize(records []Record, excluded []ExcludedRecord, errs []ProcessingError) {
	s.ExtractedCount = len(records)
	s.ExcludedCount = len(excluded)
	s.ErrorCount = len(errs)
	s.CompleteCount = 0
	s.PartialErrorCount = 0
	for i := range records {
		if records[i].Complete() {
			s.CompleteCount++
			continue
		}
		s.PartialErrorCount++
		for _, tag := range records[i].ErrorTags {
			s.ErrorBreakdown[tag]++
		}
	}
}

// String formats the statistics for display.
func (s *ProcessingStats) String() string {
	var b strings.Builder
	sep := strings.Repeat("=", 60)
	fmt.Fprintf(&b, "%s\nPROCESSING STATISTICS\n%s\n", sep, sep)
	fmt.Fprintf(&b, "Total items processed: %d\n", s.TotalItems)
	fmt.Fprintf(&b, "Extracted records (RFQ): %d\n", s.ExtractedCount)
	fmt.Fprintf(&b, "  - Complete (no errors): %d\n", s.CompleteCount)
	fmt.Fprintf(&b, "  - Partial (some errors): %d\n", s.PartialErrorCount)
	fmt.Fprintf(&b, "Excluded records (not RFQ): %d\n", s.ExcludedCount)
	fmt.Fprintf(&b, "Errors (couldn't process): %d\n", s.ErrorCount)
	if s.FilteredByDate > 0 {
		fmt.Fprintf(&b, "Filtered by date: %d\n", s.FilteredByDate)
	}
	if len(s.ErrorBreakdown) > 0 {
		b.WriteString("\nError breakdown:\n")
		tags := make([]string, 0, len(s.ErrorBreakdown))
		for tag := range s.ErrorBreakdown {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			fmt.Fprintf(&b, "  - %s: %d\n", tag, s.ErrorBreakdown[tag])
		}
	}
	b.WriteString(sep)
	return b.String()
}

// EnrichmentResult holds the structured fields produced by the
// completion service for one record. Every field is always populated;
// failures are represented by sentinel values, never by missing fields.
type EnrichmentResult struct {
	RecordID                string
	CompanyName             string
	CompanyWebsite          string
	CompanyCountry          string
	EmailCategory           string
	ProductCategory         string
	EquipmentRequested      string
	TechnicalSpecifications string
	SubjectBodyCorrelation  string
}
