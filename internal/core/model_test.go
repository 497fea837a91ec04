package core

import (
	"strings"
	"testing"
)

func TestLocationString(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{"empty", Location{}, ""},
		{"country only", Location{Country: "Spain"}, "Spain"},
		{"all parts", Location{City: "Madrid", State: "Madrid", Country: "Spain"}, "Madrid, Madrid, Spain"},
		{"gap in the middle", Location{City: "Lima", Country: "Peru"}, "Lima, Peru"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcessingStats_Finalize(t *testing.T) {
	stats := NewProcessingStats()
	stats.TotalItems = 6
	stats.FilteredByDate = 1

	records := []Record{
		{Subject: "complete"},
		{Subject: "partial", ErrorTags: []string{"ERROR_BODY", "ERROR_CC"}},
		{Subject: "partial too", ErrorTags: []string{"ERROR_BODY"}},
	}
	excluded := []ExcludedRecord{{Subject: "noise"}}
	errs := []ProcessingError{{Error: "Cannot read date (date filtering active)"}}

	stats.Finalize(records, excluded, errs)

	if stats.ExtractedCount != 3 || stats.ExcludedCount != 1 || stats.ErrorCount != 1 {
		t.Errorf("counts = %d/%d/%d", stats.ExtractedCount, stats.ExcludedCount, stats.ErrorCount)
	}
	if stats.CompleteCount != 1 || stats.PartialErrorCount != 2 {
		t.Errorf("complete/partial = %d/%d", stats.CompleteCount, stats.PartialErrorCount)
	}
	if stats.ErrorBreakdown["ERROR_BODY"] != 2 || stats.ErrorBreakdown["ERROR_CC"] != 1 {
		t.Errorf("breakdown = %v", stats.ErrorBreakdown)
	}
}

func TestProcessingStats_String(t *testing.T) {
	stats := NewProcessingStats()
	stats.TotalItems = 2
	stats.Finalize([]Record{{ErrorTags: []string{"ERROR_DATE"}}}, nil, nil)

	out := stats.String()
	for _, fragment := range []string{
		"PROCESSING STATISTICS",
		"Total items processed: 2",
		"Extracted records (RFQ): 1",
		"Error breakdown:",
		"ERROR_DATE: 1",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("stats output missing %q:\n%s", fragment, out)
		}
	}
}

func TestRecordComplete(t *testing.T) {
	clean := Record{Subject: "ok"}
	if !clean.Complete() {
		t.Error("record without tags must be complete")
	}
	tagged := Record{ErrorTags: []string{"ERROR_TO"}}
	if tagged.Complete() {
		t.Error("tagged record must not be complete")
	}
}
