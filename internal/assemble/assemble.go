// Package assemble merges enrichment output back onto the source
// records for the final table.
package assemble

import (
	"fmt"
	"strconv"

	"github.com/anciri/mail-processing-workflow/internal/core"
	"github.com/anciri/mail-processing-workflow/internal/enrich"
)

// Merge validates that results line up with records and returns the
// pair ready for column concatenation. Alignment is positional, but
// each result carries the 1-based identifier it was produced for; a
// non-sentinel identifier that disagrees with its position fails
// loudly instead of silently misaligning rows.
func Merge(records []core.Record, results []core.EnrichmentResult) error {
	if len(records) != len(results) {
		return fmt.Errorf("assemble: %d records but %d enrichment results", len(records), len(results))
	}

	for i := range results {
		id := results[i].RecordID
		if enrich.SentinelRecordIDs[id] {
			continue
		}
		n, err := strconv.Atoi(id)
		if err != nil {
			// A free-form id the model invented; keep the row but it
			// cannot contradict the position.
			continue
		}
		if n != i+1 {
			return fmt.Errorf("assemble: result at row %d carries record id %d", i+1, n)
		}
	}
	return nil
}
