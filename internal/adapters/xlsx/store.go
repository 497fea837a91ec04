// Package xlsx persists the run's tabular outputs as spreadsheet
// files and reads the accepted table back for decoupled enrichment
// runs.
package xlsx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/anciri/mail-processing-workflow/internal/assemble"
	"github.com/anciri/mail-processing-workflow/internal/core"
)

const sheetName = "Sheet1"

var recordHeaders = []string{
	"From_Name", "From_Email", "To", "CC", "Date",
	"Subject", "Body", "Attachments", "Location", "Error_Tags",
}

var excludedHeaders = []string{
	"From_Name", "From_Email", "Date", "Subject", "Body",
	"Location", "Exclusion_Reason",
}

var errorHeaders = []string{"Error", "Subject", "Date"}

var enrichmentHeaders = []string{
	"Record_ID", "Company_Name", "Company_Website", "Company_Country",
	"Email_Category", "Product_Category", "Equipment_Requested",
	"Technical_Specifications", "Subject_Body_Correlation",
}

// Store reads and writes spreadsheet tables with the fixed headers of
// each record type.
type Store struct {
	logger *zap.Logger
}

// NewStore creates a Store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{logger: logger}
}

// SaveRecords writes the accepted table.
func (s *Store) SaveRecords(path string, records []core.Record) error {
	rows := make([][]string, 0, len(records))
	for i := range records {
		rows = append(rows, recordRow(&records[i]))
	}
	return s.write(path, recordHeaders, rows)
}

// SaveExcluded writes the excluded table.
func (s *Store) SaveExcluded(path string, excluded []core.ExcludedRecord) error {
	rows := make([][]string, 0, len(excluded))
	for i := range excluded {
		e := &excluded[i]
		rows = append(rows, []string{
			e.FromName, e.FromEmail, e.Date, e.Subject, e.Body,
			e.Location.String(), e.ExclusionReason,
		})
	}
	return s.write(path, excludedHeaders, rows)
}

// SaveErrors writes the processing-errors table.
func (s *Store) SaveErrors(path string, errs []core.ProcessingError) error {
	rows := make([][]string, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, []string{e.Error, e.Subject, e.Date})
	}
	return s.write(path, errorHeaders, rows)
}

// SaveMerged writes the final table: record columns concatenated with
// the enrichment columns, aligned by row position after identifier
// reconciliation.
func (s *Store) SaveMerged(path string, records []core.Record, results []core.EnrichmentResult) error {
	if err := assemble.Merge(records, results); err != nil {
		return err
	}

	rows := make([][]string, 0, len(records))
	for i := range records {
		r := &results[i]
		row := append(recordRow(&records[i]),
			r.RecordID, r.CompanyName, r.CompanyWebsite, r.CompanyCountry,
			r.EmailCategory, r.ProductCategory, r.EquipmentRequested,
			r.TechnicalSpecifications, r.SubjectBodyCorrelation)
		rows = append(rows, row)
	}

	headers := append(append([]string{}, recordHeaders...), enrichmentHeaders...)
	return s.write(path, headers, rows)
}

// LoadRecords reads the accepted table back.
func (s *Store) LoadRecords(path string) ([]core.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Map header positions so column reordering in a reviewed file
	// does not corrupt the reload.
	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[name] = i
	}

	records := make([]core.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		record := core.Record{
			FromName:    cell("From_Name"),
			FromEmail:   cell("From_Email"),
			To:          cell("To"),
			CC:          cell("CC"),
			Date:        cell("Date"),
			Subject:     cell("Subject"),
			Body:        cell("Body"),
			Attachments: cell("Attachments"),
			Location:    parseLocation(cell("Location")),
		}
		if tags := cell("Error_Tags"); tags != "" {
			record.ErrorTags = strings.Split(tags, "; ")
		}
		records = append(records, record)
	}

	s.logger.Info("Loaded records", zap.String("path", path), zap.Int("count", len(records)))
	return records, nil
}

func (s *Store) write(path string, headers []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	if err := sw.SetRow("A1", toCells(headers)); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := sw.SetRow(cellRef, toCells(row)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush rows: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save table %s: %w", path, err)
	}

	s.logger.Info("Saved table", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func recordRow(r *core.Record) []string {
	return []string{
		r.FromName, r.FromEmail, r.To, r.CC, r.Date,
		r.Subject, r.Body, r.Attachments, r.Location.String(),
		strings.Join(r.ErrorTags, "; "),
	}
}

// parseLocation reverses Location.String for reloaded tables. Only the
// country is populated by the resolver, so a single segment maps back
// to Country.
func parseLocation(value string) core.Location {
	if value == "" {
		return core.Location{}
	}
	parts := strings.Split(value, ", ")
	switch len(parts) {
	case 1:
		return core.Location{Country: parts[0]}
	case 2:
		return core.Location{State: parts[0], Country: parts[1]}
	default:
		return core.Location{City: parts[0], State: parts[1], Country: strings.Join(parts[2:], ", ")}
	}
}
