package enrich

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/anciri/mail-processing-workflow/internal/core"
)

// Placeholder values used when a response is missing, malformed or a
// field is absent. Every result always carries the full schema.
const (
	valueNotSpecified  = "Not specified"
	valueNotMentioned  = "Not mentioned"
	valueNoneSpecified = "None specified"
	valueParseError    = "Parse error"
	valueNA            = "N/A"
)

// Control characters that are illegal in XML documents.
var controlCharsRe = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F]")

// responseEnvelope mirrors the JSON schema requested from the
// completion service.
type responseEnvelope struct {
	RecordID    string `json:"record_id"`
	CompanyInfo struct {
		Name    string `json:"name"`
		Website string `json:"website"`
		Country string `json:"country"`
	} `json:"company_info"`
	EmailCategory           string `json:"email_category"`
	ProductCategory         string `json:"product_category"`
	EquipmentRequested      string `json:"equipment_requested"`
	TechnicalSpecifications string `json:"technical_specifications"`
	SubjectBodyCorrelation  string `json:"subject_body_correlation"`
}

// ParseResponse converts a raw completion into an EnrichmentResult.
// JSON objects are accepted directly; legacy <analysis> XML output is
// parsed tolerantly with a named default for every absent field.
// Unparseable content maps to a sentinel result, never to an error.
func ParseResponse(content string) core.EnrichmentResult {
	content = strings.TrimSpace(content)
	if content == "" {
		return emptyResponseResult()
	}

	if result, ok := parseJSON(content); ok {
		return result
	}
	return parseXML(content)
}

// parseJSON accepts a bare JSON object or one embedded in surrounding
// prose, located by brace scanning.
func parseJSON(content string) (core.EnrichmentResult, bool) {
	payload := content
	if !strings.HasPrefix(payload, "{") {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start < 0 || end <= start {
			return core.EnrichmentResult{}, false
		}
		payload = content[start : end+1]
	}

	var envelope responseEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return core.EnrichmentResult{}, false
	}

	return core.EnrichmentResult{
		RecordID:                defaulted(envelope.RecordID, "Not found"),
		CompanyName:             defaulted(envelope.CompanyInfo.Name, valueNotSpecified),
		CompanyWebsite:          defaulted(envelope.CompanyInfo.Website, valueNotMentioned),
		CompanyCountry:          defaulted(envelope.CompanyInfo.Country, valueNotSpecified),
		EmailCategory:           defaulted(envelope.EmailCategory, valueNotSpecified),
		ProductCategory:         defaulted(envelope.ProductCategory, valueNotSpecified),
		EquipmentRequested:      defaulted(envelope.EquipmentRequested, valueNotSpecified),
		TechnicalSpecifications: defaulted(envelope.TechnicalSpecifications, valueNoneSpecified),
		SubjectBodyCorrelation:  defaulted(envelope.SubjectBodyCorrelation, valueNotSpecified),
	}, true
}

// parseXML handles the legacy <analysis> output contract. The document
// is extracted from any surrounding text, stripped of control
// characters and read field by field.
func parseXML(content string) core.EnrichmentResult {
	if start := strings.Index(content, "<analysis>"); start >= 0 {
		if end := strings.Index(content, "</analysis>"); end > start {
			content = content[start : end+len("</analysis>")]
		}
	}

	clean := controlCharsRe.ReplaceAllString(content, "")
	if strings.TrimSpace(clean) == "" {
		return emptyResponseResult()
	}

	doc, err := xmlquery.Parse(strings.NewReader(clean))
	if err != nil {
		return parseErrorResult()
	}
	analysis := xmlquery.FindOne(doc, "//analysis")
	if analysis == nil {
		return parseErrorResult()
	}

	return core.EnrichmentResult{
		RecordID:                findText(analysis, "record_id", "Not found"),
		CompanyName:             findText(analysis, "company_info/name", valueNotSpecified),
		CompanyWebsite:          findText(analysis, "company_info/website", valueNotMentioned),
		CompanyCountry:          findText(analysis, "company_info/country", valueNotSpecified),
		EmailCategory:           findText(analysis, "email_category", valueNotSpecified),
		ProductCategory:         findText(analysis, "product_category", valueNotSpecified),
		EquipmentRequested:      findText(analysis, "equipment_requested", valueNotSpecified),
		TechnicalSpecifications: findText(analysis, "technical_specifications", valueNoneSpecified),
		SubjectBodyCorrelation:  findText(analysis, "subject_body_correlation", valueNotSpecified),
	}
}

func findText(node *xmlquery.Node, path, fallback string) string {
	child := xmlquery.FindOne(node, path)
	if child == nil {
		return fallback
	}
	text := strings.TrimSpace(child.InnerText())
	if text == "" {
		return fallback
	}
	return text
}

func defaulted(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// apiErrorResult is the sentinel substituted after the retry policy is
// exhausted.
func apiErrorResult() core.EnrichmentResult {
	return sentinel("error", "API Error")
}

// parseErrorResult is the sentinel for unparseable content.
func parseErrorResult() core.EnrichmentResult {
	return core.EnrichmentResult{
		RecordID:                "Parse error",
		CompanyName:             valueParseError,
		CompanyWebsite:          valueParseError,
		CompanyCountry:          valueParseError,
		EmailCategory:           valueParseError,
		ProductCategory:         valueParseError,
		EquipmentRequested:      valueParseError,
		TechnicalSpecifications: valueParseError,
		SubjectBodyCorrelation:  valueParseError,
	}
}

// emptyResponseResult is the sentinel for an empty completion.
func emptyResponseResult() core.EnrichmentResult {
	return sentinel("Empty response", valueNA)
}

func sentinel(recordID, companyName string) core.EnrichmentResult {
	return core.EnrichmentResult{
		RecordID:                recordID,
		CompanyName:             companyName,
		CompanyWebsite:          valueNotMentioned,
		CompanyCountry:          valueNotSpecified,
		EmailCategory:           valueNotSpecified,
		ProductCategory:         valueNotSpecified,
		EquipmentRequested:      valueNotSpecified,
		TechnicalSpecifications: valueNoneSpecified,
		SubjectBodyCorrelation:  valueNotSpecified,
	}
}

// SentinelRecordIDs lists the record-id markers a sentinel result may
// carry; the assembler treats these as position-aligned rather than
// identifier-matched.
var SentinelRecordIDs = map[string]bool{
	"error":          true,
	"Parse error":    true,
	"Empty response": true,
	"Not found":      true,
}
