// Package qualify implements the rule-based admission gate that
// separates requests-for-quotation from auto-replies and noise.
package qualify

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Keywords that suggest an RFQ or inquiry, in English and Spanish.
var rfqKeywords = []string{
	"rfq", "request for quotation", "request for quote", "cotización", "cotizacion",
	"presupuesto", "quote", "quotation", "precio", "price", "coste", "cost",
	"oferta", "offer", "propuesta", "proposal", "inquiry", "consulta",
	"información", "informacion", "information", "interesado", "interested",
	"necesito", "need", "require", "requerimos", "solicitud", "request",
}

// Keywords that mark auto-replies, notifications and list mail. These
// are checked first so exclusion always wins over a coincidental RFQ
// keyword.
var exclusionKeywords = []string{
	"out of office", "fuera de la oficina", "automatic reply", "respuesta automática",
	"unsubscribe", "darse de baja", "newsletter", "boletín",
	"do not reply", "no responder", "noreply", "no-reply",
}

// Filter classifies a (subject, body) pair as RFQ-qualifying or not.
// The heuristic is tolerant of false positives and negatives; it is a
// coarse gate before the costlier enrichment stage.
type Filter struct {
	rfq       []string
	exclusion []string
	logger    *zap.Logger
}

// NewFilter creates a Filter with the built-in keyword sets.
func NewFilter(logger *zap.Logger) *Filter {
	return &Filter{
		rfq:       rfqKeywords,
		exclusion: exclusionKeywords,
		logger:    logger,
	}
}

// Qualify decides whether a message proceeds to extraction. It returns
// the decision and a human-readable reason. The result is
// deterministic for identical inputs.
func (f *Filter) Qualify(subject, body string) (bool, string) {
	if subject == "" && body == "" {
		return false, "Empty email"
	}

	combined := strings.ToLower(subject) + " " + strings.ToLower(body)

	for _, keyword := range f.exclusion {
		if strings.Contains(combined, keyword) {
			return false, fmt.Sprintf("Auto-reply or notification (keyword: %s)", keyword)
		}
	}

	for _, keyword := range f.rfq {
		if strings.Contains(combined, keyword) {
			return true, "RFQ keyword found"
		}
	}

	// Question marks suggest an inquiry even without keywords.
	if strings.Contains(subject, "?") || strings.Count(body, "?") >= 2 {
		return true, "Contains questions"
	}

	return false, "No RFQ keywords or indicators found"
}
