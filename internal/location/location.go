// Package location infers a sender country from email-domain suffixes
// or from country names mentioned in the message text.
package location

import (
	"regexp"
	"strings"
	"sync"

	"github.com/anciri/mail-processing-workflow/internal/core"
)

type domainCountry struct {
	suffix  string
	country string
}

// Country-code domain suffixes, checked in order; the first match
// short-circuits the free-text scan.
var domainCountries = []domainCountry{
	{".es", "Spain"},
	{".mx", "Mexico"},
	{".ar", "Argentina"},
	{".cl", "Chile"},
	{".co", "Colombia"},
	{".pe", "Peru"},
	{".ve", "Venezuela"},
	{".ec", "Ecuador"},
	{".bo", "Bolivia"},
	{".py", "Paraguay"},
	{".uy", "Uruguay"},
	{".cr", "Costa Rica"},
	{".pa", "Panama"},
	{".gt", "Guatemala"},
	{".hn", "Honduras"},
	{".ni", "Nicaragua"},
	{".sv", "El Salvador"},
	{".do", "Dominican Republic"},
	{".cu", "Cuba"},
	{".pr", "Puerto Rico"},
	{".us", "USA"},
	{".ca", "Canada"},
	{".br", "Brazil"},
	{".pt", "Portugal"},
	{".fr", "France"},
	{".de", "Germany"},
	{".it", "Italy"},
	{".uk", "UK"},
	{".cn", "China"},
	{".in", "India"},
	{".jp", "Japan"},
	{".au", "Australia"},
	{".nz", "New Zealand"},
}

// Country names scanned in the subject+body text, first match in list
// order wins.
var countryNames = []string{
	"España", "Spain", "México", "Mexico", "Argentina", "Chile", "Colombia",
	"Perú", "Peru", "Venezuela", "Ecuador", "Bolivia", "Paraguay", "Uruguay",
	"Costa Rica", "Panamá", "Panama", "Guatemala", "Honduras", "Nicaragua",
	"El Salvador", "República Dominicana", "Dominican Republic", "Cuba",
	"Puerto Rico", "USA", "United States", "Canada", "Brasil", "Brazil",
	"Portugal", "France", "Germany", "Italy", "UK", "United Kingdom",
	"China", "India", "Japan", "Australia", "New Zealand",
}

// Resolver infers a Location for a message. City and State are
// reserved and never populated by the current algorithm.
type Resolver struct {
	patterns    map[string]*regexp.Regexp
	compileOnce sync.Once
}

// NewResolver creates a Resolver with the built-in country tables.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve infers a country from the sender's domain suffix first, then
// from country names mentioned in subject or body.
func (r *Resolver) Resolve(subject, body, senderEmail string) core.Location {
	var loc core.Location

	if country := r.fromDomain(senderEmail); country != "" {
		loc.Country = country
		return loc
	}

	loc.Country = r.fromText(subject + " " + body)
	return loc
}

func (r *Resolver) fromDomain(email string) string {
	if email == "" {
		return ""
	}
	lower := strings.ToLower(email)
	for _, dc := range domainCountries {
		if strings.HasSuffix(lower, dc.suffix) {
			return dc.country
		}
	}
	return ""
}

func (r *Resolver) fromText(text string) string {
	if text == "" {
		return ""
	}
	r.compileOnce.Do(func() {
		r.patterns = make(map[string]*regexp.Regexp, len(countryNames))
		for _, name := range countryNames {
			r.patterns[name] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		}
	})
	for _, name := range countryNames {
		if r.patterns[name].MatchString(text) {
			return name
		}
	}
	return ""
}
