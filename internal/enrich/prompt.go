package enrich

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/anciri/mail-processing-workflow/internal/core"
)

// SystemPrompt primes the completion service for structured analysis.
const SystemPrompt = `You are an expert AI analyst specializing in processing business emails related to water treatment equipment and solutions.
Your task is to analyze email content and extract structured data in JSON format.`

// DefaultCategories is the built-in product categorization vocabulary.
// It can be replaced through configuration before any enrichment call
// is issued.
var DefaultCategories = []string{
	"Agitadores", "Aireadores", "Almacenamiento", "Arqueta", "Asesoramiento",
	"Biodigestor", "Biodiscos", "Bombas", "Canal Parshall", "Cavitador CAF",
	"Clarificadores", "Colector", "Compresor", "Compuerta", "Compuertas",
	"Contenedor", "Cuadro electrico", "Cucharas bivalva", "Decantador centrífugo",
	"Decantador lamelar", "Decantador SBR", "Desarenador", "Desarenador cicloidal",
	"Desarenador desengrasador", "Desbaste", "Deshidratación purín",
	"Deshidratador centrifugo", "Deshidratador filtro pensa",
	"Desinfección por cloración", "Desnatador", "Difusores",
	"Equipo para sistema de agua desalinizada", "Equipos electromecánicos",
	"Equipos pretratamiento y espesamiento", "Estudios", "Evaporadaror",
	"Fabricación planta tratamiento", "Filtración", "Filtro carbon activado",
	"Filtro prensa", "Floculador", "Floculante", "Generador de microburbuja",
	"Generador de Ozono", "Instrumentación", "Inyector", "Mantenimiento",
	"Membranas MBR", "Mezclador", "Osmosis inversa", "Pasamuro",
	"Planta de biogás", "Planta de pretratamiento",
	"Planta de pretratamiento compacta", "Planta de tratamiento",
	"Planta pilloto", "Planta poli", "Planta tratamiento compacta",
	"PLC de control", "Polipastos", "Polymer feed pump", "Pozo de bombeos",
	"pressure booster pump", "Reja de desbaste", "Reja desbaste", "Rental and",
	"Repuestos Tornillo deshidratador de lodo", "Sacor filtrantes",
	"Separador de grasas", "Separador de hidrocarburos",
	"Separador solido liquido", "Separadores de lodos ciclónicos",
	"Silo decantador", "Sinfin", "Sistema CAF", "Sistema coagulacion floculación",
	"Sistema DAF", "sistema de extracción de lodos",
	"Sistema de medición continua", "Sistema de neutralización de gas clorado",
	"Sistema de ultrafiltración", "Sistema desalinización",
	"Sistema desodorización", "Sistema electroquimico", "Sistema FCM",
	"Sistema llenado botellas", "Sistema lodos activados", "Sistema MBBR",
	"Sistema MBR", "Sistema SBR", "Soplante", "Tamiz compactador",
	"Tamiz de aliviadero", "Tamiz rotativo", "Tanque de mazcla",
	"Tanque de tormentas", "Tolva", "Tornillo deshidratador de lodo",
	"Tratamiento biológico", "Tratamiento reactores secuenciales",
	"Tratamiento terciario", "Tubos", "Valvulas", "Varios",
}

// The vocabulary and record block are bound through named template
// slots so a customized category list can never be silently left out.
const userPromptText = `You will be analyzing email data extracted from business correspondence related to water treatment equipment and solutions.

<email_data>
{{.EmailData}}
</email_data>

**Product Categorization List:**
When identifying equipment or products, categorize them using items from this preferred list whenever possible:
{{.Categories}}

**Analysis Instructions:**
1. Analyze the "Subject" and "Body" to identify if this is a Request for Quotation (RFQ) or product inquiry.
2. Extract company information from the body.
3. Identify the specific equipment or solution requested, cross-referencing Subject and Body for accuracy.
4. Always prioritize information from the Body field over Subject when there are discrepancies.

**Output Format:**
You must respond with a valid JSON object following this schema:

{
  "record_id": "ID from the data",
  "company_info": {
    "name": "Company name or 'Not specified'",
    "website": "Website URL or 'Not mentioned'",
    "country": "Country or 'Not specified'"
  },
  "email_category": "One of: 'Solución de tratamiento compleja', 'Productos'",
  "product_category": "Category from the provided list, or 'Other'",
  "equipment_requested": "Detailed description of equipment/solution requested",
  "technical_specifications": "Any specific technical requirements or 'None specified'",
  "subject_body_correlation": "Brief note on how Subject and Body information align or differ"
}

Provide only the JSON object with no additional commentary.`

var userPromptTmpl = template.Must(template.New("enrichment").Parse(userPromptText))

// PromptBuilder renders the per-record user prompt. The categorization
// vocabulary is fixed at construction time; it must not be swapped
// while a batch is in flight.
type PromptBuilder struct {
	categories string
}

// NewPromptBuilder creates a PromptBuilder. An empty categories slice
// selects the built-in vocabulary.
func NewPromptBuilder(categories []string) *PromptBuilder {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	return &PromptBuilder{categories: strings.Join(categories, ", ")}
}

// Build renders the prompt for one record. id is the 1-based row
// position carried through the call and the parsed result.
func (p *PromptBuilder) Build(id int, record *core.Record) (string, error) {
	var b strings.Builder
	if err := userPromptTmpl.Execute(&b, struct {
		EmailData  string
		Categories string
	}{
		EmailData:  recordBlock(id, record),
		Categories: p.categories,
	}); err != nil {
		return "", fmt.Errorf("render enrichment prompt: %w", err)
	}
	return b.String(), nil
}

// recordBlock renders the record fields as the tagged block the
// analysis prompt expects.
func recordBlock(id int, record *core.Record) string {
	return fmt.Sprintf(
		"<ID>%d</ID>\n<From_Name>%s</From_Name>\n<From_Email>%s</From_Email>\n<To>%s</To>\n<Date>%s</Date>\n<Subject>%s</Subject>\n<Body>%s</Body>",
		id, record.FromName, record.FromEmail, record.To, record.Date, record.Subject, record.Body)
}
