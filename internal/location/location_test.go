package location

import "testing"

func TestResolve_DomainSuffix(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		email string
		want  string
	}{
		{"juan@empresa.es", "Spain"},
		{"maria@planta.com.mx", "Mexico"},
		{"ops@water.cl", "Chile"},
		{"info@firma.de", "Germany"},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			loc := r.Resolve("", "", tt.email)
			if loc.Country != tt.want {
				t.Errorf("Resolve country = %q, want %q", loc.Country, tt.want)
			}
		})
	}
}

// A domain match short-circuits: body text naming another country must
// not override it.
func TestResolve_DomainBeatsText(t *testing.T) {
	r := NewResolver()

	loc := r.Resolve("Planta en Argentina", "Proyecto para Argentina", "ventas@acme.mx")
	if loc.Country != "Mexico" {
		t.Errorf("country = %q, want Mexico", loc.Country)
	}
}

func TestResolve_TextScan(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name    string
		subject string
		body    string
		want    string
	}{
		{"country in body", "Quotation", "We operate a plant in Chile.", "Chile"},
		{"country in subject", "Proyecto Colombia", "Adjunto detalles.", "Colombia"},
		{"accented name", "Consulta", "Somos una empresa de España.", "España"},
		{"word boundary", "Update", "The spaniel is fine.", ""},
		{"nothing", "Hello", "No location here.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := r.Resolve(tt.subject, tt.body, "someone@gmail.com")
			if loc.Country != tt.want {
				t.Errorf("country = %q, want %q", loc.Country, tt.want)
			}
		})
	}
}

func TestResolve_EmptyInputs(t *testing.T) {
	r := NewResolver()

	loc := r.Resolve("", "", "")
	if loc.Country != "" || loc.City != "" || loc.State != "" {
		t.Errorf("expected empty location, got %+v", loc)
	}
}
