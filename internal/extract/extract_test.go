package extract

import (
	"errors"
	"reflect"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/anciri/mail-processing-workflow/internal/location"
	"github.com/anciri/mail-processing-workflow/internal/textutil"
)

var errField = errors.New("field unreadable")

// fakeMessage simulates a provider object whose accessors fail
// independently per field.
type fakeMessage struct {
	senderName  string
	senderAddr  string
	to          string
	cc          string
	received    time.Time
	subject     string
	body        string
	attachments []string
	failing     map[string]bool
}

func (m *fakeMessage) get(field string, value string) (string, error) {
	if m.failing[field] {
		return "", errField
	}
	return value, nil
}

func (m *fakeMessage) SenderName() (string, error)    { return m.get("senderName", m.senderName) }
func (m *fakeMessage) SenderAddress() (string, error) { return m.get("senderAddr", m.senderAddr) }
func (m *fakeMessage) To() (string, error)            { return m.get("to", m.to) }
func (m *fakeMessage) CC() (string, error)            { return m.get("cc", m.cc) }
func (m *fakeMessage) Subject() (string, error)       { return m.get("subject", m.subject) }
func (m *fakeMessage) Body() (string, error)          { return m.get("body", m.body) }

func (m *fakeMessage) ReceivedTime() (time.Time, error) {
	if m.failing["received"] {
		return time.Time{}, errField
	}
	return m.received, nil
}

func (m *fakeMessage) SentTime() (time.Time, error)     { return time.Time{}, errField }
func (m *fakeMessage) CreationTime() (time.Time, error) { return time.Time{}, errField }

func (m *fakeMessage) AttachmentNames() ([]string, error) {
	if m.failing["attachments"] {
		return nil, errField
	}
	return m.attachments, nil
}

func newExtractor() *Extractor {
	return New(textutil.NewSanitizer(0, zap.NewNop()), location.NewResolver(), zap.NewNop())
}

func healthyMessage() *fakeMessage {
	return &fakeMessage{
		senderName:  "Juan Pérez",
		senderAddr:  "Juan Pérez <juan@empresa.es>",
		to:          "sales@vendor.com",
		cc:          "boss@empresa.es",
		received:    time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local),
		subject:     "RFQ filtro prensa",
		body:        "Necesitamos   un presupuesto\npara un filtro prensa.",
		attachments: []string{"specs.pdf", "plano.dwg"},
		failing:     map[string]bool{},
	}
}

func TestExtract_AllFields(t *testing.T) {
	record := newExtractor().Extract(healthyMessage())

	if !record.Complete() {
		t.Fatalf("expected complete record, tags = %v", record.ErrorTags)
	}
	if record.FromName != "Juan Pérez" {
		t.Errorf("FromName = %q", record.FromName)
	}
	if record.FromEmail != "juan@empresa.es" {
		t.Errorf("FromEmail = %q, want bare address", record.FromEmail)
	}
	if record.Date != "2024-03-15 09:30:00" {
		t.Errorf("Date = %q", record.Date)
	}
	if record.Body != "Necesitamos un presupuesto para un filtro prensa." {
		t.Errorf("Body not cleaned: %q", record.Body)
	}
	if record.Attachments != "specs.pdf; plano.dwg" {
		t.Errorf("Attachments = %q", record.Attachments)
	}
	if record.Location.Country != "Spain" {
		t.Errorf("Location = %+v, want Spain from .es domain", record.Location)
	}
}

func TestExtract_PartialFailures(t *testing.T) {
	tests := []struct {
		name     string
		failing  []string
		wantTags []string
	}{
		{"sender name", []string{"senderName"}, []string{TagFromName}},
		{"body only", []string{"body"}, []string{TagBody}},
		{"date", []string{"received"}, []string{TagDate}},
		{"several", []string{"to", "cc", "attachments"}, []string{TagTo, TagCC, TagAttachments}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := healthyMessage()
			for _, field := range tt.failing {
				msg.failing[field] = true
			}

			record := newExtractor().Extract(msg)

			got := append([]string{}, record.ErrorTags...)
			want := append([]string{}, tt.wantTags...)
			sort.Strings(got)
			sort.Strings(want)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ErrorTags = %v, want %v", record.ErrorTags, tt.wantTags)
			}
			if record.Complete() {
				t.Error("record with failed fields must not be complete")
			}
			// Untouched fields survive.
			if !msg.failing["subject"] && record.Subject != msg.subject {
				t.Errorf("Subject lost: %q", record.Subject)
			}
		})
	}
}

// Even a message where every accessor fails yields a (fully tagged)
// record rather than being dropped.
func TestExtract_EverythingFails(t *testing.T) {
	msg := healthyMessage()
	for _, field := range []string{"senderName", "senderAddr", "to", "cc", "received", "subject", "body", "attachments"} {
		msg.failing[field] = true
	}

	record := newExtractor().Extract(msg)

	if len(record.ErrorTags) != 8 {
		t.Errorf("expected 8 tags, got %v", record.ErrorTags)
	}
	if record.FromName != "" || record.Subject != "" || record.Body != "" {
		t.Errorf("failed fields must stay empty: %+v", record)
	}
}
