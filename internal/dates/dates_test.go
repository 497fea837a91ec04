package dates

import (
	"errors"
	"testing"
	"time"
)

func TestParse_ExplicitLayouts(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2024-01-31", time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)},
		{"31/01/2024", time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)},
		{"31-01-2024", time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := Parse(tt.value)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

// All three layouts parsing the same calendar day must agree.
func TestParse_LayoutsAgree(t *testing.T) {
	iso, err := Parse("2024-03-05")
	if err != nil {
		t.Fatal(err)
	}
	slash, err := Parse("05/03/2024")
	if err != nil {
		t.Fatal(err)
	}
	dash, err := Parse("05-03-2024")
	if err != nil {
		t.Fatal(err)
	}
	if !iso.Equal(slash) || !iso.Equal(dash) {
		t.Errorf("layouts disagree: %v / %v / %v", iso, slash, dash)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, value := range []string{"", "not a date", "99/99/9999"} {
		if _, err := Parse(value); err == nil {
			t.Errorf("Parse(%q) expected error", value)
		}
	}
}

func TestNormalize_DropsOffset(t *testing.T) {
	in := time.Date(2024, 6, 1, 15, 30, 0, 0, time.FixedZone("X", 5*3600))
	got := Normalize(in)

	if got.Location() != time.Local {
		t.Errorf("location = %v, want local", got.Location())
	}
	if got.Hour() != 15 || got.Minute() != 30 {
		t.Errorf("wall clock changed: got %02d:%02d, want 15:30", got.Hour(), got.Minute())
	}
}

func TestNormalize_Zero(t *testing.T) {
	if !Normalize(time.Time{}).IsZero() {
		t.Error("Normalize of zero time must stay zero")
	}
}

type stubTimes struct {
	received    time.Time
	receivedErr error
	sent        time.Time
	sentErr     error
	creation    time.Time
	creationErr error
}

func (s *stubTimes) SenderName() (string, error)        { return "", nil }
func (s *stubTimes) SenderAddress() (string, error)     { return "", nil }
func (s *stubTimes) To() (string, error)                { return "", nil }
func (s *stubTimes) CC() (string, error)                { return "", nil }
func (s *stubTimes) ReceivedTime() (time.Time, error)   { return s.received, s.receivedErr }
func (s *stubTimes) SentTime() (time.Time, error)       { return s.sent, s.sentErr }
func (s *stubTimes) CreationTime() (time.Time, error)   { return s.creation, s.creationErr }
func (s *stubTimes) Subject() (string, error)           { return "", nil }
func (s *stubTimes) Body() (string, error)              { return "", nil }
func (s *stubTimes) AttachmentNames() ([]string, error) { return nil, nil }

func TestForFiltering_Fallback(t *testing.T) {
	failed := errors.New("unreadable")
	received := time.Date(2024, 2, 1, 10, 0, 0, 0, time.Local)
	sent := time.Date(2024, 2, 2, 10, 0, 0, 0, time.Local)
	creation := time.Date(2024, 2, 3, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		msg  *stubTimes
		want time.Time
		ok   bool
	}{
		{"received wins", &stubTimes{received: received, sent: sent}, received, true},
		{"sent on received error", &stubTimes{receivedErr: failed, sent: sent}, sent, true},
		{"sent on zero received", &stubTimes{sent: sent}, sent, true},
		{"creation last", &stubTimes{receivedErr: failed, sentErr: failed, creation: creation}, creation, true},
		{"nothing resolves", &stubTimes{receivedErr: failed, sentErr: failed, creationErr: failed}, time.Time{}, false},
		{"all zero", &stubTimes{}, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ForFiltering(tt.msg)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("time = %v, want %v", got, tt.want)
			}
		})
	}
}
