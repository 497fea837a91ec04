// Package dates normalizes the heterogeneous date formats seen on the
// CLI and inside message objects into timezone-naive timestamps.
package dates

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"

	"github.com/anciri/mail-processing-workflow/internal/core"
)

// Explicit layouts tried in order before the permissive fallback.
var layouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// Normalize drops the timezone offset from a timestamp, reinterpreting
// the wall-clock time as local. Cross-timezone correctness is out of
// scope.
func Normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
}

// Parse parses a date string trying ISO (YYYY-MM-DD), DD/MM/YYYY and
// DD-MM-YYYY, then a permissive day-first fallback. It returns an
// error when every format fails.
func Parse(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return Normalize(t), nil
		}
	}

	t, err := dateparse.ParseIn(value, time.Local, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q (accepted formats: YYYY-MM-DD, DD/MM/YYYY, DD-MM-YYYY): %w", value, err)
	}
	return Normalize(t), nil
}

// ForFiltering resolves the comparable timestamp of a message for date
// filtering, trying received, sent and creation time in order. The
// first accessor that succeeds with a non-zero value wins. It returns
// false when no source resolves.
func ForFiltering(msg core.RawMessage) (time.Time, bool) {
	accessors := []func() (time.Time, error){
		msg.ReceivedTime,
		msg.SentTime,
		msg.CreationTime,
	}
	for _, accessor := range accessors {
		if t, err := accessor(); err == nil && !t.IsZero() {
			return Normalize(t), true
		}
	}
	return time.Time{}, false
}
