package enrich

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/anciri/mail-processing-workflow/internal/core"
)

var idRe = regexp.MustCompile(`<ID>(\d+)</ID>`)

// echoClient answers with a JSON object carrying the record id it
// found in the prompt, after an optional artificial delay.
type echoClient struct {
	delay func(id int) time.Duration

	mu       sync.Mutex
	inFlight int
	maxSeen  int
}

func (c *echoClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.maxSeen {
		c.maxSeen = c.inFlight
	}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inFlight--
		c.mu.Unlock()
	}()

	m := idRe.FindStringSubmatch(userPrompt)
	if m == nil {
		return "", errors.New("no id in prompt")
	}
	id, _ := strconv.Atoi(m[1])

	if c.delay != nil {
		time.Sleep(c.delay(id))
	}
	return fmt.Sprintf(`{"record_id": "%d", "company_info": {"name": "Company %d"}}`, id, id), nil
}

func testRecords(n int) []core.Record {
	records := make([]core.Record, n)
	for i := range records {
		records[i] = core.Record{
			Subject: fmt.Sprintf("RFQ %d", i+1),
			Body:    "Please quote.",
		}
	}
	return records
}

func newTestOrchestrator(client core.CompletionClient, batchSize int) *Orchestrator {
	return NewOrchestrator(client, NewPromptBuilder(nil), Options{
		BatchSize: batchSize,
		Retry:     RetryPolicy{Attempts: 1, MinWait: time.Millisecond, MaxWait: time.Millisecond},
	}, zap.NewNop())
}

// Results must come back in input order even when earlier records
// finish later than their batch peers.
func TestEnrich_OrderPreserved(t *testing.T) {
	client := &echoClient{delay: func(id int) time.Duration {
		// First record of each batch is the slowest.
		if id%3 == 1 {
			return 20 * time.Millisecond
		}
		return time.Millisecond
	}}

	records := testRecords(7)
	results := newTestOrchestrator(client, 3).Enrich(context.Background(), records)

	if len(results) != len(records) {
		t.Fatalf("results = %d, want %d", len(results), len(records))
	}
	for i, r := range results {
		if want := strconv.Itoa(i + 1); r.RecordID != want {
			t.Errorf("results[%d].RecordID = %q, want %q", i, r.RecordID, want)
		}
	}
}

func TestEnrich_ConcurrencyBound(t *testing.T) {
	client := &echoClient{delay: func(int) time.Duration { return 5 * time.Millisecond }}

	newTestOrchestrator(client, 4).Enrich(context.Background(), testRecords(12))

	if client.maxSeen > 4 {
		t.Errorf("max in-flight calls = %d, want <= 4", client.maxSeen)
	}
}

func TestEnrich_Empty(t *testing.T) {
	results := newTestOrchestrator(&echoClient{}, 3).Enrich(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

// failingClient fails every call and counts the attempts.
type failingClient struct {
	calls atomic.Int64
}

func (c *failingClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.calls.Add(1)
	return "", errors.New("service unavailable")
}

func TestEnrich_RetriesThenSentinel(t *testing.T) {
	client := &failingClient{}
	o := NewOrchestrator(client, NewPromptBuilder(nil), Options{
		BatchSize: 2,
		Retry:     RetryPolicy{Attempts: 3, MinWait: time.Millisecond, MaxWait: 2 * time.Millisecond},
	}, zap.NewNop())

	records := testRecords(2)
	results := o.Enrich(context.Background(), records)

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for i, r := range results {
		if r.RecordID != "error" || r.CompanyName != "API Error" {
			t.Errorf("results[%d] = %+v, want API Error sentinel", i, r)
		}
	}
	if got := client.calls.Load(); got != 6 {
		t.Errorf("total attempts = %d, want 6 (3 per record)", got)
	}
}

// recoveringClient fails a fixed number of times, then succeeds.
type recoveringClient struct {
	failures atomic.Int64
	budget   int64
}

func (c *recoveringClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.failures.Add(1) <= c.budget {
		return "", errors.New("flaky")
	}
	return `{"record_id": "1", "company_info": {"name": "Recovered"}}`, nil
}

func TestEnrich_RecoversWithinBudget(t *testing.T) {
	client := &recoveringClient{budget: 2}
	o := NewOrchestrator(client, NewPromptBuilder(nil), Options{
		BatchSize: 1,
		Retry:     RetryPolicy{Attempts: 3, MinWait: time.Millisecond, MaxWait: 2 * time.Millisecond},
	}, zap.NewNop())

	results := o.Enrich(context.Background(), testRecords(1))

	if results[0].CompanyName != "Recovered" {
		t.Errorf("results[0] = %+v, want recovery on third attempt", results[0])
	}
}

func TestEnrich_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &failingClient{}
	o := NewOrchestrator(client, NewPromptBuilder(nil), Options{
		BatchSize: 2,
		Retry:     RetryPolicy{Attempts: 5, MinWait: 50 * time.Millisecond, MaxWait: time.Second},
	}, zap.NewNop())

	records := testRecords(4)
	start := time.Now()
	results := o.Enrich(ctx, records)

	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
	for i, r := range results {
		if r.RecordID != "error" {
			t.Errorf("results[%d].RecordID = %q, want error sentinel", i, r.RecordID)
		}
	}
	// Cancellation must short-circuit the retry waits.
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled run took %v", elapsed)
	}
}
