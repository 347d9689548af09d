package usagetracker

import (
	"context"
	"sync"
	"time"
)

// Event represents a single generation-stage call and its token usage.
type Event struct {
	Timestamp    time.Time
	Provider     string
	Model        string
	Operation    string // e.g. "moderation", "batch_moderation"
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

// ModelSummary aggregates usage for one provider/model pair.
type ModelSummary struct {
	Calls        int     `json:"calls"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Summary aggregates all recorded usage.
type Summary struct {
	Calls        int                     `json:"calls"`
	InputTokens  int                     `json:"input_tokens"`
	OutputTokens int                     `json:"output_tokens"`
	CostUSD      float64                 `json:"cost_usd"`
	ByModel      map[string]ModelSummary `json:"by_model"`
}

// Tracker records and reports generation usage.
type Tracker interface {
	Record(ctx context.Context, event Event) error
	Totals(ctx context.Context) (Summary, error)
}

// New returns an in-memory tracker. Totals live for the process lifetime
// only; nothing is persisted.
func New() Tracker {
	return &memoryTracker{byModel: make(map[string]ModelSummary)}
}

type memoryTracker struct {
	mu      sync.Mutex
	total   ModelSummary
	byModel map[string]ModelSummary
}

func (t *memoryTracker) Record(_ context.Context, event Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := event.Provider + "/" + event.Model
	m := t.byModel[key]
	m.Calls++
	m.InputTokens += event.InputTokens
	m.OutputTokens += event.OutputTokens
	m.CostUSD += event.CostUSD
	t.byModel[key] = m

	t.total.Calls++
	t.total.InputTokens += event.InputTokens
	t.total.OutputTokens += event.OutputTokens
	t.total.CostUSD += event.CostUSD
	return nil
}

func (t *memoryTracker) Totals(_ context.Context) (Summary, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	byModel := make(map[string]ModelSummary, len(t.byModel))
	for k, v := range t.byModel {
		byModel[k] = v
	}
	return Summary{
		Calls:        t.total.Calls,
		InputTokens:  t.total.InputTokens,
		OutputTokens: t.total.OutputTokens,
		CostUSD:      t.total.CostUSD,
		ByModel:      byModel,
	}, nil
}

// Noop returns a tracker that discards everything.
func Noop() Tracker { return &noopTracker{} }

type noopTracker struct{}

func (n *noopTracker) Record(context.Context, Event) error { return nil }
func (n *noopTracker) Totals(context.Context) (Summary, error) {
	return Summary{ByModel: map[string]ModelSummary{}}, nil
}
