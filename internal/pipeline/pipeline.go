// Package pipeline runs the retrieval tiers in fallback order and shapes the
// winning tier's records for display.
//
// Tiers run one at a time: web scrape, then the activity feed, then the
// search API. The first tier that yields a record wins and later tiers are
// never called. A run where every tier is empty or fails produces an empty
// result, not an error.
package pipeline

import (
	"context"
	"time"

	"ghactivity/internal/logging"
	"ghactivity/internal/types"

	"github.com/google/uuid"
)

// Result is the output of one pipeline run.
type Result struct {
	RunID string
	// Records is deduplicated and limited, ready for rendering.
	Records []types.PullRequestRecord
	// Winner names the tier that produced Records, or "" when none did.
	Winner   string
	Outcomes []Outcome
	Elapsed  time.Duration
}

// Empty reports whether the run produced no records.
func (r *Result) Empty() bool {
	return len(r.Records) == 0
}

// Pipeline is an ordered tier chain.
type Pipeline struct {
	tiers []Tier
	newID func() string
}

// New creates a pipeline over tiers in the given order.
func New(tiers ...Tier) *Pipeline {
	return &Pipeline{tiers: tiers, newID: uuid.NewString}
}

// Standard returns the web, events, search chain. A nil events fetcher gives
// the two-tier web, search chain.
func Standard(web, events, search Fetcher) *Pipeline {
	tiers := []Tier{{Name: TierWeb, Fetcher: web}}
	if events != nil {
		tiers = append(tiers, Tier{Name: TierEvents, Fetcher: events})
	}
	tiers = append(tiers, Tier{Name: TierSearch, Fetcher: search})
	return New(tiers...)
}

// TierNames returns the tier names in run order.
func (p *Pipeline) TierNames() []string {
	names := make([]string, len(p.tiers))
	for i, t := range p.tiers {
		names[i] = t.Name
	}
	return names
}

// Run executes the chain for req. The only error it returns is the context's,
// in which case partial results are discarded.
func (p *Pipeline) Run(ctx context.Context, req types.FetchRequest) (*Result, error) {
	start := time.Now()
	runID := p.newID()
	log := logging.Get(logging.CategoryPipeline).With("run_id", runID, "user", req.Username)
	log.Debugw("run started", "tiers", p.TierNames())

	outcomes, win, err := FirstNonEmpty(ctx, p.tiers, req, log)
	if err != nil {
		log.Debugw("run cancelled", "error", err)
		return nil, err
	}

	res := &Result{RunID: runID, Outcomes: outcomes}
	if win >= 0 {
		res.Winner = p.tiers[win].Name
		res.Records = Finalize(outcomes[win].Records, req.Filters)
	} else {
		res.Records = []types.PullRequestRecord{}
		log.Infow("no tier produced records")
	}
	res.Elapsed = time.Since(start)

	log.Infow("run finished", "winner", res.Winner, "records", len(res.Records), "max", EffectiveMax(req.Filters), "elapsed", res.Elapsed)
	return res, nil
}
