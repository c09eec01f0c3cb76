package pipeline

import (
	"context"
	"time"

	"ghactivity/internal/types"

	"go.uber.org/zap"
)

// Tier names.
const (
	TierWeb    = "web"
	TierEvents = "events"
	TierSearch = "search"
)

// Fetcher retrieves pull request records for one request. Implementations
// return an error for failures they could not recover from; the pipeline
// treats such a tier as empty and moves on.
type Fetcher interface {
	Fetch(ctx context.Context, req types.FetchRequest) ([]types.PullRequestRecord, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req types.FetchRequest) ([]types.PullRequestRecord, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, req types.FetchRequest) ([]types.PullRequestRecord, error) {
	return f(ctx, req)
}

// Tier is one named retrieval strategy in the fallback chain.
type Tier struct {
	Name    string
	Fetcher Fetcher
}

// OutcomeKind tags what a tier produced.
type OutcomeKind int

const (
	// OutcomeNotTried is the zero value: an earlier tier already won.
	OutcomeNotTried OutcomeKind = iota
	OutcomeEmpty
	OutcomePopulated
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeEmpty:
		return "empty"
	case OutcomePopulated:
		return "populated"
	case OutcomeFailed:
		return "failed"
	default:
		return "not-tried"
	}
}

// Outcome is the tagged result of one tier.
type Outcome struct {
	Tier    string
	Kind    OutcomeKind
	Records []types.PullRequestRecord
	Err     error
	Elapsed time.Duration
}

// FirstNonEmpty runs tiers strictly in order and stops at the first one that
// returns at least one record. It returns one Outcome per tier and the index
// of the winner, or -1 when every tier was empty or failed. A tier failure is
// never returned as an error; only cancellation of ctx is.
func FirstNonEmpty(ctx context.Context, tiers []Tier, req types.FetchRequest, log *zap.SugaredLogger) ([]Outcome, int, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	outcomes := make([]Outcome, len(tiers))
	for i, t := range tiers {
		outcomes[i].Tier = t.Name
	}

	for i, t := range tiers {
		if err := ctx.Err(); err != nil {
			return outcomes, -1, err
		}

		start := time.Now()
		recs, err := t.Fetcher.Fetch(ctx, req)
		o := &outcomes[i]
		o.Elapsed = time.Since(start)

		switch {
		case err != nil:
			o.Kind = OutcomeFailed
			o.Err = err
			if ctxErr := ctx.Err(); ctxErr != nil {
				return outcomes, -1, ctxErr
			}
			log.Warnw("tier failed, falling back", "tier", t.Name, "error", err, "elapsed", o.Elapsed)
		case len(recs) == 0:
			o.Kind = OutcomeEmpty
			log.Debugw("tier empty, falling back", "tier", t.Name, "elapsed", o.Elapsed)
		default:
			o.Kind = OutcomePopulated
			o.Records = recs
			log.Infow("tier selected", "tier", t.Name, "records", len(recs), "elapsed", o.Elapsed)
			return outcomes, i, nil
		}
	}
	return outcomes, -1, nil
}
