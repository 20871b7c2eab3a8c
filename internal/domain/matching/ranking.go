package matching

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"talent-match/internal/worker"

	"github.com/google/uuid"
)

type Failure struct {
	CandidateID uuid.UUID
	Reason      FailureReason
	Err         error
}

type Ranking struct {
	ProjectID uuid.UUID
	Results   []MatchResult
	Failures  []Failure
	Partial   bool
}

type Options struct {
	Workers           int
	ParallelThreshold int
}

type Filter struct {
	MinScore                int
	ExcludeMandatoryMissing bool
	Limit                   int
}

type Engine struct {
	catalog *Catalog
	opts    Options
}

func NewEngine(catalog *Catalog, opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Engine{catalog: catalog, opts: opts}
}

// Rank scores every candidate against set. Per-candidate failures are collected and never
// abort the batch. The output depends only on the inputs.
func (e *Engine) Rank(ctx context.Context, set RequirementSet, candidates []Candidate) (Ranking, error) {
	out := Ranking{ProjectID: set.ProjectID, Results: []MatchResult{}, Failures: []Failure{}}
	if set.TotalWeight() == 0 {
		return Ranking{}, ErrNoRequirements
	}
	if len(candidates) == 0 {
		return out, nil
	}

	pool := dedupe(candidates)
	results := make([]MatchResult, len(pool))

	scoreOne := func(_ context.Context, i int) error {
		c, err := Resolve(pool[i], e.catalog)
		if err != nil {
			return err
		}
		res, err := Score(c, set)
		if err != nil {
			return err
		}
		results[i] = res
		return nil
	}

	var errs []error
	if e.opts.ParallelThreshold > 0 && len(pool) >= e.opts.ParallelThreshold && e.opts.Workers > 1 {
		var err error
		errs, err = worker.ForEach(ctx, e.opts.Workers, len(pool), scoreOne)
		if err != nil {
			return Ranking{}, err
		}
	} else {
		errs = make([]error, len(pool))
		for i := range pool {
			if err := ctx.Err(); err != nil {
				return Ranking{}, err
			}
			errs[i] = scoreOne(ctx, i)
		}
	}

	for i, err := range errs {
		if err != nil {
			if errors.Is(err, ErrNoRequirements) {
				return Ranking{}, err
			}
			out.Failures = append(out.Failures, Failure{CandidateID: pool[i].ID, Reason: ReasonFor(err), Err: err})
			continue
		}
		out.Results = append(out.Results, results[i])
	}

	SortResults(out.Results)
	sort.SliceStable(out.Failures, func(i, j int) bool {
		return bytes.Compare(out.Failures[i].CandidateID[:], out.Failures[j].CandidateID[:]) < 0
	})
	out.Partial = len(out.Failures) > 0
	return out, nil
}

// Less orders by score desc, satisfied mandatory desc, relevant years desc, candidate id asc.
func Less(a, b MatchResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.SatisfiedMandatory != b.SatisfiedMandatory {
		return a.SatisfiedMandatory > b.SatisfiedMandatory
	}
	if a.RelevantYears != b.RelevantYears {
		return a.RelevantYears > b.RelevantYears
	}
	return bytes.Compare(a.CandidateID[:], b.CandidateID[:]) < 0
}

func SortResults(rs []MatchResult) {
	sort.SliceStable(rs, func(i, j int) bool { return Less(rs[i], rs[j]) })
}

// Apply narrows a sorted result list. Zero values keep everything.
// Keep reports whether r passes the score and mandatory rules. Limit is applied by the caller.
func (f Filter) Keep(r MatchResult) bool {
	if r.Score < f.MinScore {
		return false
	}
	return !f.ExcludeMandatoryMissing || !r.MandatoryMissing
}

// Full reports whether n kept results already reach the limit.
func (f Filter) Full(n int) bool {
	return f.Limit > 0 && n >= f.Limit
}

func (f Filter) Apply(rs []MatchResult) []MatchResult {
	out := make([]MatchResult, 0, len(rs))
	for _, r := range rs {
		if f.Full(len(out)) {
			break
		}
		if f.Keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func dedupe(cs []Candidate) []Candidate {
	seen := make(map[uuid.UUID]struct{}, len(cs))
	out := make([]Candidate, 0, len(cs))
	for _, c := range cs {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
