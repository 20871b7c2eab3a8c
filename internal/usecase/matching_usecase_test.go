package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/infrastructure/event"
	"talent-match/internal/session"

	"github.com/google/uuid"
)

func TestMatchingUsecase_RankCandidates_DefaultPool(t *testing.T) {
	f := newFixture()
	pub := event.NewMockPublisher()
	uc := f.matching(newMemoryCache(), pub)

	out, err := uc.RankCandidates(context.Background(), managerSession(), projectID, RankingParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.PoolSize != 4 {
		t.Fatalf("expected pool of 4 (on_leave excluded), got %d", out.PoolSize)
	}

	want := []struct {
		id    uuid.UUID
		score int
	}{{profile2, 100}, {profile1, 67}, {profile3, 0}}
	if len(out.Results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(out.Results))
	}
	for i, w := range want {
		if out.Results[i].CandidateID != w.id || out.Results[i].Score != w.score {
			t.Fatalf("result %d: expected %s/%d, got %s/%d", i, w.id, w.score, out.Results[i].CandidateID, out.Results[i].Score)
		}
	}
	if out.Results[0].FullName != "Ben" {
		t.Fatalf("expected profile info on results, got %q", out.Results[0].FullName)
	}

	if !out.Partial || len(out.Failures) != 1 {
		t.Fatalf("expected one failure, got %+v", out.Failures)
	}
	if out.Failures[0].CandidateID != profile4 || out.Failures[0].Reason != "unknown_skill" {
		t.Fatalf("unexpected failure: %+v", out.Failures[0])
	}

	if got := pub.Types(); len(got) != 1 || got[0] != event.TypeRankingCompleted {
		t.Fatalf("expected one ranking.completed event, got %v", got)
	}
}

func TestMatchingUsecase_RankCandidates_CachedSnapshot(t *testing.T) {
	f := newFixture()
	cache := newMemoryCache()
	pub := event.NewMockPublisher()
	uc := f.matching(cache, pub)
	ctx := context.Background()

	first, err := uc.RankCandidates(ctx, managerSession(), projectID, RankingParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := uc.RankCandidates(ctx, managerSession(), projectID, RankingParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if first.Cached || !second.Cached {
		t.Fatalf("expected miss then hit, got %v then %v", first.Cached, second.Cached)
	}
	if f.employee.loads != 1 {
		t.Fatalf("expected skills loaded once, got %d", f.employee.loads)
	}
	if len(second.Results) != len(first.Results) {
		t.Fatalf("cached results differ: %d vs %d", len(second.Results), len(first.Results))
	}
	for i := range first.Results {
		a, b := first.Results[i], second.Results[i]
		if a.CandidateID != b.CandidateID || a.Score != b.Score || len(a.Breakdown) != len(b.Breakdown) {
			t.Fatalf("cached result %d differs", i)
		}
		for j := range a.Breakdown {
			if a.Breakdown[j] != b.Breakdown[j] {
				t.Fatalf("cached breakdown %d/%d differs: %+v vs %+v", i, j, a.Breakdown[j], b.Breakdown[j])
			}
		}
	}
	if len(pub.Events) != 1 {
		t.Fatalf("expected no event for a cached ranking, got %d events", len(pub.Events))
	}
}

func TestMatchingUsecase_RankCandidates_FilterAppliedAfterCache(t *testing.T) {
	f := newFixture()
	uc := f.matching(newMemoryCache(), nil)
	ctx := context.Background()

	if _, err := uc.RankCandidates(ctx, managerSession(), projectID, RankingParams{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	out, err := uc.RankCandidates(ctx, managerSession(), projectID, RankingParams{Filter: matching.Filter{MinScore: 50, ExcludeMandatoryMissing: true}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !out.Cached {
		t.Fatalf("expected cached snapshot")
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out.Results))
	}

	out, err = uc.RankCandidates(ctx, managerSession(), projectID, RankingParams{Filter: matching.Filter{Limit: 1}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].CandidateID != profile2 {
		t.Fatalf("expected only the top candidate, got %+v", out.Results)
	}
}

func TestMatchingUsecase_RankCandidates_RequestedIDs(t *testing.T) {
	f := newFixture()
	uc := f.matching(nil, nil)
	unknown := uuid.MustParse("00000000-0000-0000-0000-0000000000ee")

	out, err := uc.RankCandidates(context.Background(), managerSession(), projectID, RankingParams{
		CandidateIDs: []uuid.UUID{profile1, profile1, outsider, unknown},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].CandidateID != profile1 {
		t.Fatalf("expected only profile1 ranked, got %+v", out.Results)
	}
	if len(out.Failures) != 2 {
		t.Fatalf("expected 2 not_found failures, got %+v", out.Failures)
	}
	if out.Failures[0].CandidateID != outsider || out.Failures[1].CandidateID != unknown {
		t.Fatalf("expected failures sorted by id, got %+v", out.Failures)
	}
	for _, fl := range out.Failures {
		if fl.Reason != "not_found" {
			t.Fatalf("expected not_found, got %q", fl.Reason)
		}
	}
}

func TestMatchingUsecase_RankCandidates_EmptyPool(t *testing.T) {
	f := newFixture()
	f.profiles.items = nil
	uc := f.matching(nil, nil)

	out, err := uc.RankCandidates(context.Background(), managerSession(), projectID, RankingParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Results == nil || len(out.Results) != 0 || out.Partial {
		t.Fatalf("expected empty non-partial result, got %+v", out)
	}
}

func TestMatchingUsecase_RankCandidates_EmptyPoolInvalidRequirements(t *testing.T) {
	tests := []struct {
		name string
		rows []matching.RequirementRow
		want error
	}{
		{name: "no rows", want: matching.ErrNoRequirements},
		{
			name: "duplicate rows",
			rows: []matching.RequirementRow{
				{SkillID: reactID, RequiredProficiency: "expert", IsMandatory: true},
				{SkillID: reactID, RequiredProficiency: "beginner"},
			},
			want: matching.ErrValidation,
		},
		{
			name: "skill outside catalog",
			rows: []matching.RequirementRow{{SkillID: ghostID, RequiredProficiency: "expert", IsMandatory: true}},
			want: matching.ErrUnknownSkill,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.profiles.items = nil
			f.requirements.rows[projectID] = tt.rows
			out, err := f.matching(newMemoryCache(), nil).RankCandidates(context.Background(), managerSession(), projectID, RankingParams{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v (results %d)", tt.want, err, len(out.Results))
			}
		})
	}
}

// racingCache runs onMiss the first time a ranking lookup misses, between the lookup and
// the write of the computed snapshot.
type racingCache struct {
	*memoryCache
	once   sync.Once
	onMiss func()
}

func (c *racingCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	hit, err := c.memoryCache.GetJSON(ctx, key, out)
	if !hit && strings.HasPrefix(key, rankingKeyPrefix) {
		c.once.Do(c.onMiss)
	}
	return hit, err
}

func TestMatchingUsecase_RankCandidates_InvalidatedDuringCompute(t *testing.T) {
	f := newFixture()
	cache := &racingCache{memoryCache: newMemoryCache()}
	reqs := newRequirements(f, cache, nil, nil)
	ctx := context.Background()
	cache.onMiss = func() {
		if _, err := reqs.ReplaceRequirements(ctx, managerSession(), projectID, []RequirementInput{
			{Skill: "node js", RequiredProficiency: "beginner"},
		}); err != nil {
			t.Errorf("replace requirements: %v", err)
		}
	}
	uc := f.matching(cache, nil)

	if _, err := uc.RankCandidates(ctx, managerSession(), projectID, RankingParams{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cache.Len() != 0 {
		t.Fatalf("expected snapshot from the old requirements to be dropped, got %d cached", cache.Len())
	}

	out, err := uc.RankCandidates(ctx, managerSession(), projectID, RankingParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Cached || cache.Len() != 1 {
		t.Fatalf("expected a fresh snapshot to be stored, cached=%v len=%d", out.Cached, cache.Len())
	}
	if out.Results[0].CandidateID != profile2 || out.Results[0].Score != 100 {
		t.Fatalf("expected ranking against the new requirements, got %+v", out.Results[0])
	}
}

func TestMatchingUsecase_RankCandidates_Errors(t *testing.T) {
	expired := managerSession()
	expired.ExpiresAt = time.Now().Add(-time.Minute)

	tests := []struct {
		name    string
		sess    session.Session
		project uuid.UUID
		setup   func(*fixture)
		params  RankingParams
		want    error
	}{
		{name: "expired session", sess: expired, project: projectID, want: ErrUnauthorized},
		{name: "employee cannot rank", sess: employeeSession(profile1), project: projectID, want: ErrForbidden},
		{name: "missing project", sess: managerSession(), project: uuid.New(), want: matching.ErrProjectNotFound},
		{name: "other company project", sess: managerSession(), project: foreignProject, want: matching.ErrProjectNotFound},
		{name: "bad filter", sess: managerSession(), project: projectID, params: RankingParams{Filter: matching.Filter{MinScore: 101}}, want: ErrInvalidInput},
		{
			name:    "no requirements",
			sess:    managerSession(),
			project: projectID,
			setup:   func(f *fixture) { f.requirements.rows[projectID] = nil },
			want:    matching.ErrNoRequirements,
		},
		{
			name:    "requirement outside catalog",
			sess:    managerSession(),
			project: projectID,
			setup: func(f *fixture) {
				f.requirements.rows[projectID] = []matching.RequirementRow{{SkillID: ghostID, RequiredProficiency: "expert", IsMandatory: true}}
			},
			want: matching.ErrUnknownSkill,
		},
		{
			name:    "repository failure",
			sess:    managerSession(),
			project: projectID,
			setup:   func(f *fixture) { f.skills.err = errors.New("db down") },
			want:    ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			_, err := f.matching(nil, nil).RankCandidates(context.Background(), tt.sess, tt.project, tt.params)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMatchingUsecase_AnalyzeGaps(t *testing.T) {
	f := newFixture()
	uc := f.matching(nil, nil)

	report, err := uc.AnalyzeGaps(context.Background(), employeeSession(profile1), projectID, profile1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.Score != 67 {
		t.Fatalf("expected score 67, got %d", report.Score)
	}
	if len(report.Gaps) != 1 {
		t.Fatalf("expected one gap, got %+v", report.Gaps)
	}
	g := report.Gaps[0]
	if g.SkillID != nodeID || g.Action != matching.ActionLevelUp || g.LevelGap != 1 {
		t.Fatalf("unexpected gap: %+v", g)
	}

	if _, err := uc.AnalyzeGaps(context.Background(), managerSession(), projectID, outsider); !errors.Is(err, matching.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound for another company's profile, got %v", err)
	}
}

func TestDedupeIDs(t *testing.T) {
	got := dedupeIDs([]uuid.UUID{profile2, uuid.Nil, profile1, profile2})
	if len(got) != 2 || got[0] != profile2 || got[1] != profile1 {
		t.Fatalf("unexpected ids: %v", got)
	}
}
