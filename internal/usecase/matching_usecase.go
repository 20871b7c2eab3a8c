package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/profile"
	"talent-match/internal/domain/project"
	"talent-match/internal/infrastructure/event"
	"talent-match/internal/metrics"
	"talent-match/internal/repository"
	"talent-match/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type RankingParams struct {
	// CandidateIDs narrows the pool. Empty means every rankable profile of the company.
	CandidateIDs []uuid.UUID
	Filter       matching.Filter
}

type RankedCandidate struct {
	matching.MatchResult
	FullName     string               `json:"full_name"`
	Designation  string               `json:"designation"`
	Department   string               `json:"department"`
	Availability profile.Availability `json:"availability"`
}

type CandidateFailure struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Reason      string    `json:"reason"`
	Message     string    `json:"message"`
}

type RankingOutput struct {
	ProjectID  uuid.UUID          `json:"project_id"`
	Results    []RankedCandidate  `json:"results"`
	Failures   []CandidateFailure `json:"failures"`
	Partial    bool               `json:"partial"`
	PoolSize   int                `json:"pool_size"`
	ComputedAt time.Time          `json:"computed_at"`
	Cached     bool               `json:"-"`
}

type GapReport struct {
	ProjectID uuid.UUID
	ProfileID uuid.UUID
	Score     int
	Breakdown []matching.SkillOutcome
	Gaps      []matching.Gap
}

type MatchingUsecase interface {
	RankCandidates(ctx context.Context, sess session.Session, projectID uuid.UUID, params RankingParams) (RankingOutput, error)
	AnalyzeGaps(ctx context.Context, sess session.Session, projectID, profileID uuid.UUID) (GapReport, error)
	ScoreProfile(ctx context.Context, sess session.Session, projectID, profileID uuid.UUID) (matching.MatchResult, error)
}

type MatchingDeps struct {
	Projects       repository.ProjectRepository
	Requirements   repository.RequirementRepository
	Skills         repository.SkillRepository
	Profiles       repository.ProfileRepository
	EmployeeSkills repository.EmployeeSkillRepository

	Cache     RankingCache
	CacheTTL  time.Duration
	Publisher EventPublisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	Options   matching.Options
}

type Matching struct {
	deps MatchingDeps
	now  func() time.Time
}

func NewMatchingUsecase(deps MatchingDeps) *Matching {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Matching{deps: deps, now: time.Now}
}

type projectContext struct {
	project project.Project
	rows    []matching.RequirementRow
	catalog *matching.Catalog
}

// loadProject fetches the project, its requirement rows and the catalog concurrently and
// checks company ownership. A project of another company reads as missing.
func (u *Matching) loadProject(ctx context.Context, sess session.Session, projectID uuid.UUID) (projectContext, error) {
	var pc projectContext

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := u.deps.Projects.GetByID(gctx, projectID)
		if err != nil {
			return err
		}
		pc.project = p
		return nil
	})
	g.Go(func() error {
		rows, err := u.deps.Requirements.FindByProjectID(gctx, projectID)
		if err != nil {
			return err
		}
		pc.rows = rows
		return nil
	})
	g.Go(func() error {
		c, err := loadCatalog(gctx, u.deps.Skills)
		if err != nil {
			return err
		}
		pc.catalog = c
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return projectContext{}, matching.ErrProjectNotFound
		}
		u.deps.Logger.Error("load project failed", zap.String("project_id", projectID.String()), zap.Error(err))
		return projectContext{}, ErrInternal
	}
	if !sess.Owns(pc.project.CompanyID) {
		return projectContext{}, matching.ErrProjectNotFound
	}
	return pc, nil
}

func (u *Matching) RankCandidates(ctx context.Context, sess session.Session, projectID uuid.UUID, params RankingParams) (RankingOutput, error) {
	start := u.now()
	out, err := u.rank(ctx, sess, projectID, params)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case out.Cached:
		outcome = "cached"
	case out.Partial:
		outcome = "partial"
	}
	u.deps.Metrics.ObserveRanking(outcome, u.now().Sub(start), out.PoolSize)
	return out, err
}

func (u *Matching) rank(ctx context.Context, sess session.Session, projectID uuid.UUID, params RankingParams) (RankingOutput, error) {
	if err := authorize(sess, u.now(), true); err != nil {
		return RankingOutput{}, err
	}
	if projectID == uuid.Nil {
		return RankingOutput{}, ErrInvalidInput
	}
	if err := validateFilter(params.Filter); err != nil {
		return RankingOutput{}, err
	}

	stamp := u.readStamp(ctx, sess.CompanyID, projectID)

	pc, err := u.loadProject(ctx, sess, projectID)
	if err != nil {
		return RankingOutput{}, err
	}
	set, err := matching.Extract(projectID, pc.rows, pc.catalog)
	if err != nil {
		return RankingOutput{}, err
	}

	pool, missing, err := u.loadPool(ctx, sess.CompanyID, params.CandidateIDs)
	if err != nil {
		return RankingOutput{}, err
	}

	if len(pool) == 0 && len(missing) == 0 {
		return RankingOutput{
			ProjectID:  projectID,
			Results:    []RankedCandidate{},
			Failures:   []CandidateFailure{},
			ComputedAt: u.now().UTC(),
		}, nil
	}

	poolIDs := make([]uuid.UUID, 0, len(pool)+len(missing))
	for _, p := range pool {
		poolIDs = append(poolIDs, p.ID)
	}
	poolIDs = append(poolIDs, missing...)
	key := RankingCacheKey(sess.CompanyID, projectID, poolIDs)

	snapshot, hit := u.cachedSnapshot(ctx, key)
	if !hit {
		snapshot, err = u.compute(ctx, set, pc.catalog, pool, missing)
		if err != nil {
			return RankingOutput{}, err
		}
		u.storeSnapshot(ctx, key, stamp, snapshot)
		for _, f := range snapshot.Failures {
			u.deps.Metrics.CandidateFailed(f.Reason)
		}
		u.publish(ctx, event.Event{
			Type:      event.TypeRankingCompleted,
			CompanyID: sess.CompanyID,
			ActorID:   sess.UserID,
			ProjectID: &projectID,
			Data: map[string]any{
				"pool_size": snapshot.PoolSize,
				"results":   len(snapshot.Results),
				"failures":  len(snapshot.Failures),
			},
		})
	}

	snapshot.Results = applyFilter(params.Filter, snapshot.Results)
	snapshot.Cached = hit
	return snapshot, nil
}

func validateFilter(f matching.Filter) error {
	if f.MinScore < 0 || f.MinScore > 100 || f.Limit < 0 {
		return fmt.Errorf("%w: min_score must be within 0..100 and limit must not be negative", ErrInvalidInput)
	}
	return nil
}

// loadPool resolves the candidate pool. Requested ids that are unknown or owned by another
// company come back in missing.
func (u *Matching) loadPool(ctx context.Context, companyID uuid.UUID, requested []uuid.UUID) ([]profile.Profile, []uuid.UUID, error) {
	if len(requested) == 0 {
		pool, err := u.deps.Profiles.ListPool(ctx, companyID)
		if err != nil {
			u.deps.Logger.Error("list candidate pool failed", zap.Error(err))
			return nil, nil, ErrInternal
		}
		return pool, nil, nil
	}

	ids := dedupeIDs(requested)
	pool, err := u.deps.Profiles.FindByIDs(ctx, companyID, ids)
	if err != nil {
		u.deps.Logger.Error("find candidates failed", zap.Error(err))
		return nil, nil, ErrInternal
	}

	found := make(map[uuid.UUID]struct{}, len(pool))
	for _, p := range pool {
		found[p.ID] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return pool, missing, nil
}

func (u *Matching) compute(ctx context.Context, set matching.RequirementSet, catalog *matching.Catalog, pool []profile.Profile, missing []uuid.UUID) (RankingOutput, error) {
	ids := make([]uuid.UUID, 0, len(pool))
	info := make(map[uuid.UUID]profile.Profile, len(pool))
	for _, p := range pool {
		ids = append(ids, p.ID)
		info[p.ID] = p
	}

	skillsByProfile, err := u.deps.EmployeeSkills.FindByProfileIDs(ctx, ids)
	if err != nil {
		u.deps.Logger.Error("load candidate skills failed", zap.Error(err))
		return RankingOutput{}, ErrInternal
	}

	candidates := make([]matching.Candidate, 0, len(pool))
	for _, id := range ids {
		candidates = append(candidates, candidateFromRows(id, skillsByProfile[id]))
	}

	ranking, err := matching.NewEngine(catalog, u.deps.Options).Rank(ctx, set, candidates)
	if err != nil {
		return RankingOutput{}, err
	}

	out := RankingOutput{
		ProjectID:  set.ProjectID,
		Results:    make([]RankedCandidate, 0, len(ranking.Results)),
		Failures:   make([]CandidateFailure, 0, len(ranking.Failures)+len(missing)),
		PoolSize:   len(pool) + len(missing),
		ComputedAt: u.now().UTC(),
	}
	for _, r := range ranking.Results {
		p := info[r.CandidateID]
		out.Results = append(out.Results, RankedCandidate{
			MatchResult:  r,
			FullName:     p.FullName,
			Designation:  p.Designation,
			Department:   p.Department,
			Availability: p.Availability,
		})
	}
	for _, f := range ranking.Failures {
		out.Failures = append(out.Failures, CandidateFailure{
			CandidateID: f.CandidateID,
			Reason:      f.Reason.String(),
			Message:     f.Err.Error(),
		})
	}
	for _, id := range missing {
		out.Failures = append(out.Failures, CandidateFailure{
			CandidateID: id,
			Reason:      matching.ReasonNotFound.String(),
			Message:     matching.ErrProfileNotFound.Error(),
		})
	}
	sort.SliceStable(out.Failures, func(i, j int) bool {
		return bytes.Compare(out.Failures[i].CandidateID[:], out.Failures[j].CandidateID[:]) < 0
	})
	out.Partial = len(out.Failures) > 0
	return out, nil
}

func (u *Matching) cachedSnapshot(ctx context.Context, key string) (RankingOutput, bool) {
	if u.deps.Cache == nil {
		return RankingOutput{}, false
	}
	var snap RankingOutput
	hit, err := u.deps.Cache.GetJSON(ctx, key, &snap)
	if err != nil {
		u.deps.Logger.Debug("ranking cache read failed", zap.String("key", key), zap.Error(err))
		hit = false
	}
	u.deps.Metrics.CacheLookup(hit)
	if !hit {
		return RankingOutput{}, false
	}
	if snap.Results == nil {
		snap.Results = []RankedCandidate{}
	}
	if snap.Failures == nil {
		snap.Failures = []CandidateFailure{}
	}
	return snap, true
}

// readStamp captures the invalidation generations a snapshot is computed under.
func (u *Matching) readStamp(ctx context.Context, companyID, projectID uuid.UUID) rankingStamp {
	if u.deps.Cache == nil {
		return rankingStamp{companyID: companyID, projectID: projectID}
	}
	return readRankingStamp(ctx, u.deps.Cache, u.deps.Logger, companyID, projectID)
}

// storeSnapshot skips the write when an invalidation ran after stamp was read.
func (u *Matching) storeSnapshot(ctx context.Context, key string, stamp rankingStamp, snap RankingOutput) {
	if u.deps.Cache == nil {
		return
	}
	if now := readRankingStamp(ctx, u.deps.Cache, u.deps.Logger, stamp.companyID, stamp.projectID); now != stamp {
		u.deps.Logger.Debug("ranking snapshot superseded", zap.String("key", key))
		return
	}
	if err := u.deps.Cache.SetJSON(ctx, key, snap, u.deps.CacheTTL); err != nil {
		u.deps.Logger.Debug("ranking cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (u *Matching) publish(ctx context.Context, evt event.Event) {
	publishEvent(ctx, u.deps.Publisher, u.deps.Metrics, u.deps.Logger, evt)
}

func (u *Matching) ScoreProfile(ctx context.Context, sess session.Session, projectID, profileID uuid.UUID) (matching.MatchResult, error) {
	if err := authorize(sess, u.now(), false); err != nil {
		return matching.MatchResult{}, err
	}
	pc, err := u.loadProject(ctx, sess, projectID)
	if err != nil {
		return matching.MatchResult{}, err
	}
	set, err := matching.Extract(projectID, pc.rows, pc.catalog)
	if err != nil {
		return matching.MatchResult{}, err
	}

	if _, err := ownedProfile(ctx, u.deps.Profiles, sess, profileID, u.deps.Logger); err != nil {
		return matching.MatchResult{}, err
	}

	skills, err := u.deps.EmployeeSkills.FindByProfileIDs(ctx, []uuid.UUID{profileID})
	if err != nil {
		u.deps.Logger.Error("load profile skills failed", zap.String("profile_id", profileID.String()), zap.Error(err))
		return matching.MatchResult{}, ErrInternal
	}

	c, err := matching.Resolve(candidateFromRows(profileID, skills[profileID]), pc.catalog)
	if err != nil {
		return matching.MatchResult{}, err
	}
	return matching.Score(c, set)
}

func (u *Matching) AnalyzeGaps(ctx context.Context, sess session.Session, projectID, profileID uuid.UUID) (GapReport, error) {
	res, err := u.ScoreProfile(ctx, sess, projectID, profileID)
	if err != nil {
		return GapReport{}, err
	}
	return GapReport{
		ProjectID: projectID,
		ProfileID: profileID,
		Score:     res.Score,
		Breakdown: res.Breakdown,
		Gaps:      matching.Gaps(res),
	}, nil
}

func applyFilter(f matching.Filter, rs []RankedCandidate) []RankedCandidate {
	out := make([]RankedCandidate, 0, len(rs))
	for _, r := range rs {
		if f.Full(len(out)) {
			break
		}
		if f.Keep(r.MatchResult) {
			out = append(out, r)
		}
	}
	return out
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func publishEvent(ctx context.Context, p EventPublisher, m *metrics.Metrics, logger *zap.Logger, evt event.Event) {
	if p == nil {
		return
	}
	err := p.Publish(ctx, evt)
	m.EventPublished(string(evt.Type), err)
	if err != nil && logger != nil {
		logger.Warn("publish event failed", zap.String("type", string(evt.Type)), zap.Error(err))
	}
}
