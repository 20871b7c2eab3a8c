package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/infrastructure/event"
	"talent-match/internal/metrics"
	"talent-match/internal/repository"
	"talent-match/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequirementInput names the skill by catalog id or name.
type RequirementInput struct {
	Skill               string
	RequiredProficiency string
	IsMandatory         *bool
	MinExperienceYears  *int
}

type RequirementView struct {
	SkillID             uuid.UUID
	SkillName           string
	RequiredProficiency string
	IsMandatory         bool
	MinExperienceYears  int
	Weight              int
}

type RequirementsUsecase interface {
	GetRequirements(ctx context.Context, sess session.Session, projectID uuid.UUID) ([]RequirementView, error)
	ReplaceRequirements(ctx context.Context, sess session.Session, projectID uuid.UUID, in []RequirementInput) ([]RequirementView, error)
}

type RequirementsDeps struct {
	Projects     repository.ProjectRepository
	Requirements repository.RequirementRepository
	Skills       repository.SkillRepository

	Cache     RankingCache
	Publisher EventPublisher
	Notifier  Notifier
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

type Requirements struct {
	deps RequirementsDeps
	now  func() time.Time
}

func NewRequirementsUsecase(deps RequirementsDeps) *Requirements {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	return &Requirements{deps: deps, now: time.Now}
}

func (u *Requirements) GetRequirements(ctx context.Context, sess session.Session, projectID uuid.UUID) ([]RequirementView, error) {
	if err := authorize(sess, u.now(), false); err != nil {
		return nil, err
	}
	if _, err := ownedProject(ctx, u.deps.Projects, sess, projectID, u.deps.Logger); err != nil {
		return nil, err
	}

	rows, err := u.deps.Requirements.FindByProjectID(ctx, projectID)
	if err != nil {
		u.deps.Logger.Error("load requirements failed", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	if len(rows) == 0 {
		return []RequirementView{}, nil
	}
	set, err := matching.Extract(projectID, rows, nil)
	if err != nil {
		return nil, err
	}
	return requirementViews(set), nil
}

// ReplaceRequirements swaps the whole requirement set of a project. An empty input clears it.
func (u *Requirements) ReplaceRequirements(ctx context.Context, sess session.Session, projectID uuid.UUID, in []RequirementInput) ([]RequirementView, error) {
	if err := authorize(sess, u.now(), true); err != nil {
		return nil, err
	}
	if _, err := ownedProject(ctx, u.deps.Projects, sess, projectID, u.deps.Logger); err != nil {
		return nil, err
	}

	catalog, err := loadCatalog(ctx, u.deps.Skills)
	if err != nil {
		u.deps.Logger.Error("load skill catalog failed", zap.Error(err))
		return nil, ErrInternal
	}

	rows := make([]matching.RequirementRow, 0, len(in))
	for i, r := range in {
		id, err := catalog.Normalize(r.Skill)
		if err != nil {
			return nil, fmt.Errorf("requirement %d: %w", i, err)
		}
		mandatory := true
		if r.IsMandatory != nil {
			mandatory = *r.IsMandatory
		}
		lvl, err := matching.ParseProficiency(r.RequiredProficiency)
		if err != nil {
			return nil, fmt.Errorf("requirement %d: %w", i, err)
		}
		rows = append(rows, matching.RequirementRow{
			SkillID:             id,
			RequiredProficiency: lvl.String(),
			IsMandatory:         mandatory,
			MinYears:            r.MinExperienceYears,
		})
	}

	var set matching.RequirementSet
	if len(rows) > 0 {
		set, err = matching.Extract(projectID, rows, catalog)
		if err != nil {
			return nil, err
		}
	}

	if err := u.deps.Requirements.Replace(ctx, projectID, rows); err != nil {
		if errors.Is(err, repository.ErrUnknownReference) {
			return nil, matching.ErrUnknownSkill
		}
		u.deps.Logger.Error("replace requirements failed", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, ErrInternal
	}

	if u.deps.Cache != nil {
		if err := invalidateRankings(ctx, u.deps.Cache, sess.CompanyID, projectID); err != nil {
			u.deps.Logger.Warn("invalidate rankings failed", zap.String("project_id", projectID.String()), zap.Error(err))
		}
	}

	publishEvent(ctx, u.deps.Publisher, u.deps.Metrics, u.deps.Logger, event.Event{
		Type:      event.TypeRequirementsUpdated,
		CompanyID: sess.CompanyID,
		ActorID:   sess.UserID,
		ProjectID: &projectID,
		Data: map[string]any{
			"requirements": len(rows),
			"mandatory":    set.MandatoryCount(),
		},
	})
	u.deps.Notifier.NotifyRequirementsUpdated(sess.CompanyID, projectID)

	return requirementViews(set), nil
}

func requirementViews(set matching.RequirementSet) []RequirementView {
	out := make([]RequirementView, 0, len(set.Requirements))
	for _, r := range set.Requirements {
		out = append(out, RequirementView{
			SkillID:             r.SkillID,
			SkillName:           r.SkillName,
			RequiredProficiency: r.RequiredLevel.String(),
			IsMandatory:         r.Mandatory,
			MinExperienceYears:  r.MinYears,
			Weight:              r.Weight(),
		})
	}
	return out
}
