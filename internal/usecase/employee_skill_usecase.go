package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/profile"
	"talent-match/internal/infrastructure/event"
	"talent-match/internal/metrics"
	"talent-match/internal/repository"
	"talent-match/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EmployeeSkillInput struct {
	Skill            string
	ProficiencyLevel string
	YearsExperience  int
	IsPrimary        bool
	LastUsedDate     *time.Time
	Endorsements     int
}

type EmployeeSkillView struct {
	SkillID          uuid.UUID
	SkillName        string
	ProficiencyLevel string
	YearsExperience  int
	IsPrimary        bool
	LastUsedDate     *time.Time
	Endorsements     int
}

type EmployeeSkillUsecase interface {
	ListSkills(ctx context.Context, sess session.Session, profileID uuid.UUID) ([]EmployeeSkillView, error)
	ReplaceSkills(ctx context.Context, sess session.Session, profileID uuid.UUID, in []EmployeeSkillInput) ([]EmployeeSkillView, error)
}

type EmployeeSkillDeps struct {
	Profiles       repository.ProfileRepository
	EmployeeSkills repository.EmployeeSkillRepository
	Skills         repository.SkillRepository

	Cache     RankingCache
	Publisher EventPublisher
	Notifier  Notifier
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

type EmployeeSkills struct {
	deps EmployeeSkillDeps
	now  func() time.Time
}

func NewEmployeeSkillUsecase(deps EmployeeSkillDeps) *EmployeeSkills {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	return &EmployeeSkills{deps: deps, now: time.Now}
}

func (u *EmployeeSkills) ListSkills(ctx context.Context, sess session.Session, profileID uuid.UUID) ([]EmployeeSkillView, error) {
	if err := authorize(sess, u.now(), false); err != nil {
		return nil, err
	}
	if _, err := ownedProfile(ctx, u.deps.Profiles, sess, profileID, u.deps.Logger); err != nil {
		return nil, err
	}

	byProfile, err := u.deps.EmployeeSkills.FindByProfileIDs(ctx, []uuid.UUID{profileID})
	if err != nil {
		u.deps.Logger.Error("load employee skills failed", zap.String("profile_id", profileID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	return employeeSkillViews(byProfile[profileID]), nil
}

// ReplaceSkills swaps the profile's skill set. Employees may only edit their own profile.
func (u *EmployeeSkills) ReplaceSkills(ctx context.Context, sess session.Session, profileID uuid.UUID, in []EmployeeSkillInput) ([]EmployeeSkillView, error) {
	if err := authorize(sess, u.now(), false); err != nil {
		return nil, err
	}
	if _, err := ownedProfile(ctx, u.deps.Profiles, sess, profileID, u.deps.Logger); err != nil {
		return nil, err
	}
	if !sess.Role.CanManageProjects() && sess.UserID != profileID {
		return nil, ErrForbidden
	}

	catalog, err := loadCatalog(ctx, u.deps.Skills)
	if err != nil {
		u.deps.Logger.Error("load skill catalog failed", zap.Error(err))
		return nil, ErrInternal
	}

	rows := make([]profile.EmployeeSkill, 0, len(in))
	seen := make(map[uuid.UUID]struct{}, len(in))
	for i, s := range in {
		id, err := catalog.Normalize(s.Skill)
		if err != nil {
			return nil, fmt.Errorf("skill %d: %w", i, err)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: skill %q listed twice", matching.ErrValidation, s.Skill)
		}
		seen[id] = struct{}{}

		lvl, err := matching.ParseProficiency(s.ProficiencyLevel)
		if err != nil {
			return nil, fmt.Errorf("skill %d: %w", i, err)
		}
		if s.YearsExperience < 0 || s.Endorsements < 0 {
			return nil, fmt.Errorf("%w: skill %d has negative counts", matching.ErrValidation, i)
		}

		sk, _ := catalog.Skill(id)
		rows = append(rows, profile.EmployeeSkill{
			ProfileID:       profileID,
			SkillID:         id,
			SkillName:       sk.Name,
			Proficiency:     lvl.String(),
			YearsExperience: s.YearsExperience,
			IsPrimary:       s.IsPrimary,
			LastUsedDate:    s.LastUsedDate,
			Endorsements:    s.Endorsements,
		})
	}

	if err := u.deps.EmployeeSkills.Replace(ctx, profileID, rows); err != nil {
		if errors.Is(err, repository.ErrUnknownReference) {
			return nil, matching.ErrUnknownSkill
		}
		u.deps.Logger.Error("replace employee skills failed", zap.String("profile_id", profileID.String()), zap.Error(err))
		return nil, ErrInternal
	}

	if u.deps.Cache != nil {
		if err := invalidateRankings(ctx, u.deps.Cache, sess.CompanyID, uuid.Nil); err != nil {
			u.deps.Logger.Warn("invalidate rankings failed", zap.String("company_id", sess.CompanyID.String()), zap.Error(err))
		}
	}

	publishEvent(ctx, u.deps.Publisher, u.deps.Metrics, u.deps.Logger, event.Event{
		Type:      event.TypeEmployeeSkillsUpdated,
		CompanyID: sess.CompanyID,
		ActorID:   sess.UserID,
		ProfileID: &profileID,
		Data:      map[string]any{"skills": len(rows)},
	})
	u.deps.Notifier.NotifySkillsUpdated(sess.CompanyID, profileID)

	return employeeSkillViews(rows), nil
}

func employeeSkillViews(rows []profile.EmployeeSkill) []EmployeeSkillView {
	out := make([]EmployeeSkillView, 0, len(rows))
	for _, r := range rows {
		out = append(out, EmployeeSkillView{
			SkillID:          r.SkillID,
			SkillName:        r.SkillName,
			ProficiencyLevel: r.Proficiency,
			YearsExperience:  r.YearsExperience,
			IsPrimary:        r.IsPrimary,
			LastUsedDate:     r.LastUsedDate,
			Endorsements:     r.Endorsements,
		})
	}
	return out
}
