package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/infrastructure/event"
	"talent-match/internal/metrics"
	"talent-match/internal/repository"
	"talent-match/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SkillView struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Description *string
}

type CreateSkillInput struct {
	Name        string
	Category    string
	Description *string
}

// NormalizedRef is the outcome for one reference of a bulk normalization.
type NormalizedRef struct {
	Ref       string
	SkillID   *uuid.UUID
	SkillName string
	Error     string
}

type SkillUsecase interface {
	ListSkills(ctx context.Context, sess session.Session) ([]SkillView, error)
	CreateSkill(ctx context.Context, sess session.Session, in CreateSkillInput) (SkillView, error)
	NormalizeSkills(ctx context.Context, sess session.Session, refs []string) ([]NormalizedRef, error)
}

type SkillDeps struct {
	Skills    repository.SkillRepository
	Publisher EventPublisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

type Skills struct {
	deps SkillDeps
	now  func() time.Time
}

func NewSkillUsecase(deps SkillDeps) *Skills {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Skills{deps: deps, now: time.Now}
}

func (u *Skills) ListSkills(ctx context.Context, sess session.Session) ([]SkillView, error) {
	if err := authorize(sess, u.now(), false); err != nil {
		return nil, err
	}
	rows, err := u.deps.Skills.ListSkills(ctx)
	if err != nil {
		u.deps.Logger.Error("list skills failed", zap.Error(err))
		return nil, ErrInternal
	}
	out := make([]SkillView, 0, len(rows))
	for _, s := range rows {
		out = append(out, skillView(s))
	}
	return out, nil
}

// CreateSkill adds a catalog entry. A name whose key collides with an existing skill or alias
// target is a conflict.
func (u *Skills) CreateSkill(ctx context.Context, sess session.Session, in CreateSkillInput) (SkillView, error) {
	if err := authorize(sess, u.now(), true); err != nil {
		return SkillView{}, err
	}
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if matching.SkillKey(name) == "" || category == "" {
		return SkillView{}, fmt.Errorf("%w: name and category are required", ErrInvalidInput)
	}

	catalog, err := loadCatalog(ctx, u.deps.Skills)
	if err != nil {
		u.deps.Logger.Error("load skill catalog failed", zap.Error(err))
		return SkillView{}, ErrInternal
	}
	if id, err := catalog.Normalize(name); err == nil {
		existing, _ := catalog.Skill(id)
		return SkillView{}, fmt.Errorf("%w: %q matches existing skill %q", ErrConflict, name, existing.Name)
	}

	created, err := u.deps.Skills.CreateSkill(ctx, repository.Skill{Name: name, Category: category, Description: in.Description})
	if err != nil {
		if errors.Is(err, repository.ErrSkillExists) {
			return SkillView{}, fmt.Errorf("%w: skill %q already exists", ErrConflict, name)
		}
		u.deps.Logger.Error("create skill failed", zap.String("name", name), zap.Error(err))
		return SkillView{}, ErrInternal
	}

	publishEvent(ctx, u.deps.Publisher, u.deps.Metrics, u.deps.Logger, event.Event{
		Type:      event.TypeSkillCreated,
		CompanyID: sess.CompanyID,
		ActorID:   sess.UserID,
		Data: map[string]any{
			"skill_id": created.ID.String(),
			"name":     created.Name,
			"category": created.Category,
		},
	})
	return skillView(created), nil
}

// NormalizeSkills resolves every ref independently. Unknown refs are reported in place.
func (u *Skills) NormalizeSkills(ctx context.Context, sess session.Session, refs []string) ([]NormalizedRef, error) {
	if err := authorize(sess, u.now(), false); err != nil {
		return nil, err
	}
	catalog, err := loadCatalog(ctx, u.deps.Skills)
	if err != nil {
		u.deps.Logger.Error("load skill catalog failed", zap.Error(err))
		return nil, ErrInternal
	}

	out := make([]NormalizedRef, 0, len(refs))
	for _, ref := range refs {
		n := NormalizedRef{Ref: ref}
		id, err := catalog.Normalize(ref)
		if err != nil {
			n.Error = err.Error()
		} else {
			s, _ := catalog.Skill(id)
			n.SkillID = &id
			n.SkillName = s.Name
		}
		out = append(out, n)
	}
	return out, nil
}

func skillView(s repository.Skill) SkillView {
	return SkillView{ID: s.ID, Name: s.Name, Category: s.Category, Description: s.Description}
}
