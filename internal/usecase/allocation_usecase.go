package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"talent-match/internal/domain/project"
	"talent-match/internal/infrastructure/event"
	"talent-match/internal/metrics"
	"talent-match/internal/repository"
	"talent-match/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AllocationInput struct {
	ProfileID            uuid.UUID
	RoleInProject        string
	AllocationPercentage int
	StartDate            time.Time
}

type AllocationUsecase interface {
	CreateAllocation(ctx context.Context, sess session.Session, projectID uuid.UUID, in AllocationInput) (project.Allocation, error)
	ListAllocations(ctx context.Context, sess session.Session, projectID uuid.UUID) ([]project.Allocation, error)
}

type AllocationDeps struct {
	Projects    repository.ProjectRepository
	Profiles    repository.ProfileRepository
	Allocations repository.AllocationRepository
	// Scorer computes the match score stored with the allocation.
	Scorer MatchingUsecase

	Publisher EventPublisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

type Allocations struct {
	deps AllocationDeps
	now  func() time.Time
}

func NewAllocationUsecase(deps AllocationDeps) *Allocations {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Allocations{deps: deps, now: time.Now}
}

func (u *Allocations) CreateAllocation(ctx context.Context, sess session.Session, projectID uuid.UUID, in AllocationInput) (project.Allocation, error) {
	if err := authorize(sess, u.now(), true); err != nil {
		return project.Allocation{}, err
	}

	role := strings.TrimSpace(in.RoleInProject)
	if role == "" {
		return project.Allocation{}, fmt.Errorf("%w: role_in_project is required", ErrInvalidInput)
	}
	if in.AllocationPercentage < 1 || in.AllocationPercentage > 100 {
		return project.Allocation{}, fmt.Errorf("%w: allocation_percentage must be within 1..100", ErrInvalidInput)
	}
	if in.StartDate.IsZero() {
		return project.Allocation{}, fmt.Errorf("%w: start_date is required", ErrInvalidInput)
	}

	p, err := ownedProject(ctx, u.deps.Projects, sess, projectID, u.deps.Logger)
	if err != nil {
		return project.Allocation{}, err
	}
	if !p.Status.Staffable() {
		return project.Allocation{}, fmt.Errorf("%w: project is %s", ErrConflict, p.Status)
	}

	prof, err := ownedProfile(ctx, u.deps.Profiles, sess, in.ProfileID, u.deps.Logger)
	if err != nil {
		return project.Allocation{}, err
	}
	if !prof.Availability.Rankable() {
		return project.Allocation{}, fmt.Errorf("%w: profile is %s", ErrConflict, prof.Availability)
	}

	res, err := u.deps.Scorer.ScoreProfile(ctx, sess, projectID, in.ProfileID)
	if err != nil {
		return project.Allocation{}, err
	}

	a, err := u.deps.Allocations.Create(ctx, project.Allocation{
		ProjectID:            projectID,
		ProfileID:            in.ProfileID,
		RoleInProject:        role,
		AllocationPercentage: in.AllocationPercentage,
		StartDate:            in.StartDate,
		MatchScore:           res.Score,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAllocationExists):
			return project.Allocation{}, fmt.Errorf("%w: profile is already allocated to this project", ErrConflict)
		case errors.Is(err, repository.ErrUnknownReference):
			return project.Allocation{}, ErrInvalidInput
		default:
			u.deps.Logger.Error("create allocation failed", zap.String("project_id", projectID.String()), zap.Error(err))
			return project.Allocation{}, ErrInternal
		}
	}

	publishEvent(ctx, u.deps.Publisher, u.deps.Metrics, u.deps.Logger, event.Event{
		Type:      event.TypeAllocationCreated,
		CompanyID: sess.CompanyID,
		ActorID:   sess.UserID,
		ProjectID: &projectID,
		ProfileID: &a.ProfileID,
		Data: map[string]any{
			"allocation_id":         a.ID.String(),
			"allocation_percentage": a.AllocationPercentage,
			"match_score":           a.MatchScore,
		},
	})
	return a, nil
}

func (u *Allocations) ListAllocations(ctx context.Context, sess session.Session, projectID uuid.UUID) ([]project.Allocation, error) {
	if err := authorize(sess, u.now(), false); err != nil {
		return nil, err
	}
	if _, err := ownedProject(ctx, u.deps.Projects, sess, projectID, u.deps.Logger); err != nil {
		return nil, err
	}
	out, err := u.deps.Allocations.ListByProject(ctx, projectID)
	if err != nil {
		u.deps.Logger.Error("list allocations failed", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	return out, nil
}
