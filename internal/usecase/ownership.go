package usecase

import (
	"context"
	"errors"

	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/profile"
	"talent-match/internal/domain/project"
	"talent-match/internal/repository"
	"talent-match/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ownedProject loads a project of the session's company. Projects of other companies read
// as missing.
func ownedProject(ctx context.Context, repo repository.ProjectRepository, sess session.Session, id uuid.UUID, logger *zap.Logger) (project.Project, error) {
	if id == uuid.Nil {
		return project.Project{}, matching.ErrProjectNotFound
	}
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return project.Project{}, matching.ErrProjectNotFound
		}
		logger.Error("load project failed", zap.String("project_id", id.String()), zap.Error(err))
		return project.Project{}, ErrInternal
	}
	if !sess.Owns(p.CompanyID) {
		return project.Project{}, matching.ErrProjectNotFound
	}
	return p, nil
}

func ownedProfile(ctx context.Context, repo repository.ProfileRepository, sess session.Session, id uuid.UUID, logger *zap.Logger) (profile.Profile, error) {
	if id == uuid.Nil {
		return profile.Profile{}, matching.ErrProfileNotFound
	}
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return profile.Profile{}, matching.ErrProfileNotFound
		}
		logger.Error("load profile failed", zap.String("profile_id", id.String()), zap.Error(err))
		return profile.Profile{}, ErrInternal
	}
	if !sess.Owns(p.CompanyID) {
		return profile.Profile{}, matching.ErrProfileNotFound
	}
	return p, nil
}
