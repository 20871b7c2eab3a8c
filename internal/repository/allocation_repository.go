package repository

import (
	"context"

	"talent-match/internal/database"
	"talent-match/internal/domain/project"

	"github.com/google/uuid"
)

type AllocationRepository interface {
	Create(ctx context.Context, a project.Allocation) (project.Allocation, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]project.Allocation, error)
}

type PostgresAllocationRepository struct {
	db database.DB
}

func NewPostgresAllocationRepository(db database.DB) *PostgresAllocationRepository {
	return &PostgresAllocationRepository{db: db}
}

func (r *PostgresAllocationRepository) Create(ctx context.Context, a project.Allocation) (project.Allocation, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = "active"
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO project_allocations (
			id, project_id, profile_id, role_in_project, allocation_percentage, start_date, status, match_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		a.ID, a.ProjectID, a.ProfileID, a.RoleInProject, a.AllocationPercentage, a.StartDate, a.Status, a.MatchScore,
	)
	if err := row.Scan(&a.CreatedAt); err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return project.Allocation{}, ErrAllocationExists
		case database.IsForeignKeyViolation(err):
			return project.Allocation{}, ErrUnknownReference
		default:
			return project.Allocation{}, err
		}
	}
	return a, nil
}

func (r *PostgresAllocationRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]project.Allocation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, project_id, profile_id, role_in_project, allocation_percentage, start_date, status, match_score, created_at
		 FROM project_allocations
		 WHERE project_id = $1
		 ORDER BY created_at ASC, id ASC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]project.Allocation, 0)
	for rows.Next() {
		var a project.Allocation
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.ProfileID, &a.RoleInProject, &a.AllocationPercentage, &a.StartDate, &a.Status, &a.MatchScore, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
