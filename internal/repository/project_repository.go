package repository

import (
	"context"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/domain/project"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (project.Project, error)
}

type PostgresProjectRepository struct {
	db database.DB
}

func NewPostgresProjectRepository(db database.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db}
}

func (r *PostgresProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (project.Project, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, company_id, name, client_name, status, priority, start_date, end_date, created_at, updated_at
		 FROM projects
		 WHERE id = $1`,
		id,
	)

	var (
		p                project.Project
		status, priority string
	)
	if err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &p.ClientName, &status, &priority, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return project.Project{}, ErrProjectNotFound
		}
		return project.Project{}, err
	}

	var err error
	if p.Status, err = project.ParseStatus(status); err != nil {
		return project.Project{}, fmt.Errorf("project %s: %w", p.ID, err)
	}
	if p.Priority, err = project.ParsePriority(priority); err != nil {
		return project.Project{}, fmt.Errorf("project %s: %w", p.ID, err)
	}
	return p, nil
}
