package repository

import (
	"context"

	"talent-match/internal/database"
	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
)

type RequirementRepository interface {
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]matching.RequirementRow, error)
	Replace(ctx context.Context, projectID uuid.UUID, rows []matching.RequirementRow) error
}

type PostgresRequirementRepository struct {
	db database.DB
}

func NewPostgresRequirementRepository(db database.DB) *PostgresRequirementRepository {
	return &PostgresRequirementRepository{db: db}
}

func (r *PostgresRequirementRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]matching.RequirementRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT prs.skill_id, s.name, prs.required_proficiency, prs.is_mandatory, prs.min_experience_years
		 FROM project_required_skills prs
		 JOIN skills s ON s.id = prs.skill_id
		 WHERE prs.project_id = $1
		 ORDER BY prs.is_mandatory DESC, s.name ASC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matching.RequirementRow, 0)
	for rows.Next() {
		var row matching.RequirementRow
		if err := rows.Scan(&row.SkillID, &row.SkillName, &row.RequiredProficiency, &row.IsMandatory, &row.MinYears); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRequirementRepository) Replace(ctx context.Context, projectID uuid.UUID, rows []matching.RequirementRow) error {
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM project_required_skills WHERE project_id = $1`, projectID); err != nil {
			return err
		}
		for _, row := range rows {
			_, err := tx.Exec(ctx,
				`INSERT INTO project_required_skills (
					project_id, skill_id, required_proficiency, is_mandatory, min_experience_years
				) VALUES ($1, $2, $3, $4, $5)`,
				projectID, row.SkillID, row.RequiredProficiency, row.IsMandatory, row.MinYears,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if database.IsForeignKeyViolation(err) {
		return ErrUnknownReference
	}
	return err
}
