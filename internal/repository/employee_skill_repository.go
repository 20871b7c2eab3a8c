package repository

import (
	"context"

	"talent-match/internal/database"
	"talent-match/internal/domain/profile"

	"github.com/google/uuid"
)

type EmployeeSkillRepository interface {
	// FindByProfileIDs loads the skill rows of every profile in one query.
	FindByProfileIDs(ctx context.Context, profileIDs []uuid.UUID) (map[uuid.UUID][]profile.EmployeeSkill, error)
	// Replace swaps the profile's whole skill set in one transaction.
	Replace(ctx context.Context, profileID uuid.UUID, skills []profile.EmployeeSkill) error
}

type PostgresEmployeeSkillRepository struct {
	db database.DB
}

func NewPostgresEmployeeSkillRepository(db database.DB) *PostgresEmployeeSkillRepository {
	return &PostgresEmployeeSkillRepository{db: db}
}

func (r *PostgresEmployeeSkillRepository) FindByProfileIDs(ctx context.Context, profileIDs []uuid.UUID) (map[uuid.UUID][]profile.EmployeeSkill, error) {
	out := make(map[uuid.UUID][]profile.EmployeeSkill, len(profileIDs))
	if len(profileIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT es.profile_id, es.skill_id, s.name, es.proficiency_level, es.years_experience,
		        es.is_primary, es.last_used_date, es.endorsements
		 FROM employee_skills es
		 JOIN skills s ON s.id = es.skill_id
		 WHERE es.profile_id = ANY($1)
		 ORDER BY es.profile_id ASC, s.name ASC`,
		profileIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var es profile.EmployeeSkill
		if err := rows.Scan(&es.ProfileID, &es.SkillID, &es.SkillName, &es.Proficiency, &es.YearsExperience, &es.IsPrimary, &es.LastUsedDate, &es.Endorsements); err != nil {
			return nil, err
		}
		out[es.ProfileID] = append(out[es.ProfileID], es)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresEmployeeSkillRepository) Replace(ctx context.Context, profileID uuid.UUID, skills []profile.EmployeeSkill) error {
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM employee_skills WHERE profile_id = $1`, profileID); err != nil {
			return err
		}
		for _, s := range skills {
			_, err := tx.Exec(ctx,
				`INSERT INTO employee_skills (
					profile_id, skill_id, proficiency_level, years_experience, is_primary, last_used_date, endorsements
				) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				profileID, s.SkillID, s.Proficiency, s.YearsExperience, s.IsPrimary, s.LastUsedDate, s.Endorsements,
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
