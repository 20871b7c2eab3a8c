package repository

import (
	"context"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/domain/profile"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error)
	// ListPool returns the company's profiles that can be ranked, ordered by id.
	ListPool(ctx context.Context, companyID uuid.UUID) ([]profile.Profile, error)
	// FindByIDs returns the subset of ids that belong to companyID, ordered by id.
	FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]profile.Profile, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileColumns = `id, company_id, full_name, designation, department, availability_status, years_of_experience, created_at, updated_at`

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err != nil {
		if database.IsNoRows(err) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) ListPool(ctx context.Context, companyID uuid.UUID) ([]profile.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE company_id = $1 AND availability_status <> $2
		 ORDER BY id ASC`,
		companyID, profile.AvailabilityOnLeave.String(),
	)
	if err != nil {
		return nil, err
	}
	return collectProfiles(rows)
}

func (r *PostgresProfileRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]profile.Profile, error) {
	if len(ids) == 0 {
		return []profile.Profile{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE company_id = $1 AND id = ANY($2)
		 ORDER BY id ASC`,
		companyID, ids,
	)
	if err != nil {
		return nil, err
	}
	return collectProfiles(rows)
}

func collectProfiles(rows database.Rows) ([]profile.Profile, error) {
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var (
		p     profile.Profile
		avail string
	)
	if err := row.Scan(&p.ID, &p.CompanyID, &p.FullName, &p.Designation, &p.Department, &avail, &p.YearsOfExperience, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return profile.Profile{}, err
	}
	a, err := profile.ParseAvailability(avail)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("profile %s: %w", p.ID, err)
	}
	p.Availability = a
	return p, nil
}
