package seeder

import (
	"context"
	"fmt"

	"talent-match/internal/database"

	"github.com/google/uuid"
)

// Fixed ids so repeated runs converge on the same rows.
var (
	SampleCompanyID = uuid.MustParse("5c6f2a8e-1d3b-4c7a-9e21-0a4b6c8d0e01")
	SampleProjectID = uuid.MustParse("5c6f2a8e-1d3b-4c7a-9e21-0a4b6c8d0f01")
)

type sampleProfile struct {
	ID           uuid.UUID
	FullName     string
	Designation  string
	Department   string
	Availability string
	Years        int
	Skills       []sampleSkill
}

type sampleSkill struct {
	Name    string
	Level   string
	Years   int
	Primary bool
}

type sampleRequirement struct {
	Name      string
	Level     string
	Mandatory bool
	MinYears  *int
}

var sampleProfiles = []sampleProfile{
	{
		ID: uuid.MustParse("5c6f2a8e-1d3b-4c7a-9e21-0a4b6c8d1001"), FullName: "Rina Hartono",
		Designation: "Senior Engineer", Department: "Platform", Availability: "available", Years: 8,
		Skills: []sampleSkill{
			{Name: "Go", Level: "expert", Years: 6, Primary: true},
			{Name: "PostgreSQL", Level: "expert", Years: 7},
			{Name: "Kubernetes", Level: "intermediate", Years: 3},
		},
	},
	{
		ID: uuid.MustParse("5c6f2a8e-1d3b-4c7a-9e21-0a4b6c8d1002"), FullName: "Dimas Saputra",
		Designation: "Engineer", Department: "Platform", Availability: "partially_available", Years: 4,
		Skills: []sampleSkill{
			{Name: "Go", Level: "intermediate", Years: 2, Primary: true},
			{Name: "Docker", Level: "expert", Years: 4},
			{Name: "AWS", Level: "intermediate", Years: 2},
		},
	},
	{
		ID: uuid.MustParse("5c6f2a8e-1d3b-4c7a-9e21-0a4b6c8d1003"), FullName: "Maya Lestari",
		Designation: "Frontend Engineer", Department: "Product", Availability: "available", Years: 5,
		Skills: []sampleSkill{
			{Name: "React", Level: "expert", Years: 5, Primary: true},
			{Name: "TypeScript", Level: "expert", Years: 4},
			{Name: "Node.js", Level: "beginner", Years: 1},
		},
	},
	{
		ID: uuid.MustParse("5c6f2a8e-1d3b-4c7a-9e21-0a4b6c8d1004"), FullName: "Arif Nugroho",
		Designation: "Data Engineer", Department: "Data", Availability: "on_leave", Years: 6,
		Skills: []sampleSkill{
			{Name: "Python", Level: "expert", Years: 6, Primary: true},
			{Name: "PostgreSQL", Level: "intermediate", Years: 4},
		},
	},
}

func intPtr(v int) *int { return &v }

var sampleRequirements = []sampleRequirement{
	{Name: "Go", Level: "intermediate", Mandatory: true, MinYears: intPtr(2)},
	{Name: "PostgreSQL", Level: "intermediate", Mandatory: true},
	{Name: "Kubernetes", Level: "beginner", Mandatory: false},
	{Name: "AWS", Level: "beginner", Mandatory: false},
}

// SampleCompanySeeder creates one company with a staffing project and a small bench.
// It depends on SkillsSeeder having run first.
type SampleCompanySeeder struct{}

func (SampleCompanySeeder) Name() string { return "sample_company" }

func (SampleCompanySeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "project_required_skills", "project_id", "skill_id", "required_proficiency", "is_mandatory", "min_experience_years"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO companies (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			SampleCompanyID, "Acme Consulting",
		); err != nil {
			return fmt.Errorf("insert company: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO projects (id, company_id, name, client_name, status, priority, start_date)
			 VALUES ($1, $2, $3, $4, 'active', 'high', CURRENT_DATE) ON CONFLICT (id) DO NOTHING`,
			SampleProjectID, SampleCompanyID, "Payments Platform Rebuild", "Nusantara Bank",
		); err != nil {
			return fmt.Errorf("insert project: %w", err)
		}

		for _, r := range sampleRequirements {
			if _, err := tx.Exec(ctx,
				`INSERT INTO project_required_skills (project_id, skill_id, required_proficiency, is_mandatory, min_experience_years)
				 SELECT $1, id, $3, $4, $5 FROM skills WHERE lower(name) = lower($2)
				 ON CONFLICT (project_id, skill_id) DO NOTHING`,
				SampleProjectID, r.Name, r.Level, r.Mandatory, r.MinYears,
			); err != nil {
				return fmt.Errorf("insert requirement %s: %w", r.Name, err)
			}
		}

		for _, p := range sampleProfiles {
			if _, err := tx.Exec(ctx,
				`INSERT INTO profiles (id, company_id, full_name, designation, department, availability_status, years_of_experience)
				 VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`,
				p.ID, SampleCompanyID, p.FullName, p.Designation, p.Department, p.Availability, p.Years,
			); err != nil {
				return fmt.Errorf("insert profile %s: %w", p.FullName, err)
			}
			for _, s := range p.Skills {
				if _, err := tx.Exec(ctx,
					`INSERT INTO employee_skills (profile_id, skill_id, proficiency_level, years_experience, is_primary)
					 SELECT $1, id, $3, $4, $5 FROM skills WHERE lower(name) = lower($2)
					 ON CONFLICT (profile_id, skill_id) DO NOTHING`,
					p.ID, s.Name, s.Level, s.Years, s.Primary,
				); err != nil {
					return fmt.Errorf("insert skill %s for %s: %w", s.Name, p.FullName, err)
				}
			}
		}
		return nil
	})
}

func SampleProfileIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(sampleProfiles))
	for _, p := range sampleProfiles {
		out = append(out, p.ID)
	}
	return out
}
