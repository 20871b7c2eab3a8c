package usecase

import (
	"context"

	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/profile"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

func loadCatalog(ctx context.Context, skills repository.SkillRepository) (*matching.Catalog, error) {
	rows, err := skills.ListSkills(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]matching.Skill, 0, len(rows))
	for _, s := range rows {
		list = append(list, matching.Skill{ID: s.ID, Name: s.Name, Category: s.Category})
	}
	return matching.NewCatalog(list), nil
}

// candidateFromRows converts stored skill rows. Unparseable levels stay at none so the scorer
// reports them as a per-candidate validation failure.
func candidateFromRows(id uuid.UUID, rows []profile.EmployeeSkill) matching.Candidate {
	c := matching.Candidate{ID: id, Skills: make([]matching.CandidateSkill, 0, len(rows))}
	for _, r := range rows {
		lvl, _ := matching.ParseProficiency(r.Proficiency)
		c.Skills = append(c.Skills, matching.CandidateSkill{
			SkillID:    r.SkillID,
			SkillRef:   r.SkillName,
			Level:      lvl,
			Years:      r.YearsExperience,
			IsPrimary:  r.IsPrimary,
			LastUsedAt: r.LastUsedDate,
		})
	}
	return c
}
