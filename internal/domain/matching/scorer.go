package matching

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CandidateSkill is one employee_skills row. SkillRef is used when SkillID is unset.
type CandidateSkill struct {
	SkillID    uuid.UUID
	SkillRef   string
	Level      Proficiency
	Years      int
	IsPrimary  bool
	LastUsedAt *time.Time
}

type Candidate struct {
	ID     uuid.UUID
	Skills []CandidateSkill
}

type SkillOutcome struct {
	SkillID        uuid.UUID   `json:"skill_id"`
	SkillName      string      `json:"skill_name"`
	Required       bool        `json:"required"`
	Satisfied      bool        `json:"satisfied"`
	RequiredLevel  Proficiency `json:"required_level"`
	CandidateLevel Proficiency `json:"candidate_level"`
	MinYears       int         `json:"min_years"`
	CandidateYears int         `json:"candidate_years"`
}

type MatchResult struct {
	CandidateID        uuid.UUID      `json:"candidate_id"`
	Score              int            `json:"score"`
	Breakdown          []SkillOutcome `json:"breakdown"`
	SatisfiedMandatory int            `json:"satisfied_mandatory"`
	RelevantYears      int            `json:"relevant_years"`
	MandatoryMissing   bool           `json:"mandatory_missing"`
}

// Resolve maps every SkillRef onto a catalog id. Skills that already carry an id are
// checked for catalog membership.
func Resolve(c Candidate, catalog *Catalog) (Candidate, error) {
	out := Candidate{ID: c.ID, Skills: make([]CandidateSkill, 0, len(c.Skills))}
	for _, s := range c.Skills {
		var (
			id  uuid.UUID
			err error
		)
		if s.SkillID != uuid.Nil {
			id, err = catalog.NormalizeID(s.SkillID)
		} else {
			id, err = catalog.Normalize(s.SkillRef)
		}
		if err != nil {
			return Candidate{}, fmt.Errorf("candidate %s: %w", c.ID, err)
		}
		s.SkillID = id
		out.Skills = append(out.Skills, s)
	}
	return out, nil
}

func Score(c Candidate, set RequirementSet) (MatchResult, error) {
	total := set.TotalWeight()
	if total == 0 {
		return MatchResult{}, ErrNoRequirements
	}

	held := make(map[uuid.UUID]CandidateSkill, len(c.Skills))
	for _, s := range c.Skills {
		if s.SkillID == uuid.Nil {
			return MatchResult{}, fmt.Errorf("%w: candidate %s has an unresolved skill %q", ErrValidation, c.ID, s.SkillRef)
		}
		if _, dup := held[s.SkillID]; dup {
			return MatchResult{}, fmt.Errorf("%w: candidate %s holds skill %s twice", ErrValidation, c.ID, s.SkillID)
		}
		if !s.Level.Valid() {
			return MatchResult{}, fmt.Errorf("%w: candidate %s has invalid level for skill %s", ErrValidation, c.ID, s.SkillID)
		}
		if s.Years < 0 {
			return MatchResult{}, fmt.Errorf("%w: candidate %s has negative years for skill %s", ErrValidation, c.ID, s.SkillID)
		}
		held[s.SkillID] = s
	}

	res := MatchResult{
		CandidateID: c.ID,
		Breakdown:   make([]SkillOutcome, 0, len(set.Requirements)),
	}

	earned := 0
	for _, r := range set.Requirements {
		s, ok := held[r.SkillID]
		lvl := ProficiencyNone
		years := 0
		if ok {
			lvl = s.Level
			years = s.Years
			res.RelevantYears += years
		}

		satisfied := ok && lvl.AtLeast(r.RequiredLevel)
		if satisfied && r.MinYears > 0 && years < r.MinYears {
			satisfied = false
		}

		if satisfied {
			earned += r.Weight()
			if r.Mandatory {
				res.SatisfiedMandatory++
			}
		} else if r.Mandatory {
			res.MandatoryMissing = true
		}

		res.Breakdown = append(res.Breakdown, SkillOutcome{
			SkillID:        r.SkillID,
			SkillName:      r.SkillName,
			Required:       r.Mandatory,
			Satisfied:      satisfied,
			RequiredLevel:  r.RequiredLevel,
			CandidateLevel: lvl,
			MinYears:       r.MinYears,
			CandidateYears: years,
		})
	}

	res.Score = percent(earned, total)
	return res, nil
}

// percent rounds 100*num/den half up and clamps to [0,100].
func percent(num, den int) int {
	if den <= 0 {
		return 0
	}
	v := (200*num + den) / (2 * den)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
