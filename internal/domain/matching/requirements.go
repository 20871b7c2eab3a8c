package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	MandatoryWeight = 2
	OptionalWeight  = 1
)

// RequirementRow is one persisted project_required_skills row.
type RequirementRow struct {
	SkillID             uuid.UUID
	SkillName           string
	RequiredProficiency string
	IsMandatory         bool
	MinYears            *int
}

type Requirement struct {
	SkillID       uuid.UUID
	SkillName     string
	RequiredLevel Proficiency
	Mandatory     bool
	MinYears      int
}

func (r Requirement) Weight() int {
	if r.Mandatory {
		return MandatoryWeight
	}
	return OptionalWeight
}

type RequirementSet struct {
	ProjectID    uuid.UUID
	Requirements []Requirement
}

func (s RequirementSet) TotalWeight() int {
	total := 0
	for _, r := range s.Requirements {
		total += r.Weight()
	}
	return total
}

func (s RequirementSet) MandatoryCount() int {
	n := 0
	for _, r := range s.Requirements {
		if r.Mandatory {
			n++
		}
	}
	return n
}

// Extract validates rows and orders them mandatory first, then by skill name and id.
// A nil catalog skips the catalog membership check.
func Extract(projectID uuid.UUID, rows []RequirementRow, catalog *Catalog) (RequirementSet, error) {
	if len(rows) == 0 {
		return RequirementSet{}, ErrNoRequirements
	}

	seen := make(map[uuid.UUID]struct{}, len(rows))
	reqs := make([]Requirement, 0, len(rows))
	for _, row := range rows {
		if row.SkillID == uuid.Nil {
			return RequirementSet{}, fmt.Errorf("%w: requirement without skill id", ErrValidation)
		}
		if _, dup := seen[row.SkillID]; dup {
			return RequirementSet{}, fmt.Errorf("%w: duplicate requirement for skill %s", ErrValidation, row.SkillID)
		}
		seen[row.SkillID] = struct{}{}

		lvl, err := ParseProficiency(row.RequiredProficiency)
		if err != nil {
			return RequirementSet{}, fmt.Errorf("skill %s: %w", row.SkillID, err)
		}

		minYears := 0
		if row.MinYears != nil {
			if *row.MinYears < 0 {
				return RequirementSet{}, fmt.Errorf("%w: negative minimum years for skill %s", ErrValidation, row.SkillID)
			}
			minYears = *row.MinYears
		}

		name := strings.TrimSpace(row.SkillName)
		if catalog != nil {
			if _, err := catalog.NormalizeID(row.SkillID); err != nil {
				return RequirementSet{}, err
			}
			if s, ok := catalog.Skill(row.SkillID); ok {
				name = s.Name
			}
		}

		reqs = append(reqs, Requirement{
			SkillID:       row.SkillID,
			SkillName:     name,
			RequiredLevel: lvl,
			Mandatory:     row.IsMandatory,
			MinYears:      minYears,
		})
	}

	sort.SliceStable(reqs, func(i, j int) bool {
		a, b := reqs[i], reqs[j]
		if a.Mandatory != b.Mandatory {
			return a.Mandatory
		}
		if a.SkillName != b.SkillName {
			return a.SkillName < b.SkillName
		}
		return a.SkillID.String() < b.SkillID.String()
	})

	return RequirementSet{ProjectID: projectID, Requirements: reqs}, nil
}
