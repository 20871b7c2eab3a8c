// Package fixture loads offline ranking snapshots so a project can be ranked without a
// database.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// skillNamespace derives stable skill ids for snapshots that only name their skills.
var skillNamespace = uuid.MustParse("8f1c7d52-3a41-4e8b-b0d6-2c9e5f7a1b30")

type Snapshot struct {
	ProjectID    uuid.UUID     `yaml:"project_id"`
	Skills       []Skill       `yaml:"skills"`
	Requirements []Requirement `yaml:"requirements"`
	Candidates   []Candidate   `yaml:"candidates"`
	Filter       Filter        `yaml:"filter"`
}

type Skill struct {
	ID       uuid.UUID `yaml:"id"`
	Name     string    `yaml:"name"`
	Category string    `yaml:"category"`
}

type Requirement struct {
	Skill     string `yaml:"skill"`
	Level     string `yaml:"level"`
	Mandatory *bool  `yaml:"mandatory"`
	MinYears  *int   `yaml:"min_years"`
}

type Candidate struct {
	ID     uuid.UUID        `yaml:"id"`
	Name   string           `yaml:"name"`
	Skills []CandidateSkill `yaml:"skills"`
}

type CandidateSkill struct {
	Skill   string `yaml:"skill"`
	Level   string `yaml:"level"`
	Years   int    `yaml:"years"`
	Primary bool   `yaml:"primary"`
}

type Filter struct {
	MinScore                int  `yaml:"min_score"`
	Limit                   int  `yaml:"limit"`
	ExcludeMandatoryMissing bool `yaml:"exclude_mandatory_missing"`
}

func Load(r io.Reader) (Snapshot, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Snapshot{}, fmt.Errorf("%w: empty document", ErrInvalidSnapshot)
		}
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := s.validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func LoadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	return Load(f)
}

func (s *Snapshot) validate() error {
	if len(s.Skills) == 0 {
		return fmt.Errorf("%w: no skills", ErrInvalidSnapshot)
	}
	for i := range s.Skills {
		if strings.TrimSpace(s.Skills[i].Name) == "" {
			return fmt.Errorf("%w: skill %d has no name", ErrInvalidSnapshot, i)
		}
		if s.Skills[i].ID == uuid.Nil {
			s.Skills[i].ID = uuid.NewSHA1(skillNamespace, []byte(matching.SkillKey(s.Skills[i].Name)))
		}
	}
	for i := range s.Candidates {
		if s.Candidates[i].ID == uuid.Nil {
			return fmt.Errorf("%w: candidate %d has no id", ErrInvalidSnapshot, i)
		}
	}
	if s.ProjectID == uuid.Nil {
		s.ProjectID = uuid.New()
	}
	return nil
}

func (s Snapshot) Catalog() *matching.Catalog {
	skills := make([]matching.Skill, 0, len(s.Skills))
	for _, sk := range s.Skills {
		skills = append(skills, matching.Skill{ID: sk.ID, Name: sk.Name, Category: sk.Category})
	}
	return matching.NewCatalog(skills)
}

// RequirementSet normalizes requirement references through catalog. Mandatory defaults to true.
func (s Snapshot) RequirementSet(catalog *matching.Catalog) (matching.RequirementSet, error) {
	rows := make([]matching.RequirementRow, 0, len(s.Requirements))
	for _, r := range s.Requirements {
		id, err := catalog.Normalize(r.Skill)
		if err != nil {
			return matching.RequirementSet{}, err
		}
		mandatory := true
		if r.Mandatory != nil {
			mandatory = *r.Mandatory
		}
		rows = append(rows, matching.RequirementRow{
			SkillID:             id,
			RequiredProficiency: r.Level,
			IsMandatory:         mandatory,
			MinYears:            r.MinYears,
		})
	}
	return matching.Extract(s.ProjectID, rows, catalog)
}

// CandidatePool keeps skill references unresolved; the engine resolves them per candidate.
// An unparseable level stays at none so the candidate fails validation on its own.
func (s Snapshot) CandidatePool() []matching.Candidate {
	out := make([]matching.Candidate, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		mc := matching.Candidate{ID: c.ID, Skills: make([]matching.CandidateSkill, 0, len(c.Skills))}
		for _, cs := range c.Skills {
			lvl, _ := matching.ParseProficiency(cs.Level)
			mc.Skills = append(mc.Skills, matching.CandidateSkill{
				SkillRef:  cs.Skill,
				Level:     lvl,
				Years:     cs.Years,
				IsPrimary: cs.Primary,
			})
		}
		out = append(out, mc)
	}
	return out
}

func (s Snapshot) Names() map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(s.Candidates))
	for _, c := range s.Candidates {
		out[c.ID] = c.Name
	}
	return out
}

// Rank scores the snapshot pool and applies the snapshot filter.
func (s Snapshot) Rank(ctx context.Context, opts matching.Options) (matching.Ranking, error) {
	catalog := s.Catalog()
	set, err := s.RequirementSet(catalog)
	if err != nil {
		return matching.Ranking{}, err
	}
	ranking, err := matching.NewEngine(catalog, opts).Rank(ctx, set, s.CandidatePool())
	if err != nil {
		return matching.Ranking{}, err
	}
	ranking.Results = matching.Filter{
		MinScore:                s.Filter.MinScore,
		ExcludeMandatoryMissing: s.Filter.ExcludeMandatoryMissing,
		Limit:                   s.Filter.Limit,
	}.Apply(ranking.Results)
	return ranking, nil
}
