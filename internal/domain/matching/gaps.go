package matching

import (
	"fmt"

	"github.com/google/uuid"
)

type GapAction int

const (
	ActionAcquire GapAction = iota
	ActionLevelUp
	ActionGainExperience
)

func (a GapAction) String() string {
	switch a {
	case ActionAcquire:
		return "acquire"
	case ActionLevelUp:
		return "level_up"
	case ActionGainExperience:
		return "gain_experience"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

func (a GapAction) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

type Gap struct {
	SkillID       uuid.UUID   `json:"skill_id"`
	SkillName     string      `json:"skill_name"`
	Mandatory     bool        `json:"mandatory"`
	CurrentLevel  Proficiency `json:"current_level"`
	RequiredLevel Proficiency `json:"required_level"`
	LevelGap      int         `json:"level_gap"`
	YearsGap      int         `json:"years_gap"`
	Action        GapAction   `json:"action"`
}

// Gaps lists the unsatisfied outcomes of r in breakdown order.
func Gaps(r MatchResult) []Gap {
	out := make([]Gap, 0)
	for _, o := range r.Breakdown {
		if o.Satisfied {
			continue
		}
		g := Gap{
			SkillID:       o.SkillID,
			SkillName:     o.SkillName,
			Mandatory:     o.Required,
			CurrentLevel:  o.CandidateLevel,
			RequiredLevel: o.RequiredLevel,
		}
		if d := int(o.RequiredLevel) - int(o.CandidateLevel); d > 0 {
			g.LevelGap = d
		}
		if o.MinYears > 0 && o.CandidateYears < o.MinYears {
			g.YearsGap = o.MinYears - o.CandidateYears
		}
		switch {
		case o.CandidateLevel == ProficiencyNone:
			g.Action = ActionAcquire
		case g.LevelGap > 0:
			g.Action = ActionLevelUp
		default:
			g.Action = ActionGainExperience
		}
		out = append(out, g)
	}
	return out
}
