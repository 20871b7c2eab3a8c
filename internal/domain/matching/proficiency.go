package matching

import (
	"fmt"
	"strings"
)

// Proficiency is ordered by ordinal: none < beginner < intermediate < expert.
type Proficiency int

const (
	ProficiencyNone Proficiency = iota
	ProficiencyBeginner
	ProficiencyIntermediate
	ProficiencyExpert
)

func ParseProficiency(s string) (Proficiency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return ProficiencyBeginner, nil
	case "intermediate":
		return ProficiencyIntermediate, nil
	case "expert":
		return ProficiencyExpert, nil
	default:
		return ProficiencyNone, fmt.Errorf("%w: invalid proficiency %q", ErrValidation, s)
	}
}

func (p Proficiency) String() string {
	switch p {
	case ProficiencyNone:
		return "none"
	case ProficiencyBeginner:
		return "beginner"
	case ProficiencyIntermediate:
		return "intermediate"
	case ProficiencyExpert:
		return "expert"
	default:
		return fmt.Sprintf("proficiency(%d)", int(p))
	}
}

// Valid reports whether p is a level that can be held or required.
func (p Proficiency) Valid() bool {
	return p >= ProficiencyBeginner && p <= ProficiencyExpert
}

func (p Proficiency) AtLeast(required Proficiency) bool {
	return p >= required
}

func (p Proficiency) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Proficiency) UnmarshalText(b []byte) error {
	if strings.EqualFold(strings.TrimSpace(string(b)), "none") {
		*p = ProficiencyNone
		return nil
	}
	v, err := ParseProficiency(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
