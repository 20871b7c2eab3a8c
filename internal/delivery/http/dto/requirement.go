package dto

import "github.com/google/uuid"

type RequirementItem struct {
	Skill               string `json:"skill"`
	RequiredProficiency string `json:"required_proficiency"`
	IsMandatory         *bool  `json:"is_mandatory"`
	MinExperienceYears  *int   `json:"min_experience_years"`
}

type ReplaceRequirementsRequest struct {
	Requirements []RequirementItem `json:"requirements"`
}

type RequirementResponse struct {
	SkillID             uuid.UUID `json:"skill_id"`
	SkillName           string    `json:"skill_name"`
	RequiredProficiency string    `json:"required_proficiency"`
	IsMandatory         bool      `json:"is_mandatory"`
	MinExperienceYears  int       `json:"min_experience_years"`
	Weight              int       `json:"weight"`
}
