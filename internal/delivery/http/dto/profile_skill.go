package dto

import "github.com/google/uuid"

type ProfileSkillItem struct {
	Skill            string  `json:"skill"`
	ProficiencyLevel string  `json:"proficiency_level"`
	YearsExperience  int     `json:"years_experience"`
	IsPrimary        bool    `json:"is_primary"`
	LastUsedDate     *string `json:"last_used_date"`
	Endorsements     int     `json:"endorsements"`
}

type ReplaceProfileSkillsRequest struct {
	Skills []ProfileSkillItem `json:"skills"`
}

type ProfileSkillResponse struct {
	SkillID          uuid.UUID `json:"skill_id"`
	SkillName        string    `json:"skill_name"`
	ProficiencyLevel string    `json:"proficiency_level"`
	YearsExperience  int       `json:"years_experience"`
	IsPrimary        bool      `json:"is_primary"`
	LastUsedDate     *string   `json:"last_used_date"`
	Endorsements     int       `json:"endorsements"`
}
