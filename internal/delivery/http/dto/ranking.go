package dto

import "github.com/google/uuid"

type RankingRequest struct {
	CandidateIDs            []uuid.UUID `json:"candidate_ids"`
	MinScore                int         `json:"min_score"`
	Limit                   int         `json:"limit"`
	ExcludeMandatoryMissing bool        `json:"exclude_mandatory_missing"`
}

type SkillOutcomeResponse struct {
	SkillID        uuid.UUID `json:"skill_id"`
	SkillName      string    `json:"skill_name"`
	Required       bool      `json:"required"`
	Satisfied      bool      `json:"satisfied"`
	RequiredLevel  string    `json:"required_level"`
	CandidateLevel string    `json:"candidate_level"`
	MinYears       int       `json:"min_years"`
	CandidateYears int       `json:"candidate_years"`
}

type RankedCandidateResponse struct {
	Rank               int                    `json:"rank"`
	CandidateID        uuid.UUID              `json:"candidate_id"`
	FullName           string                 `json:"full_name"`
	Designation        string                 `json:"designation"`
	Department         string                 `json:"department"`
	Availability       string                 `json:"availability"`
	Score              int                    `json:"score"`
	MandatoryMissing   bool                   `json:"mandatory_missing"`
	SatisfiedMandatory int                    `json:"satisfied_mandatory"`
	RelevantYears      int                    `json:"relevant_years"`
	SkillBreakdown     []SkillOutcomeResponse `json:"skill_breakdown"`
}

type CandidateFailureResponse struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Reason      string    `json:"reason"`
	Message     string    `json:"message"`
}

type RankingResponse struct {
	ProjectID  uuid.UUID                  `json:"project_id"`
	Results    []RankedCandidateResponse  `json:"results"`
	Failures   []CandidateFailureResponse `json:"failures"`
	Partial    bool                       `json:"partial"`
	PoolSize   int                        `json:"pool_size"`
	Cached     bool                       `json:"cached"`
	ComputedAt string                     `json:"computed_at"`
}

type GapResponse struct {
	SkillID        uuid.UUID `json:"skill_id"`
	SkillName      string    `json:"skill_name"`
	Mandatory      bool      `json:"mandatory"`
	CurrentLevel   string    `json:"current_level"`
	RequiredLevel  string    `json:"required_level"`
	LevelGap       int       `json:"level_gap"`
	YearsGap       int       `json:"years_gap"`
	Action         string    `json:"action"`
	Recommendation string    `json:"recommendation"`
}

type GapReportResponse struct {
	ProjectID      uuid.UUID              `json:"project_id"`
	ProfileID      uuid.UUID              `json:"profile_id"`
	Score          int                    `json:"score"`
	SkillBreakdown []SkillOutcomeResponse `json:"skill_breakdown"`
	Gaps           []GapResponse          `json:"gaps"`
}
