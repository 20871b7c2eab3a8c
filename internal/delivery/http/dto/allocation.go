package dto

import "github.com/google/uuid"

type CreateAllocationRequest struct {
	ProfileID            uuid.UUID `json:"profile_id"`
	RoleInProject        string    `json:"role_in_project"`
	AllocationPercentage int       `json:"allocation_percentage"`
	StartDate            string    `json:"start_date"`
}

type AllocationResponse struct {
	ID                   uuid.UUID `json:"id"`
	ProjectID            uuid.UUID `json:"project_id"`
	ProfileID            uuid.UUID `json:"profile_id"`
	RoleInProject        string    `json:"role_in_project"`
	AllocationPercentage int       `json:"allocation_percentage"`
	StartDate            string    `json:"start_date"`
	Status               string    `json:"status"`
	MatchScore           int       `json:"match_score"`
	CreatedAt            string    `json:"created_at"`
}
