package dto

import "github.com/google/uuid"

type SkillResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description *string   `json:"description,omitempty"`
}

type CreateSkillRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
}

type NormalizeSkillsRequest struct {
	Refs []string `json:"refs"`
}

type NormalizedRefResponse struct {
	Ref       string     `json:"ref"`
	SkillID   *uuid.UUID `json:"skill_id"`
	SkillName string     `json:"skill_name,omitempty"`
	Error     string     `json:"error,omitempty"`
}
