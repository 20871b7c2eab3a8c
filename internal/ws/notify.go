package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventRequirementsUpdated = "requirements_updated"
	EventSkillsUpdated       = "skills_updated"
)

type DashboardEvent struct {
	Type      string     `json:"type"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	ProfileID *uuid.UUID `json:"profile_id,omitempty"`
	Timestamp string     `json:"timestamp"`
}

func (h *Hub) NotifyRequirementsUpdated(companyID, projectID uuid.UUID) {
	h.notify(companyID, DashboardEvent{Type: EventRequirementsUpdated, ProjectID: &projectID})
}

func (h *Hub) NotifySkillsUpdated(companyID, profileID uuid.UUID) {
	h.notify(companyID, DashboardEvent{Type: EventSkillsUpdated, ProfileID: &profileID})
}

func (h *Hub) notify(companyID uuid.UUID, evt DashboardEvent) {
	if h == nil || companyID == uuid.Nil {
		return
	}
	evt.Timestamp = h.now().UTC().Format(time.RFC3339)
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(companyID, b)
}
