package project

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus   = errors.New("invalid project status")
	ErrInvalidPriority = errors.New("invalid project priority")
)

type Status int

const (
	StatusDraft Status = iota
	StatusActive
	StatusOnHold
	StatusCompleted
)

func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft":
		return StatusDraft, nil
	case "active":
		return StatusActive, nil
	case "on_hold":
		return StatusOnHold, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return StatusDraft, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusActive:
		return "active"
	case StatusOnHold:
		return "on_hold"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Staffable reports whether new allocations may be made.
func (s Status) Staffable() bool {
	switch s {
	case StatusDraft, StatusActive, StatusOnHold:
		return true
	case StatusCompleted:
		return false
	default:
		return false
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "critical":
		return PriorityCritical, nil
	default:
		return PriorityLow, fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

func (p Priority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

type Project struct {
	ID         uuid.UUID
	CompanyID  uuid.UUID
	Name       string
	ClientName string
	Status     Status
	Priority   Priority
	StartDate  *time.Time
	EndDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Allocation struct {
	ID                   uuid.UUID
	ProjectID            uuid.UUID
	ProfileID            uuid.UUID
	RoleInProject        string
	AllocationPercentage int
	StartDate            time.Time
	Status               string
	MatchScore           int
	CreatedAt            time.Time
}
