package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidAvailability = errors.New("invalid availability status")

type Availability int

const (
	AvailabilityAvailable Availability = iota
	AvailabilityPartiallyAvailable
	AvailabilityOnProject
	AvailabilityOnLeave
)

func ParseAvailability(s string) (Availability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return AvailabilityAvailable, nil
	case "partially_available":
		return AvailabilityPartiallyAvailable, nil
	case "on_project":
		return AvailabilityOnProject, nil
	case "on_leave":
		return AvailabilityOnLeave, nil
	default:
		return AvailabilityAvailable, fmt.Errorf("%w: %q", ErrInvalidAvailability, s)
	}
}

func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityPartiallyAvailable:
		return "partially_available"
	case AvailabilityOnProject:
		return "on_project"
	case AvailabilityOnLeave:
		return "on_leave"
	default:
		return fmt.Sprintf("availability(%d)", int(a))
	}
}

// Rankable reports whether a profile in this state joins the default candidate pool.
func (a Availability) Rankable() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityPartiallyAvailable, AvailabilityOnProject:
		return true
	case AvailabilityOnLeave:
		return false
	default:
		return false
	}
}

func (a Availability) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Availability) UnmarshalText(b []byte) error {
	v, err := ParseAvailability(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

type Profile struct {
	ID                uuid.UUID
	CompanyID         uuid.UUID
	FullName          string
	Designation       string
	Department        string
	Availability      Availability
	YearsOfExperience int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type EmployeeSkill struct {
	ProfileID       uuid.UUID
	SkillID         uuid.UUID
	SkillName       string
	Proficiency     string
	YearsExperience int
	IsPrimary       bool
	LastUsedDate    *time.Time
	Endorsements    int
}
