package matching

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation error")
	ErrUnknownSkill   = errors.New("unknown skill")
	ErrNoRequirements = errors.New("project has no required skills")

	ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)
	ErrProfileNotFound = fmt.Errorf("profile %w", ErrNotFound)
)

// FailureReason classifies why a single candidate dropped out of a ranking batch.
type FailureReason int

const (
	ReasonInternal FailureReason = iota
	ReasonNotFound
	ReasonValidation
	ReasonUnknownSkill
)

func ReasonFor(err error) FailureReason {
	switch {
	case errors.Is(err, ErrUnknownSkill):
		return ReasonUnknownSkill
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrValidation):
		return ReasonValidation
	default:
		return ReasonInternal
	}
}

func (r FailureReason) String() string {
	switch r {
	case ReasonInternal:
		return "internal"
	case ReasonNotFound:
		return "not_found"
	case ReasonValidation:
		return "validation_error"
	case ReasonUnknownSkill:
		return "unknown_skill"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}
