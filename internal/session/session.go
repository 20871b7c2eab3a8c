package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRole = errors.New("invalid role")
	ErrNoSession   = errors.New("no session")
)

type Role int

const (
	RoleEmployee Role = iota
	RoleProjectManager
	RoleAdmin
)

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "employee":
		return RoleEmployee, nil
	case "project_manager":
		return RoleProjectManager, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleEmployee, fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return "employee"
	case RoleProjectManager:
		return "project_manager"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// CanManageProjects gates ranking, allocation and requirement writes.
func (r Role) CanManageProjects() bool {
	switch r {
	case RoleAdmin, RoleProjectManager:
		return true
	case RoleEmployee:
		return false
	default:
		return false
	}
}

// Session is the authenticated caller. It is built once per request and passed explicitly.
type Session struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	Role      Role
	ExpiresAt time.Time
}

func (s Session) Valid(now time.Time) error {
	if s.UserID == uuid.Nil || s.CompanyID == uuid.Nil {
		return ErrNoSession
	}
	if !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt) {
		return fmt.Errorf("%w: expired at %s", ErrNoSession, s.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}

// Owns reports whether the session's company owns a resource.
func (s Session) Owns(companyID uuid.UUID) bool {
	return s.CompanyID != uuid.Nil && s.CompanyID == companyID
}
