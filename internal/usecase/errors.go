package usecase

import (
	"errors"
	"time"

	"talent-match/internal/session"
)

var (
	ErrInternal     = errors.New("internal error")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// authorize checks the session is live and, when manage is set, that its role may change
// project data.
func authorize(sess session.Session, now time.Time, manage bool) error {
	if err := sess.Valid(now); err != nil {
		return ErrUnauthorized
	}
	if manage && !sess.Role.CanManageProjects() {
		return ErrForbidden
	}
	return nil
}
