package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/matching"
	"talent-match/internal/pkg/response"
	"talent-match/internal/session"
	"talent-match/internal/usecase"
	"talent-match/internal/validation"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

func requireSession(c fiber.Ctx) (session.Session, error) {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return session.Session{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return sess, nil
}

func uuidParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return id, nil
}

// bindValidated checks the raw body against schema before decoding it into out.
func bindValidated(c fiber.Ctx, v *validation.Validator, schema string, out any) error {
	body := c.Body()
	if err := v.Validate(c.Context(), schema, body); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", verr.Problems, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := c.Bind().Body(out); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}
	return nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+field, nil, err)
	}
	return t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

type errorDetail struct {
	Detail string `json:"detail"`
}

// mapUsecaseError turns usecase and engine sentinels into HTTP errors.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, matching.ErrProjectNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Project not found", nil, err)
	case errors.Is(err, matching.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	case errors.Is(err, matching.ErrNoRequirements):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Project has no required skills", nil, err)
	case errors.Is(err, matching.ErrUnknownSkill):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Unknown skill", errorDetail{Detail: err.Error()}, err)
	case errors.Is(err, matching.ErrValidation):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Validation failed", errorDetail{Detail: err.Error()}, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Conflict", errorDetail{Detail: err.Error()}, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", errorDetail{Detail: err.Error()}, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Request timed out", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
