package middleware

import (
	"errors"
	"strings"

	"talent-match/internal/pkg/jwt"
	"talent-match/internal/session"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxSessionKey = "session"

	// queryTokenParam lets websocket clients that cannot set headers authenticate.
	queryTokenParam = "access_token"
)

type AuthMiddleware struct {
	jwt jwt.Service
	bus *session.Bus
}

// NewAuthMiddleware validates bearer tokens. Session starts and expiries are published on
// bus when it is non-nil.
func NewAuthMiddleware(jwtSvc jwt.Service, bus *session.Bus) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, bus: bus}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			token = strings.TrimSpace(c.Query(queryTokenParam))
			ok = token != ""
		}
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		sess, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				if sess.UserID != uuid.Nil {
					m.bus.Publish(session.Event{Kind: session.EventExpired, UserID: sess.UserID, ExpiresAt: sess.ExpiresAt})
				}
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxSessionKey, sess)
		m.bus.Publish(session.Event{Kind: session.EventStarted, UserID: sess.UserID, ExpiresAt: sess.ExpiresAt})

		return c.Next()
	}
}

// SessionFromCtx returns the session stored by the auth middleware.
func SessionFromCtx(c fiber.Ctx) (session.Session, bool) {
	sess, ok := c.Locals(CtxSessionKey).(session.Session)
	if !ok || sess.UserID == uuid.Nil {
		return session.Session{}, false
	}
	return sess, true
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
