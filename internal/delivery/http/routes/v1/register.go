package v1

import (
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Ranking       *handler.RankingHandler
	Requirements  *handler.RequirementHandler
	Allocations   *handler.AllocationHandler
	Skills        *handler.SkillHandler
	ProfileSkills *handler.ProfileSkillHandler
	Events        *ws.Handler
}

// Register mounts every v1 route behind the auth middleware.
func Register(r fiber.Router, auth *middleware.AuthMiddleware, h Handlers) {
	if r == nil || auth == nil {
		return
	}

	protected := r.Group("", auth.Middleware())

	RegisterProjects(protected, h.Ranking, h.Requirements, h.Allocations)
	RegisterSkills(protected, h.Skills, h.ProfileSkills)
	if h.Events != nil {
		h.Events.RegisterRoutes(protected)
	}
}
