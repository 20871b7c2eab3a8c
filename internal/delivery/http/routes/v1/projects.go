package v1

import (
	"talent-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterProjects(r fiber.Router, ranking *handler.RankingHandler, requirements *handler.RequirementHandler, allocations *handler.AllocationHandler) {
	if r == nil {
		return
	}

	if ranking != nil {
		ranking.RegisterRoutes(r)
	}
	if requirements != nil {
		requirements.RegisterRoutes(r)
	}
	if allocations != nil {
		allocations.RegisterRoutes(r)
	}
}
