package v1

import (
	"talent-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterSkills(r fiber.Router, skills *handler.SkillHandler, profileSkills *handler.ProfileSkillHandler) {
	if r == nil {
		return
	}

	if skills != nil {
		skills.RegisterRoutes(r)
	}
	if profileSkills != nil {
		profileSkills.RegisterRoutes(r)
	}
}
