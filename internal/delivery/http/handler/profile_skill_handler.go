package handler

import (
	"time"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"
	"talent-match/internal/validation"

	"github.com/gofiber/fiber/v3"
)

type ProfileSkillHandler struct {
	uc        usecase.EmployeeSkillUsecase
	validator *validation.Validator
}

func NewProfileSkillHandler(uc usecase.EmployeeSkillUsecase, v *validation.Validator) *ProfileSkillHandler {
	return &ProfileSkillHandler{uc: uc, validator: v}
}

func (h *ProfileSkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/profiles/:profile_id/skills")
	grp.Get("/", h.List)
	grp.Put("/", h.Replace)
}

func (h *ProfileSkillHandler) List(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	profileID, err := uuidParam(c, "profile_id")
	if err != nil {
		return err
	}

	items, err := h.uc.ListSkills(c.Context(), sess, profileID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, profileSkillResponses(items))
}

func (h *ProfileSkillHandler) Replace(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	profileID, err := uuidParam(c, "profile_id")
	if err != nil {
		return err
	}

	var req dto.ReplaceProfileSkillsRequest
	if err := bindValidated(c, h.validator, validation.SchemaEmployeeSkills, &req); err != nil {
		return err
	}

	in := make([]usecase.EmployeeSkillInput, 0, len(req.Skills))
	for _, it := range req.Skills {
		var lastUsed *time.Time
		if it.LastUsedDate != nil {
			t, err := parseDate("last_used_date", *it.LastUsedDate)
			if err != nil {
				return err
			}
			lastUsed = &t
		}
		in = append(in, usecase.EmployeeSkillInput{
			Skill:            it.Skill,
			ProficiencyLevel: it.ProficiencyLevel,
			YearsExperience:  it.YearsExperience,
			IsPrimary:        it.IsPrimary,
			LastUsedDate:     lastUsed,
			Endorsements:     it.Endorsements,
		})
	}

	items, err := h.uc.ReplaceSkills(c.Context(), sess, profileID, in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Skills updated", profileSkillResponses(items))
}

func profileSkillResponses(items []usecase.EmployeeSkillView) []dto.ProfileSkillResponse {
	res := make([]dto.ProfileSkillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.ProfileSkillResponse{
			SkillID:          it.SkillID,
			SkillName:        it.SkillName,
			ProficiencyLevel: it.ProficiencyLevel,
			YearsExperience:  it.YearsExperience,
			IsPrimary:        it.IsPrimary,
			LastUsedDate:     formatDate(it.LastUsedDate),
			Endorsements:     it.Endorsements,
		})
	}
	return res
}
