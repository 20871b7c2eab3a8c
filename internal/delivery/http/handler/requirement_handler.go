package handler

import (
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"
	"talent-match/internal/validation"

	"github.com/gofiber/fiber/v3"
)

type RequirementHandler struct {
	uc        usecase.RequirementsUsecase
	validator *validation.Validator
}

func NewRequirementHandler(uc usecase.RequirementsUsecase, v *validation.Validator) *RequirementHandler {
	return &RequirementHandler{uc: uc, validator: v}
}

func (h *RequirementHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/projects/:project_id/requirements")
	grp.Get("/", h.List)
	grp.Put("/", h.Replace)
}

func (h *RequirementHandler) List(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	projectID, err := uuidParam(c, "project_id")
	if err != nil {
		return err
	}

	items, err := h.uc.GetRequirements(c.Context(), sess, projectID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, requirementResponses(items))
}

func (h *RequirementHandler) Replace(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	projectID, err := uuidParam(c, "project_id")
	if err != nil {
		return err
	}

	var req dto.ReplaceRequirementsRequest
	if err := bindValidated(c, h.validator, validation.SchemaRequirements, &req); err != nil {
		return err
	}

	in := make([]usecase.RequirementInput, 0, len(req.Requirements))
	for _, it := range req.Requirements {
		in = append(in, usecase.RequirementInput{
			Skill:               it.Skill,
			RequiredProficiency: it.RequiredProficiency,
			IsMandatory:         it.IsMandatory,
			MinExperienceYears:  it.MinExperienceYears,
		})
	}

	items, err := h.uc.ReplaceRequirements(c.Context(), sess, projectID, in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Requirements updated", requirementResponses(items))
}

func requirementResponses(items []usecase.RequirementView) []dto.RequirementResponse {
	res := make([]dto.RequirementResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.RequirementResponse{
			SkillID:             it.SkillID,
			SkillName:           it.SkillName,
			RequiredProficiency: it.RequiredProficiency,
			IsMandatory:         it.IsMandatory,
			MinExperienceYears:  it.MinExperienceYears,
			Weight:              it.Weight,
		})
	}
	return res
}
