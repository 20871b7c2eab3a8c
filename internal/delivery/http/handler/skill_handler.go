package handler

import (
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"
	"talent-match/internal/validation"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc        usecase.SkillUsecase
	validator *validation.Validator
}

func NewSkillHandler(uc usecase.SkillUsecase, v *validation.Validator) *SkillHandler {
	return &SkillHandler{uc: uc, validator: v}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/skills")
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Post("/normalize", h.Normalize)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListSkills(c.Context(), sess)
	if err != nil {
		return mapUsecaseError(err)
	}

	res := make([]dto.SkillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, skillResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *SkillHandler) Create(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}

	var req dto.CreateSkillRequest
	if err := bindValidated(c, h.validator, validation.SchemaSkillCreate, &req); err != nil {
		return err
	}

	created, err := h.uc.CreateSkill(c.Context(), sess, usecase.CreateSkillInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Skill created successfully", skillResponse(created))
}

func (h *SkillHandler) Normalize(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}

	var req dto.NormalizeSkillsRequest
	if err := bindValidated(c, h.validator, validation.SchemaSkillNormalize, &req); err != nil {
		return err
	}

	items, err := h.uc.NormalizeSkills(c.Context(), sess, req.Refs)
	if err != nil {
		return mapUsecaseError(err)
	}

	res := make([]dto.NormalizedRefResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.NormalizedRefResponse{
			Ref:       it.Ref,
			SkillID:   it.SkillID,
			SkillName: it.SkillName,
			Error:     it.Error,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func skillResponse(s usecase.SkillView) dto.SkillResponse {
	return dto.SkillResponse{ID: s.ID, Name: s.Name, Category: s.Category, Description: s.Description}
}
