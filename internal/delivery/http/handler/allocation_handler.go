package handler

import (
	"time"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/domain/project"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"
	"talent-match/internal/validation"

	"github.com/gofiber/fiber/v3"
)

type AllocationHandler struct {
	uc        usecase.AllocationUsecase
	validator *validation.Validator
}

func NewAllocationHandler(uc usecase.AllocationUsecase, v *validation.Validator) *AllocationHandler {
	return &AllocationHandler{uc: uc, validator: v}
}

func (h *AllocationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/projects/:project_id/allocations")
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
}

func (h *AllocationHandler) Create(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	projectID, err := uuidParam(c, "project_id")
	if err != nil {
		return err
	}

	var req dto.CreateAllocationRequest
	if err := bindValidated(c, h.validator, validation.SchemaAllocation, &req); err != nil {
		return err
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return err
	}

	a, err := h.uc.CreateAllocation(c.Context(), sess, projectID, usecase.AllocationInput{
		ProfileID:            req.ProfileID,
		RoleInProject:        req.RoleInProject,
		AllocationPercentage: req.AllocationPercentage,
		StartDate:            start,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Allocation created", allocationResponse(a))
}

func (h *AllocationHandler) List(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	projectID, err := uuidParam(c, "project_id")
	if err != nil {
		return err
	}

	items, err := h.uc.ListAllocations(c.Context(), sess, projectID)
	if err != nil {
		return mapUsecaseError(err)
	}
	res := make([]dto.AllocationResponse, 0, len(items))
	for _, a := range items {
		res = append(res, allocationResponse(a))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func allocationResponse(a project.Allocation) dto.AllocationResponse {
	return dto.AllocationResponse{
		ID:                   a.ID,
		ProjectID:            a.ProjectID,
		ProfileID:            a.ProfileID,
		RoleInProject:        a.RoleInProject,
		AllocationPercentage: a.AllocationPercentage,
		StartDate:            a.StartDate.Format(dateLayout),
		Status:               a.Status,
		MatchScore:           a.MatchScore,
		CreatedAt:            a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
