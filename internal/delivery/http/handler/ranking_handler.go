package handler

import (
	"fmt"
	"time"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/domain/matching"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"
	"talent-match/internal/validation"

	"github.com/gofiber/fiber/v3"
)

type RankingHandler struct {
	uc        usecase.MatchingUsecase
	validator *validation.Validator
}

func NewRankingHandler(uc usecase.MatchingUsecase, v *validation.Validator) *RankingHandler {
	return &RankingHandler{uc: uc, validator: v}
}

func (h *RankingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/projects/:project_id")
	grp.Post("/rankings", h.Rank)
	grp.Get("/candidates/:profile_id/gaps", h.Gaps)
}

func (h *RankingHandler) Rank(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	projectID, err := uuidParam(c, "project_id")
	if err != nil {
		return err
	}

	var req dto.RankingRequest
	if err := bindValidated(c, h.validator, validation.SchemaRankingRequest, &req); err != nil {
		return err
	}

	out, err := h.uc.RankCandidates(c.Context(), sess, projectID, usecase.RankingParams{
		CandidateIDs: req.CandidateIDs,
		Filter: matching.Filter{
			MinScore:                req.MinScore,
			Limit:                   req.Limit,
			ExcludeMandatoryMissing: req.ExcludeMandatoryMissing,
		},
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	res := dto.RankingResponse{
		ProjectID:  out.ProjectID,
		Results:    make([]dto.RankedCandidateResponse, 0, len(out.Results)),
		Failures:   make([]dto.CandidateFailureResponse, 0, len(out.Failures)),
		Partial:    out.Partial,
		PoolSize:   out.PoolSize,
		Cached:     out.Cached,
		ComputedAt: out.ComputedAt.UTC().Format(time.RFC3339),
	}
	for i, r := range out.Results {
		res.Results = append(res.Results, dto.RankedCandidateResponse{
			Rank:               i + 1,
			CandidateID:        r.CandidateID,
			FullName:           r.FullName,
			Designation:        r.Designation,
			Department:         r.Department,
			Availability:       r.Availability.String(),
			Score:              r.Score,
			MandatoryMissing:   r.MandatoryMissing,
			SatisfiedMandatory: r.SatisfiedMandatory,
			RelevantYears:      r.RelevantYears,
			SkillBreakdown:     outcomeResponses(r.Breakdown),
		})
	}
	for _, f := range out.Failures {
		res.Failures = append(res.Failures, dto.CandidateFailureResponse{
			CandidateID: f.CandidateID,
			Reason:      f.Reason,
			Message:     f.Message,
		})
	}

	msg := response.MessageOK
	if out.Partial {
		msg = "Ranking completed with failures"
	}
	return response.Success(c, fiber.StatusOK, msg, res)
}

func (h *RankingHandler) Gaps(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	projectID, err := uuidParam(c, "project_id")
	if err != nil {
		return err
	}
	profileID, err := uuidParam(c, "profile_id")
	if err != nil {
		return err
	}

	report, err := h.uc.AnalyzeGaps(c.Context(), sess, projectID, profileID)
	if err != nil {
		return mapUsecaseError(err)
	}

	res := dto.GapReportResponse{
		ProjectID:      report.ProjectID,
		ProfileID:      report.ProfileID,
		Score:          report.Score,
		SkillBreakdown: outcomeResponses(report.Breakdown),
		Gaps:           make([]dto.GapResponse, 0, len(report.Gaps)),
	}
	for _, g := range report.Gaps {
		res.Gaps = append(res.Gaps, dto.GapResponse{
			SkillID:        g.SkillID,
			SkillName:      g.SkillName,
			Mandatory:      g.Mandatory,
			CurrentLevel:   g.CurrentLevel.String(),
			RequiredLevel:  g.RequiredLevel.String(),
			LevelGap:       g.LevelGap,
			YearsGap:       g.YearsGap,
			Action:         g.Action.String(),
			Recommendation: recommendation(g),
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func outcomeResponses(in []matching.SkillOutcome) []dto.SkillOutcomeResponse {
	out := make([]dto.SkillOutcomeResponse, 0, len(in))
	for _, o := range in {
		out = append(out, dto.SkillOutcomeResponse{
			SkillID:        o.SkillID,
			SkillName:      o.SkillName,
			Required:       o.Required,
			Satisfied:      o.Satisfied,
			RequiredLevel:  o.RequiredLevel.String(),
			CandidateLevel: o.CandidateLevel.String(),
			MinYears:       o.MinYears,
			CandidateYears: o.CandidateYears,
		})
	}
	return out
}

func recommendation(g matching.Gap) string {
	switch g.Action {
	case matching.ActionAcquire:
		return fmt.Sprintf("Acquire %s at %s level", g.SkillName, g.RequiredLevel)
	case matching.ActionLevelUp:
		return fmt.Sprintf("Level up %s from %s to %s", g.SkillName, g.CurrentLevel, g.RequiredLevel)
	case matching.ActionGainExperience:
		return fmt.Sprintf("Gain %d more year(s) of %s experience", g.YearsGap, g.SkillName)
	default:
		return ""
	}
}
