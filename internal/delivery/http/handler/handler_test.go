package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/profile"
	"talent-match/internal/domain/project"
	"talent-match/internal/pkg/response"
	"talent-match/internal/session"
	"talent-match/internal/usecase"
	"talent-match/internal/validation"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

var (
	testProject = uuid.MustParse("00000000-0000-0000-0000-00000000a001")
	testProfile = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testSkill   = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
)

func testSession() *session.Session {
	return &session.Session{
		UserID:    uuid.MustParse("00000000-0000-0000-0000-00000000e001"),
		CompanyID: uuid.MustParse("00000000-0000-0000-0000-00000000c001"),
		Role:      session.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(sess *session.Session, register func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	app.Use(func(c fiber.Ctx) error {
		if sess != nil {
			c.Locals(middleware.CtxSessionKey, *sess)
		}
		return c.Next()
	})
	register(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	return doType(t, app, method, path, "application/json", body)
}

func doType(t *testing.T, app *fiber.App, method, path, contentType, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp.StatusCode, env
}

type mockMatchingUsecase struct {
	out    usecase.RankingOutput
	report usecase.GapReport
	err    error

	called bool
	params usecase.RankingParams
}

func (m *mockMatchingUsecase) RankCandidates(_ context.Context, _ session.Session, _ uuid.UUID, p usecase.RankingParams) (usecase.RankingOutput, error) {
	m.called = true
	m.params = p
	return m.out, m.err
}

func (m *mockMatchingUsecase) AnalyzeGaps(context.Context, session.Session, uuid.UUID, uuid.UUID) (usecase.GapReport, error) {
	return m.report, m.err
}

func (m *mockMatchingUsecase) ScoreProfile(context.Context, session.Session, uuid.UUID, uuid.UUID) (matching.MatchResult, error) {
	return matching.MatchResult{}, m.err
}

func rankingApp(uc *mockMatchingUsecase, sess *session.Session) *fiber.App {
	h := NewRankingHandler(uc, validation.MustNew())
	return newTestApp(sess, h.RegisterRoutes)
}

func TestRankingHandler_Rank_Success(t *testing.T) {
	uc := &mockMatchingUsecase{out: usecase.RankingOutput{
		ProjectID: testProject,
		Results: []usecase.RankedCandidate{{
			MatchResult: matching.MatchResult{
				CandidateID: testProfile,
				Score:       67,
				Breakdown: []matching.SkillOutcome{{
					SkillID:        testSkill,
					SkillName:      "React",
					Required:       true,
					Satisfied:      true,
					RequiredLevel:  matching.ProficiencyExpert,
					CandidateLevel: matching.ProficiencyExpert,
				}},
			},
			FullName:     "Ana",
			Availability: profile.AvailabilityAvailable,
		}},
		Failures:   []usecase.CandidateFailure{{CandidateID: uuid.New(), Reason: "unknown_skill", Message: "unknown skill"}},
		Partial:    true,
		PoolSize:   2,
		ComputedAt: time.Now(),
	}}
	app := rankingApp(uc, testSession())

	status, env := do(t, app, http.MethodPost, "/projects/"+testProject.String()+"/rankings", `{"min_score":10,"limit":5}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, env.Message)
	}
	if env.Message != "Ranking completed with failures" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	if uc.params.Filter.MinScore != 10 || uc.params.Filter.Limit != 5 {
		t.Fatalf("unexpected filter %+v", uc.params.Filter)
	}

	var data struct {
		Results []struct {
			Rank           int    `json:"rank"`
			Score          int    `json:"score"`
			Availability   string `json:"availability"`
			SkillBreakdown []struct {
				RequiredLevel string `json:"required_level"`
				Satisfied     bool   `json:"satisfied"`
			} `json:"skill_breakdown"`
		} `json:"results"`
		Failures []struct {
			Reason string `json:"reason"`
		} `json:"failures"`
		Partial bool `json:"partial"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Results) != 1 || data.Results[0].Rank != 1 || data.Results[0].Score != 67 {
		t.Fatalf("unexpected results %+v", data.Results)
	}
	if data.Results[0].Availability != "available" || data.Results[0].SkillBreakdown[0].RequiredLevel != "expert" {
		t.Fatalf("unexpected enum rendering %+v", data.Results[0])
	}
	if !data.Partial || len(data.Failures) != 1 || data.Failures[0].Reason != "unknown_skill" {
		t.Fatalf("unexpected failures %+v", data.Failures)
	}
}

func TestRankingHandler_Rank_EmptyBody(t *testing.T) {
	uc := &mockMatchingUsecase{out: usecase.RankingOutput{ProjectID: testProject}}
	app := rankingApp(uc, testSession())

	status, _ := do(t, app, http.MethodPost, "/projects/"+testProject.String()+"/rankings", "")
	if status != fiber.StatusOK || !uc.called {
		t.Fatalf("expected 200 with default params, got %d", status)
	}
}

func TestRankingHandler_Rank_InvalidBody(t *testing.T) {
	uc := &mockMatchingUsecase{}
	app := rankingApp(uc, testSession())

	status, env := do(t, app, http.MethodPost, "/projects/"+testProject.String()+"/rankings", `{"min_score":200,"extra":true}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	var problems []validation.Problem
	if err := json.Unmarshal(env.Data, &problems); err != nil || len(problems) == 0 {
		t.Fatalf("expected schema problems, got %s (%v)", env.Data, err)
	}
	if uc.called {
		t.Fatalf("usecase must not run on invalid input")
	}
}

func TestRankingHandler_Rank_UnbindableBody(t *testing.T) {
	uc := &mockMatchingUsecase{}
	app := rankingApp(uc, testSession())

	status, env := doType(t, app, http.MethodPost, "/projects/"+testProject.String()+"/rankings", "text/plain", `{"min_score":50}`)
	if status != fiber.StatusBadRequest || env.Message != response.MessageBadRequest {
		t.Fatalf("expected 400 bad request, got %d %q", status, env.Message)
	}
	if uc.called {
		t.Fatalf("usecase must not run when the body cannot be bound")
	}
}

func TestRankingHandler_Rank_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "not found", err: matching.ErrProjectNotFound, status: fiber.StatusNotFound, message: "Project not found"},
		{name: "no requirements", err: matching.ErrNoRequirements, status: fiber.StatusUnprocessableEntity, message: "Project has no required skills"},
		{name: "unknown skill", err: matching.ErrUnknownSkill, status: fiber.StatusUnprocessableEntity, message: "Unknown skill"},
		{name: "forbidden", err: usecase.ErrForbidden, status: fiber.StatusForbidden, message: "Forbidden"},
		{name: "unauthorized", err: usecase.ErrUnauthorized, status: fiber.StatusUnauthorized, message: "Unauthorized"},
		{name: "internal", err: errors.New("db password leaked"), status: fiber.StatusInternalServerError, message: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := rankingApp(&mockMatchingUsecase{err: tt.err}, testSession())
			status, env := do(t, app, http.MethodPost, "/projects/"+testProject.String()+"/rankings", `{}`)
			if status != tt.status || env.Message != tt.message {
				t.Fatalf("expected %d %q, got %d %q", tt.status, tt.message, status, env.Message)
			}
		})
	}
}

func TestRankingHandler_Rank_NoSessionOrBadID(t *testing.T) {
	status, _ := do(t, rankingApp(&mockMatchingUsecase{}, nil), http.MethodPost, "/projects/"+testProject.String()+"/rankings", `{}`)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	status, _ = do(t, rankingApp(&mockMatchingUsecase{}, testSession()), http.MethodPost, "/projects/not-a-uuid/rankings", `{}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestRankingHandler_Gaps(t *testing.T) {
	uc := &mockMatchingUsecase{report: usecase.GapReport{
		ProjectID: testProject,
		ProfileID: testProfile,
		Score:     67,
		Gaps: []matching.Gap{{
			SkillID:       testSkill,
			SkillName:     "Node.js",
			CurrentLevel:  matching.ProficiencyBeginner,
			RequiredLevel: matching.ProficiencyIntermediate,
			LevelGap:      1,
			Action:        matching.ActionLevelUp,
		}},
	}}
	app := rankingApp(uc, testSession())

	status, env := do(t, app, http.MethodGet, "/projects/"+testProject.String()+"/candidates/"+testProfile.String()+"/gaps", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var data struct {
		Gaps []struct {
			Action         string `json:"action"`
			Recommendation string `json:"recommendation"`
		} `json:"gaps"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Gaps) != 1 || data.Gaps[0].Action != "level_up" {
		t.Fatalf("unexpected gaps %+v", data.Gaps)
	}
	if data.Gaps[0].Recommendation != "Level up Node.js from beginner to intermediate" {
		t.Fatalf("unexpected recommendation %q", data.Gaps[0].Recommendation)
	}
}

type mockRequirementsUsecase struct {
	in  []usecase.RequirementInput
	out []usecase.RequirementView
	err error
}

func (m *mockRequirementsUsecase) GetRequirements(context.Context, session.Session, uuid.UUID) ([]usecase.RequirementView, error) {
	return m.out, m.err
}

func (m *mockRequirementsUsecase) ReplaceRequirements(_ context.Context, _ session.Session, _ uuid.UUID, in []usecase.RequirementInput) ([]usecase.RequirementView, error) {
	m.in = in
	return m.out, m.err
}

func TestRequirementHandler_Replace(t *testing.T) {
	uc := &mockRequirementsUsecase{out: []usecase.RequirementView{{SkillID: testSkill, SkillName: "React", RequiredProficiency: "expert", IsMandatory: true, Weight: 2}}}
	app := newTestApp(testSession(), NewRequirementHandler(uc, validation.MustNew()).RegisterRoutes)

	body := `{"requirements":[{"skill":"React","required_proficiency":"expert"},{"skill":"AWS","required_proficiency":"beginner","is_mandatory":false,"min_experience_years":2}]}`
	status, env := do(t, app, http.MethodPut, "/projects/"+testProject.String()+"/requirements", body)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, env.Message)
	}
	if len(uc.in) != 2 || uc.in[0].IsMandatory != nil || uc.in[1].IsMandatory == nil || *uc.in[1].IsMandatory {
		t.Fatalf("unexpected inputs %+v", uc.in)
	}
	if uc.in[1].MinExperienceYears == nil || *uc.in[1].MinExperienceYears != 2 {
		t.Fatalf("expected min years 2")
	}

	status, _ = do(t, app, http.MethodPut, "/projects/"+testProject.String()+"/requirements", `{"requirements":[{"skill":"React","required_proficiency":"guru"}]}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for unknown proficiency, got %d", status)
	}
}

type mockAllocationUsecase struct {
	in  usecase.AllocationInput
	err error
}

func (m *mockAllocationUsecase) CreateAllocation(_ context.Context, _ session.Session, projectID uuid.UUID, in usecase.AllocationInput) (project.Allocation, error) {
	m.in = in
	if m.err != nil {
		return project.Allocation{}, m.err
	}
	return project.Allocation{
		ID:                   uuid.New(),
		ProjectID:            projectID,
		ProfileID:            in.ProfileID,
		RoleInProject:        in.RoleInProject,
		AllocationPercentage: in.AllocationPercentage,
		StartDate:            in.StartDate,
		Status:               "active",
		MatchScore:           67,
		CreatedAt:            time.Now(),
	}, nil
}

func (m *mockAllocationUsecase) ListAllocations(context.Context, session.Session, uuid.UUID) ([]project.Allocation, error) {
	return nil, m.err
}

func TestAllocationHandler_Create(t *testing.T) {
	uc := &mockAllocationUsecase{}
	app := newTestApp(testSession(), NewAllocationHandler(uc, validation.MustNew()).RegisterRoutes)
	path := "/projects/" + testProject.String() + "/allocations"

	body := `{"profile_id":"` + testProfile.String() + `","role_in_project":"Lead","allocation_percentage":50,"start_date":"2026-11-02"}`
	status, env := do(t, app, http.MethodPost, path, body)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", status, env.Message)
	}
	var data struct {
		MatchScore int    `json:"match_score"`
		StartDate  string `json:"start_date"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.MatchScore != 67 || data.StartDate != "2026-11-02" {
		t.Fatalf("unexpected allocation %+v", data)
	}

	bad := `{"profile_id":"` + testProfile.String() + `","role_in_project":"Lead","allocation_percentage":50,"start_date":"2026-13-40"}`
	if status, _ := do(t, app, http.MethodPost, path, bad); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for impossible date, got %d", status)
	}

	uc.err = usecase.ErrConflict
	if status, _ := do(t, app, http.MethodPost, path, body); status != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
}

func TestHealthHandler(t *testing.T) {
	ok := NewHealthHandler(map[string]Check{"database": func(context.Context) error { return nil }})
	status, _ := do(t, newTestApp(nil, ok.RegisterRoutes), http.MethodGet, "/health", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	down := NewHealthHandler(map[string]Check{"database": func(context.Context) error { return errors.New("refused") }})
	status, env := do(t, newTestApp(nil, down.RegisterRoutes), http.MethodGet, "/health", "")
	if status != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
	if !strings.Contains(string(env.Data), "refused") {
		t.Fatalf("expected failing check in data, got %s", env.Data)
	}
}

type mockSkillUsecase struct {
	skills []usecase.SkillView
	refs   []usecase.NormalizedRef
	err    error

	created usecase.CreateSkillInput
	asked   []string
}

func (m *mockSkillUsecase) ListSkills(context.Context, session.Session) ([]usecase.SkillView, error) {
	return m.skills, m.err
}

func (m *mockSkillUsecase) CreateSkill(_ context.Context, _ session.Session, in usecase.CreateSkillInput) (usecase.SkillView, error) {
	m.created = in
	if m.err != nil {
		return usecase.SkillView{}, m.err
	}
	return usecase.SkillView{ID: testSkill, Name: in.Name, Category: in.Category}, nil
}

func (m *mockSkillUsecase) NormalizeSkills(_ context.Context, _ session.Session, refs []string) ([]usecase.NormalizedRef, error) {
	m.asked = refs
	return m.refs, m.err
}

func TestSkillHandler(t *testing.T) {
	id := testSkill
	uc := &mockSkillUsecase{
		skills: []usecase.SkillView{{ID: testSkill, Name: "React", Category: "Frontend"}},
		refs: []usecase.NormalizedRef{
			{Ref: "reactjs", SkillID: &id, SkillName: "React"},
			{Ref: "cobol", Error: "unknown skill"},
		},
	}
	app := newTestApp(testSession(), NewSkillHandler(uc, validation.MustNew()).RegisterRoutes)

	status, env := do(t, app, http.MethodGet, "/skills", "")
	if status != fiber.StatusOK || !strings.Contains(string(env.Data), `"React"`) {
		t.Fatalf("list: got %d %s", status, string(env.Data))
	}

	status, env = do(t, app, http.MethodPost, "/skills", `{"name":"Svelte","category":"Frontend"}`)
	if status != fiber.StatusCreated || uc.created.Name != "Svelte" {
		t.Fatalf("create: got %d %s", status, env.Message)
	}

	if status, _ := do(t, app, http.MethodPost, "/skills", `{"name":"Svelte"}`); status != fiber.StatusBadRequest {
		t.Fatalf("create without category: expected 400, got %d", status)
	}

	status, env = do(t, app, http.MethodPost, "/skills/normalize", `{"refs":["reactjs","cobol"]}`)
	if status != fiber.StatusOK {
		t.Fatalf("normalize: got %d %s", status, env.Message)
	}
	var refs []struct {
		Ref     string     `json:"ref"`
		SkillID *uuid.UUID `json:"skill_id"`
		Error   string     `json:"error"`
	}
	if err := json.Unmarshal(env.Data, &refs); err != nil {
		t.Fatalf("decode refs: %v", err)
	}
	if len(refs) != 2 || refs[0].SkillID == nil || *refs[0].SkillID != testSkill || refs[1].SkillID != nil || refs[1].Error == "" {
		t.Fatalf("unexpected refs %+v", refs)
	}
	if len(uc.asked) != 2 {
		t.Fatalf("expected refs forwarded, got %v", uc.asked)
	}

	uc.err = usecase.ErrForbidden
	if status, _ := do(t, app, http.MethodPost, "/skills", `{"name":"Svelte","category":"Frontend"}`); status != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
}
