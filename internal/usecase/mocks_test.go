package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/profile"
	"talent-match/internal/domain/project"
	"talent-match/internal/repository"
	"talent-match/internal/session"

	"github.com/google/uuid"
)

var (
	companyID      = uuid.MustParse("00000000-0000-0000-0000-00000000c001")
	otherCompanyID = uuid.MustParse("00000000-0000-0000-0000-00000000c002")
	managerID      = uuid.MustParse("00000000-0000-0000-0000-00000000e001")
	projectID      = uuid.MustParse("00000000-0000-0000-0000-00000000a001")
	foreignProject = uuid.MustParse("00000000-0000-0000-0000-00000000a002")

	reactID = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	nodeID  = uuid.MustParse("00000000-0000-0000-0000-0000000000a2")
	awsID   = uuid.MustParse("00000000-0000-0000-0000-0000000000a3")
	ghostID = uuid.MustParse("00000000-0000-0000-0000-0000000000ff")

	profile1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	profile2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	profile3 = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	profile4 = uuid.MustParse("00000000-0000-0000-0000-000000000004")
	onLeave  = uuid.MustParse("00000000-0000-0000-0000-000000000005")
	outsider = uuid.MustParse("00000000-0000-0000-0000-000000000006")
)

func managerSession() session.Session {
	return session.Session{UserID: managerID, CompanyID: companyID, Role: session.RoleProjectManager, ExpiresAt: time.Now().Add(time.Hour)}
}

func employeeSession(id uuid.UUID) session.Session {
	return session.Session{UserID: id, CompanyID: companyID, Role: session.RoleEmployee, ExpiresAt: time.Now().Add(time.Hour)}
}

type mockProjectRepo struct {
	items map[uuid.UUID]project.Project
	err   error
}

func (m mockProjectRepo) GetByID(_ context.Context, id uuid.UUID) (project.Project, error) {
	if m.err != nil {
		return project.Project{}, m.err
	}
	p, ok := m.items[id]
	if !ok {
		return project.Project{}, repository.ErrProjectNotFound
	}
	return p, nil
}

type mockRequirementRepo struct {
	mu       sync.Mutex
	rows     map[uuid.UUID][]matching.RequirementRow
	replaced int
	err      error
}

func (m *mockRequirementRepo) FindByProjectID(_ context.Context, id uuid.UUID) ([]matching.RequirementRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]matching.RequirementRow(nil), m.rows[id]...), nil
}

func (m *mockRequirementRepo) Replace(_ context.Context, id uuid.UUID, rows []matching.RequirementRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaced++
	m.rows[id] = rows
	return nil
}

type mockSkillRepo struct {
	mu     sync.Mutex
	skills []repository.Skill
	err    error
}

func (m *mockSkillRepo) ListSkills(context.Context) ([]repository.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]repository.Skill(nil), m.skills...), nil
}

func (m *mockSkillRepo) CreateSkill(_ context.Context, s repository.Skill) (repository.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.skills {
		if strings.EqualFold(existing.Name, s.Name) {
			return repository.Skill{}, repository.ErrSkillExists
		}
	}
	s.ID = uuid.New()
	m.skills = append(m.skills, s)
	return s, nil
}

type mockProfileRepo struct {
	items []profile.Profile
}

func (m mockProfileRepo) GetByID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	for _, p := range m.items {
		if p.ID == id {
			return p, nil
		}
	}
	return profile.Profile{}, repository.ErrProfileNotFound
}

func (m mockProfileRepo) ListPool(_ context.Context, company uuid.UUID) ([]profile.Profile, error) {
	out := make([]profile.Profile, 0)
	for _, p := range m.items {
		if p.CompanyID == company && p.Availability.Rankable() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m mockProfileRepo) FindByIDs(_ context.Context, company uuid.UUID, ids []uuid.UUID) ([]profile.Profile, error) {
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]profile.Profile, 0)
	for _, p := range m.items {
		if _, ok := want[p.ID]; ok && p.CompanyID == company {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockEmployeeSkillRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID][]profile.EmployeeSkill
	loads int
}

func (m *mockEmployeeSkillRepo) FindByProfileIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]profile.EmployeeSkill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	out := make(map[uuid.UUID][]profile.EmployeeSkill, len(ids))
	for _, id := range ids {
		if rows, ok := m.rows[id]; ok {
			out[id] = rows
		}
	}
	return out, nil
}

func (m *mockEmployeeSkillRepo) Replace(_ context.Context, id uuid.UUID, rows []profile.EmployeeSkill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id] = rows
	return nil
}

type mockAllocationRepo struct {
	mu    sync.Mutex
	items []project.Allocation
}

func (m *mockAllocationRepo) Create(_ context.Context, a project.Allocation) (project.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.ProjectID == a.ProjectID && existing.ProfileID == a.ProfileID {
			return project.Allocation{}, repository.ErrAllocationExists
		}
	}
	a.ID = uuid.New()
	a.Status = "active"
	a.CreatedAt = time.Now().UTC()
	m.items = append(m.items, a)
	return a, nil
}

func (m *mockAllocationRepo) ListByProject(_ context.Context, id uuid.UUID) ([]project.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]project.Allocation, 0)
	for _, a := range m.items {
		if a.ProjectID == id {
			out = append(out, a)
		}
	}
	return out, nil
}

// memoryCache round-trips values through JSON like the redis cache does.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = b
	return nil
}

func (c *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

// Len counts cached rankings; generation keys are not included.
func (c *memoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if strings.HasPrefix(k, rankingKeyPrefix) {
			n++
		}
	}
	return n
}

type recordingNotifier struct {
	mu           sync.Mutex
	requirements []uuid.UUID
	skills       []uuid.UUID
}

func (n *recordingNotifier) NotifyRequirementsUpdated(_, projectID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requirements = append(n.requirements, projectID)
}

func (n *recordingNotifier) NotifySkillsUpdated(_, profileID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.skills = append(n.skills, profileID)
}

type fixture struct {
	projects     mockProjectRepo
	requirements *mockRequirementRepo
	skills       *mockSkillRepo
	profiles     mockProfileRepo
	employee     *mockEmployeeSkillRepo
	allocations  *mockAllocationRepo
}

func intp(v int) *int { return &v }

// newFixture builds a company with one active project requiring React (expert, mandatory)
// and Node.js (intermediate, optional).
func newFixture() *fixture {
	return &fixture{
		projects: mockProjectRepo{items: map[uuid.UUID]project.Project{
			projectID:      {ID: projectID, CompanyID: companyID, Name: "Portal", Status: project.StatusActive},
			foreignProject: {ID: foreignProject, CompanyID: otherCompanyID, Name: "Elsewhere", Status: project.StatusActive},
		}},
		requirements: &mockRequirementRepo{rows: map[uuid.UUID][]matching.RequirementRow{
			projectID: {
				{SkillID: reactID, SkillName: "React", RequiredProficiency: "expert", IsMandatory: true},
				{SkillID: nodeID, SkillName: "Node.js", RequiredProficiency: "intermediate", IsMandatory: false},
			},
		}},
		skills: &mockSkillRepo{skills: []repository.Skill{
			{ID: reactID, Name: "React", Category: "frontend"},
			{ID: nodeID, Name: "Node.js", Category: "backend"},
			{ID: awsID, Name: "AWS", Category: "cloud"},
		}},
		profiles: mockProfileRepo{items: []profile.Profile{
			{ID: profile1, CompanyID: companyID, FullName: "Ana", Availability: profile.AvailabilityAvailable},
			{ID: profile2, CompanyID: companyID, FullName: "Ben", Availability: profile.AvailabilityPartiallyAvailable},
			{ID: profile3, CompanyID: companyID, FullName: "Cy", Availability: profile.AvailabilityOnProject},
			{ID: profile4, CompanyID: companyID, FullName: "Dee", Availability: profile.AvailabilityAvailable},
			{ID: onLeave, CompanyID: companyID, FullName: "Eve", Availability: profile.AvailabilityOnLeave},
			{ID: outsider, CompanyID: otherCompanyID, FullName: "Fay", Availability: profile.AvailabilityAvailable},
		}},
		employee: &mockEmployeeSkillRepo{rows: map[uuid.UUID][]profile.EmployeeSkill{
			profile1: {
				{ProfileID: profile1, SkillID: reactID, SkillName: "React", Proficiency: "expert", YearsExperience: 4},
				{ProfileID: profile1, SkillID: nodeID, SkillName: "Node.js", Proficiency: "beginner", YearsExperience: 1},
			},
			profile2: {
				{ProfileID: profile2, SkillID: reactID, SkillName: "React", Proficiency: "expert", YearsExperience: 2},
				{ProfileID: profile2, SkillID: nodeID, SkillName: "Node.js", Proficiency: "expert", YearsExperience: 3},
			},
			profile4: {
				{ProfileID: profile4, SkillID: ghostID, SkillName: "Ghost", Proficiency: "expert", YearsExperience: 9},
			},
		}},
		allocations: &mockAllocationRepo{},
	}
}

func (f *fixture) matching(cache RankingCache, pub EventPublisher) *Matching {
	return NewMatchingUsecase(MatchingDeps{
		Projects:       f.projects,
		Requirements:   f.requirements,
		Skills:         f.skills,
		Profiles:       f.profiles,
		EmployeeSkills: f.employee,
		Cache:          cache,
		CacheTTL:       time.Minute,
		Publisher:      pub,
		Options:        matching.Options{Workers: 2, ParallelThreshold: 64},
	})
}
