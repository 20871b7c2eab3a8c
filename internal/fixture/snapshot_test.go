package fixture

import (
	"context"
	"errors"
	"strings"
	"testing"

	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
)

const sampleYAML = `
project_id: 0b8f43c2-6f1e-4c5d-9a7b-1e2f3a4b5c6d
skills:
  - name: React
    category: Frontend
  - name: Node.js
    category: Backend
  - name: AWS
requirements:
  - skill: reactjs
    level: expert
  - skill: node
    level: Intermediate
    mandatory: false
candidates:
  - id: 00000000-0000-0000-0000-000000000001
    name: Full Match
    skills:
      - {skill: React, level: expert, years: 4, primary: true}
      - {skill: nodejs, level: intermediate, years: 2}
  - id: 00000000-0000-0000-0000-000000000002
    name: Mandatory Only
    skills:
      - {skill: React, level: expert, years: 3}
  - id: 00000000-0000-0000-0000-000000000003
    name: Junior
    skills:
      - {skill: React, level: beginner, years: 1}
  - id: 00000000-0000-0000-0000-000000000004
    name: Unknown Skill
    skills:
      - {skill: Cobol, level: expert, years: 20}
  - id: 00000000-0000-0000-0000-000000000005
    name: Bad Level
    skills:
      - {skill: React, level: guru, years: 2}
`

func mustLoad(t *testing.T, doc string) Snapshot {
	t.Helper()
	s, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestLoadDerivesStableSkillIDs(t *testing.T) {
	a := mustLoad(t, sampleYAML)
	b := mustLoad(t, sampleYAML)
	if a.Skills[0].ID == uuid.Nil || a.Skills[0].ID != b.Skills[0].ID {
		t.Fatalf("expected stable derived id, got %s and %s", a.Skills[0].ID, b.Skills[0].ID)
	}
	if a.Skills[0].ID == a.Skills[1].ID {
		t.Fatalf("distinct skills share an id")
	}
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"unknown field": "skills: [{name: Go}]\nbogus: 1\n",
		"no skills":     "requirements: []\n",
		"nameless":      "skills: [{category: x}]\n",
		"candidate id":  "skills: [{name: Go}]\ncandidates: [{name: x}]\n",
	}
	for name, doc := range cases {
		if _, err := Load(strings.NewReader(doc)); !errors.Is(err, ErrInvalidSnapshot) {
			t.Fatalf("%s: expected ErrInvalidSnapshot, got %v", name, err)
		}
	}
}

func TestRequirementSetNormalizesAliases(t *testing.T) {
	s := mustLoad(t, sampleYAML)
	set, err := s.RequirementSet(s.Catalog())
	if err != nil {
		t.Fatalf("requirement set: %v", err)
	}
	if len(set.Requirements) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(set.Requirements))
	}
	first := set.Requirements[0]
	if first.SkillName != "React" || !first.Mandatory || first.RequiredLevel != matching.ProficiencyExpert {
		t.Fatalf("unexpected first requirement %+v", first)
	}
	if set.Requirements[1].Mandatory {
		t.Fatalf("expected optional second requirement")
	}
}

func TestRequirementSetUnknownSkill(t *testing.T) {
	s := mustLoad(t, "skills: [{name: Go}]\nrequirements: [{skill: Rust, level: expert}]\n")
	if _, err := s.RequirementSet(s.Catalog()); !errors.Is(err, matching.ErrUnknownSkill) {
		t.Fatalf("expected ErrUnknownSkill, got %v", err)
	}
}

func TestRankScoresAndCollectsFailures(t *testing.T) {
	s := mustLoad(t, sampleYAML)
	r, err := s.Rank(context.Background(), matching.Options{Workers: 2, ParallelThreshold: 2})
	if err != nil {
		t.Fatalf("rank: %v", err)
	}

	want := []struct {
		id    string
		score int
	}{
		{"00000000-0000-0000-0000-000000000001", 100},
		{"00000000-0000-0000-0000-000000000002", 67},
		{"00000000-0000-0000-0000-000000000003", 0},
	}
	if len(r.Results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(r.Results))
	}
	for i, w := range want {
		if r.Results[i].CandidateID.String() != w.id || r.Results[i].Score != w.score {
			t.Fatalf("result %d: got %s/%d, want %s/%d", i, r.Results[i].CandidateID, r.Results[i].Score, w.id, w.score)
		}
	}

	if !r.Partial || len(r.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %+v", r.Failures)
	}
	if r.Failures[0].Reason != matching.ReasonUnknownSkill {
		t.Fatalf("expected unknown_skill first, got %s", r.Failures[0].Reason)
	}
	if r.Failures[1].Reason != matching.ReasonValidation {
		t.Fatalf("expected validation_error second, got %s", r.Failures[1].Reason)
	}
}

func TestRankAppliesFilter(t *testing.T) {
	s := mustLoad(t, sampleYAML+"filter:\n  min_score: 50\n  limit: 1\n")
	r, err := s.Rank(context.Background(), matching.Options{})
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(r.Results) != 1 || r.Results[0].Score != 100 {
		t.Fatalf("unexpected filtered results %+v", r.Results)
	}
	if s.Names()[r.Results[0].CandidateID] != "Full Match" {
		t.Fatalf("unexpected name lookup")
	}
}
