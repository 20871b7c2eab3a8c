package usecase

import (
	"context"
	"errors"
	"testing"

	"talent-match/internal/domain/matching"
	"talent-match/internal/infrastructure/event"
)

func newRequirements(f *fixture, cache RankingCache, pub EventPublisher, n Notifier) *Requirements {
	return NewRequirementsUsecase(RequirementsDeps{
		Projects:     f.projects,
		Requirements: f.requirements,
		Skills:       f.skills,
		Cache:        cache,
		Publisher:    pub,
		Notifier:     n,
	})
}

func TestRequirementsUsecase_GetRequirements(t *testing.T) {
	f := newFixture()
	uc := newRequirements(f, nil, nil, nil)

	got, err := uc.GetRequirements(context.Background(), employeeSession(profile1), projectID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(got))
	}
	if got[0].SkillID != reactID || !got[0].IsMandatory || got[0].Weight != 2 {
		t.Fatalf("expected mandatory React first, got %+v", got[0])
	}
	if got[1].SkillID != nodeID || got[1].Weight != 1 {
		t.Fatalf("expected optional Node.js second, got %+v", got[1])
	}

	f.requirements.rows[projectID] = nil
	got, err = uc.GetRequirements(context.Background(), managerSession(), projectID)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v / %v", got, err)
	}
}

func TestRequirementsUsecase_ReplaceRequirements(t *testing.T) {
	f := newFixture()
	cache := newMemoryCache()
	pub := event.NewMockPublisher()
	notifier := &recordingNotifier{}
	uc := newRequirements(f, cache, pub, notifier)
	ctx := context.Background()

	if _, err := f.matching(cache, nil).RankCandidates(ctx, managerSession(), projectID, RankingParams{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected a cached ranking")
	}

	optional := false
	got, err := uc.ReplaceRequirements(ctx, managerSession(), projectID, []RequirementInput{
		{Skill: "amazon web services", RequiredProficiency: "Intermediate", IsMandatory: &optional, MinExperienceYears: intp(2)},
		{Skill: "reactjs", RequiredProficiency: "beginner"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].SkillID != reactID || !got[0].IsMandatory {
		t.Fatalf("expected React mandatory by default, got %+v", got)
	}
	if got[1].SkillID != awsID || got[1].RequiredProficiency != "intermediate" || got[1].MinExperienceYears != 2 {
		t.Fatalf("unexpected AWS requirement: %+v", got[1])
	}

	stored := f.requirements.rows[projectID]
	if len(stored) != 2 || stored[0].RequiredProficiency != "intermediate" {
		t.Fatalf("unexpected stored rows: %+v", stored)
	}
	if cache.Len() != 0 {
		t.Fatalf("expected cached rankings invalidated")
	}
	if cache.deleted[0] != RankingProjectPattern(companyID, projectID) {
		t.Fatalf("unexpected invalidation pattern %q", cache.deleted[0])
	}
	if types := pub.Types(); len(types) != 1 || types[0] != event.TypeRequirementsUpdated {
		t.Fatalf("unexpected events %v", types)
	}
	if len(notifier.requirements) != 1 || notifier.requirements[0] != projectID {
		t.Fatalf("expected dashboard notification, got %v", notifier.requirements)
	}
}

func TestRequirementsUsecase_ReplaceRequirements_Clear(t *testing.T) {
	f := newFixture()
	uc := newRequirements(f, nil, nil, nil)

	got, err := uc.ReplaceRequirements(context.Background(), managerSession(), projectID, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 || len(f.requirements.rows[projectID]) != 0 {
		t.Fatalf("expected requirements cleared")
	}
}

func TestRequirementsUsecase_ReplaceRequirements_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   []RequirementInput
		want error
	}{
		{name: "unknown skill", in: []RequirementInput{{Skill: "cobol", RequiredProficiency: "expert"}}, want: matching.ErrUnknownSkill},
		{name: "bad proficiency", in: []RequirementInput{{Skill: "React", RequiredProficiency: "guru"}}, want: matching.ErrValidation},
		{
			name: "duplicate skill",
			in: []RequirementInput{
				{Skill: "React", RequiredProficiency: "expert"},
				{Skill: "react.js", RequiredProficiency: "beginner"},
			},
			want: matching.ErrValidation,
		},
		{name: "negative years", in: []RequirementInput{{Skill: "AWS", RequiredProficiency: "expert", MinExperienceYears: intp(-1)}}, want: matching.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := newRequirements(f, nil, nil, nil).ReplaceRequirements(context.Background(), managerSession(), projectID, tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if f.requirements.replaced != 0 {
				t.Fatalf("expected nothing stored")
			}
		})
	}

	f := newFixture()
	_, err := newRequirements(f, nil, nil, nil).ReplaceRequirements(context.Background(), employeeSession(profile1), projectID, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
