package profile

import (
	"encoding/json"
	"slices"
	"testing"

	"mbaadvisor/internal/errors"
)

func TestApply_DoesNotMutateReceiver(t *testing.T) {
	original := strongProfile()
	activities := slices.Clone(original.Extracurriculars.Activities)

	updated := original.Apply(
		SetYears(1),
		AddActivity("Debate"),
		RemoveActivity(0),
		SetTier(TierTop10),
	)

	if original.WorkExperience.Years != 5 {
		t.Errorf("original years changed to %d", original.WorkExperience.Years)
	}
	if !slices.Equal(original.Extracurriculars.Activities, activities) {
		t.Errorf("original activities changed to %v", original.Extracurriculars.Activities)
	}
	if original.TargetSchools.Tier != TierTop25 {
		t.Errorf("original tier changed to %q", original.TargetSchools.Tier)
	}

	if updated.WorkExperience.Years != 1 {
		t.Errorf("updated years = %d, want 1", updated.WorkExperience.Years)
	}
	want := []string{"Club B", "Club C", "Debate"}
	if !slices.Equal(updated.Extracurriculars.Activities, want) {
		t.Errorf("updated activities = %v, want %v", updated.Extracurriculars.Activities, want)
	}
}

func TestApply_SliceUpdatesAreCopied(t *testing.T) {
	companies := []string{"Acme"}
	p := Profile{}.Apply(SetCompanies(companies))
	companies[0] = "Changed"

	if p.WorkExperience.Companies[0] != "Acme" {
		t.Errorf("profile shares slice with caller: %v", p.WorkExperience.Companies)
	}
}

func TestApply_ActivityEdges(t *testing.T) {
	p := Profile{}.Apply(
		AddActivity(""),
		RemoveActivity(3),
		RemoveActivity(-1),
		AddActivity("Chess"),
	)
	if !slices.Equal(p.Extracurriculars.Activities, []string{"Chess"}) {
		t.Errorf("activities = %v, want [Chess]", p.Extracurriculars.Activities)
	}
}

func TestApply_SchoolLists(t *testing.T) {
	p := Profile{}.Apply(
		SetSchoolList{List: ListReach, Schools: []string{"Harvard Business School"}},
		SetSchoolList{List: ListSafety, Schools: []string{"Wharton School"}},
		SetSchoolList{List: SchoolList("unknown"), Schools: []string{"ignored"}},
	)
	if len(p.TargetSchools.Reach) != 1 || len(p.TargetSchools.Safety) != 1 || len(p.TargetSchools.Target) != 0 {
		t.Errorf("unexpected school lists: %+v", p.TargetSchools)
	}
}

func TestDecodeUpdate(t *testing.T) {
	tests := []struct {
		field string
		value string
		check func(Profile) bool
	}{
		{"academics.gpa", `{"gpa": 3.9, "gpaScale": 4}`, func(p Profile) bool {
			return p.Academics.GPA == 3.9 && p.Academics.GPAScale == 4
		}},
		{"academics.testScore", `{"type": "GRE", "score": 328}`, func(p Profile) bool {
			return p.Academics.TestScore == TestScore{Type: TestGRE, Score: 328}
		}},
		{"workExperience.leadership", `9`, func(p Profile) bool {
			return p.WorkExperience.Leadership == 9
		}},
		{"workExperience.international", `true`, func(p Profile) bool {
			return p.WorkExperience.International
		}},
		{"extracurriculars.addActivity", `"Volunteering"`, func(p Profile) bool {
			return slices.Contains(p.Extracurriculars.Activities, "Volunteering")
		}},
		{"career.goals", `"Product management in fintech"`, func(p Profile) bool {
			return p.Career.Goals == "Product management in fintech"
		}},
		{"targetSchools.tier", `"top 50"`, func(p Profile) bool {
			return p.TargetSchools.Tier == TierTop50
		}},
		{"demographics", `{"age": 30, "country": "Nigeria"}`, func(p Profile) bool {
			return p.Demographics.Age == 30 && p.Demographics.Country == "Nigeria"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			u, err := DecodeUpdate(tt.field, json.RawMessage(tt.value))
			if err != nil {
				t.Fatalf("DecodeUpdate() error = %v", err)
			}
			if p := DefaultProfile().Apply(u); !tt.check(p) {
				t.Errorf("update %s not applied: %+v", tt.field, p)
			}
		})
	}
}

func TestDecodeUpdate_Errors(t *testing.T) {
	_, err := DecodeUpdate("academics.nickname", json.RawMessage(`"x"`))
	if !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Errorf("unknown field: err = %v, want validation error", err)
	}
	if appErr, _ := errors.AsAppError(err); appErr == nil || appErr.Code != errors.ErrCodeUnknownField {
		t.Errorf("unknown field: code = %v", appErr)
	}

	_, err = DecodeUpdate("workExperience.years", json.RawMessage(`"five"`))
	if appErr, ok := errors.AsAppError(err); !ok || appErr.Code != errors.ErrCodeInvalidProfile {
		t.Errorf("bad value: err = %v, want %s", err, errors.ErrCodeInvalidProfile)
	}
}

func TestDecodeUpdates_StopsAtFirstError(t *testing.T) {
	_, err := DecodeUpdates([]FieldUpdate{
		{Field: "career.clarity", Value: json.RawMessage(`8`)},
		{Field: "career.unknown", Value: json.RawMessage(`1`)},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestUpdateFields_Sorted(t *testing.T) {
	fields := UpdateFields()
	if !slices.IsSorted(fields) {
		t.Errorf("fields not sorted: %v", fields)
	}
	if !slices.Contains(fields, "career.fit") {
		t.Errorf("career.fit missing from %v", fields)
	}
}

func TestApply_NoneMatchesDecodedDocument(t *testing.T) {
	doc, err := DecodeJSON([]byte(`{"targetSchools": {"tier": "none"}, "academics": {"testScore": {"type": "none", "score": 0}}}`), false)
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}

	tier, err := DecodeUpdate("targetSchools.tier", json.RawMessage(`"none"`))
	if err != nil {
		t.Fatalf("DecodeUpdate(tier) error = %v", err)
	}
	test, err := DecodeUpdate("academics.testScore", json.RawMessage(`{"type": "none", "score": 0}`))
	if err != nil {
		t.Fatalf("DecodeUpdate(testScore) error = %v", err)
	}
	updated := Profile{}.Apply(tier, test)

	if updated.TargetSchools.Tier != TierNone {
		t.Errorf("tier = %q, want unset", updated.TargetSchools.Tier)
	}
	if updated.Academics.TestScore.Type != TestNone {
		t.Errorf("test type = %q, want unset", updated.Academics.TestScore.Type)
	}
	if got, want := ComputeScores(updated), ComputeScores(doc); got != want {
		t.Errorf("updated scores = %+v, decoded scores = %+v", got, want)
	}
	if got := ComputeScores(updated).CareerGoals; got != 0 {
		t.Errorf("careerGoals = %d, want 0 with no tier", got)
	}
}
