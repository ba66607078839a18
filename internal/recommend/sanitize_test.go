package recommend

import (
	"encoding/json"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func TestValidateIdempotent(t *testing.T) {
	input := Input{Profile: testProfile(), Jobs: testJobs(5)}
	out := NewFallback(rand.New(rand.NewSource(13))).Generate(input.Profile, input.Jobs)

	once := Validate(out, input)
	onceJSON, err := json.Marshal(once)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	twice := Validate(once, input)
	twiceJSON, err := json.Marshal(twice)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if string(onceJSON) != string(twiceJSON) {
		t.Fatalf("expected idempotent validation:\n%s\n%s", onceJSON, twiceJSON)
	}
}

func TestValidateNilOutput(t *testing.T) {
	out := Validate(nil, Input{Jobs: testJobs(3)})

	if out == nil {
		t.Fatal("expected non-nil output")
	}

	if len(out.Recommendations) != 0 {
		t.Fatalf("expected empty recommendations, got %d", len(out.Recommendations))
	}

	if out.Analysis.TotalJobsAnalyzed != 3 {
		t.Fatalf("expected synthesized analysis count 3, got %d", out.Analysis.TotalJobsAnalyzed)
	}

	if out.Analysis.TopMatchingFactors == nil || out.Analysis.SkillImprovements == nil || out.Analysis.AccommodationInsights == nil {
		t.Fatal("expected insight lists to be non-nil")
	}
}

func TestValidateDropsUnusableEntries(t *testing.T) {
	out := &Output{Recommendations: []*Result{
		nil,
		{JobID: "", Rating: 5, MatchScore: 50},
		{JobID: "j1", Rating: 5, MatchScore: math.NaN()},
		{JobID: "j2", Rating: 5, MatchScore: 50},
	}}

	validated := Validate(out, Input{Jobs: testJobs(4)})

	if len(validated.Recommendations) != 1 || validated.Recommendations[0].JobID != "j2" {
		t.Fatalf("unexpected survivors: %+v", validated.Recommendations)
	}
}

func TestValidateClampsAndTags(t *testing.T) {
	out := &Output{Recommendations: []*Result{{
		JobID:         "j1",
		Rating:        0,
		MatchScore:    250,
		Reason:        Reason("NOT_A_REASON"),
		RecommendedBy: "someone else",
		MatchFactors:  MatchFactors{Skills: -1, Accommodation: 101, Location: math.NaN()},
	}}}

	rec := Validate(out, Input{Jobs: testJobs(1)}).Recommendations[0]

	if rec.Rating != 1 {
		t.Fatalf("expected rating clamped to 1, got %d", rec.Rating)
	}
	if rec.MatchScore != 100 {
		t.Fatalf("expected score clamped to 100, got %v", rec.MatchScore)
	}
	if rec.Reason != ReasonSomeInterest {
		t.Fatalf("expected unknown reason defaulted, got %q", rec.Reason)
	}
	if rec.RecommendedBy != RecommendedBy {
		t.Fatalf("expected producer tag forced, got %q", rec.RecommendedBy)
	}
	if rec.MatchFactors.Skills != 0 || rec.MatchFactors.Accommodation != 100 {
		t.Fatalf("expected factors clamped, got %+v", rec.MatchFactors)
	}
	if rec.MatchFactors.Location != defaultFactorScore {
		t.Fatalf("expected NaN factor defaulted, got %v", rec.MatchFactors.Location)
	}
}

func TestValidateTruncatesToMax(t *testing.T) {
	recs := make([]*Result, 0, 8)
	for i := 0; i < 8; i++ {
		recs = append(recs, &Result{JobID: "j", Rating: 5, MatchScore: 50})
	}

	out := Validate(&Output{Recommendations: recs}, Input{
		Jobs:        testJobs(8),
		Preferences: &Preferences{MaxRecommendations: 3},
	})

	if len(out.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(out.Recommendations))
	}
}

func TestSanitizeModelOutputDefaultsMissingFactors(t *testing.T) {
	data := map[string]any{
		"recommendations": []any{
			map[string]any{"jobId": "j1", "rating": float64(7), "matchScore": float64(70)},
		},
	}

	out := sanitizeModelOutput(data, Input{Jobs: testJobs(1)})

	want := MatchFactors{
		Skills:          defaultFactorScore,
		Accommodation:   defaultFactorScore,
		Location:        defaultFactorScore,
		WorkArrangement: defaultFactorScore,
		Industry:        defaultFactorScore,
		Experience:      defaultFactorScore,
	}
	if !reflect.DeepEqual(out.Recommendations[0].MatchFactors, want) {
		t.Fatalf("expected all factors defaulted, got %+v", out.Recommendations[0].MatchFactors)
	}
}

func TestSanitizeModelOutputAnalysisDefaults(t *testing.T) {
	out := sanitizeModelOutput(map[string]any{}, Input{Jobs: testJobs(4)})

	if out.Analysis.TotalJobsAnalyzed != 4 {
		t.Fatalf("expected analysis count defaulted to 4, got %d", out.Analysis.TotalJobsAnalyzed)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"backticks", "`{\"a\": 1}`", `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
