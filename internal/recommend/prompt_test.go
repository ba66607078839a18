package recommend

import (
	"strings"
	"testing"

	"github.com/Candra0x6/stara-match/internal/jobboard"
)

func TestBuildPromptRendersPlaceholdersForMissingFields(t *testing.T) {
	prompt := BuildPrompt(&jobboard.UserProfile{}, []*jobboard.JobPosting{{ID: "j1"}}, nil)

	if !strings.Contains(prompt, "Disability types: Not provided") {
		t.Fatalf("expected placeholder for disability types: %s", prompt)
	}
	if !strings.Contains(prompt, "Technical skills: Not provided") {
		t.Fatalf("expected placeholder for skills: %s", prompt)
	}
	if !strings.Contains(prompt, "  Title: Not provided") {
		t.Fatalf("expected placeholder for job title: %s", prompt)
	}
	if !strings.Contains(prompt, "  Salary: Not provided") {
		t.Fatalf("expected placeholder for salary: %s", prompt)
	}
}

func TestBuildPromptIndexesJobsWithIDs(t *testing.T) {
	jobs := []*jobboard.JobPosting{
		{ID: "alpha", Title: "QA Engineer"},
		{ID: "beta", Title: "Designer"},
	}

	prompt := BuildPrompt(testProfile(), jobs, nil)

	if !strings.Contains(prompt, "Job 1 (id: alpha)") {
		t.Fatalf("expected first job section: %s", prompt)
	}
	if !strings.Contains(prompt, "Job 2 (id: beta)") {
		t.Fatalf("expected second job section: %s", prompt)
	}
}

func TestBuildPromptEmptyJobList(t *testing.T) {
	prompt := BuildPrompt(testProfile(), nil, nil)

	if !strings.Contains(prompt, "No candidate jobs were provided.") {
		t.Fatalf("expected degenerate job section: %s", prompt)
	}

	if !strings.Contains(prompt, "Respond with a single JSON object") {
		t.Fatalf("expected response instructions to survive: %s", prompt)
	}
}

func TestBuildPromptNilProfile(t *testing.T) {
	prompt := BuildPrompt(nil, nil, nil)

	if !strings.Contains(prompt, "Summary: Not provided") {
		t.Fatalf("expected nil profile to render placeholders: %s", prompt)
	}
}

func TestBuildPromptPreferenceDefaults(t *testing.T) {
	prompt := BuildPrompt(testProfile(), nil, nil)

	if !strings.Contains(prompt, "Maximum recommendations: 10") {
		t.Fatalf("expected default max recommendations: %s", prompt)
	}

	custom := BuildPrompt(testProfile(), nil, &Preferences{MaxRecommendations: 3, PrioritizeAccommodations: true})
	if !strings.Contains(custom, "Maximum recommendations: 3") {
		t.Fatalf("expected custom max recommendations: %s", custom)
	}
	if !strings.Contains(custom, "Prioritize accommodations: true") {
		t.Fatalf("expected accommodation priority flag: %s", custom)
	}
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	profile := testProfile()
	jobs := testJobs(3)
	prefs := &Preferences{MaxRecommendations: 5}

	if BuildPrompt(profile, jobs, prefs) != BuildPrompt(profile, jobs, prefs) {
		t.Fatal("expected identical prompts for identical inputs")
	}
}

func TestBuildQuestionsPromptDigest(t *testing.T) {
	output := &Output{Recommendations: []*Result{
		{JobID: "j1", Rating: 9, MatchScore: 90, Reason: ReasonPerfectMatch},
		{JobID: "j2", Rating: 8, MatchScore: 82, Reason: ReasonGoodFit},
		{JobID: "j3", Rating: 7, MatchScore: 74, Reason: ReasonGoodFit},
		{JobID: "j4", Rating: 2, MatchScore: 20, Reason: ReasonPoorMatch},
	}}

	prompt := buildQuestionsPrompt(testProfile(), output)

	for _, id := range []string{"j1", "j2", "j3"} {
		if !strings.Contains(prompt, "job "+id) {
			t.Fatalf("expected digest to include %s: %s", id, prompt)
		}
	}

	if strings.Contains(prompt, "job j4") {
		t.Fatalf("expected digest limited to top 3: %s", prompt)
	}
}
