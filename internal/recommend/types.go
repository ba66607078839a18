// Package recommend implements the AI job-match recommendation pipeline:
// prompt building, model invocation, response sanitization and the
// deterministic fallback used when the model path fails.
package recommend

import (
	"github.com/Candra0x6/stara-match/internal/jobboard"
)

// RecommendedBy tags every recommendation with the producing subsystem.
const RecommendedBy = "AI"

const (
	defaultMaxRecommendations = 10
	maxFallbackResults        = 5
)

// Reason is the closed set of match explanations a recommendation can carry.
type Reason string

const (
	ReasonPerfectMatch         Reason = "PERFECT_MATCH"
	ReasonGoodFit              Reason = "GOOD_FIT"
	ReasonSomeInterest         Reason = "SOME_INTEREST"
	ReasonNotRelevant          Reason = "NOT_RELEVANT"
	ReasonPoorMatch            Reason = "POOR_MATCH"
	ReasonAlreadyApplied       Reason = "ALREADY_APPLIED"
	ReasonLocationIssue        Reason = "LOCATION_ISSUE"
	ReasonSalaryMismatch       Reason = "SALARY_MISMATCH"
	ReasonSkillMismatch        Reason = "SKILL_MISMATCH"
	ReasonAccommodationConcern Reason = "ACCOMMODATION_CONCERN"
)

var validReasons = map[Reason]struct{}{
	ReasonPerfectMatch:         {},
	ReasonGoodFit:              {},
	ReasonSomeInterest:         {},
	ReasonNotRelevant:          {},
	ReasonPoorMatch:            {},
	ReasonAlreadyApplied:       {},
	ReasonLocationIssue:        {},
	ReasonSalaryMismatch:       {},
	ReasonSkillMismatch:        {},
	ReasonAccommodationConcern: {},
}

// Source reports which path produced an output. The subsystem never fails
// observably; a degraded run is visible only through this discriminator.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Preferences are the caller-supplied knobs for a recommendation request.
//
// MinMatchScore is accepted for compatibility with the board's API but is not
// enforced as a filter.
type Preferences struct {
	MaxRecommendations       int      `json:"maxRecommendations,omitempty"`
	MinMatchScore            float64  `json:"minMatchScore,omitempty"`
	PrioritizeAccommodations bool     `json:"prioritizeAccommodations,omitempty"`
	ExcludeAppliedJobs       []string `json:"excludeAppliedJobs,omitempty"`
}

// Input is the full request handed to the engine.
type Input struct {
	Profile     *jobboard.UserProfile
	Jobs        []*jobboard.JobPosting
	Preferences *Preferences
}

func (in Input) maxRecommendations() int {
	if in.Preferences != nil && in.Preferences.MaxRecommendations > 0 {
		return in.Preferences.MaxRecommendations
	}
	return defaultMaxRecommendations
}

// MatchFactors are the six sub-scores behind a match, each within [0,100].
type MatchFactors struct {
	Skills          float64 `json:"skills"`
	Accommodation   float64 `json:"accommodation"`
	Location        float64 `json:"location"`
	WorkArrangement float64 `json:"workArrangement"`
	Industry        float64 `json:"industry"`
	Experience      float64 `json:"experience"`
}

// Result is a single evaluated job.
type Result struct {
	JobID         string       `json:"jobId"`
	Rating        int          `json:"rating"`
	MatchScore    float64      `json:"matchScore"`
	Reason        Reason       `json:"reason"`
	Feedback      string       `json:"feedback"`
	RecommendedBy string       `json:"recommendedBy"`
	MatchFactors  MatchFactors `json:"matchFactors"`
}

// Analysis summarizes a whole recommendation run.
type Analysis struct {
	TotalJobsAnalyzed     int      `json:"totalJobsAnalyzed"`
	TopMatchingFactors    []string `json:"topMatchingFactors"`
	SkillImprovements     []string `json:"recommendedSkillImprovements"`
	AccommodationInsights []string `json:"accommodationInsights"`
}

// Output is the container returned by every recommendation run. It is built
// fresh per invocation and has no identity of its own; persistence and
// caching are the caller's concern.
type Output struct {
	Recommendations []*Result `json:"recommendations"`
	Analysis        Analysis  `json:"analysis"`
	Source          Source    `json:"source"`
}
