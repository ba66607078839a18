package recommend

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Candra0x6/stara-match/internal/jobboard"
)

// Fallback produces a deterministic, schema-valid recommendation set straight
// from the input data. It is used whenever the model path fails, so it must
// never fail itself.
//
// The candidate order is preserved as a pre-ranked signal; scores decrease by
// position rather than by a computed ranking.
type Fallback struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFallback creates a fallback generator. A nil rng gets a time-seeded one;
// tests inject a fixed seed.
func NewFallback(rng *rand.Rand) *Fallback {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Fallback{rng: rng}
}

// Generate builds a heuristic recommendation set from the first
// min(5, len(jobs)) candidates. Ratings and match scores are fixed decreasing
// sequences; only the six sub-factor scores carry bounded randomness, and every
// draw stays inside [0,100].
func (f *Fallback) Generate(profile *jobboard.UserProfile, jobs []*jobboard.JobPosting) *Output {
	if profile == nil {
		profile = &jobboard.UserProfile{}
	}

	count := len(jobs)
	if count > maxFallbackResults {
		count = maxFallbackResults
	}

	out := &Output{
		Source:          SourceFallback,
		Recommendations: make([]*Result, 0, count),
	}

	for i := 0; i < count; i++ {
		job := jobs[i]
		if job == nil {
			job = &jobboard.JobPosting{}
		}

		rating := 8 - i
		if rating < 1 {
			rating = 1
		}

		score := float64(85 - 8*i)
		if score < 50 {
			score = 50
		}

		out.Recommendations = append(out.Recommendations, &Result{
			JobID:         job.ID,
			Rating:        rating,
			MatchScore:    score,
			Reason:        ReasonGoodFit,
			Feedback:      fallbackFeedback(job),
			RecommendedBy: RecommendedBy,
			MatchFactors:  f.factors(profile, job),
		})
	}

	out.Analysis = fallbackAnalysis(profile, jobs)
	return out
}

func fallbackFeedback(job *jobboard.JobPosting) string {
	title := job.Title
	if title == "" {
		title = "This role"
	}

	company := job.Company.Name
	if company == "" {
		company = "the employer"
	}

	feedback := fmt.Sprintf("%s at %s aligns well with your profile and is worth a closer look.", title, company)
	if job.Remote {
		feedback += " The position is remote, which offers flexibility around your work environment."
	}
	return feedback
}

func (f *Fallback) factors(profile *jobboard.UserProfile, job *jobboard.JobPosting) MatchFactors {
	accommodationBase, accommodationSpread := 55.0, 10.0
	if len(job.Accommodations) > 0 {
		accommodationBase, accommodationSpread = 82.0, 12.0
	}

	locationBase, locationSpread := 60.0, 20.0
	if job.Remote {
		locationBase, locationSpread = 85.0, 10.0
	}

	arrangementBase, arrangementSpread := 60.0, 15.0
	if strings.EqualFold(profile.PreferredArrangement, job.WorkType) {
		arrangementBase, arrangementSpread = 90.0, 8.0
	}

	industryBase, industrySpread := 60.0, 15.0
	if industryMatches(profile.TargetIndustries, job.Company.Industry) {
		industryBase, industrySpread = 85.0, 10.0
	}

	return MatchFactors{
		Skills:          f.jitter(70, 15),
		Accommodation:   f.jitter(accommodationBase, accommodationSpread),
		Location:        f.jitter(locationBase, locationSpread),
		WorkArrangement: f.jitter(arrangementBase, arrangementSpread),
		Industry:        f.jitter(industryBase, industrySpread),
		Experience:      f.jitter(65, 15),
	}
}

// jitter draws base +/- spread, clamped to [0,100].
func (f *Fallback) jitter(base, spread float64) float64 {
	f.mu.Lock()
	draw := f.rng.Float64()
	f.mu.Unlock()

	return clamp(base+(draw*2-1)*spread, 0, 100)
}

func industryMatches(targets []string, industry string) bool {
	industry = strings.ToLower(strings.TrimSpace(industry))
	if industry == "" {
		return false
	}

	for _, target := range targets {
		target = strings.ToLower(strings.TrimSpace(target))
		if target == "" {
			continue
		}
		if strings.Contains(industry, target) || strings.Contains(target, industry) {
			return true
		}
	}
	return false
}

func fallbackAnalysis(profile *jobboard.UserProfile, jobs []*jobboard.JobPosting) Analysis {
	withAccommodations := 0
	improvements := make([]string, 0, 3)
	seen := make(map[string]struct{})

	skills := make(map[string]struct{}, len(profile.TechnicalSkills))
	for _, s := range profile.TechnicalSkills {
		skills[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	for _, job := range jobs {
		if job == nil {
			continue
		}
		if len(job.Accommodations) > 0 {
			withAccommodations++
		}
		for _, req := range job.PreferredSkills {
			key := strings.ToLower(strings.TrimSpace(req))
			if key == "" {
				continue
			}
			if _, has := skills[key]; has {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			if len(improvements) < 3 {
				seen[key] = struct{}{}
				improvements = append(improvements, req)
			}
		}
	}

	insights := []string{}
	if withAccommodations > 0 {
		insights = append(insights, fmt.Sprintf("%d of %d jobs declare workplace accommodations.", withAccommodations, len(jobs)))
	}

	return Analysis{
		TotalJobsAnalyzed:     len(jobs),
		TopMatchingFactors:    []string{"skills", "workArrangement", "accommodation"},
		SkillImprovements:     improvements,
		AccommodationInsights: insights,
	}
}
