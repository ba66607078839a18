package recommend

import (
	"math"
	"strings"
)

const defaultFactorScore = 50

// sanitizeModelOutput lifts the loosely-typed model document into an Output.
// Entries without a usable job id or numeric scores are dropped here; an
// invented id would be meaningless to the caller. Everything else is coerced
// and left for Validate to clamp.
func sanitizeModelOutput(data map[string]any, input Input) *Output {
	out := &Output{Source: SourceModel}

	recs, _ := data["recommendations"].([]any)
	for _, item := range recs {
		entry := coerceMap(item)
		if entry == nil {
			continue
		}

		jobID := coerceString(entry["jobId"])
		rating := coerceFloat(entry["rating"])
		score := coerceFloat(entry["matchScore"])
		if jobID == "" || math.IsNaN(rating) || math.IsNaN(score) {
			continue
		}

		out.Recommendations = append(out.Recommendations, &Result{
			JobID:        jobID,
			Rating:       int(math.Round(rating)),
			MatchScore:   score,
			Reason:       Reason(strings.ToUpper(coerceString(entry["reason"]))),
			Feedback:     coerceString(entry["feedback"]),
			MatchFactors: sanitizeFactors(coerceMap(entry["matchFactors"])),
		})
	}

	analysis := coerceMap(data["analysis"])
	total := coerceFloat(analysis["totalJobsAnalyzed"])
	if math.IsNaN(total) || total < 0 {
		total = float64(len(input.Jobs))
	}
	out.Analysis = Analysis{
		TotalJobsAnalyzed:     int(total),
		TopMatchingFactors:    coerceStringSlice(analysis["topMatchingFactors"]),
		SkillImprovements:     coerceStringSlice(analysis["recommendedSkillImprovements"]),
		AccommodationInsights: coerceStringSlice(analysis["accommodationInsights"]),
	}

	return out
}

func sanitizeFactors(m map[string]any) MatchFactors {
	return MatchFactors{
		Skills:          factorValue(m, "skills"),
		Accommodation:   factorValue(m, "accommodation"),
		Location:        factorValue(m, "location"),
		WorkArrangement: factorValue(m, "workArrangement"),
		Industry:        factorValue(m, "industry"),
		Experience:      factorValue(m, "experience"),
	}
}

func factorValue(m map[string]any, key string) float64 {
	if m == nil {
		return defaultFactorScore
	}
	v, ok := m[key]
	if !ok {
		return defaultFactorScore
	}
	f := coerceFloat(v)
	if math.IsNaN(f) {
		return defaultFactorScore
	}
	return f
}

// Validate is the single egress point of the subsystem: every Output, whether
// model-produced or fallback-produced, passes through it before being
// returned. It guarantees the data-model invariants unconditionally and never
// fails; running it twice yields an identical result.
func Validate(out *Output, input Input) *Output {
	if out == nil {
		out = &Output{Source: SourceFallback}
	}

	kept := make([]*Result, 0, len(out.Recommendations))
	for _, rec := range out.Recommendations {
		if rec == nil || rec.JobID == "" || math.IsNaN(rec.MatchScore) {
			continue
		}

		rec.Rating = int(clamp(float64(rec.Rating), 1, 10))
		rec.MatchScore = clamp(rec.MatchScore, 0, 100)
		rec.RecommendedBy = RecommendedBy
		if _, ok := validReasons[rec.Reason]; !ok {
			rec.Reason = ReasonSomeInterest
		}

		rec.MatchFactors.Skills = clampFactor(rec.MatchFactors.Skills)
		rec.MatchFactors.Accommodation = clampFactor(rec.MatchFactors.Accommodation)
		rec.MatchFactors.Location = clampFactor(rec.MatchFactors.Location)
		rec.MatchFactors.WorkArrangement = clampFactor(rec.MatchFactors.WorkArrangement)
		rec.MatchFactors.Industry = clampFactor(rec.MatchFactors.Industry)
		rec.MatchFactors.Experience = clampFactor(rec.MatchFactors.Experience)

		kept = append(kept, rec)
	}

	if max := input.maxRecommendations(); len(kept) > max {
		kept = kept[:max]
	}
	out.Recommendations = kept

	if out.Analysis.TotalJobsAnalyzed <= 0 {
		out.Analysis.TotalJobsAnalyzed = len(input.Jobs)
	}
	if out.Analysis.TopMatchingFactors == nil {
		out.Analysis.TopMatchingFactors = []string{}
	}
	if out.Analysis.SkillImprovements == nil {
		out.Analysis.SkillImprovements = []string{}
	}
	if out.Analysis.AccommodationInsights == nil {
		out.Analysis.AccommodationInsights = []string{}
	}

	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

func clampFactor(v float64) float64 {
	if math.IsNaN(v) {
		return defaultFactorScore
	}
	return clamp(v, 0, 100)
}
