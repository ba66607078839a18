package recommend

import (
	"fmt"
	"strings"

	_ "embed"

	"github.com/Candra0x6/stara-match/internal/jobboard"
)

//go:embed prompt.md
var promptTemplate string

//go:embed questions.md
var questionsTemplate string

const notProvided = "Not provided"

// BuildPrompt renders the instruction document for a recommendation request.
// It is a pure function of its inputs: every profile and job section is always
// present, with missing values rendered as explicit placeholders.
func BuildPrompt(profile *jobboard.UserProfile, jobs []*jobboard.JobPosting, prefs *Preferences) string {
	prompt := strings.ReplaceAll(promptTemplate, "{{PROFILE}}", renderProfile(profile))
	prompt = strings.ReplaceAll(prompt, "{{JOBS}}", renderJobs(jobs))
	prompt = strings.ReplaceAll(prompt, "{{PREFERENCES}}", renderPreferences(prefs))
	return prompt
}

func buildQuestionsPrompt(profile *jobboard.UserProfile, output *Output) string {
	prompt := strings.ReplaceAll(questionsTemplate, "{{PROFILE}}", renderProfile(profile))
	prompt = strings.ReplaceAll(prompt, "{{DIGEST}}", renderDigest(output))
	return prompt
}

func renderProfile(profile *jobboard.UserProfile) string {
	if profile == nil {
		profile = &jobboard.UserProfile{}
	}

	var b strings.Builder
	writeLine(&b, "Summary", valueOr(profile.Summary))
	writeLine(&b, "Disability types", listOr(profile.DisabilityTypes))
	writeLine(&b, "Assistive technology", listOr(profile.AssistiveTechnology))
	writeLine(&b, "Support needs", valueOr(profile.SupportNeeds))
	writeLine(&b, "Accommodation needs", valueOr(profile.AccommodationNeeds))
	writeLine(&b, "Technical skills", listOr(profile.TechnicalSkills))
	writeLine(&b, "Soft skills", listOr(profile.SoftSkills))
	writeLine(&b, "Target industries", listOr(profile.TargetIndustries))
	writeLine(&b, "Preferred work arrangement", valueOr(profile.PreferredArrangement))
	writeLine(&b, "Education", renderEducation(profile.Education))
	writeLine(&b, "Experience", renderExperience(profile.Experience))
	return strings.TrimRight(b.String(), "\n")
}

func renderEducation(items []jobboard.Education) string {
	if len(items) == 0 {
		return notProvided
	}

	entries := make([]string, 0, len(items))
	for _, e := range items {
		entries = append(entries, fmt.Sprintf("%s at %s (%s)",
			valueOr(e.Degree), valueOr(e.Institution), valueOr(e.Year)))
	}
	return strings.Join(entries, "; ")
}

func renderExperience(items []jobboard.Experience) string {
	if len(items) == 0 {
		return notProvided
	}

	entries := make([]string, 0, len(items))
	for _, e := range items {
		entries = append(entries, fmt.Sprintf("%s at %s (%s)",
			valueOr(e.Title), valueOr(e.Company), valueOr(e.Duration)))
	}
	return strings.Join(entries, "; ")
}

func renderJobs(jobs []*jobboard.JobPosting) string {
	if len(jobs) == 0 {
		return "No candidate jobs were provided."
	}

	var b strings.Builder
	for i, job := range jobs {
		if job == nil {
			job = &jobboard.JobPosting{}
		}

		fmt.Fprintf(&b, "Job %d (id: %s)\n", i+1, valueOr(job.ID))
		writeLine(&b, "  Title", valueOr(job.Title))
		writeLine(&b, "  Company", valueOr(job.Company.Name))
		writeLine(&b, "  Industry", valueOr(job.Company.Industry))
		writeLine(&b, "  Location", valueOr(job.Location))
		writeLine(&b, "  Work type", valueOr(job.WorkType))
		writeLine(&b, "  Experience level", valueOr(job.ExperienceLevel))
		writeLine(&b, "  Remote", fmt.Sprintf("%t", job.Remote))
		writeLine(&b, "  Salary", renderSalary(job.Salary))
		writeLine(&b, "  Accommodations", listOr(job.Accommodations))
		writeLine(&b, "  Accommodation details", valueOr(job.AccommodationDetails))
		writeLine(&b, "  Requirements", listOr(job.Requirements))
		writeLine(&b, "  Preferred skills", listOr(job.PreferredSkills))
		writeLine(&b, "  Benefits", listOr(job.Benefits))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSalary(s *jobboard.Salary) string {
	if s == nil {
		return notProvided
	}
	return fmt.Sprintf("%d-%d %s", s.From, s.To, valueOr(s.Currency))
}

func renderPreferences(prefs *Preferences) string {
	if prefs == nil {
		prefs = &Preferences{}
	}

	max := prefs.MaxRecommendations
	if max <= 0 {
		max = defaultMaxRecommendations
	}

	var b strings.Builder
	writeLine(&b, "Maximum recommendations", fmt.Sprintf("%d", max))
	writeLine(&b, "Minimum match score", fmt.Sprintf("%g", prefs.MinMatchScore))
	writeLine(&b, "Prioritize accommodations", fmt.Sprintf("%t", prefs.PrioritizeAccommodations))
	writeLine(&b, "Excluded job ids", listOr(prefs.ExcludeAppliedJobs))
	return strings.TrimRight(b.String(), "\n")
}

func renderDigest(output *Output) string {
	if output == nil || len(output.Recommendations) == 0 {
		return "No recommendations were produced."
	}

	top := output.Recommendations
	if len(top) > 3 {
		top = top[:3]
	}

	var b strings.Builder
	for _, rec := range top {
		fmt.Fprintf(&b, "- job %s: rating %d/10, score %.0f, reason %s, factors(skills %.0f, accommodation %.0f, workArrangement %.0f)\n",
			rec.JobID, rec.Rating, rec.MatchScore, rec.Reason,
			rec.MatchFactors.Skills, rec.MatchFactors.Accommodation, rec.MatchFactors.WorkArrangement)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeLine(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func valueOr(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return notProvided
	}
	return s
}

func listOr(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return notProvided
	}
	return strings.Join(kept, ", ")
}
