package jobboard

import (
	"encoding/json"
	"fmt"
	"os"
)

// Work arrangement preferences a seeker can declare.
const (
	ArrangementRemote   = "remote"
	ArrangementHybrid   = "hybrid"
	ArrangementOnSite   = "on-site"
	ArrangementFlexible = "flexible"
)

type Education struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
}

type Experience struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// UserProfile is the seeker's accessibility and career profile. It is owned by
// the job board and read-only here.
type UserProfile struct {
	ID                   string       `json:"id,omitempty"`
	Name                 string       `json:"name,omitempty"`
	Summary              string       `json:"summary,omitempty"`
	DisabilityTypes      []string     `json:"disabilityTypes,omitempty"`
	AssistiveTechnology  []string     `json:"assistiveTechnology,omitempty"`
	SupportNeeds         string       `json:"supportNeeds,omitempty"`
	AccommodationNeeds   string       `json:"accommodationNeeds,omitempty"`
	TechnicalSkills      []string     `json:"technicalSkills,omitempty"`
	SoftSkills           []string     `json:"softSkills,omitempty"`
	TargetIndustries     []string     `json:"targetIndustries,omitempty"`
	PreferredArrangement string       `json:"preferredArrangement,omitempty"`
	Education            []Education  `json:"education,omitempty"`
	Experience           []Experience `json:"experience,omitempty"`
	ResumeURL            string       `json:"resumeUrl,omitempty"`
	CertificationURLs    []string     `json:"certificationUrls,omitempty"`
}

// ProfileFromFile loads a seeker profile from a JSON file.
func ProfileFromFile(path string) (*UserProfile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile file: %w", err)
	}
	defer file.Close()

	var profile UserProfile
	if err := json.NewDecoder(file).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode profile file %q: %w", path, err)
	}
	return &profile, nil
}
