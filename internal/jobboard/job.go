package jobboard

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
)

// Work types a posting can declare.
const (
	WorkTypeFullTime  = "full-time"
	WorkTypePartTime  = "part-time"
	WorkTypeContract  = "contract"
	WorkTypeFreelance = "freelance"
	WorkTypeRemote    = "remote"
	WorkTypeHybrid    = "hybrid"
	WorkTypeOnSite    = "on-site"
)

// Experience levels a posting can declare.
const (
	LevelEntry     = "entry"
	LevelJunior    = "junior"
	LevelMid       = "mid"
	LevelSenior    = "senior"
	LevelLead      = "lead"
	LevelExecutive = "executive"
)

// Accommodation categories an employer can declare on a posting.
const (
	AccommodationVisual        = "visual"
	AccommodationHearing       = "hearing"
	AccommodationMobility      = "mobility"
	AccommodationCognitive     = "cognitive"
	AccommodationMotor         = "motor"
	AccommodationSocial        = "social"
	AccommodationSensory       = "sensory"
	AccommodationCommunication = "communication"
	AccommodationLearning      = "learning"
	AccommodationMentalHealth  = "mental-health"
)

type Company struct {
	Name     string `json:"name,omitempty"`
	Industry string `json:"industry,omitempty"`
}

type Salary struct {
	From     int    `json:"from,omitempty"`
	To       int    `json:"to,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// JobPosting is a single listing on the board, including the accommodation
// metadata the employer declared. Read-only to the recommendation subsystem.
type JobPosting struct {
	ID                   string   `json:"id,omitempty"`
	Title                string   `json:"title,omitempty"`
	Company              Company  `json:"company,omitempty"`
	Location             string   `json:"location,omitempty"`
	WorkType             string   `json:"workType,omitempty"`
	ExperienceLevel      string   `json:"experienceLevel,omitempty"`
	Remote               bool     `json:"remote,omitempty"`
	Hybrid               bool     `json:"hybrid,omitempty"`
	Salary               *Salary  `json:"salary,omitempty"`
	Accommodations       []string `json:"accommodations,omitempty"`
	AccommodationDetails string   `json:"accommodationDetails,omitempty"`
	Requirements         []string `json:"requirements,omitempty"`
	PreferredSkills      []string `json:"preferredSkills,omitempty"`
	Benefits             []string `json:"benefits,omitempty"`
	ApplicationProcess   []string `json:"applicationProcess,omitempty"`
}

type Jobs struct {
	Items []*JobPosting
}

func (j *Jobs) Len() int {
	if j == nil {
		return 0
	}
	return len(j.Items)
}

func (j *Jobs) IDs() []string {
	ids := make([]string, 0, j.Len())
	for _, job := range j.Items {
		ids = append(ids, job.ID)
	}
	return ids
}

func (j *Jobs) FindByID(id string) *JobPosting {
	for _, job := range j.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Exclude removes every posting whose id appears in the provided list.
func (j *Jobs) Exclude(ids []string) {
	if j == nil || len(ids) == 0 {
		return
	}

	kept := make([]*JobPosting, 0, len(j.Items))
	for _, job := range j.Items {
		if slices.Contains(ids, job.ID) {
			continue
		}
		kept = append(kept, job)
	}
	j.Items = kept
}

func (j *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByCompany groups postings by company for quick review.
func (j *Jobs) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, job := range j.Items {
		key := job.Company.Name
		if key == "" {
			key = "unknown company"
		}

		salary := ""
		if job.Salary != nil {
			salary = fmt.Sprintf("%d-%d %s", job.Salary.From, job.Salary.To, job.Salary.Currency)
		}

		report[key] = append(report[key], map[string]string{
			"title":     job.Title,
			"location":  job.Location,
			"work type": job.WorkType,
			"level":     job.ExperienceLevel,
			"salary":    salary,
		})
	}
	return report
}

// JobsFromFile loads candidate postings from a JSON file. The file may contain
// either a bare array of postings or an object with an "items" key.
func JobsFromFile(path string) (*Jobs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}

	var items []*JobPosting
	if err := json.Unmarshal(data, &items); err == nil {
		return &Jobs{Items: items}, nil
	}

	var wrapped struct {
		Items []*JobPosting `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode jobs file %q: %w", path, err)
	}
	return &Jobs{Items: wrapped.Items}, nil
}
