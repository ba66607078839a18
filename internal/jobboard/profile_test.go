package jobboard

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProfileFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	payload := `{
		"id": "p1",
		"name": "Alex",
		"disabilityTypes": ["visual impairment"],
		"assistiveTechnology": ["screen reader"],
		"technicalSkills": ["Go", "SQL"],
		"preferredArrangement": "remote",
		"education": [{"degree": "BSc", "institution": "State University"}]
	}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write profile file: %v", err)
	}

	profile, err := ProfileFromFile(path)
	if err != nil {
		t.Fatalf("ProfileFromFile returned error: %v", err)
	}

	if profile.ID != "p1" || profile.Name != "Alex" {
		t.Fatalf("unexpected identity fields: %+v", profile)
	}

	if len(profile.TechnicalSkills) != 2 {
		t.Fatalf("expected 2 technical skills, got %d", len(profile.TechnicalSkills))
	}

	if profile.PreferredArrangement != ArrangementRemote {
		t.Fatalf("expected remote arrangement, got %q", profile.PreferredArrangement)
	}

	if len(profile.Education) != 1 || profile.Education[0].Degree != "BSc" {
		t.Fatalf("unexpected education: %+v", profile.Education)
	}
}

func TestProfileFromFileMissing(t *testing.T) {
	if _, err := ProfileFromFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestProfileFromFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write profile file: %v", err)
	}

	if _, err := ProfileFromFile(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
