package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Candra0x6/stara-match/internal/jobboard"
	"github.com/Candra0x6/stara-match/internal/recommend"
	"github.com/Candra0x6/stara-match/internal/store"
	"go.uber.org/zap"
)

type recommendationsRequest struct {
	ProfileID   string                 `json:"profileId,omitempty"`
	Profile     *jobboard.UserProfile  `json:"profile,omitempty"`
	Jobs        []*jobboard.JobPosting `json:"jobs,omitempty"`
	Preferences *recommend.Preferences `json:"preferences,omitempty"`
	Refresh     bool                   `json:"refresh,omitempty"`
}

type recommendationsResponse struct {
	*recommend.Output
	ProfileID   string    `json:"profileId,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
	Cached      bool      `json:"cached"`
}

// handleRecommendations generates recommendations for a profile. The profile
// and jobs come either inline in the request or, given only a profileId,
// from the database. Results for database-backed requests are cached and
// persisted best-effort.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if req.Profile == nil && req.ProfileID == "" {
		s.errorResponse(w, http.StatusBadRequest, "either profile or profileId is required")
		return
	}

	ctx := r.Context()
	profileID := req.ProfileID
	if req.Profile != nil && req.Profile.ID != "" {
		profileID = req.Profile.ID
	}

	// Only stored-profile requests without inline overrides hit the cache;
	// inline jobs or preferences make the request unique.
	cacheable := req.Profile == nil && req.Jobs == nil && req.Preferences == nil
	if cacheable && !req.Refresh && s.cache != nil {
		entry, err := s.cache.Get(ctx, profileID)
		if err != nil {
			s.logger.Warn("cache lookup failed", zap.Error(err))
		} else if entry != nil {
			s.jsonResponse(w, http.StatusOK, recommendationsResponse{
				Output:      entry.Output,
				ProfileID:   profileID,
				GeneratedAt: entry.GeneratedAt,
				Cached:      true,
			})
			return
		}
	}

	input, status, err := s.buildInput(r, req)
	if err != nil {
		s.errorResponse(w, status, err.Error())
		return
	}

	output := s.recommender.GenerateRecommendations(ctx, input)
	generatedAt := time.Now().UTC()

	if profileID != "" && s.store != nil {
		if _, err := s.store.SaveRun(ctx, profileID, output); err != nil {
			s.logger.Warn("failed to persist run", zap.Error(err))
		}
	}
	if cacheable && s.cache != nil {
		if err := s.cache.Put(ctx, profileID, output); err != nil {
			s.logger.Warn("failed to cache result", zap.Error(err))
		}
	}

	s.jsonResponse(w, http.StatusOK, recommendationsResponse{
		Output:      output,
		ProfileID:   profileID,
		GeneratedAt: generatedAt,
	})
}

// buildInput resolves the request into a fully-populated engine input,
// loading profile and jobs from the database where the request omits them.
func (s *Server) buildInput(r *http.Request, req recommendationsRequest) (recommend.Input, int, error) {
	ctx := r.Context()
	input := recommend.Input{
		Profile:     req.Profile,
		Jobs:        req.Jobs,
		Preferences: req.Preferences,
	}

	if input.Profile == nil {
		if s.store == nil {
			return input, http.StatusServiceUnavailable, errors.New("profile lookup requires a database connection")
		}
		profile, err := s.store.GetProfile(ctx, req.ProfileID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return input, http.StatusNotFound, fmt.Errorf("profile %s not found", req.ProfileID)
			}
			s.logger.Error("profile lookup failed", zap.Error(err))
			return input, http.StatusInternalServerError, errors.New("profile lookup failed")
		}
		input.Profile = profile
	}

	if input.Jobs == nil && s.store != nil {
		jobs, err := s.store.ListOpenJobs(ctx, 0)
		if err != nil {
			s.logger.Error("job listing failed", zap.Error(err))
			return input, http.StatusInternalServerError, errors.New("job listing failed")
		}
		input.Jobs = jobs.Items
	}

	if s.store != nil && input.Profile.ID != "" {
		applied, err := s.store.ListAppliedJobIDs(ctx, input.Profile.ID)
		if err != nil {
			s.logger.Warn("application lookup failed", zap.Error(err))
		} else if len(applied) > 0 {
			if input.Preferences == nil {
				input.Preferences = &recommend.Preferences{ExcludeAppliedJobs: applied}
			} else if input.Preferences.ExcludeAppliedJobs == nil {
				prefs := *input.Preferences
				prefs.ExcludeAppliedJobs = applied
				input.Preferences = &prefs
			}
		}
	}

	return input, http.StatusOK, nil
}

type questionsRequest struct {
	ProfileID       string                `json:"profileId,omitempty"`
	Profile         *jobboard.UserProfile `json:"profile,omitempty"`
	Recommendations *recommend.Output     `json:"recommendations,omitempty"`
}

type questionsResponse struct {
	Questions []string `json:"questions"`
}

// handleQuestions returns follow-up questions for a profile, optionally
// informed by a prior recommendation set.
func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	var req questionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	ctx := r.Context()
	profile := req.Profile
	if profile == nil {
		if req.ProfileID == "" {
			s.errorResponse(w, http.StatusBadRequest, "either profile or profileId is required")
			return
		}
		if s.store == nil {
			s.errorResponse(w, http.StatusServiceUnavailable, "profile lookup requires a database connection")
			return
		}
		loaded, err := s.store.GetProfile(ctx, req.ProfileID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("profile %s not found", req.ProfileID))
				return
			}
			s.logger.Error("profile lookup failed", zap.Error(err))
			s.errorResponse(w, http.StatusInternalServerError, "profile lookup failed")
			return
		}
		profile = loaded
	}

	questions := s.recommender.GenerateFollowUpQuestions(ctx, profile, req.Recommendations)
	s.jsonResponse(w, http.StatusOK, questionsResponse{Questions: questions})
}
