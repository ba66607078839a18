package ai

import (
	"context"

	"github.com/Candra0x6/stara-match/internal/jobboard"
	"github.com/Candra0x6/stara-match/internal/recommend"
)

// Recommender is the subsystem boundary consumed by the CLI and the HTTP
// server. Both operations always return a usable result; degraded runs are
// reported through the output itself, never as errors.
type Recommender interface {
	GenerateRecommendations(ctx context.Context, input recommend.Input) *recommend.Output
	GenerateFollowUpQuestions(ctx context.Context, profile *jobboard.UserProfile, output *recommend.Output) []string
}
