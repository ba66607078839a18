package recommend

import (
	"context"
	"slices"
	"unicode/utf8"

	"github.com/Candra0x6/stara-match/internal/jobboard"
	"github.com/Candra0x6/stara-match/internal/logger"
	"github.com/Candra0x6/stara-match/internal/utils"
	"go.uber.org/zap"
)

// ContentGenerator produces a textual model response for a prompt.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

const defaultMaxLogLength = 200

// Engine orchestrates recommendation requests end to end. It is stateless
// between calls and safe for concurrent use.
type Engine struct {
	generator ContentGenerator
	fallback  *Fallback
	logger    *zap.Logger
	maxLogLen int
}

// NewEngine builds an engine around the given generator. A nil generator is
// allowed: every request then takes the fallback path.
func NewEngine(generator ContentGenerator, log *zap.Logger, maxLogLength int) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Engine{
		generator: generator,
		fallback:  NewFallback(nil),
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// GenerateRecommendations evaluates the candidate jobs against the seeker
// profile. It never fails: any model or parse error is absorbed and the
// deterministic fallback result is returned instead, with the degradation
// visible only through Output.Source.
func (e *Engine) GenerateRecommendations(ctx context.Context, input Input) *Output {
	input.Jobs = excludeApplied(input.Jobs, input.Preferences)

	profileID := ""
	if input.Profile != nil {
		profileID = input.Profile.ID
	}
	reqLogger := logger.WithFields(e.logger, logger.RequestFields(profileID, len(input.Jobs))...)

	if e.generator == nil {
		reqLogger.Debug("no content generator configured, using fallback")
		return Validate(e.fallback.Generate(input.Profile, input.Jobs), input)
	}

	prompt := BuildPrompt(input.Profile, input.Jobs, input.Preferences)
	reqLogger.Debug("recommendation request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		reqLogger.Warn("model call failed, falling back to heuristic recommendations", zap.Error(err))
		return Validate(e.fallback.Generate(input.Profile, input.Jobs), input)
	}

	reqLogger.Debug("recommendation response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	data, err := parseModelOutput(raw)
	if err != nil {
		reqLogger.Warn("model response unusable, falling back to heuristic recommendations", zap.Error(err))
		return Validate(e.fallback.Generate(input.Profile, input.Jobs), input)
	}

	return Validate(sanitizeModelOutput(data, input), input)
}

func excludeApplied(jobs []*jobboard.JobPosting, prefs *Preferences) []*jobboard.JobPosting {
	if prefs == nil || len(prefs.ExcludeAppliedJobs) == 0 {
		return jobs
	}

	kept := make([]*jobboard.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if job != nil && slices.Contains(prefs.ExcludeAppliedJobs, job.ID) {
			continue
		}
		kept = append(kept, job)
	}
	return kept
}
