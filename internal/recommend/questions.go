package recommend

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/Candra0x6/stara-match/internal/jobboard"
	"go.uber.org/zap"
)

const maxFollowUpQuestions = 5

var defaultFollowUpQuestions = []string{
	"Which workplace accommodations matter most to you in a new role?",
	"Are there industries you would rather avoid, even for a strong match?",
	"How far are you willing to commute for an on-site or hybrid position?",
	"Which of your skills would you most like to use day to day?",
	"What salary range would make a role worth pursuing for you?",
}

// DefaultFollowUpQuestions returns the fixed question list used when the
// model path fails.
func DefaultFollowUpQuestions() []string {
	return slices.Clone(defaultFollowUpQuestions)
}

// GenerateFollowUpQuestions asks the model for clarifying questions that
// would refine future matching. It always returns a non-empty list: on any
// call or parse failure the fixed default questions are returned instead.
func (e *Engine) GenerateFollowUpQuestions(ctx context.Context, profile *jobboard.UserProfile, output *Output) []string {
	if e.generator == nil {
		return DefaultFollowUpQuestions()
	}

	prompt := buildQuestionsPrompt(profile, output)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		e.logger.Warn("follow-up question generation failed, using defaults", zap.Error(err))
		return DefaultFollowUpQuestions()
	}

	questions, err := parseQuestions(raw)
	if err != nil || len(questions) == 0 {
		e.logger.Warn("follow-up question response unusable, using defaults", zap.Error(err))
		return DefaultFollowUpQuestions()
	}

	if len(questions) > maxFollowUpQuestions {
		questions = questions[:maxFollowUpQuestions]
	}
	return questions
}

func parseQuestions(raw string) ([]string, error) {
	cleaned := extractJSON(raw)

	var items []any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, err
	}

	questions := make([]string, 0, len(items))
	for _, item := range items {
		if q := coerceString(item); q != "" {
			questions = append(questions, q)
		}
	}
	return questions, nil
}
