package recommend

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestGenerateFollowUpQuestionsModelPath(t *testing.T) {
	stub := &stubGenerator{response: `["What hours suit you best?", "Do you prefer async communication?", "Which tools do you rely on?"]`}
	engine := NewEngine(stub, zap.NewNop(), 0)

	questions := engine.GenerateFollowUpQuestions(context.Background(), testProfile(), &Output{})

	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}

	if questions[0] != "What hours suit you best?" {
		t.Fatalf("unexpected first question: %q", questions[0])
	}
}

func TestGenerateFollowUpQuestionsHandlesCodeFences(t *testing.T) {
	stub := &stubGenerator{response: "```json\n[\"Question one?\", \"Question two?\", \"Question three?\"]\n```"}
	engine := NewEngine(stub, zap.NewNop(), 0)

	questions := engine.GenerateFollowUpQuestions(context.Background(), testProfile(), &Output{})

	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
}

func TestGenerateFollowUpQuestionsParseFailureUsesDefaults(t *testing.T) {
	stub := &stubGenerator{response: "I would rather chat about it."}
	engine := NewEngine(stub, zap.NewNop(), 0)

	questions := engine.GenerateFollowUpQuestions(context.Background(), testProfile(), &Output{})

	if !reflect.DeepEqual(questions, DefaultFollowUpQuestions()) {
		t.Fatalf("expected verbatim default questions, got %v", questions)
	}

	if len(questions) != 5 {
		t.Fatalf("expected 5 default questions, got %d", len(questions))
	}
}

func TestGenerateFollowUpQuestionsCallFailureUsesDefaults(t *testing.T) {
	stub := &stubGenerator{err: errors.New("model unavailable")}
	engine := NewEngine(stub, zap.NewNop(), 0)

	questions := engine.GenerateFollowUpQuestions(context.Background(), testProfile(), &Output{})

	if !reflect.DeepEqual(questions, DefaultFollowUpQuestions()) {
		t.Fatalf("expected default questions, got %v", questions)
	}
}

func TestGenerateFollowUpQuestionsEmptyArrayUsesDefaults(t *testing.T) {
	stub := &stubGenerator{response: `[]`}
	engine := NewEngine(stub, zap.NewNop(), 0)

	questions := engine.GenerateFollowUpQuestions(context.Background(), testProfile(), &Output{})

	if !reflect.DeepEqual(questions, DefaultFollowUpQuestions()) {
		t.Fatalf("expected default questions for empty array, got %v", questions)
	}
}

func TestGenerateFollowUpQuestionsTruncatesToFive(t *testing.T) {
	stub := &stubGenerator{response: `["q1", "q2", "q3", "q4", "q5", "q6", "q7"]`}
	engine := NewEngine(stub, zap.NewNop(), 0)

	questions := engine.GenerateFollowUpQuestions(context.Background(), testProfile(), &Output{})

	if len(questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(questions))
	}
}

func TestGenerateFollowUpQuestionsNilGenerator(t *testing.T) {
	engine := NewEngine(nil, zap.NewNop(), 0)

	questions := engine.GenerateFollowUpQuestions(context.Background(), testProfile(), nil)

	if !reflect.DeepEqual(questions, DefaultFollowUpQuestions()) {
		t.Fatalf("expected default questions, got %v", questions)
	}
}

func TestDefaultFollowUpQuestionsReturnsCopy(t *testing.T) {
	first := DefaultFollowUpQuestions()
	first[0] = "mutated"

	second := DefaultFollowUpQuestions()
	if second[0] == "mutated" {
		t.Fatal("expected defensive copy of default questions")
	}
}
