package adapt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/learnscope/learnscope/internal/domain"
	"github.com/learnscope/learnscope/internal/knowledge"
)

func echoGenerator() Generator {
	return GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "adapted output", nil
	})
}

func TestEngine_AdaptContentValidation(t *testing.T) {
	e := NewEngine(echoGenerator(), knowledge.NewBase(), 0)

	if _, err := e.AdaptContent(context.Background(), "", &domain.LearningProfile{}); !errors.Is(err, ErrMissingContent) {
		t.Errorf("Expected ErrMissingContent, got %v", err)
	}
	if _, err := e.AdaptContent(context.Background(), "   ", &domain.LearningProfile{}); !errors.Is(err, ErrMissingContent) {
		t.Errorf("Expected ErrMissingContent for whitespace, got %v", err)
	}
	if _, err := e.AdaptContent(context.Background(), "content", nil); !errors.Is(err, ErrMissingProfile) {
		t.Errorf("Expected ErrMissingProfile, got %v", err)
	}
}

func TestEngine_AdaptContentUsesProfileConstraints(t *testing.T) {
	var captured string
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		captured = prompt
		return "result", nil
	})
	e := NewEngine(gen, knowledge.NewBase(), 0)

	profile := &domain.LearningProfile{
		PreferredMode: domain.ModeSimplified,
		ReadingLevel:  "grade-3",
		Pacing:        "slow",
	}
	if _, err := e.AdaptContent(context.Background(), "The mitochondria is the powerhouse", profile); err != nil {
		t.Fatalf("AdaptContent failed: %v", err)
	}

	for _, want := range []string{"short sentences", "grade-3", "slow"} {
		if !strings.Contains(captured, want) {
			t.Errorf("Expected prompt to contain %q, got:\n%s", want, captured)
		}
	}
}

func TestEngine_AdaptContentGroundsInKnowledge(t *testing.T) {
	var captured string
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		captured = prompt
		return "result", nil
	})
	kb := knowledge.NewBaseWithFacts("Fractions represent parts of a whole")
	e := NewEngine(gen, kb, 0)

	if _, err := e.AdaptContent(context.Background(), "Lesson about fractions", &domain.LearningProfile{}); err != nil {
		t.Fatalf("AdaptContent failed: %v", err)
	}
	if !strings.Contains(captured, "Fractions represent parts of a whole") {
		t.Error("Expected knowledge base fact in prompt")
	}
}

func TestEngine_GeneratorFailureIsWrapped(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("upstream down")
	})
	e := NewEngine(gen, knowledge.NewBase(), 0)

	_, err := e.AdaptContent(context.Background(), "content", &domain.LearningProfile{})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("Expected ErrGenerationFailed, got %v", err)
	}
}

func TestEngine_EmptyResponseIsFailure(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "   \n", nil
	})
	e := NewEngine(gen, knowledge.NewBase(), 0)

	_, err := e.TutorRespond(context.Background(), "hello", &domain.LearningProfile{})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("Expected ErrGenerationFailed for empty output, got %v", err)
	}
}

func TestEngine_TutorRespond(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		if !strings.Contains(prompt, "Student says") {
			t.Errorf("Expected tutor prompt shape, got:\n%s", prompt)
		}
		return "Great question!", nil
	})
	e := NewEngine(gen, knowledge.NewBase(), 0)

	reply, err := e.TutorRespond(context.Background(), "What is a fraction?", &domain.LearningProfile{})
	if err != nil {
		t.Fatalf("TutorRespond failed: %v", err)
	}
	if reply != "Great question!" {
		t.Errorf("Unexpected reply: %q", reply)
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", "plain text", "plain text"},
		{"bare fences", "```\nhello\n```", "hello"},
		{"language tag", "```json\n[1,2]\n```", "[1,2]"},
		{"fence-like content kept", "```this is a very long first line that is not a tag\nbody\n```",
			"this is a very long first line that is not a tag\nbody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
