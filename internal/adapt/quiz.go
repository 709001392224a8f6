package adapt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/learnscope/learnscope/internal/domain"
)

// QuizQuestion is one schema-bound quiz item expected from the generator.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`       // exactly 4
	CorrectAnswer int      `json:"correctAnswer"` // index 0-3
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"` // easy | medium | hard
}

const defaultQuizSize = 5

// GenerateQuiz asks the collaborator for a fixed-schema quiz on a topic and
// parses the structured payload. A non-conforming response is surfaced as
// ErrGenerationFailed with the validation detail, never a raw parse error.
func (e *Engine) GenerateQuiz(ctx context.Context, topic string, profile *domain.LearningProfile, count int) ([]QuizQuestion, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrMissingTopic
	}
	if profile == nil {
		return nil, ErrMissingProfile
	}
	if count <= 0 {
		count = defaultQuizSize
	}

	prompt := e.buildQuizPrompt(topic, profile, count)
	raw, err := e.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	questions, err := parseQuiz(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return questions, nil
}

func (e *Engine) buildQuizPrompt(topic string, profile *domain.LearningProfile, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create %d multiple-choice quiz questions about: %s\n\n", count, topic)
	writeProfileConstraints(&b, profile)
	if facts := e.kb.Relevant(topic); facts != "" {
		b.WriteString("\nBase questions on these facts where applicable:\n")
		b.WriteString(facts)
		b.WriteString("\n")
	}
	b.WriteString(`
Respond with ONLY a JSON array, no prose. Each element must have exactly:
{"question": string, "options": [4 strings], "correctAnswer": 0-3, "explanation": string, "difficulty": "easy"|"medium"|"hard"}
`)
	return b.String()
}

// parseQuiz decodes and validates the generator's structured payload. The
// caller has already stripped code fences.
func parseQuiz(raw string) ([]QuizQuestion, error) {
	var questions []QuizQuestion
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("quiz payload is not a JSON array: %v", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("quiz payload is empty")
	}

	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("question %d: missing question text", i)
		}
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("question %d: expected 4 options, got %d", i, len(q.Options))
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer > 3 {
			return nil, fmt.Errorf("question %d: correctAnswer %d out of range", i, q.CorrectAnswer)
		}
		switch q.Difficulty {
		case "easy", "medium", "hard":
		default:
			return nil, fmt.Errorf("question %d: invalid difficulty %q", i, q.Difficulty)
		}
	}
	return questions, nil
}
