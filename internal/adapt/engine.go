package adapt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/learnscope/learnscope/internal/domain"
	"github.com/learnscope/learnscope/internal/knowledge"
)

const defaultGenerationTimeout = 30 * time.Second

// Engine builds prompts from (content, profile) pairs plus knowledge base
// grounding, delegates phrasing to the Generator, and cleans up the result.
// Given the same inputs and knowledge base state, prompt construction is
// deterministic.
type Engine struct {
	gen     Generator
	kb      *knowledge.Base
	timeout time.Duration
}

// NewEngine creates an adaptation engine. A zero timeout selects the default.
func NewEngine(gen Generator, kb *knowledge.Base, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}
	return &Engine{gen: gen, kb: kb, timeout: timeout}
}

// AdaptContent rewrites content to honor the profile's preferences. Neither
// input is mutated.
func (e *Engine) AdaptContent(ctx context.Context, content string, profile *domain.LearningProfile) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrMissingContent
	}
	if profile == nil {
		return "", ErrMissingProfile
	}

	prompt := e.buildAdaptPrompt(content, profile)
	out, err := e.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return out, nil
}

// TutorRespond produces a single tutor dialogue turn reacting to the
// student's message, grounded in relevant knowledge base facts.
func (e *Engine) TutorRespond(ctx context.Context, message string, profile *domain.LearningProfile) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrMissingContent
	}
	if profile == nil {
		return "", ErrMissingProfile
	}

	prompt := e.buildTutorPrompt(message, profile)
	out, err := e.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return out, nil
}

// generate calls the collaborator with a bounded timeout and strips
// formatting artifacts from the result. Collaborator unavailability is a
// recoverable failure, surfaced as ErrGenerationFailed.
func (e *Engine) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	cleaned := strings.TrimSpace(stripCodeFences(raw))
	if cleaned == "" {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}
	return cleaned, nil
}

func (e *Engine) buildAdaptPrompt(content string, profile *domain.LearningProfile) string {
	var b strings.Builder
	b.WriteString("You are rewriting learning material for a student with specific accessibility needs.\n\n")
	writeProfileConstraints(&b, profile)
	if facts := e.kb.Relevant(content); facts != "" {
		b.WriteString("\nBackground facts to stay consistent with:\n")
		b.WriteString(facts)
		b.WriteString("\n")
	}
	b.WriteString("\nRewrite the following material accordingly. Return only the rewritten text.\n\n")
	b.WriteString(content)
	return b.String()
}

func (e *Engine) buildTutorPrompt(message string, profile *domain.LearningProfile) string {
	var b strings.Builder
	b.WriteString("You are a patient tutor replying to a student. Reply with one short, encouraging dialogue turn.\n\n")
	writeProfileConstraints(&b, profile)
	if facts := e.kb.Relevant(message); facts != "" {
		b.WriteString("\nGround your reply in these facts where relevant:\n")
		b.WriteString(facts)
		b.WriteString("\n")
	}
	b.WriteString("\nStudent says:\n")
	b.WriteString(message)
	return b.String()
}

// writeProfileConstraints renders profile preferences as prompt constraints.
// The mapping from profile fields to instructions is the adaptation rule set.
func writeProfileConstraints(b *strings.Builder, profile *domain.LearningProfile) {
	b.WriteString("Constraints:\n")
	switch profile.EffectiveMode(domain.ModeStandard) {
	case domain.ModeSimplified:
		b.WriteString("- Use short sentences and common words. One idea per sentence.\n")
	case domain.ModeVisual:
		b.WriteString("- Structure output as short bullet points and describe visual aids to use.\n")
	case domain.ModeAudio:
		b.WriteString("- Write text meant to be read aloud: conversational, no tables or symbols.\n")
	default:
		b.WriteString("- Use clear, plain prose.\n")
	}
	if profile.ReadingLevel != "" {
		fmt.Fprintf(b, "- Target reading level: %s.\n", profile.ReadingLevel)
	}
	if profile.Pacing != "" {
		fmt.Fprintf(b, "- Pacing: %s. Break material into small steps accordingly.\n", profile.Pacing)
	}
}

// stripCodeFences removes leading/trailing Markdown code fence markers that
// generators commonly wrap structured output in.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(s[:idx])
		if len(firstLine) <= 16 && !strings.ContainsAny(firstLine, " \t{[") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
