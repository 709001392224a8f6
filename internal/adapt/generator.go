// Package adapt personalizes content and tutor dialogue to a learning profile.
package adapt

import (
	"context"
	"errors"
)

var (
	// ErrMissingContent is returned when a request carries no content.
	ErrMissingContent = errors.New("content is required")

	// ErrMissingProfile is returned when a request carries no learning profile.
	ErrMissingProfile = errors.New("learning profile is required")

	// ErrMissingTopic is returned when quiz generation has no topic.
	ErrMissingTopic = errors.New("topic is required")

	// ErrGenerationFailed wraps collaborator failures: an unreachable
	// generator or a response that does not conform to the expected shape.
	ErrGenerationFailed = errors.New("generation failed")
)

// Generator is the external text-generation collaborator. The engine builds
// prompts and post-processes output; phrasing is the generator's job.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
