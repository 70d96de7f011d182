package llm

import "context"

// TextGenerator is the synchronous text-generation contract the generator
// depends on: one system instruction, one user prompt, one free-text reply.
// Implementations may be hosted APIs or a locally-resident model; callers
// never need to know which one served a request.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}
