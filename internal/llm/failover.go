package llm

import (
	"context"
	"log"
)

// failoverGenerator wraps a hosted TextGenerator and retries the same
// request once against a local backend when the hosted call fails. The
// failover is invisible to callers; they only see the final outcome.
type failoverGenerator struct {
	hosted TextGenerator
	local  TextGenerator
}

// NewFailoverGenerator creates a generator that prefers the hosted backend
// and falls back to the local one on any hosted error.
func NewFailoverGenerator(hosted, local TextGenerator) TextGenerator {
	return &failoverGenerator{hosted: hosted, local: local}
}

func (f *failoverGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	out, err := f.hosted.Generate(ctx, system, prompt)
	if err == nil {
		return out, nil
	}

	log.Printf("Hosted generation failed, falling back to local model: %v", err)
	return f.local.Generate(ctx, system, prompt)
}
