package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/config"
)

// NewFromConfig builds the text-generation backend stack selected by the
// configuration: a hosted provider (OpenAI or Gemini), a local Ollama
// backend, or the hosted provider wrapped so it fails over to the local one.
// The returned cleanup func releases any underlying client resources.
func NewFromConfig(ctx context.Context, cfg *config.Config) (TextGenerator, func(), error) {
	cleanup := func() {}

	var hosted TextGenerator
	switch cfg.LLMProvider {
	case "openai":
		hosted = NewOpenAIClient(cfg)
		log.Printf("LLM provider: OpenAI (%s)", openaiModel)
	case "gemini":
		client, err := NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() {
			if err := client.Close(); err != nil {
				log.Printf("Failed to close Gemini client: %v", err)
			}
		}
		hosted = client
		log.Printf("LLM provider: Gemini (%s)", geminiModel)
	case "":
		// local only, handled below
	default:
		return nil, nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}

	var local TextGenerator
	if cfg.OllamaURL != "" {
		local = NewOllamaClient(cfg)
	}

	switch {
	case hosted != nil && local != nil:
		log.Printf("Local fallback: Ollama (%s) at %s", cfg.OllamaModel, cfg.OllamaURL)
		return NewFailoverGenerator(hosted, local), cleanup, nil
	case hosted != nil:
		return hosted, cleanup, nil
	case local != nil:
		log.Printf("LLM provider: local Ollama (%s) at %s", cfg.OllamaModel, cfg.OllamaURL)
		return local, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("no text-generation backend configured")
	}
}
