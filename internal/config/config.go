package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultMaxTokens is the number of tokens requested from the
// text-generation backend per call unless overridden.
const DefaultMaxTokens = 500

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string

	// LLM Config
	LLMProvider  string // "openai" or "gemini"
	OpenAIAPIKey string
	GeminiAPIKey string
	OllamaURL    string
	OllamaModel  string
	MaxTokens    int

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("WEEKLIES_DB_PATH")
	if dbPath == "" {
		dbPath = "data/weeklies.db"
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	geminiKey := os.Getenv("GEMINI_API_KEY")
	ollamaURL := os.Getenv("OLLAMA_URL")

	// A hosted API key wins when present, otherwise we run against the
	// local model only.
	provider := os.Getenv("LLM_PROVIDER")
	switch provider {
	case "openai":
		if openAIKey == "" {
			return nil, fmt.Errorf("LLM_PROVIDER is openai but OPENAI_API_KEY environment variable not set")
		}
	case "gemini":
		if geminiKey == "" {
			return nil, fmt.Errorf("LLM_PROVIDER is gemini but GEMINI_API_KEY environment variable not set")
		}
	case "":
		if openAIKey != "" {
			provider = "openai"
		} else if geminiKey != "" {
			provider = "gemini"
		}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (expected openai or gemini)", provider)
	}

	if provider == "" && ollamaURL == "" {
		return nil, fmt.Errorf("no text-generation backend configured: set OPENAI_API_KEY, GEMINI_API_KEY or OLLAMA_URL")
	}

	ollamaModel := os.Getenv("OLLAMA_MODEL")
	if ollamaModel == "" {
		ollamaModel = "llama3.2"
	}

	maxTokens := DefaultMaxTokens
	if s := os.Getenv("LLM_MAX_TOKENS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid LLM_MAX_TOKENS value %q", s)
		}
		maxTokens = n
	}

	// Telegram Config (Optional for CLI, required for Bot)
	var allowedIDs []int64
	if s := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); s != "" {
		for _, part := range strings.Split(s, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q", part)
			}
			allowedIDs = append(allowedIDs, id)
		}
	}

	return &Config{
		DatabasePath:           dbPath,
		LLMProvider:            provider,
		OpenAIAPIKey:           openAIKey,
		GeminiAPIKey:           geminiKey,
		OllamaURL:              ollamaURL,
		OllamaModel:            ollamaModel,
		MaxTokens:              maxTokens,
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
	}, nil
}

// RequireTelegram validates the fields the bot binary needs.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}
