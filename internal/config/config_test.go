package config

import (
	"os"
	"testing"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"WEEKLIES_DB_PATH", "LLM_PROVIDER", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"OLLAMA_URL", "OLLAMA_MODEL", "LLM_MAX_TOKENS", "TELEGRAM_ALLOWED_USER_IDS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Run("OpenAIKeySelectsOpenAI", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.LLMProvider != "openai" {
			t.Errorf("Expected provider 'openai', got '%s'", cfg.LLMProvider)
		}
		if cfg.MaxTokens != DefaultMaxTokens {
			t.Errorf("Expected default max tokens %d, got %d", DefaultMaxTokens, cfg.MaxTokens)
		}
		if cfg.DatabasePath != "data/weeklies.db" {
			t.Errorf("Expected default database path, got '%s'", cfg.DatabasePath)
		}
	})

	t.Run("GeminiFallback", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("GEMINI_API_KEY", "gm-test")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.LLMProvider != "gemini" {
			t.Errorf("Expected provider 'gemini', got '%s'", cfg.LLMProvider)
		}
	})

	t.Run("LocalOnly", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("OLLAMA_URL", "http://localhost:11434")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.LLMProvider != "" {
			t.Errorf("Expected empty hosted provider, got '%s'", cfg.LLMProvider)
		}
		if cfg.OllamaModel != "llama3.2" {
			t.Errorf("Expected default ollama model, got '%s'", cfg.OllamaModel)
		}
	})

	t.Run("NoBackendConfigured", func(t *testing.T) {
		clearLLMEnv(t)

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error when no backend is configured, got nil")
		}
	})

	t.Run("ExplicitProviderMissingKey", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("LLM_PROVIDER", "openai")
		t.Setenv("OLLAMA_URL", "http://localhost:11434")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for openai provider without key, got nil")
		}
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("LLM_PROVIDER", "bard")
		t.Setenv("OPENAI_API_KEY", "sk-test")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for unknown provider, got nil")
		}
	})

	t.Run("InvalidMaxTokens", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("LLM_MAX_TOKENS", "lots")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for invalid LLM_MAX_TOKENS, got nil")
		}
	})

	t.Run("AllowedUserIDs", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "123, 456")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[0] != 123 || cfg.TelegramAllowedUserIDs[1] != 456 {
			t.Errorf("Unexpected allowed user ids: %v", cfg.TelegramAllowedUserIDs)
		}
	})
}
