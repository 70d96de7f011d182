package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/config"
)

// ollamaClient talks to a locally-resident model served by Ollama. It is the
// fallback when no hosted API is reachable, so it gets a generous timeout:
// local inference on modest hardware is slow.
type ollamaClient struct {
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewOllamaClient creates a client for a local Ollama server.
func NewOllamaClient(cfg *config.Config) TextGenerator {
	return &ollamaClient{
		baseURL:   strings.TrimSuffix(cfg.OllamaURL, "/"),
		model:     cfg.OllamaModel,
		maxTokens: cfg.MaxTokens,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Generate sends a system+user message pair to the local model and returns
// the generated text.
func (c *ollamaClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": system,
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"stream": false,
		"options": map[string]interface{}{
			"num_predict": c.maxTokens,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var ollamaResp struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if ollamaResp.Message.Content == "" {
		return "", fmt.Errorf("no content generated")
	}

	return strings.TrimSpace(ollamaResp.Message.Content), nil
}
