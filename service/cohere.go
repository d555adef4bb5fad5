package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Krishan098/fo/config"
)

// CohereService talks to the Cohere v2 chat API. It is the only LLM
// touchpoint; callers hand it a prompt and get back raw model text.
type CohereService struct {
	config     *config.CohereConfig
	httpClient *http.Client
}

// cohereChatRequest is the v2 chat request envelope.
type cohereChatRequest struct {
	Model       string          `json:"model"`
	Messages    []cohereMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type cohereMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// cohereChatResponse is the subset of the v2 chat response we consume.
type cohereChatResponse struct {
	ID      string `json:"id"`
	Message struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}

func NewCohereService(cfg *config.CohereConfig) *CohereService {
	return &CohereService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Chat sends a single-turn prompt and returns the model's text reply.
func (s *CohereService) Chat(ctx context.Context, prompt string) (string, error) {
	reqBody := cohereChatRequest{
		Model:       s.config.Model,
		Messages:    []cohereMessage{{Role: "user", Content: prompt}},
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIURL+"/v2/chat", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("cohere API status %d: %s", resp.StatusCode, string(body))
	}

	var result cohereChatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	for _, part := range result.Message.Content {
		if part.Type == "text" && part.Text != "" {
			return part.Text, nil
		}
	}

	return "", fmt.Errorf("cohere response contained no text content")
}
