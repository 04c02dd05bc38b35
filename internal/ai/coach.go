package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/example/studybot/pkg/models"
)

// Coach generates short personalized celebration lines for fired
// milestones using the OpenAI chat API. It is optional: when no API key
// is configured the bot falls back to the stored celebration message.
type Coach struct {
	apiKey      string
	apiURL      string
	maxTokens   int
	temperature float64
}

// New creates a new Coach client
func New(apiKey string) (*Coach, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}
	return &Coach{
		apiKey:      apiKey,
		apiURL:      "https://api.openai.com/v1/chat/completions",
		maxTokens:   80,
		temperature: 0.8,
	}, nil
}

// Message represents a message in the chat conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat completions API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the chat completions API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CelebrationLine produces a one-sentence congratulation for a fired
// milestone, given the progress that earned it.
func (c *Coach) CelebrationLine(m models.Milestone, snapshot models.ProgressSnapshot) (string, error) {
	prompt := fmt.Sprintf(
		"A student just earned the study achievement %q (%s). "+
			"They have studied %.1f hours, read %d pages and their current daily streak is %d days. "+
			"Write one short, warm, congratulatory sentence. No hashtags, no quotes.",
		m.Title, m.Description, snapshot.TotalHours, snapshot.TotalPages, snapshot.CurrentStreak,
	)

	reqBody := ChatRequest{
		Model: "gpt-3.5-turbo",
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.apiURL, bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API: %v", err)
	}
	defer resp.Body.Close()

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("OpenAI API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI API")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
