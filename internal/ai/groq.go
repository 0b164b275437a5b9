package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	groqModel      = "llama-3.3-70b-versatile"
	systemPrompt   = "Kamu adalah asisten TBC yang ramah. Jawab singkat & suportif."
	maxTokens      = 200

	apologyText = "Maaf, otak AI sedang error sebentar."
)

// Groq calls Groq's OpenAI-compatible chat completion endpoint.
type Groq struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewGroq builds the provider. The API key is assumed non-empty; the app
// selects Disabled otherwise.
func NewGroq(apiKey string, log *zap.Logger) *Groq {
	return &Groq{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		log:     log,
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Reply asks the model for a completion. Any failure is logged and
// replaced with an apology so the chat handler never sees an error.
func (g *Groq) Reply(ctx context.Context, text string) string {
	reply, err := g.complete(ctx, text)
	if err != nil {
		g.log.Error("ai completion failed", zap.Error(err))
		return apologyText
	}
	return reply
}

func (g *Groq) complete(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: groqModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("api status %d: %s", resp.StatusCode, msg)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return out.Choices[0].Message.Content, nil
}
