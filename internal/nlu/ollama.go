package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"forma/internal/scene"
)

// OllamaInterpreter talks to a local Ollama server, made for DeepSeek-R1
// class models whose replies carry a reasoning block before the JSON.
type OllamaInterpreter struct {
	baseURL string
	model   string
	http    *http.Client
}

func NewOllama(baseURL, model string, httpClient *http.Client) *OllamaInterpreter {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "deepseek-r1:1.5b"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &OllamaInterpreter{baseURL: baseURL, model: model, http: httpClient}
}

func (o *OllamaInterpreter) Name() string { return "ollama" }

func (o *OllamaInterpreter) Interpret(ctx context.Context, utterance string) (scene.Command, error) {
	raw, err := o.chat(ctx, systemPrompt, utterance)
	if err != nil {
		return scene.Command{}, err
	}
	return decodeCommand(raw, utterance)
}

func (o *OllamaInterpreter) Plan(ctx context.Context, instruction string) ([]scene.Command, error) {
	raw, err := o.chat(ctx, planPrompt, instruction)
	if err != nil {
		return nil, err
	}
	return decodePlan(raw, instruction)
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

func (o *OllamaInterpreter) chat(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model: o.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode, msg)
	}

	var out ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}

	if out.Message.Content == "" {
		return "", fmt.Errorf("empty message content")
	}
	return out.Message.Content, nil
}
