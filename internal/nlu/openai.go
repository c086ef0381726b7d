package nlu

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v3"

	"forma/internal/scene"
)

// OpenAIInterpreter runs the classifier prompts against the chat
// completions API.
type OpenAIInterpreter struct {
	client openai.Client
	model  openai.ChatModel
}

func NewOpenAI(client openai.Client, model string) *OpenAIInterpreter {
	m := openai.ChatModel(model)
	if m == "" {
		m = openai.ChatModelGPT5Nano
	}
	return &OpenAIInterpreter{client: client, model: m}
}

func (o *OpenAIInterpreter) Name() string { return "openai" }

func (o *OpenAIInterpreter) Interpret(ctx context.Context, utterance string) (scene.Command, error) {
	raw, err := o.complete(ctx, systemPrompt, utterance)
	if err != nil {
		return scene.Command{}, err
	}
	return decodeCommand(raw, utterance)
}

func (o *OpenAIInterpreter) Plan(ctx context.Context, instruction string) ([]scene.Command, error) {
	raw, err := o.complete(ctx, planPrompt, instruction)
	if err != nil {
		return nil, err
	}
	return decodePlan(raw, instruction)
}

func (o *OpenAIInterpreter) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model: o.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty message content")
	}
	return content, nil
}
