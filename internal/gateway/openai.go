package gateway

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is the alternate completion backend, for running the agent
// without an AWS account.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIClient(apiKey, model string, logger *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, turns []Turn, opts Options) (string, error) {
	if err := validateRequest("openai", turns, opts); err != nil {
		return "", err
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		role := openai.ChatMessageRoleUser
		if t.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: t.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
		TopP:        float32(opts.TopP),
	})
	if err != nil {
		c.logger.Error("OpenAI completion failed",
			zap.Error(err),
			zap.String("model", c.model))
		return "", &GatewayError{Provider: "openai", Reason: "creating chat completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &GatewayError{Provider: "openai", Reason: "response envelope missing choices"}
	}

	return resp.Choices[0].Message.Content, nil
}
