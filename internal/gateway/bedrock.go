package gateway

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"
)

// BedrockClient completes conversations with an Amazon Nova model through
// the Bedrock runtime InvokeModel API.
type BedrockClient struct {
	client  *bedrockruntime.Client
	modelID string
	logger  *zap.Logger
}

func NewBedrockClient(cfg aws.Config, modelID string, logger *zap.Logger) *BedrockClient {
	return &BedrockClient{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
		logger:  logger,
	}
}

// novaRequest is the Nova invoke-model request envelope.
type novaRequest struct {
	Messages        []novaMessage       `json:"messages"`
	InferenceConfig novaInferenceConfig `json:"inferenceConfig"`
}

type novaMessage struct {
	Role    string        `json:"role"`
	Content []novaContent `json:"content"`
}

type novaContent struct {
	Text string `json:"text"`
}

type novaInferenceConfig struct {
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
}

// novaResponse is the subset of the response envelope the caller needs.
type novaResponse struct {
	Output struct {
		Message struct {
			Content []novaContent `json:"content"`
		} `json:"message"`
	} `json:"output"`
}

func buildNovaRequest(turns []Turn, opts Options) ([]byte, error) {
	req := novaRequest{
		Messages: make([]novaMessage, 0, len(turns)),
		InferenceConfig: novaInferenceConfig{
			MaxTokens:   opts.MaxTokens,
			Temperature: opts.Temperature,
			TopP:        opts.TopP,
		},
	}
	for _, t := range turns {
		req.Messages = append(req.Messages, novaMessage{
			Role:    t.Role,
			Content: []novaContent{{Text: t.Content}},
		})
	}
	return json.Marshal(req)
}

func parseNovaResponse(body []byte) (string, error) {
	var resp novaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &GatewayError{Provider: "bedrock", Reason: "malformed response envelope", Err: err}
	}
	if len(resp.Output.Message.Content) == 0 {
		return "", &GatewayError{Provider: "bedrock", Reason: "response envelope missing output text"}
	}
	return resp.Output.Message.Content[0].Text, nil
}

func (c *BedrockClient) Complete(ctx context.Context, turns []Turn, opts Options) (string, error) {
	if err := validateRequest("bedrock", turns, opts); err != nil {
		return "", err
	}

	body, err := buildNovaRequest(turns, opts)
	if err != nil {
		return "", &GatewayError{Provider: "bedrock", Reason: "marshaling request", Err: err}
	}

	out, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		c.logger.Error("Bedrock invocation failed",
			zap.Error(err),
			zap.String("model_id", c.modelID))
		return "", &GatewayError{Provider: "bedrock", Reason: "invoking model", Err: err}
	}

	return parseNovaResponse(out.Body)
}
