package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNovaRequest(t *testing.T) {
	body, err := buildNovaRequest([]Turn{
		{Role: RoleUser, Content: "quanto gastei?"},
		{Role: RoleAssistant, Content: "deixa eu ver"},
	}, Options{MaxTokens: 400, Temperature: 0.3, TopP: 0.9})
	require.NoError(t, err)

	var req map[string]any
	require.NoError(t, json.Unmarshal(body, &req))

	messages := req["messages"].([]any)
	require.Len(t, messages, 2)

	first := messages[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	content := first["content"].([]any)
	require.Len(t, content, 1)
	assert.Equal(t, "quanto gastei?", content[0].(map[string]any)["text"])

	inference := req["inferenceConfig"].(map[string]any)
	assert.Equal(t, float64(400), inference["maxTokens"])
	assert.Equal(t, 0.3, inference["temperature"])
	assert.Equal(t, 0.9, inference["topP"])
}

func TestParseNovaResponse(t *testing.T) {
	t.Run("well-formed envelope", func(t *testing.T) {
		text, err := parseNovaResponse([]byte(`{
			"output": {"message": {"content": [{"text": "resposta do modelo"}]}}
		}`))
		require.NoError(t, err)
		assert.Equal(t, "resposta do modelo", text)
	})

	t.Run("missing output text", func(t *testing.T) {
		_, err := parseNovaResponse([]byte(`{"output": {"message": {"content": []}}}`))

		var gatewayErr *GatewayError
		require.ErrorAs(t, err, &gatewayErr)
		assert.Equal(t, "bedrock", gatewayErr.Provider)
	})

	t.Run("not JSON at all", func(t *testing.T) {
		_, err := parseNovaResponse([]byte("internal server error"))

		var gatewayErr *GatewayError
		require.ErrorAs(t, err, &gatewayErr)
	})
}

func TestValidateRequest(t *testing.T) {
	valid := Options{MaxTokens: 100, Temperature: 0.5, TopP: 0.9}
	turns := []Turn{{Role: RoleUser, Content: "oi"}}

	tests := []struct {
		name    string
		turns   []Turn
		opts    Options
		wantErr string
	}{
		{name: "valid", turns: turns, opts: valid},
		{name: "empty turns", turns: nil, opts: valid, wantErr: "empty turn sequence"},
		{name: "temperature too high", turns: turns, opts: Options{MaxTokens: 100, Temperature: 1.5, TopP: 0.9}, wantErr: "temperature"},
		{name: "negative temperature", turns: turns, opts: Options{MaxTokens: 100, Temperature: -0.1, TopP: 0.9}, wantErr: "temperature"},
		{name: "zero top_p", turns: turns, opts: Options{MaxTokens: 100, Temperature: 0.5}, wantErr: "top_p"},
		{name: "top_p above one", turns: turns, opts: Options{MaxTokens: 100, Temperature: 0.5, TopP: 1.1}, wantErr: "top_p"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateRequest("bedrock", tc.turns, tc.opts)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)

			var gatewayErr *GatewayError
			assert.ErrorAs(t, err, &gatewayErr)
		})
	}
}
