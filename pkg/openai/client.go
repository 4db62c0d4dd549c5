package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/dskvich/phone-shop-assistant/pkg/domain"
)

const completionsURL = "https://api.openai.com/v1/chat/completions"

type ToolFunction interface {
	Name() string
	Description() string
	Parameters() jsonschema.Definition
}

type client struct {
	token string
	model string
	url   string
	hc    *http.Client
	tools []Tool
}

func NewClient(token, model string, toolFunctions []ToolFunction) (*client, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	tools := make([]Tool, 0, len(toolFunctions))
	for _, t := range toolFunctions {
		tools = append(tools, Tool{
			Type: ToolTypeFunction,
			Function: &Function{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}

	return &client{
		token: token,
		model: model,
		url:   completionsURL,
		hc:    &http.Client{},
		tools: tools,
	}, nil
}

// CreateChatCompletion sends the full message history and returns the
// assistant's next message, which may carry tool calls instead of content.
func (c *client) CreateChatCompletion(ctx context.Context, messages []domain.ChatMessage) (domain.ChatMessage, error) {
	request := &chatCompletionsRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   1024,
		Temperature: 0.3,
		Tools:       c.tools,
	}

	resp, err := c.sendChatCompletionRequest(ctx, request)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("sending request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return domain.ChatMessage{}, fmt.Errorf("no choices in response")
	}

	message := resp.Choices[0].Message
	if message.Role != ChatMessageRoleAssistant {
		return domain.ChatMessage{}, fmt.Errorf("unexpected role: received %v, expected %v", message.Role, ChatMessageRoleAssistant)
	}

	return message, nil
}

func (c *client) sendChatCompletionRequest(ctx context.Context, request *chatCompletionsRequest) (*chatCompletionsResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResponse chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResponse); err != nil {
		return nil, fmt.Errorf("decoding response data: %w", err)
	}

	return &chatResponse, nil
}
