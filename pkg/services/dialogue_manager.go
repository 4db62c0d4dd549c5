package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dskvich/phone-shop-assistant/pkg/domain"
)

const (
	// maxToolRounds bounds the model/tool loop so a model that keeps
	// requesting the same search cannot spin forever. Hitting the ceiling is
	// not an error; the last response's text is returned as-is.
	maxToolRounds = 3

	// historyWindow is the number of non-system messages retained after a
	// completed turn. The system instruction is never evicted.
	historyWindow = 10
)

type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, messages []domain.ChatMessage) (domain.ChatMessage, error)
}

type ToolInvoker interface {
	Invoke(ctx context.Context, name, args string) (string, error)
}

// DialogueManager owns one conversation: its message history and the bounded
// model/tool round-trip loop. The embedded mutex serializes turns on the same
// session; turns on different sessions are independent.
type DialogueManager struct {
	mu     sync.Mutex
	client CompletionClient
	tools  ToolInvoker

	messages []domain.ChatMessage
}

func NewDialogueManager(systemPrompt string, client CompletionClient, tools ToolInvoker) *DialogueManager {
	return &DialogueManager{
		client: client,
		tools:  tools,
		messages: []domain.ChatMessage{
			{Role: "system", Content: systemPrompt},
		},
	}
}

// Respond runs one full chat turn. On model failure the history is rolled
// back to the last committed turn so a partial turn is never kept.
func (m *DialogueManager) Respond(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	committed := len(m.messages)
	m.messages = append(m.messages, domain.ChatMessage{Role: "user", Content: text})

	response, err := m.client.CreateChatCompletion(ctx, m.messages)
	if err != nil {
		m.messages = m.messages[:committed]
		return "", fmt.Errorf("creating chat completion: %w", err)
	}
	m.messages = append(m.messages, response)

	for round := 0; len(response.ToolCalls) > 0 && round < maxToolRounds; round++ {
		m.dispatchToolCalls(ctx, response.ToolCalls)

		response, err = m.client.CreateChatCompletion(ctx, m.messages)
		if err != nil {
			m.messages = m.messages[:committed]
			return "", fmt.Errorf("creating chat completion after tool round %d: %w", round+1, err)
		}
		m.messages = append(m.messages, response)
	}

	final := finalText(response.Content)
	m.truncate()

	return final, nil
}

func (m *DialogueManager) dispatchToolCalls(ctx context.Context, calls []domain.ToolCall) {
	for _, call := range calls {
		result, err := m.tools.Invoke(ctx, call.Function.Name, call.Function.Arguments)
		if errors.Is(err, domain.ErrUnknownTool) {
			// Tolerated model error: skip without touching history.
			slog.WarnContext(ctx, "Model requested unknown tool", "name", call.Function.Name)
			continue
		}
		if err != nil {
			result = fmt.Sprintf("Tool '%s' failed: %v", call.Function.Name, err)
		}

		m.messages = append(m.messages, domain.ChatMessage{
			ToolCallID: call.ID,
			Role:       "tool",
			Name:       call.Function.Name,
			Content:    result,
		})
	}
}

// truncate applies the sliding window once per completed turn: everything
// but the system instruction and the most recent historyWindow messages is
// discarded from the front, preserving order.
func (m *DialogueManager) truncate() {
	if len(m.messages) <= historyWindow+1 {
		return
	}

	kept := make([]domain.ChatMessage, 0, historyWindow+1)
	kept = append(kept, m.messages[0])
	kept = append(kept, m.messages[len(m.messages)-historyWindow:]...)
	m.messages = kept
}

// History returns a copy of the current message sequence.
func (m *DialogueManager) History() []domain.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.ChatMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// finalText extracts the user-visible reply from model content: a plain
// string is used verbatim, a fragment list is joined with single spaces, and
// anything else falls back to its string representation.
func finalText(content any) string {
	switch v := content.(type) {
	case nil:
		return ""
	case string:
		return v
	case []domain.Content:
		parts := make([]string, 0, len(v))
		for _, c := range v {
			if c.Type == "text" || c.Text != "" {
				parts = append(parts, c.Text)
			} else {
				parts = append(parts, fmt.Sprint(c))
			}
		}
		return strings.Join(parts, " ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, frag := range v {
			switch f := frag.(type) {
			case string:
				parts = append(parts, f)
			case map[string]any:
				if text, ok := f["text"].(string); ok {
					parts = append(parts, text)
				} else {
					parts = append(parts, fmt.Sprint(f))
				}
			default:
				parts = append(parts, fmt.Sprint(f))
			}
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(v)
	}
}
