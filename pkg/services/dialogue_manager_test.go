package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/phone-shop-assistant/pkg/domain"
)

// stubCompleter replays scripted responses and records how often it is hit.
type stubCompleter struct {
	responses []domain.ChatMessage
	errs      []error
	calls     int
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, _ []domain.ChatMessage) (domain.ChatMessage, error) {
	i := s.calls
	s.calls++

	if i < len(s.errs) && s.errs[i] != nil {
		return domain.ChatMessage{}, s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return s.responses[len(s.responses)-1], nil
}

type stubInvoker struct {
	result string
	err    error
	calls  int
}

func (s *stubInvoker) Invoke(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.result, s.err
}

func assistantText(text string) domain.ChatMessage {
	return domain.ChatMessage{Role: "assistant", Content: text}
}

func assistantToolCall(name string) domain.ChatMessage {
	return domain.ChatMessage{
		Role: "assistant",
		ToolCalls: []domain.ToolCall{{
			ID:       "call-1",
			Type:     "function",
			Function: domain.ToolCallFunction{Name: name, Arguments: "{}"},
		}},
	}
}

func TestRespond_PlainReply(t *testing.T) {
	completer := &stubCompleter{responses: []domain.ChatMessage{assistantText("hello")}}
	invoker := &stubInvoker{}
	manager := NewDialogueManager("be helpful", completer, invoker)

	reply, err := manager.Respond(context.Background(), "hi")
	require.NoError(t, err)

	assert.Equal(t, "hello", reply)
	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, 0, invoker.calls)

	history := manager.History()
	require.Len(t, history, 3)
	assert.Equal(t, "system", history[0].Role)
	assert.Equal(t, "user", history[1].Role)
	assert.Equal(t, "assistant", history[2].Role)
}

func TestRespond_ToolRoundThenReply(t *testing.T) {
	completer := &stubCompleter{responses: []domain.ChatMessage{
		assistantToolCall("search_phones"),
		assistantText("here are some phones"),
	}}
	invoker := &stubInvoker{result: "[]"}
	manager := NewDialogueManager("be helpful", completer, invoker)

	reply, err := manager.Respond(context.Background(), "phones under 20000")
	require.NoError(t, err)

	assert.Equal(t, "here are some phones", reply)
	assert.Equal(t, 2, completer.calls)
	assert.Equal(t, 1, invoker.calls)

	history := manager.History()
	require.Len(t, history, 5)
	assert.Equal(t, "tool", history[3].Role)
	assert.Equal(t, "search_phones", history[3].Name)
	assert.Equal(t, "call-1", history[3].ToolCallID)
}

func TestRespond_ToolLoopCeiling(t *testing.T) {
	// The model keeps asking for tools forever; the loop must stop after
	// three re-invocations and return the last text anyway.
	completer := &stubCompleter{responses: []domain.ChatMessage{assistantToolCall("search_phones")}}
	invoker := &stubInvoker{result: "[]"}
	manager := NewDialogueManager("be helpful", completer, invoker)

	reply, err := manager.Respond(context.Background(), "loop")
	require.NoError(t, err)

	assert.Equal(t, "", reply)
	assert.Equal(t, 4, completer.calls)
	assert.Equal(t, 3, invoker.calls)
}

func TestRespond_UnknownToolSkipped(t *testing.T) {
	completer := &stubCompleter{responses: []domain.ChatMessage{
		assistantToolCall("launch_rocket"),
		assistantText("done"),
	}}
	invoker := &stubInvoker{err: fmt.Errorf("%w: %q", domain.ErrUnknownTool, "launch_rocket")}
	manager := NewDialogueManager("be helpful", completer, invoker)

	reply, err := manager.Respond(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "done", reply)

	// A skipped call leaves no tool message behind.
	for _, msg := range manager.History() {
		assert.NotEqual(t, "tool", msg.Role)
	}
}

func TestRespond_ToolFailureRendered(t *testing.T) {
	completer := &stubCompleter{responses: []domain.ChatMessage{
		assistantToolCall("search_phones"),
		assistantText("sorry"),
	}}
	invoker := &stubInvoker{err: errors.New("boom")}
	manager := NewDialogueManager("be helpful", completer, invoker)

	_, err := manager.Respond(context.Background(), "hi")
	require.NoError(t, err)

	history := manager.History()
	require.Len(t, history, 5)
	assert.Equal(t, "tool", history[3].Role)
	assert.Equal(t, "Tool 'search_phones' failed: boom", history[3].Content)
}

func TestRespond_RollbackOnModelError(t *testing.T) {
	completer := &stubCompleter{
		responses: []domain.ChatMessage{{}},
		errs:      []error{errors.New("rate limited")},
	}
	manager := NewDialogueManager("be helpful", completer, &stubInvoker{})

	_, err := manager.Respond(context.Background(), "hi")
	require.Error(t, err)

	history := manager.History()
	require.Len(t, history, 1)
	assert.Equal(t, "system", history[0].Role)
}

func TestRespond_RollbackOnModelErrorAfterToolRound(t *testing.T) {
	completer := &stubCompleter{
		responses: []domain.ChatMessage{assistantToolCall("search_phones"), {}},
		errs:      []error{nil, errors.New("rate limited")},
	}
	invoker := &stubInvoker{result: "[]"}
	manager := NewDialogueManager("be helpful", completer, invoker)

	_, err := manager.Respond(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, 1, invoker.calls)

	// The partial turn, tool results included, is discarded.
	require.Len(t, manager.History(), 1)
}

func TestRespond_HistoryTruncation(t *testing.T) {
	completer := &stubCompleter{}
	manager := NewDialogueManager("be helpful", completer, &stubInvoker{})

	for i := 1; i <= 7; i++ {
		completer.responses = []domain.ChatMessage{assistantText(fmt.Sprintf("reply %d", i))}
		completer.calls = 0

		_, err := manager.Respond(context.Background(), fmt.Sprintf("turn %d", i))
		require.NoError(t, err)
	}

	history := manager.History()
	require.Len(t, history, 11)
	assert.Equal(t, "system", history[0].Role)
	assert.Equal(t, "turn 3", history[1].Content)
	assert.Equal(t, "reply 7", history[10].Content)
}

func TestFinalText(t *testing.T) {
	tests := []struct {
		name    string
		content any
		want    string
	}{
		{"nil", nil, ""},
		{"plain string", "hello", "hello"},
		{"fragment structs", []domain.Content{{Type: "text", Text: "a"}, {Type: "text", Text: "b"}}, "a b"},
		{"decoded fragments", []any{map[string]any{"type": "text", "text": "a"}, "b"}, "a b"},
		{"fallback", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, finalText(tt.content))
		})
	}
}
