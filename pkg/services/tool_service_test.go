package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/phone-shop-assistant/pkg/domain"
)

type fakeTool struct {
	name     string
	execute  func(ctx context.Context, args json.RawMessage) (string, error)
	lastArgs json.RawMessage
}

func (f *fakeTool) Name() string                      { return f.name }
func (f *fakeTool) Description() string               { return "fake" }
func (f *fakeTool) Parameters() jsonschema.Definition { return jsonschema.Definition{} }

func (f *fakeTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	f.lastArgs = args
	if f.execute != nil {
		return f.execute(ctx, args)
	}
	return "ok", nil
}

func TestNewToolService_RejectsBadRegistrations(t *testing.T) {
	_, err := NewToolService([]ToolFunction{&fakeTool{name: ""}})
	require.Error(t, err)

	_, err = NewToolService([]ToolFunction{&fakeTool{name: "a"}, &fakeTool{name: "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestInvoke_DispatchesByName(t *testing.T) {
	tool := &fakeTool{name: "search_phones"}
	svc, err := NewToolService([]ToolFunction{tool})
	require.NoError(t, err)

	result, err := svc.Invoke(context.Background(), "search_phones", `{"brand":"Samsung"}`)
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.JSONEq(t, `{"brand":"Samsung"}`, string(tool.lastArgs))
}

func TestInvoke_UnknownTool(t *testing.T) {
	svc, err := NewToolService([]ToolFunction{&fakeTool{name: "search_phones"}})
	require.NoError(t, err)

	_, err = svc.Invoke(context.Background(), "launch_rocket", "{}")
	assert.ErrorIs(t, err, domain.ErrUnknownTool)
}

func TestInvoke_EmptyArgsBecomeEmptyObject(t *testing.T) {
	tool := &fakeTool{name: "search_phones"}
	svc, err := NewToolService([]ToolFunction{tool})
	require.NoError(t, err)

	_, err = svc.Invoke(context.Background(), "search_phones", "")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(tool.lastArgs))
}

func TestInvoke_InvalidArgsJSON(t *testing.T) {
	svc, err := NewToolService([]ToolFunction{&fakeTool{name: "search_phones"}})
	require.NoError(t, err)

	_, err = svc.Invoke(context.Background(), "search_phones", "{not json")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnknownTool)
}

func TestInvoke_WrapsExecuteError(t *testing.T) {
	tool := &fakeTool{
		name: "search_phones",
		execute: func(context.Context, json.RawMessage) (string, error) {
			return "", errors.New("boom")
		},
	}
	svc, err := NewToolService([]ToolFunction{tool})
	require.NoError(t, err)

	_, err = svc.Invoke(context.Background(), "search_phones", "{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `tool "search_phones"`)
	assert.Contains(t, err.Error(), "boom")
}
