package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/dskvich/phone-shop-assistant/pkg/domain"
)

type ToolFunction interface {
	Name() string
	Description() string
	Parameters() jsonschema.Definition
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}

// toolService is a closed registry of the capabilities the model may request.
type toolService struct {
	tools  []ToolFunction
	byName map[string]ToolFunction
}

func NewToolService(toolFunctions []ToolFunction) (*toolService, error) {
	byName := make(map[string]ToolFunction, len(toolFunctions))
	for _, t := range toolFunctions {
		if t.Name() == "" {
			return nil, errors.New("tool name cannot be empty")
		}
		if _, ok := byName[t.Name()]; ok {
			return nil, fmt.Errorf("duplicate tool %q", t.Name())
		}
		byName[t.Name()] = t
	}

	return &toolService{tools: toolFunctions, byName: byName}, nil
}

func (ts *toolService) Tools() []ToolFunction {
	return ts.tools
}

// Invoke dispatches a tool call by name. An unknown name yields
// domain.ErrUnknownTool so the caller can skip it; argument problems are
// returned as errors and rendered into the conversation, never fatal.
func (ts *toolService) Invoke(ctx context.Context, name, args string) (string, error) {
	slog.DebugContext(ctx, "Invoking tool", "name", name, "args", args)

	tool, ok := ts.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownTool, name)
	}

	if args == "" {
		args = "{}"
	}
	if !json.Valid([]byte(args)) {
		return "", fmt.Errorf("tool %q: arguments are not valid JSON", name)
	}

	result, err := tool.Execute(ctx, json.RawMessage(args))
	if err != nil {
		return "", fmt.Errorf("tool %q: %w", name, err)
	}

	slog.DebugContext(ctx, "Tool executed", "name", name, "resultLength", len(result))
	return result, nil
}
