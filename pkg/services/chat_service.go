package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dskvich/phone-shop-assistant/pkg/logger"
)

// SystemPrompt seeds every new dialogue session.
const SystemPrompt = `You are a helpful shopping assistant for mobile phones in the Indian market. Help users find phones based on their budget and needs.

Use the available tools to search phones, compare models, and explain technical terms. Always use real data from tools - never make up specifications.

Only help with mobile phone queries. For other topics, politely decline. Stay neutral and factual about all brands.

When recommending phones, explain why they fit the user's requirements. For comparisons, highlight key differences and trade-offs.`

const genericFailureReply = "I encountered an issue processing your request. Please try rephrasing your question."

type SafetyValidator interface {
	Validate(message string) (bool, string)
}

// chatService is the session directory: it maps opaque session ids to
// dialogue managers and runs the safety gate before any model work.
type chatService struct {
	safety     SafetyValidator
	newManager func() *DialogueManager

	mu       sync.RWMutex
	sessions map[string]*DialogueManager
}

func NewChatService(safety SafetyValidator, newManager func() *DialogueManager) *chatService {
	return &chatService{
		safety:     safety,
		newManager: newManager,
		sessions:   make(map[string]*DialogueManager),
	}
}

// Chat processes one turn. Rejected input never reaches a session: the
// refusal text is the reply, and a session id is still issued so the client
// keeps a stable handle.
func (c *chatService) Chat(ctx context.Context, message, sessionID string) (string, string) {
	if ok, refusal := c.safety.Validate(message); !ok {
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		return refusal, sessionID
	}

	sessionID, manager := c.resolve(sessionID)

	reply, err := manager.Respond(ctx, message)
	if err != nil {
		// Internal detail is logged, never echoed to the user.
		slog.ErrorContext(ctx, "Generating reply", "sessionID", sessionID, logger.Err(err))
		return genericFailureReply, sessionID
	}

	return reply, sessionID
}

// resolve returns the tracked manager for the id, or creates one. An unknown
// supplied id is reused as the key so clients can pin their own ids.
func (c *chatService) resolve(sessionID string) (string, *DialogueManager) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if manager, ok := c.sessions[sessionID]; ok {
		return sessionID, manager
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	manager := c.newManager()
	c.sessions[sessionID] = manager
	return sessionID, manager
}

// ClearSession removes a tracked session; clearing an unknown id is a no-op.
func (c *chatService) ClearSession(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.sessions, sessionID)
}

// Session exposes a tracked manager, mainly for inspection.
func (c *chatService) Session(sessionID string) (*DialogueManager, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	manager, ok := c.sessions[sessionID]
	return manager, ok
}
