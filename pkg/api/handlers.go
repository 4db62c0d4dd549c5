package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dskvich/phone-shop-assistant/pkg/domain"
)

type ChatProvider interface {
	Chat(ctx context.Context, message, sessionID string) (string, string)
	ClearSession(sessionID string)
}

type PhoneStore interface {
	All() []domain.Phone
	ByID(id int64) (domain.Phone, error)
}

type Handlers struct {
	chat   ChatProvider
	phones PhoneStore
}

func NewHandlers(chat ChatProvider, phones PhoneStore) *Handlers {
	return &Handlers{
		chat:   chat,
		phones: phones,
	}
}

type chatRequest struct {
	Message   string `json:"message" binding:"required,min=1,max=500"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

func (h *Handlers) HandleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required and must be 1-500 characters"})
		return
	}

	reply, sessionID := h.chat.Chat(c.Request.Context(), req.Message, req.SessionID)

	c.JSON(http.StatusOK, chatResponse{
		Response:  reply,
		SessionID: sessionID,
	})
}

func (h *Handlers) HandlePhones(c *gin.Context) {
	c.JSON(http.StatusOK, h.phones.All())
}

func (h *Handlers) HandlePhone(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone id"})
		return
	}

	phone, err := h.phones.ByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Phone not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, phone)
}

func (h *Handlers) HandleClearSession(c *gin.Context) {
	h.chat.ClearSession(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
