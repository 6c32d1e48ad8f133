package handlers

import (
	"net/http"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/chat"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves the AI advisor conversations.
type ChatHandler struct {
	chat *chat.Service
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(svc *chat.Service) *ChatHandler {
	return &ChatHandler{chat: svc}
}

// CreateConversationRequest represents a new conversation payload
type CreateConversationRequest struct {
	Title     string   `json:"title"`
	ClientID  string   `json:"clientId"`
	LenderIDs []string `json:"lenderIds"`
}

// SendMessageRequest represents a user chat turn
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListConversations handles GET /api/conversations
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convs, err := h.chat.ListConversations(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs, "count": len(convs)})
}

// CreateConversation handles POST /api/conversations
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conv, err := h.chat.CreateConversation(c.Request.Context(), userID, req.Title, req.ClientID, req.LenderIDs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

// ListMessages handles GET /api/conversations/:id/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	msgs, err := h.chat.Messages(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs, "count": len(msgs)})
}

// SendMessage handles POST /api/conversations/:id/messages. The user turn is
// persisted before the model call, so a completion failure never loses input.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reply, err := h.chat.Send(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}
