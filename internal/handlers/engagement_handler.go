package handlers

import (
	"net/http"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/store"

	"github.com/gin-gonic/gin"
)

// EngagementHandler serves notes and todos.
type EngagementHandler struct {
	stores *store.Stores
}

// NewEngagementHandler constructs an EngagementHandler.
func NewEngagementHandler(stores *store.Stores) *EngagementHandler {
	return &EngagementHandler{stores: stores}
}

// ListNotes handles GET /api/notes
func (h *EngagementHandler) ListNotes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	notes, err := h.stores.Notes.List(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes, "count": len(notes)})
}

// CreateNote handles POST /api/notes
func (h *EngagementHandler) CreateNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req store.NoteCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := h.stores.Notes.Create(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// UpdateNoteRequest represents a note content update
type UpdateNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// UpdateNote handles PUT /api/notes/:id
func (h *EngagementHandler) UpdateNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := h.stores.Notes.Update(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/:id
func (h *EngagementHandler) DeleteNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.stores.Notes.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully", "id": c.Param("id")})
}

// ListTodos handles GET /api/todos
func (h *EngagementHandler) ListTodos(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	todos, err := h.stores.Todos.List(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todos": todos, "count": len(todos)})
}

// CreateTodo handles POST /api/todos
func (h *EngagementHandler) CreateTodo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req store.TodoCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	todo, err := h.stores.Todos.Create(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// UpdateTodo handles PUT /api/todos/:id
func (h *EngagementHandler) UpdateTodo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req store.TodoUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")
	todo, err := h.stores.Todos.Update(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DeleteTodo handles DELETE /api/todos/:id
func (h *EngagementHandler) DeleteTodo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.stores.Todos.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully", "id": c.Param("id")})
}
