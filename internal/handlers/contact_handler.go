package handlers

import (
	"net/http"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/people"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/store"

	"github.com/gin-gonic/gin"
)

// ContactHandler serves clients, lenders and realtors.
type ContactHandler struct {
	stores *store.Stores
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(stores *store.Stores) *ContactHandler {
	return &ContactHandler{stores: stores}
}

// ListClients handles GET /api/clients
func (h *ContactHandler) ListClients(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	clients, err := h.stores.Clients.List(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients, "count": len(clients)})
}

// CreateClient handles POST /api/clients
// The payload is the person-entity creation input: person fields (or an
// existing person id) plus the client field variant.
func (h *ContactHandler) CreateClient(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req people.CreateEntityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := h.stores.Clients.Create(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// UpdateClient handles PUT /api/clients/:id
func (h *ContactHandler) UpdateClient(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req store.ClientUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")
	client, err := h.stores.Clients.Update(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /api/clients/:id
func (h *ContactHandler) DeleteClient(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.stores.Clients.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully", "id": c.Param("id")})
}

// ListLenders handles GET /api/lenders
func (h *ContactHandler) ListLenders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	lenders, err := h.stores.Lenders.List(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lenders": lenders, "count": len(lenders)})
}

// CreateLender handles POST /api/lenders
func (h *ContactHandler) CreateLender(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req people.CreateEntityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lender, err := h.stores.Lenders.Create(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, lender)
}

// UpdateLender handles PUT /api/lenders/:id
func (h *ContactHandler) UpdateLender(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req store.LenderUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")
	lender, err := h.stores.Lenders.Update(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lender)
}

// DeleteLender handles DELETE /api/lenders/:id
func (h *ContactHandler) DeleteLender(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.stores.Lenders.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lender deleted successfully", "id": c.Param("id")})
}

// ListRealtors handles GET /api/realtors
func (h *ContactHandler) ListRealtors(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	realtors, err := h.stores.Realtors.List(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"realtors": realtors, "count": len(realtors)})
}

// CreateRealtor handles POST /api/realtors
func (h *ContactHandler) CreateRealtor(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req people.CreateEntityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	realtor, err := h.stores.Realtors.Create(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, realtor)
}

// UpdateRealtor handles PUT /api/realtors/:id
func (h *ContactHandler) UpdateRealtor(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req store.RealtorUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")
	realtor, err := h.stores.Realtors.Update(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, realtor)
}

// DeleteRealtor handles DELETE /api/realtors/:id
func (h *ContactHandler) DeleteRealtor(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.stores.Realtors.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Realtor deleted successfully", "id": c.Param("id")})
}
