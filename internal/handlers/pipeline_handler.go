package handlers

import (
	"net/http"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/store"

	"github.com/gin-gonic/gin"
)

// PipelineHandler serves loans and opportunities, including the board move
// endpoints.
type PipelineHandler struct {
	stores *store.Stores
}

// NewPipelineHandler constructs a PipelineHandler.
func NewPipelineHandler(stores *store.Stores) *PipelineHandler {
	return &PipelineHandler{stores: stores}
}

// MoveRequest represents a board drop: the target column and the position
// within it.
type MoveRequest struct {
	Column    string `json:"column" binding:"required"`
	SortOrder int    `json:"sortOrder"`
}

// ListLoans handles GET /api/loans
func (h *PipelineHandler) ListLoans(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	loans, err := h.stores.Loans.List(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans, "count": len(loans)})
}

// CreateLoan handles POST /api/loans
func (h *PipelineHandler) CreateLoan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req store.LoanCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loan, err := h.stores.Loans.Create(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

// UpdateLoan handles PUT /api/loans/:id
func (h *PipelineHandler) UpdateLoan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req store.LoanUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")
	loan, err := h.stores.Loans.Update(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// DeleteLoan handles DELETE /api/loans/:id
func (h *PipelineHandler) DeleteLoan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.stores.Loans.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Loan deleted successfully", "id": c.Param("id")})
}

// MoveLoan handles POST /api/loans/:id/move
func (h *PipelineHandler) MoveLoan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loan, err := h.stores.Loans.Move(c.Request.Context(), userID, c.Param("id"),
		models.LoanStatus(req.Column), req.SortOrder)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// ListOpportunities handles GET /api/opportunities
func (h *PipelineHandler) ListOpportunities(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	opps, err := h.stores.Opportunities.List(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opportunities": opps, "count": len(opps)})
}

// CreateOpportunity handles POST /api/opportunities
func (h *PipelineHandler) CreateOpportunity(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req store.OpportunityCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opp, err := h.stores.Opportunities.Create(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, opp)
}

// UpdateOpportunity handles PUT /api/opportunities/:id
func (h *PipelineHandler) UpdateOpportunity(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req store.OpportunityUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")
	opp, err := h.stores.Opportunities.Update(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

// DeleteOpportunity handles DELETE /api/opportunities/:id
func (h *PipelineHandler) DeleteOpportunity(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.stores.Opportunities.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Opportunity deleted successfully", "id": c.Param("id")})
}

// MoveOpportunity handles POST /api/opportunities/:id/move
func (h *PipelineHandler) MoveOpportunity(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opp, err := h.stores.Opportunities.Move(c.Request.Context(), userID, c.Param("id"),
		models.OpportunityStage(req.Column), req.SortOrder)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}
