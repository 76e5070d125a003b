package handlers

import (
	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain/reconciliation"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// ReconciliationHandler exposes the reconciliation workflow.
type ReconciliationHandler struct {
	*BaseHandler
	service *reconciliation.Service
}

// NewReconciliationHandler creates a new reconciliation handler.
func NewReconciliationHandler(base *BaseHandler, service *reconciliation.Service) *ReconciliationHandler {
	return &ReconciliationHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers reconciliation routes.
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/submit", h.Submit)
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/reject", h.Reject)
	rg.PATCH("/:id/items/:itemId/verify", h.VerifyItem)
}

// Create handles POST /reconciliations
func (h *ReconciliationHandler) Create(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.CreateReconciliationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Create(c.Request.Context(), req.Title, req.Description, userID, req.Inputs())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, doc.ID)
}

// List handles GET /reconciliations
func (h *ReconciliationHandler) List(c *gin.Context) {
	var query dto.ReconciliationListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.Filter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result))
}

// Get handles GET /reconciliations/:id
func (h *ReconciliationHandler) Get(c *gin.Context) {
	reconciliationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), reconciliationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Submit handles POST /reconciliations/:id/submit
func (h *ReconciliationHandler) Submit(c *gin.Context) {
	reconciliationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	doc, err := h.service.Submit(c.Request.Context(), reconciliationID, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Approve handles POST /reconciliations/:id/approve
func (h *ReconciliationHandler) Approve(c *gin.Context) {
	reconciliationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	doc, err := h.service.Approve(c.Request.Context(), reconciliationID, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Reject handles POST /reconciliations/:id/reject
func (h *ReconciliationHandler) Reject(c *gin.Context) {
	reconciliationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.RejectReconciliationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Reject(c.Request.Context(), reconciliationID, userID, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// VerifyItem handles PATCH /reconciliations/:id/items/:itemId/verify
func (h *ReconciliationHandler) VerifyItem(c *gin.Context) {
	reconciliationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	var req dto.VerifyItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.VerifyItem(c.Request.Context(), reconciliationID, itemID, *req.Verified); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "item updated")
}
