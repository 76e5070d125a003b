package handlers

import (
	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain/ledger"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// StockHandler exposes stock ledger operations.
type StockHandler struct {
	*BaseHandler
	ledger *ledger.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, ledgerSvc *ledger.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		ledger:      ledgerSvc,
	}
}

// RegisterRoutes registers stock routes on a product subgroup.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:productId/stock/add", h.AddStock)
	rg.POST("/:productId/stock/remove", h.RemoveStock)
	rg.PUT("/:productId/stock", h.SetStock)
	rg.GET("/:productId/stock/additions", h.GetAdditions)
	rg.GET("/:productId/stock/adjustments", h.GetAdjustments)
}

// AddStock handles POST /products/:productId/stock/add
func (h *StockHandler) AddStock(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.AddStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, addition, err := h.ledger.AddStock(c.Request.Context(), productID, req.Quantity, userID, req.Options())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.StockMovementResponse{Product: product, Movement: addition})
}

// RemoveStock handles POST /products/:productId/stock/remove
func (h *StockHandler) RemoveStock(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.RemoveStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, adjustment, err := h.ledger.RemoveStock(c.Request.Context(), productID, req.Quantity, userID,
		ledger.AdjustOptions{Reason: req.Reason, Notes: req.Notes})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.StockMovementResponse{Product: product, Movement: adjustment})
}

// SetStock handles PUT /products/:productId/stock
func (h *StockHandler) SetStock(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.SetStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, adjustment, err := h.ledger.SetStock(c.Request.Context(), productID, *req.Quantity, userID,
		ledger.AdjustOptions{Reason: req.Reason, Notes: req.Notes})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.StockMovementResponse{Product: product, Movement: adjustment})
}

// GetAdditions handles GET /products/:productId/stock/additions
func (h *StockHandler) GetAdditions(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}

	var query dto.HistoryQuery
	if !h.BindQuery(c, &query) {
		return
	}

	additions, err := h.ledger.GetAdditionHistory(c.Request.Context(), productID, query.Filter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": additions})
}

// GetAdjustments handles GET /products/:productId/stock/adjustments
func (h *StockHandler) GetAdjustments(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}

	var query dto.HistoryQuery
	if !h.BindQuery(c, &query) {
		return
	}

	adjustments, err := h.ledger.GetAdjustmentHistory(c.Request.Context(), productID, query.Filter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": adjustments})
}
