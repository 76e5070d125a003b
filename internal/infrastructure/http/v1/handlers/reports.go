package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/audit"
	"stockpilot/internal/domain/reports"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// AuditTrail reads the stored audit history for a record.
type AuditTrail interface {
	GetRecordHistory(ctx context.Context, tableName string, recordID id.ID, limit int) ([]audit.Entry, error)
}

// ReportsHandler exposes read-only report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
	trail   AuditTrail
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service, trail AuditTrail) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
		trail:       trail,
	}
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/low-stock", h.GetLowStock)
	rg.GET("/stock-audit/:productId", h.GetStockAudit)
}

// GetLowStock handles GET /reports/low-stock
func (h *ReportsHandler) GetLowStock(c *gin.Context) {
	var query dto.LowStockQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.Filter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetLowStock(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// GetStockAudit handles GET /reports/stock-audit/:productId
func (h *ReportsHandler) GetStockAudit(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}

	var query dto.AuditHistoryQuery
	if !h.BindQuery(c, &query) {
		return
	}

	entries, err := h.trail.GetRecordHistory(c.Request.Context(), "products", productID, query.EffectiveLimit())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": entries})
}
