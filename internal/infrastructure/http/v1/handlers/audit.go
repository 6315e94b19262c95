package handlers

import (
	"github.com/gin-gonic/gin"

	"pharmos/internal/core/numbering"
	"pharmos/internal/infrastructure/http/v1/dto"
	"pharmos/internal/infrastructure/storage/postgres"
)

// AuditHandler exposes the number allocation trail.
type AuditHandler struct {
	*BaseHandler
	audit *postgres.AllocationAudit
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, audit *postgres.AllocationAudit) *AuditHandler {
	return &AuditHandler{BaseHandler: base, audit: audit}
}

// History lists recent allocations for an order type, newest first.
// GET /api/v1/orders/:type/number/history?limit=50
func (h *AuditHandler) History(c *gin.Context) {
	kind, err := numbering.ParseOrderType(c.Param("type"))
	if err != nil {
		h.Error(c, err)
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}

	entries, err := h.audit.History(c.Request.Context(), kind.String(), limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]dto.AllocationEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.FromAllocationEntry(e))
	}

	h.OK(c, resp)
}
