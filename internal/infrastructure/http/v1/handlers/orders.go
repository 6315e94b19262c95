package handlers

import (
	"github.com/gin-gonic/gin"

	"pharmos/internal/core/apperror"
	"pharmos/internal/core/numbering"
	"pharmos/internal/domain/orders"
	"pharmos/internal/infrastructure/http/v1/dto"
)

// OrderHandler handles order-creation endpoints.
type OrderHandler struct {
	*BaseHandler
	service *orders.Service
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, service *orders.Service) *OrderHandler {
	return &OrderHandler{BaseHandler: base, service: service}
}

// Create creates an order, generating or disambiguating its number.
// POST /api/v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	kind, err := numbering.ParseOrderType(req.Kind)
	if err != nil {
		h.Error(c, err)
		return
	}

	order, err := req.ToEntity(kind)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid order payload").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.Create(ctx, order); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(order))
}

// GetByNumber loads an order by kind and identifier.
// GET /api/v1/orders/:type/by-number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	kind, err := numbering.ParseOrderType(c.Param("type"))
	if err != nil {
		h.Error(c, err)
		return
	}

	order, err := h.service.GetByNumber(c.Request.Context(), kind, c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(order))
}
