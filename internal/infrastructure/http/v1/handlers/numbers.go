// Package handlers provides HTTP request handlers.
package handlers

import (
	"github.com/gin-gonic/gin"

	"pharmos/internal/core/apperror"
	"pharmos/internal/core/numbering"
	"pharmos/internal/domain/orders"
	"pharmos/internal/infrastructure/http/v1/dto"
)

// NumberHandler handles order-number generation endpoints.
type NumberHandler struct {
	*BaseHandler
	service *orders.Service
}

// NewNumberHandler creates a new number handler.
func NewNumberHandler(base *BaseHandler, service *orders.Service) *NumberHandler {
	return &NumberHandler{BaseHandler: base, service: service}
}

// orderType resolves the :type path parameter, rejecting unknown kinds.
func (h *NumberHandler) orderType(c *gin.Context) (numbering.OrderType, bool) {
	kind, err := numbering.ParseOrderType(c.Param("type"))
	if err != nil {
		h.Error(c, err)
		return 0, false
	}
	return kind, true
}

// Generate mints a fresh identifier for the order type.
// POST /api/v1/orders/:type/number
func (h *NumberHandler) Generate(c *gin.Context) {
	kind, ok := h.orderType(c)
	if !ok {
		return
	}

	// Body is optional; an empty body means default configuration.
	var req dto.GenerateNumberRequest
	if c.Request.ContentLength > 0 {
		if !h.BindJSON(c, &req) {
			return
		}
	}

	var override *numbering.SequenceConfig
	if req.Config != nil {
		cfg := req.Config.ToConfig()
		override = &cfg
	}

	number, err := h.service.NextNumber(c.Request.Context(), kind, override)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NumberResponse{OrderType: kind.String(), Number: number})
}

// GenerateUnique disambiguates a caller-supplied base identifier.
// POST /api/v1/orders/:type/number/unique
func (h *NumberHandler) GenerateUnique(c *gin.Context) {
	kind, ok := h.orderType(c)
	if !ok {
		return
	}

	var req dto.UniqueNumberRequest
	if !h.BindJSON(c, &req) {
		return
	}

	number, err := h.service.ReserveUnique(c.Request.Context(), kind, req.Base)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NumberResponse{OrderType: kind.String(), Number: number})
}

// Check reports whether a candidate identifier is free.
// GET /api/v1/orders/:type/number/check?candidate=...
func (h *NumberHandler) Check(c *gin.Context) {
	kind, ok := h.orderType(c)
	if !ok {
		return
	}

	candidate := c.Query("candidate")
	if candidate == "" {
		h.Error(c, apperror.NewValidation("candidate query parameter is required"))
		return
	}

	unique, err := h.service.CheckNumber(c.Request.Context(), kind, candidate)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.CheckNumberResponse{
		OrderType: kind.String(),
		Candidate: candidate,
		Unique:    unique,
	})
}
