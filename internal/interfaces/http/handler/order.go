package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oms/avatax/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// OrderLifecycle drives order state transitions
type OrderLifecycle interface {
	RecalculateTotals(ctx context.Context, orderID uuid.UUID) error
	Complete(ctx context.Context, orderID uuid.UUID) error
	Cancel(ctx context.Context, orderID uuid.UUID, reason string) error
}

// OrderHandler exposes the order lifecycle transitions the host
// application drives. These are the entry points that feed the event
// bus and, through it, the tax integration.
type OrderHandler struct {
	BaseHandler
	lifecycle OrderLifecycle
	logger    *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(lifecycle OrderLifecycle, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// RegisterRoutes registers the handler's routes on the given group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("/:id/recalculate-totals", h.RecalculateTotals)
		orders.POST("/:id/complete", h.Complete)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// cancelOrderRequest carries the optional cancellation reason
type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// RecalculateTotals recomputes the order totals
// POST /orders/:id/recalculate-totals
func (h *OrderHandler) RecalculateTotals(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	if err := h.lifecycle.RecalculateTotals(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"order_id": orderID})
}

// Complete marks the order as completed
// POST /orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	if err := h.lifecycle.Complete(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"order_id": orderID})
}

// Cancel cancels the order, voiding any committed tax document
// POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req cancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "invalid cancel request")
			return
		}
	}

	if err := h.lifecycle.Cancel(c.Request.Context(), orderID, req.Reason); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"order_id": orderID})
}

func (h *OrderHandler) parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "invalid order id")
		return uuid.Nil, false
	}
	orderID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return uuid.Nil, false
	}
	return orderID, true
}
