package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	avataxdomain "github.com/oms/avatax/internal/domain/avatax"
	"github.com/oms/avatax/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RecalculationService triggers a tax recalculation for an order
type RecalculationService interface {
	Recalculate(ctx context.Context, orderID uuid.UUID) error
}

// VoidService voids the committed tax transaction of an order
type VoidService interface {
	Void(ctx context.Context, orderID uuid.UUID) error
}

// TransactionReader lists the tax transactions recorded for an order
type TransactionReader interface {
	FindAllByOrder(ctx context.Context, orderID uuid.UUID) ([]avataxdomain.Transaction, error)
}

// AvataxHandler exposes the tax integration over HTTP. The endpoints
// exist for the host application and for operators: the usual trigger
// path is the order lifecycle events.
type AvataxHandler struct {
	BaseHandler
	recalc       RecalculationService
	voids        VoidService
	transactions TransactionReader
	logger       *zap.Logger
}

// NewAvataxHandler creates a new AvataxHandler
func NewAvataxHandler(
	recalc RecalculationService,
	voids VoidService,
	transactions TransactionReader,
	logger *zap.Logger,
) *AvataxHandler {
	return &AvataxHandler{
		recalc:       recalc,
		voids:        voids,
		transactions: transactions,
		logger:       logger,
	}
}

// RegisterRoutes registers the handler's routes on the given group
func (h *AvataxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("/:id/avatax/recalculate", h.Recalculate)
		orders.POST("/:id/avatax/void", h.Void)
		orders.GET("/:id/avatax/transactions", h.ListTransactions)
	}
}

// transactionResponse is the wire representation of a recorded transaction
type transactionResponse struct {
	ID              uuid.UUID  `json:"id"`
	OrderID         uuid.UUID  `json:"order_id"`
	TransactionType string     `json:"transaction_type"`
	Code            string     `json:"code"`
	Status          string     `json:"status"`
	VoidedAt        *time.Time `json:"voided_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toTransactionResponse(tx *avataxdomain.Transaction) transactionResponse {
	return transactionResponse{
		ID:              tx.ID,
		OrderID:         tx.OrderID,
		TransactionType: tx.Type.String(),
		Code:            tx.Code,
		Status:          string(tx.Status),
		VoidedAt:        tx.VoidedAt,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}

// Recalculate triggers a tax recalculation for the order
// POST /orders/:id/avatax/recalculate
func (h *AvataxHandler) Recalculate(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	if err := h.recalc.Recalculate(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"order_id": orderID})
}

// Void voids the order's committed tax transaction
// POST /orders/:id/avatax/void
func (h *AvataxHandler) Void(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	if err := h.voids.Void(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"order_id": orderID})
}

// ListTransactions returns every transaction recorded for the order
// GET /orders/:id/avatax/transactions
func (h *AvataxHandler) ListTransactions(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	txs, err := h.transactions.FindAllByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]transactionResponse, len(txs))
	for i := range txs {
		resp[i] = toTransactionResponse(&txs[i])
	}
	h.Success(c, resp)
}

func (h *AvataxHandler) parseOrderID(c *gin.Context) (uuid.UUID, bool) {
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
