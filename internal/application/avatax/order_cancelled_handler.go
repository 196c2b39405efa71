package avatax

import (
	"context"
	"fmt"

	"github.com/oms/avatax/internal/domain/order"
	"github.com/oms/avatax/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderCancelledHandler handles OrderCancelledEvent and voids any
// committed tax transaction for the cancelled order
type OrderCancelledHandler struct {
	voidService *VoidService
	logger      *zap.Logger
}

// NewOrderCancelledHandler creates a handler for order cancelled events
func NewOrderCancelledHandler(voidService *VoidService, logger *zap.Logger) *OrderCancelledHandler {
	return &OrderCancelledHandler{
		voidService: voidService,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderCancelledHandler) EventTypes() []string {
	return []string{order.EventTypeOrderCancelled}
}

// Handle processes an OrderCancelledEvent. A failed void is logged but
// never propagated: the order's cancellation must not be blocked by the
// tax integration.
func (h *OrderCancelledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	cancelled, ok := event.(*order.OrderCancelledEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", order.EventTypeOrderCancelled),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			order.EventTypeOrderCancelled, event.EventType())
	}

	h.logger.Info("processing order cancelled event",
		zap.String("order_id", cancelled.OrderID.String()),
		zap.String("order_number", cancelled.OrderNumber),
		zap.String("cancel_reason", cancelled.CancelReason),
	)

	if err := h.voidService.Void(ctx, cancelled.OrderID); err != nil {
		h.logger.Error("void failed for cancelled order, cancellation unaffected",
			zap.String("order_id", cancelled.OrderID.String()),
			zap.String("order_number", cancelled.OrderNumber),
			zap.Error(err),
		)
		return nil
	}
	return nil
}
