package avatax

import (
	"context"
	"fmt"

	"github.com/oms/avatax/internal/domain/order"
	"github.com/oms/avatax/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderRecalculatedHandler handles OrderTotalsRecalculatedEvent and
// recomputes the order's taxes against the external service
type OrderRecalculatedHandler struct {
	taxService *TaxAdjustmentService
	logger     *zap.Logger
}

// NewOrderRecalculatedHandler creates a handler for totals-recalculated events
func NewOrderRecalculatedHandler(taxService *TaxAdjustmentService, logger *zap.Logger) *OrderRecalculatedHandler {
	return &OrderRecalculatedHandler{
		taxService: taxService,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderRecalculatedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderTotalsRecalculated}
}

// Handle processes an OrderTotalsRecalculatedEvent
func (h *OrderRecalculatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	recalculated, ok := event.(*order.OrderTotalsRecalculatedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", order.EventTypeOrderTotalsRecalculated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			order.EventTypeOrderTotalsRecalculated, event.EventType())
	}

	h.logger.Info("processing order totals recalculated event",
		zap.String("order_id", recalculated.OrderID.String()),
		zap.String("order_number", recalculated.OrderNumber),
		zap.Bool("completed", recalculated.Completed),
	)

	if err := h.taxService.Recalculate(ctx, recalculated.OrderID); err != nil {
		return fmt.Errorf("recalculate taxes for order %s: %w", recalculated.OrderNumber, err)
	}
	return nil
}
