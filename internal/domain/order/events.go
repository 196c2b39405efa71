package order

import (
	"github.com/google/uuid"
	"github.com/oms/avatax/internal/domain/shared"
)

// Event types for the order aggregate
const (
	EventTypeOrderTotalsRecalculated = "order.totals_recalculated"
	EventTypeOrderCancelled          = "order.cancelled"
)

// aggregateType identifies the aggregate in event metadata
const aggregateType = "Order"

// OrderTotalsRecalculatedEvent is emitted after the order totals have
// been recomputed; the tax integration reacts by recalculating taxes
type OrderTotalsRecalculatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Completed   bool      `json:"completed"`
}

// NewOrderTotalsRecalculatedEvent creates a totals-recalculated event
func NewOrderTotalsRecalculatedEvent(o *Order) *OrderTotalsRecalculatedEvent {
	return &OrderTotalsRecalculatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderTotalsRecalculated, o.ID, aggregateType),
		OrderID:         o.ID,
		OrderNumber:     o.Number,
		Completed:       o.IsCompleted(),
	}
}

// OrderCancelledEvent is emitted after the order transitions to
// cancelled; the tax integration reacts by voiding any committed tax
// transaction
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	CancelReason string    `json:"cancel_reason"`
}

// NewOrderCancelledEvent creates a cancelled event
func NewOrderCancelledEvent(o *Order, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, o.ID, aggregateType),
		OrderID:         o.ID,
		OrderNumber:     o.Number,
		CancelReason:    reason,
	}
}
