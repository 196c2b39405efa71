package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	orderdomain "github.com/oms/avatax/internal/domain/order"
	"github.com/oms/avatax/internal/domain/shared"
	"go.uber.org/zap"
)

// LifecycleService drives order state transitions on behalf of the
// host application. After a transition is persisted the aggregate's
// pending domain events are drained to the event bus, which is how the
// tax integration learns about totals changes and cancellations.
type LifecycleService struct {
	orders    orderdomain.Repository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewLifecycleService creates the lifecycle orchestrator
func NewLifecycleService(
	orders orderdomain.Repository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		orders:    orders,
		publisher: publisher,
		logger:    logger,
	}
}

// RecalculateTotals recomputes the order totals from its items and
// announces the change
func (s *LifecycleService) RecalculateTotals(ctx context.Context, orderID uuid.UUID) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}

	o.RecalculateTotals()

	if err := s.orders.Save(ctx, o); err != nil {
		return fmt.Errorf("save order %s: %w", o.Number, err)
	}

	s.publishEvents(ctx, o)
	return nil
}

// Complete finishes the order. Totals are recomputed as part of the
// transition so the announced recalculation carries the completed
// state and downstream tax documents get committed.
func (s *LifecycleService) Complete(ctx context.Context, orderID uuid.UUID) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}

	if err := o.Complete(); err != nil {
		return fmt.Errorf("complete order %s: %w", o.Number, err)
	}
	o.RecalculateTotals()

	if err := s.orders.Save(ctx, o); err != nil {
		return fmt.Errorf("save order %s: %w", o.Number, err)
	}

	s.logger.Info("order completed",
		zap.String("order_id", orderID.String()),
		zap.String("order_number", o.Number),
	)
	s.publishEvents(ctx, o)
	return nil
}

// Cancel cancels the order with the given reason
func (s *LifecycleService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}

	if err := o.Cancel(reason); err != nil {
		return fmt.Errorf("cancel order %s: %w", o.Number, err)
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return fmt.Errorf("save order %s: %w", o.Number, err)
	}

	s.logger.Info("order cancelled",
		zap.String("order_id", orderID.String()),
		zap.String("order_number", o.Number),
		zap.String("reason", reason),
	)
	s.publishEvents(ctx, o)
	return nil
}

// publishEvents drains the aggregate's pending events to the bus. A
// failed publish never rolls back the persisted transition: handlers
// are retryable through the manual endpoints, so the error is logged
// and the events dropped.
func (s *LifecycleService) publishEvents(ctx context.Context, o *orderdomain.Order) {
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("publish domain events failed",
			zap.String("order_number", o.Number),
			zap.Int("events", len(events)),
			zap.Error(err),
		)
	}
	o.ClearDomainEvents()
}
