package avatax

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	avataxdomain "github.com/oms/avatax/internal/domain/avatax"
	"github.com/oms/avatax/internal/domain/order"
	"go.uber.org/zap"
)

// adjustmentLabel is the label attached to tax adjustments this
// integration manages
const adjustmentLabel = "Sales Tax"

// TaxAdjustmentService orchestrates one tax recalculation: build the
// request, call the external service, reconcile the order's tax
// adjustments with the response and record the resulting transaction.
//
// Each invocation moves through build, submit and apply stages; a
// failure in any stage leaves the order's existing adjustments and
// transaction state exactly as they were.
type TaxAdjustmentService struct {
	orders       order.Repository
	transactions avataxdomain.TransactionRepository
	client       avataxdomain.TaxClient
	builder      *RequestBuilder
	enabled      bool
	logger       *zap.Logger
}

// NewTaxAdjustmentService creates the recalculation orchestrator.
// enabled is the global integration switch: when false, Recalculate is
// a no-op returning success so host hooks can call it unconditionally.
func NewTaxAdjustmentService(
	orders order.Repository,
	transactions avataxdomain.TransactionRepository,
	client avataxdomain.TaxClient,
	builder *RequestBuilder,
	enabled bool,
	logger *zap.Logger,
) *TaxAdjustmentService {
	return &TaxAdjustmentService{
		orders:       orders,
		transactions: transactions,
		client:       client,
		builder:      builder,
		enabled:      enabled,
		logger:       logger,
	}
}

// Recalculate recomputes the order's taxes against the external
// service. Returns nil when the integration is disabled or when the
// order does not require tax calculation: both are defined skip
// outcomes, not failures.
func (s *TaxAdjustmentService) Recalculate(ctx context.Context, orderID uuid.UUID) error {
	if !s.enabled {
		return nil
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}

	req, err := s.builder.Build(o)
	if err != nil {
		if errors.Is(err, avataxdomain.ErrCalculationNotRequired) {
			return s.clearStaleAdjustments(ctx, o)
		}
		return fmt.Errorf("build tax request for order %s: %w", o.Number, err)
	}

	resp, err := s.client.CreateTransaction(ctx, req)
	if err != nil {
		// The order's existing adjustments stay untouched: no partial
		// application on a failed submission.
		s.logger.Error("tax computation failed",
			zap.String("order_id", orderID.String()),
			zap.String("order_number", o.Number),
			zap.Bool("retryable", avataxdomain.IsRetryable(err)),
			zap.Error(err),
		)
		return fmt.Errorf("compute taxes for order %s: %w", o.Number, err)
	}

	s.applyTaxLines(o, resp)

	if _, err := s.transactions.Record(ctx, o.ID, req.Type, resp.Code); err != nil {
		return fmt.Errorf("record %s transaction for order %s: %w", req.Type, o.Number, err)
	}

	o.UpdateTaxTotals()
	if err := s.orders.Save(ctx, o); err != nil {
		return fmt.Errorf("save order %s: %w", o.Number, err)
	}

	s.logger.Info("tax adjustments applied",
		zap.String("order_id", orderID.String()),
		zap.String("order_number", o.Number),
		zap.String("transaction_type", req.Type.String()),
		zap.String("transaction_code", resp.Code),
		zap.Int("tax_lines", len(resp.Lines)),
		zap.String("total_tax", resp.TotalTax.String()),
	)
	return nil
}

// clearStaleAdjustments handles an order that no longer qualifies for
// tax calculation: any adjustments left over from when it did are
// removed and the totals refreshed. An order that never had
// adjustments is left untouched.
func (s *TaxAdjustmentService) clearStaleAdjustments(ctx context.Context, o *order.Order) error {
	removed := o.ClearTaxAdjustments()
	if removed == 0 {
		s.logger.Debug("tax calculation not required, skipping",
			zap.String("order_number", o.Number),
		)
		return nil
	}

	o.UpdateTaxTotals()
	if err := s.orders.Save(ctx, o); err != nil {
		return fmt.Errorf("save order %s: %w", o.Number, err)
	}

	s.logger.Info("tax calculation no longer required, stale adjustments removed",
		zap.String("order_number", o.Number),
		zap.Int("removed", removed),
	)
	return nil
}

// applyTaxLines reconciles the order's adjustments so they exactly
// reflect the response: one adjustment per returned line, none for
// items no longer present
func (s *TaxAdjustmentService) applyTaxLines(o *order.Order, resp *avataxdomain.TransactionResponse) {
	included := o.TaxZone != nil && o.TaxZone.IncludedInPrice

	keep := make(map[string]struct{}, len(resp.Lines))
	for _, line := range resp.Lines {
		itemRef := stripNumberPrefix(line.Number)
		if _, ok := o.FindItem(itemRef); !ok {
			s.logger.Warn("tax line for unknown item, skipping",
				zap.String("order_number", o.Number),
				zap.String("line_number", line.Number),
			)
			continue
		}
		o.UpsertTaxAdjustment(itemRef, adjustmentLabel, line.Tax, included)
		keep[itemRef] = struct{}{}
	}

	if removed := o.RemoveTaxAdjustmentsExcept(keep); removed > 0 {
		s.logger.Debug("stale tax adjustments removed",
			zap.String("order_number", o.Number),
			zap.Int("removed", removed),
		)
	}
}

// stripNumberPrefix recovers the item's avatax identifier from a wire
// line number ("LI-<uuid>" or "FR-<uuid>")
func stripNumberPrefix(number string) string {
	for _, prefix := range []string{lineItemNumberPrefix, shipmentNumberPrefix} {
		if strings.HasPrefix(number, prefix) {
			return strings.TrimPrefix(number, prefix)
		}
	}
	return number
}
