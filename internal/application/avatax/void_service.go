package avatax

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	avataxdomain "github.com/oms/avatax/internal/domain/avatax"
	"github.com/oms/avatax/internal/domain/shared"
	"go.uber.org/zap"
)

// VoidService cancels a previously committed tax transaction when an
// order is cancelled. An order without an active transaction is a
// no-op: not every order reaches a taxable state before cancellation.
type VoidService struct {
	transactions avataxdomain.TransactionRepository
	client       avataxdomain.TaxClient
	enabled      bool
	logger       *zap.Logger
}

// NewVoidService creates the void orchestrator. enabled is the global
// integration switch.
func NewVoidService(
	transactions avataxdomain.TransactionRepository,
	client avataxdomain.TaxClient,
	enabled bool,
	logger *zap.Logger,
) *VoidService {
	return &VoidService{
		transactions: transactions,
		client:       client,
		enabled:      enabled,
		logger:       logger,
	}
}

// Void locates the order's active transaction, preferring the committed
// SalesInvoice over a SalesOrder estimate, voids it at the external
// service and marks it voided locally. Returns nil when there is
// nothing to void.
func (s *VoidService) Void(ctx context.Context, orderID uuid.UUID) error {
	if !s.enabled {
		return nil
	}

	tx, err := s.findVoidTarget(ctx, orderID)
	if err != nil {
		return err
	}
	if tx == nil {
		s.logger.Debug("no active tax transaction to void",
			zap.String("order_id", orderID.String()),
		)
		return nil
	}

	if err := s.client.VoidTransaction(ctx, tx.Code); err != nil {
		// Surfaced to the caller, but the order's cancellation itself
		// must not be blocked by a failed void.
		s.logger.Error("failed to void tax transaction",
			zap.String("order_id", orderID.String()),
			zap.String("transaction_code", tx.Code),
			zap.String("transaction_type", tx.Type.String()),
			zap.Error(err),
		)
		return fmt.Errorf("void transaction %s: %w", tx.Code, err)
	}

	if err := s.transactions.Void(ctx, tx); err != nil {
		return fmt.Errorf("mark transaction %s voided: %w", tx.Code, err)
	}

	s.logger.Info("tax transaction voided",
		zap.String("order_id", orderID.String()),
		zap.String("transaction_code", tx.Code),
		zap.String("transaction_type", tx.Type.String()),
	)
	return nil
}

// findVoidTarget returns the active SalesInvoice transaction, falling
// back to the SalesOrder estimate, or nil when neither exists
func (s *VoidService) findVoidTarget(ctx context.Context, orderID uuid.UUID) (*avataxdomain.Transaction, error) {
	for _, txType := range []avataxdomain.TransactionType{
		avataxdomain.TransactionTypeSalesInvoice,
		avataxdomain.TransactionTypeSalesOrder,
	} {
		tx, err := s.transactions.FindActive(ctx, orderID, txType)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("find active %s transaction: %w", txType, err)
		}
		return tx, nil
	}
	return nil, nil
}
