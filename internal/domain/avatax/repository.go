package avatax

import (
	"context"

	"github.com/google/uuid"
)

// TransactionRepository persists tax transactions and enforces the
// at-most-one-active-transaction-per-(order, type) invariant.
type TransactionRepository interface {
	// Record upserts the active transaction for (orderID, txType): when
	// an active one exists its code is updated, otherwise a new one is
	// created. The find-or-create must be atomic; a lost race surfaces
	// as shared.ErrConcurrencyConflict and the caller retries the whole
	// recalculation.
	Record(ctx context.Context, orderID uuid.UUID, txType TransactionType, code string) (*Transaction, error)

	// FindActive returns the active transaction for (orderID, txType),
	// or shared.ErrNotFound when none exists
	FindActive(ctx context.Context, orderID uuid.UUID, txType TransactionType) (*Transaction, error)

	// Void transitions the transaction to voided; voiding an already
	// voided transaction is a no-op
	Void(ctx context.Context, tx *Transaction) error

	// FindAllByOrder returns every transaction recorded for the order,
	// voided ones included, newest first
	FindAllByOrder(ctx context.Context, orderID uuid.UUID) ([]Transaction, error)
}
