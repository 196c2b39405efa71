package avatax

import (
	"time"

	"github.com/google/uuid"
	"github.com/oms/avatax/internal/domain/shared"
)

// TransactionType distinguishes estimates from committed computations
type TransactionType string

const (
	// TransactionTypeSalesOrder is a non-committed (estimate) tax computation
	TransactionTypeSalesOrder TransactionType = "SalesOrder"
	// TransactionTypeSalesInvoice is a committed tax computation, the
	// one that must be voided on cancellation
	TransactionTypeSalesInvoice TransactionType = "SalesInvoice"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeSalesOrder || t == TransactionTypeSalesInvoice
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// TransactionStatus represents the lifecycle status of a tax transaction
type TransactionStatus string

const (
	TransactionStatusActive TransactionStatus = "active"
	TransactionStatusVoided TransactionStatus = "voided"
)

// Transaction records one interaction with the external tax service for
// one order. Transactions are never deleted: voiding transitions the
// status, keeping an audit trail.
type Transaction struct {
	shared.BaseEntity
	OrderID uuid.UUID
	Type    TransactionType
	// Code is the opaque identifier the external service returned
	Code     string
	Status   TransactionStatus
	VoidedAt *time.Time
}

// NewTransaction creates an active transaction for an order
func NewTransaction(orderID uuid.UUID, txType TransactionType, code string) *Transaction {
	return &Transaction{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		Type:       txType,
		Code:       code,
		Status:     TransactionStatusActive,
	}
}

// IsActive reports whether the transaction has not been voided
func (t *Transaction) IsActive() bool {
	return t.Status == TransactionStatusActive
}

// MarkVoided transitions the transaction to voided. Voiding an already
// voided transaction is a no-op.
func (t *Transaction) MarkVoided() {
	if t.Status == TransactionStatusVoided {
		return
	}
	now := time.Now()
	t.Status = TransactionStatusVoided
	t.VoidedAt = &now
	t.UpdatedAt = now
}

// UpdateCode replaces the external code on an active transaction
func (t *Transaction) UpdateCode(code string) {
	t.Code = code
	t.UpdatedAt = time.Now()
}
