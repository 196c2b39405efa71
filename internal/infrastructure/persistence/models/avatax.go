package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/oms/avatax/internal/domain/avatax"
)

// AvataxTransactionModel is the persistence model for tax transactions.
// The at-most-one-active-per-(order, type) invariant is backed by a
// partial unique index created in the migrations:
//
//	CREATE UNIQUE INDEX idx_avatax_transactions_active
//	ON avatax_transactions (order_id, transaction_type)
//	WHERE status = 'active'
type AvataxTransactionModel struct {
	BaseModel
	OrderID         uuid.UUID                `gorm:"type:uuid;not null;index"`
	TransactionType avatax.TransactionType   `gorm:"type:varchar(20);not null"`
	Code            string                   `gorm:"type:varchar(100);not null"`
	Status          avatax.TransactionStatus `gorm:"type:varchar(10);not null;default:'active'"`
	VoidedAt        *time.Time
}

// TableName returns the table name for GORM
func (AvataxTransactionModel) TableName() string {
	return "avatax_transactions"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *AvataxTransactionModel) ToDomain() *avatax.Transaction {
	return &avatax.Transaction{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderID:    m.OrderID,
		Type:       m.TransactionType,
		Code:       m.Code,
		Status:     m.Status,
		VoidedAt:   m.VoidedAt,
	}
}

// FromDomain populates the persistence model from a domain Transaction
func (m *AvataxTransactionModel) FromDomain(tx *avatax.Transaction) {
	m.FromDomainBaseEntity(tx.BaseEntity)
	m.OrderID = tx.OrderID
	m.TransactionType = tx.Type
	m.Code = tx.Code
	m.Status = tx.Status
	m.VoidedAt = tx.VoidedAt
}
