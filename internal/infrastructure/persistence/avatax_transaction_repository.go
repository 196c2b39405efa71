package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/oms/avatax/internal/domain/avatax"
	"github.com/oms/avatax/internal/domain/shared"
	"github.com/oms/avatax/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAvataxTransactionRepository implements avatax.TransactionRepository using GORM
type GormAvataxTransactionRepository struct {
	db *gorm.DB
}

// NewGormAvataxTransactionRepository creates a new GormAvataxTransactionRepository
func NewGormAvataxTransactionRepository(db *gorm.DB) *GormAvataxTransactionRepository {
	return &GormAvataxTransactionRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormAvataxTransactionRepository) WithTx(tx *gorm.DB) *GormAvataxTransactionRepository {
	return &GormAvataxTransactionRepository{db: tx}
}

// Record upserts the active transaction for (orderID, txType). The row
// is locked for the duration of the transaction so concurrent
// recalculations serialize instead of creating duplicates; a duplicate
// insert slipping past the lock is caught by the partial unique index
// and reported as a concurrency conflict for the caller to retry.
func (r *GormAvataxTransactionRepository) Record(ctx context.Context, orderID uuid.UUID, txType avatax.TransactionType, code string) (*avatax.Transaction, error) {
	var recorded *avatax.Transaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.AvataxTransactionModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ? AND transaction_type = ? AND status = ?",
				orderID, txType, avatax.TransactionStatusActive).
			First(&model).Error

		switch {
		case err == nil:
			now := time.Now()
			if updateErr := tx.Model(&model).Updates(map[string]any{
				"code":       code,
				"updated_at": now,
			}).Error; updateErr != nil {
				return updateErr
			}
			model.Code = code
			model.UpdatedAt = now
			recorded = model.ToDomain()
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			domainTx := avatax.NewTransaction(orderID, txType, code)
			var createModel models.AvataxTransactionModel
			createModel.FromDomain(domainTx)
			if createErr := tx.Create(&createModel).Error; createErr != nil {
				return createErr
			}
			recorded = domainTx
			return nil

		default:
			return err
		}
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, shared.ErrConcurrencyConflict
		}
		return nil, err
	}
	return recorded, nil
}

// FindActive returns the active transaction for (orderID, txType)
func (r *GormAvataxTransactionRepository) FindActive(ctx context.Context, orderID uuid.UUID, txType avatax.TransactionType) (*avatax.Transaction, error) {
	var model models.AvataxTransactionModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND transaction_type = ? AND status = ?",
			orderID, txType, avatax.TransactionStatusActive).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Void transitions the transaction to voided. Voiding an already voided
// transaction is a no-op.
func (r *GormAvataxTransactionRepository) Void(ctx context.Context, tx *avatax.Transaction) error {
	if !tx.IsActive() {
		return nil
	}
	tx.MarkVoided()

	result := r.db.WithContext(ctx).
		Model(&models.AvataxTransactionModel{}).
		Where("id = ? AND status = ?", tx.ID, avatax.TransactionStatusActive).
		Updates(map[string]any{
			"status":     avatax.TransactionStatusVoided,
			"voided_at":  tx.VoidedAt,
			"updated_at": tx.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	// Zero rows means another caller voided it first, which is fine
	return nil
}

// FindAllByOrder returns every transaction recorded for the order,
// voided ones included, newest first
func (r *GormAvataxTransactionRepository) FindAllByOrder(ctx context.Context, orderID uuid.UUID) ([]avatax.Transaction, error) {
	var txModels []models.AvataxTransactionModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	transactions := make([]avatax.Transaction, len(txModels))
	for i, model := range txModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// Ensure GormAvataxTransactionRepository implements TransactionRepository
var _ avatax.TransactionRepository = (*GormAvataxTransactionRepository)(nil)
