package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oms/avatax/internal/domain/order"
	"github.com/oms/avatax/internal/domain/shared"
	"github.com/oms/avatax/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: tx}
}

// FindByID loads an order with its items, shipments and adjustments
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByNumber loads an order by its human-facing number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	return r.findOne(ctx, "number = ?", number)
}

func (r *GormOrderRepository) findOne(ctx context.Context, query string, arg any) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("Shipments").
		Preload("TaxAdjustments").
		Where(query, arg).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists the order. Tax adjustments are replaced wholesale: the
// in-memory set is the source of truth after a recalculation, so rows
// absent from it are deleted.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	var model models.OrderModel
	model.FromDomain(o)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("LineItems", "Shipments", "TaxAdjustments").
			Save(&model).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(model.TaxAdjustments))
		for i := range model.TaxAdjustments {
			adj := &model.TaxAdjustments[i]
			if err := tx.Save(adj).Error; err != nil {
				return err
			}
			keep = append(keep, adj.ID)
		}

		del := tx.Where("order_id = ?", model.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		return del.Delete(&models.TaxAdjustmentModel{}).Error
	})
}

// Ensure GormOrderRepository implements Repository
var _ order.Repository = (*GormOrderRepository)(nil)
