package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for orders.
// The tax integration only ever reads orders and rewrites their tax
// adjustments; order identity is owned by the host application.
type Repository interface {
	// FindByID loads an order with its items, shipments and adjustments
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByNumber loads an order by its human-facing number
	FindByNumber(ctx context.Context, number string) (*Order, error)
	// Save persists the order, replacing its tax adjustments with the
	// current in-memory set
	Save(ctx context.Context, o *Order) error
}
