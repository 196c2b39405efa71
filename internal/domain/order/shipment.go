package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shipment represents a freight charge on an order. For tax purposes a
// shipment is a single-quantity item without a name or SKU.
type Shipment struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	AvataxUUID string
	Number     string
	Cost       decimal.Decimal
	// PromoTotal is the promotion amount applied to the shipment, zero
	// or negative
	PromoTotal decimal.Decimal
	// TaxCode is an explicit freight tax code, empty when unset
	TaxCode string
	// StockLocation is the address the shipment leaves from
	StockLocation *Address
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewShipment creates a shipment with a generated identity
func NewShipment(orderID uuid.UUID, number string, cost decimal.Decimal) *Shipment {
	now := time.Now()
	return &Shipment{
		ID:         uuid.New(),
		OrderID:    orderID,
		AvataxUUID: uuid.NewString(),
		Number:     number,
		Cost:       cost,
		PromoTotal: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Kind returns the item variant tag
func (s *Shipment) Kind() ItemKind { return ItemKindShipment }

// AvataxID returns the immutable identifier assigned at creation
func (s *Shipment) AvataxID() string { return s.AvataxUUID }

// TaxableQuantity is always 1 for shipments
func (s *Shipment) TaxableQuantity() int { return 1 }

// DiscountedAmount returns the shipment cost after promotions
func (s *Shipment) DiscountedAmount() decimal.Decimal {
	return s.Cost.Add(s.PromoTotal)
}

// ItemTaxCode returns the explicit freight tax code, empty when unset
func (s *Shipment) ItemTaxCode() string { return s.TaxCode }

// DisplayName is empty: shipments have no human-readable name
func (s *Shipment) DisplayName() string { return "" }

// ItemCode is empty: shipments have no SKU
func (s *Shipment) ItemCode() string { return "" }

// IsDiscounted reports whether a promotion has been applied
func (s *Shipment) IsDiscounted() bool { return !s.PromoTotal.IsZero() }

// ShipFrom returns the stock location the shipment leaves from
func (s *Shipment) ShipFrom() (Address, bool) {
	if s.StockLocation == nil {
		return Address{}, false
	}
	return *s.StockLocation, true
}

var _ Taxable = (*Shipment)(nil)
