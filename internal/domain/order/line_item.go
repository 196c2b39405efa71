package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem represents a purchased product line on an order
type LineItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	AvataxUUID string
	Name       string
	SKU        string
	Quantity   int
	UnitPrice  decimal.Decimal
	// PromoTotal is the promotion amount applied to this line, zero or
	// negative (a discount reduces the amount)
	PromoTotal decimal.Decimal
	// TaxCode is the tax-category code, empty when the category has none
	TaxCode string
	// StockLocation is the ship-from address, set once inventory units
	// have been allocated to the line
	StockLocation *Address
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewLineItem creates a line item with a generated identity
func NewLineItem(orderID uuid.UUID, name, sku string, quantity int, unitPrice decimal.Decimal) *LineItem {
	now := time.Now()
	return &LineItem{
		ID:         uuid.New(),
		OrderID:    orderID,
		AvataxUUID: uuid.NewString(),
		Name:       name,
		SKU:        sku,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		PromoTotal: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Amount returns the pre-discount amount (quantity * unit price)
func (li *LineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Kind returns the item variant tag
func (li *LineItem) Kind() ItemKind { return ItemKindLineItem }

// AvataxID returns the immutable identifier assigned at creation
func (li *LineItem) AvataxID() string { return li.AvataxUUID }

// TaxableQuantity returns the ordered quantity
func (li *LineItem) TaxableQuantity() int { return li.Quantity }

// DiscountedAmount returns the amount after promotions
func (li *LineItem) DiscountedAmount() decimal.Decimal {
	return li.Amount().Add(li.PromoTotal)
}

// ItemTaxCode returns the line's tax-category code, empty when unset
func (li *LineItem) ItemTaxCode() string { return li.TaxCode }

// DisplayName returns the product name
func (li *LineItem) DisplayName() string { return li.Name }

// ItemCode returns the variant SKU
func (li *LineItem) ItemCode() string { return li.SKU }

// IsDiscounted reports whether a promotion has been applied
func (li *LineItem) IsDiscounted() bool { return !li.PromoTotal.IsZero() }

// ShipFrom returns the stock location address once inventory is allocated
func (li *LineItem) ShipFrom() (Address, bool) {
	if li.StockLocation == nil {
		return Address{}, false
	}
	return *li.StockLocation, true
}

var _ Taxable = (*LineItem)(nil)
