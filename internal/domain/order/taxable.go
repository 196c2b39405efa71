package order

import "github.com/shopspring/decimal"

// ItemKind distinguishes the two taxable item variants of an order
type ItemKind string

const (
	// ItemKindLineItem is a purchased product line
	ItemKindLineItem ItemKind = "line_item"
	// ItemKindShipment is a freight/shipping charge
	ItemKindShipment ItemKind = "shipment"
)

// Taxable is the capability set a taxable item exposes to the tax
// integration: line items and shipments both satisfy it, so the
// serialization layer never branches on concrete types beyond the kind
// tag.
type Taxable interface {
	// Kind returns the item variant tag
	Kind() ItemKind
	// AvataxID returns the immutable identifier assigned at creation
	AvataxID() string
	// TaxableQuantity returns the natural quantity (always 1 for shipments)
	TaxableQuantity() int
	// DiscountedAmount returns the monetary amount after promotions
	DiscountedAmount() decimal.Decimal
	// ItemTaxCode returns the item's own tax code, empty when unset
	ItemTaxCode() string
	// DisplayName returns the human-readable name, empty for shipments
	DisplayName() string
	// ItemCode returns the SKU or equivalent, empty for shipments
	ItemCode() string
	// IsDiscounted reports whether a promotion has been applied to the item
	IsDiscounted() bool
	// ShipFrom returns the resolvable ship-from address, if any
	ShipFrom() (Address, bool)
}
