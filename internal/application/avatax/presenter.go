package avatax

import (
	"github.com/oms/avatax/internal/domain/avatax"
	"github.com/oms/avatax/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Default tax codes applied when an item carries none of its own
const (
	// DefaultLineItemTaxCode is AvaTax's generic taxable-goods code
	DefaultLineItemTaxCode = "P0000000"
	// DefaultShipmentTaxCode is AvaTax's freight code
	DefaultShipmentTaxCode = "FR"
)

// Line number prefixes per item kind
const (
	lineItemNumberPrefix = "LI-"
	shipmentNumberPrefix = "FR-"
)

// Wire field length limits imposed by the external service
const (
	maxDescriptionLength = 256
	maxAddressLineLength = 50
)

// ItemPresenter serializes a single taxable item into the wire-level
// line of a tax computation request
type ItemPresenter struct {
	item           order.Taxable
	taxZone        *order.TaxZone
	shipTo         *order.Address
	customQuantity *int
	customAmount   *decimal.Decimal
}

// ItemPresenterOption is a functional option for ItemPresenter
type ItemPresenterOption func(*ItemPresenter)

// WithCustomQuantity overrides the item's natural quantity
func WithCustomQuantity(quantity int) ItemPresenterOption {
	return func(p *ItemPresenter) {
		p.customQuantity = &quantity
	}
}

// WithCustomAmount overrides the item's discounted amount
func WithCustomAmount(amount decimal.Decimal) ItemPresenterOption {
	return func(p *ItemPresenter) {
		p.customAmount = &amount
	}
}

// NewItemPresenter creates a presenter for one item. taxZone is the
// owning order's tax zone; shipTo is the order's tax address and may be
// nil when the order has none.
func NewItemPresenter(item order.Taxable, taxZone *order.TaxZone, shipTo *order.Address, opts ...ItemPresenterOption) *ItemPresenter {
	p := &ItemPresenter{
		item:    item,
		taxZone: taxZone,
		shipTo:  shipTo,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Present builds the line document. It fails only when the order has no
// tax zone at all, which leaves the tax-inclusion state undefined;
// malformed-but-present data is truncated or defaulted silently.
func (p *ItemPresenter) Present() (avatax.LineDocument, error) {
	if p.taxZone == nil {
		return avatax.LineDocument{}, avatax.ErrMissingTaxZone
	}

	doc := avatax.LineDocument{
		Number:      p.numberPrefix() + p.item.AvataxID(),
		Description: truncate(p.item.DisplayName(), maxDescriptionLength),
		ItemCode:    p.item.ItemCode(),
		Quantity:    p.quantity(),
		Amount:      avatax.NewAmount(p.amount()),
		TaxCode:     p.taxCode(),
		Discounted:  p.item.IsDiscounted(),
		Addresses:   p.addresses(),
		TaxIncluded: p.taxZone.IncludedInPrice,
	}
	return doc, nil
}

func (p *ItemPresenter) numberPrefix() string {
	if p.item.Kind() == order.ItemKindShipment {
		return shipmentNumberPrefix
	}
	return lineItemNumberPrefix
}

func (p *ItemPresenter) quantity() int {
	if p.customQuantity != nil {
		return *p.customQuantity
	}
	return p.item.TaxableQuantity()
}

func (p *ItemPresenter) amount() decimal.Decimal {
	if p.customAmount != nil {
		return *p.customAmount
	}
	return p.item.DiscountedAmount()
}

func (p *ItemPresenter) taxCode() string {
	if code := p.item.ItemTaxCode(); code != "" {
		return code
	}
	if p.item.Kind() == order.ItemKindShipment {
		return DefaultShipmentTaxCode
	}
	return DefaultLineItemTaxCode
}

// addresses is populated only when the item carries a resolvable
// ship-from address; an item without allocated inventory yields an
// empty mapping, not an error
func (p *ItemPresenter) addresses() map[avatax.AddressRole]avatax.AddressDocument {
	addresses := make(map[avatax.AddressRole]avatax.AddressDocument)

	shipFrom, ok := p.item.ShipFrom()
	if !ok {
		return addresses
	}

	addresses[avatax.AddressRoleShipFrom] = NewAddressPresenter(shipFrom, avatax.AddressRoleShipFrom).Present()
	if p.shipTo != nil {
		addresses[avatax.AddressRoleShipTo] = NewAddressPresenter(*p.shipTo, avatax.AddressRoleShipTo).Present()
	}
	return addresses
}

// AddressPresenter serializes a physical address into the wire-level
// address sub-document. It is a pure transform: no network or
// persistence side effects.
type AddressPresenter struct {
	address order.Address
	role    avatax.AddressRole
}

// NewAddressPresenter creates a presenter for one address in one role
func NewAddressPresenter(address order.Address, role avatax.AddressRole) *AddressPresenter {
	return &AddressPresenter{address: address, role: role}
}

// Role returns the address role this presenter serializes for
func (p *AddressPresenter) Role() avatax.AddressRole {
	return p.role
}

// Present builds the address document, truncating line1/line2 to the
// wire limit. Truncation never fails, even on short or absent fields.
func (p *AddressPresenter) Present() avatax.AddressDocument {
	return avatax.AddressDocument{
		Line1:      truncate(p.address.Line1, maxAddressLineLength),
		Line2:      truncate(p.address.Line2, maxAddressLineLength),
		City:       p.address.City,
		Region:     p.address.StateAbbr,
		Country:    p.address.CountryISO,
		PostalCode: p.address.Zipcode,
	}
}

// truncate returns the first max characters of s. Character here means
// rune: a multi-byte name must not be cut mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
