package order

import (
	"time"

	"github.com/oms/avatax/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of an order
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusShipped || target == StatusCompleted || target == StatusCancelled
	case StatusShipped:
		return target == StatusCompleted || target == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// TaxZone describes the tax zone the order falls into
type TaxZone struct {
	Name string
	// IncludedInPrice is true when displayed amounts already include tax
	IncludedInPrice bool
}

// Order is the host aggregate the tax integration collaborates with.
// The integration reads items, addresses and the tax zone; it mutates
// only the tax adjustments and the tax total.
type Order struct {
	shared.BaseAggregateRoot
	Number         string
	CurrencyCode   string
	CustomerCode   string
	Status         Status
	TaxAddress     *Address
	ShipAddress    *Address
	TaxZone        *TaxZone
	LineItems      []LineItem
	Shipments      []Shipment
	TaxAdjustments []TaxAdjustment
	ItemTotal      decimal.Decimal
	ShipmentTotal  decimal.Decimal
	TaxTotal       decimal.Decimal
	Total          decimal.Decimal
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// NewOrder creates a draft order
func NewOrder(number, currencyCode, customerCode string) *Order {
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		CurrencyCode:      currencyCode,
		CustomerCode:      customerCode,
		Status:            StatusDraft,
		ItemTotal:         decimal.Zero,
		ShipmentTotal:     decimal.Zero,
		TaxTotal:          decimal.Zero,
		Total:             decimal.Zero,
	}
}

// AllItems returns the order's line items and shipments as taxable items
func (o *Order) AllItems() []Taxable {
	items := make([]Taxable, 0, len(o.LineItems)+len(o.Shipments))
	for i := range o.LineItems {
		items = append(items, &o.LineItems[i])
	}
	for i := range o.Shipments {
		items = append(items, &o.Shipments[i])
	}
	return items
}

// TaxCalculationRequired reports whether a tax computation is meaningful
// for this order: it must have a tax address and at least one line item.
func (o *Order) TaxCalculationRequired() bool {
	return o.TaxAddress != nil && len(o.LineItems) > 0
}

// IsCompleted reports whether the order has reached the completed state,
// which is when tax computations are committed rather than estimated
func (o *Order) IsCompleted() bool {
	return o.Status == StatusCompleted
}

// Confirm transitions the order from draft to confirmed
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(StatusConfirmed) {
		return shared.ErrInvalidState
	}
	o.Status = StatusConfirmed
	o.UpdatedAt = time.Now()
	return nil
}

// Complete transitions the order to completed and stamps the completion time
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(StatusCompleted) {
		return shared.ErrInvalidState
	}
	now := time.Now()
	o.Status = StatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now
	return nil
}

// Cancel transitions the order to cancelled and emits an OrderCancelledEvent
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.ErrInvalidState
	}
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))
	return nil
}

// RecalculateTotals recomputes the order totals from its items and
// adjustments and emits an OrderTotalsRecalculatedEvent so downstream
// integrations can react
func (o *Order) RecalculateTotals() {
	itemTotal := decimal.Zero
	for i := range o.LineItems {
		itemTotal = itemTotal.Add(o.LineItems[i].DiscountedAmount())
	}
	shipmentTotal := decimal.Zero
	for i := range o.Shipments {
		shipmentTotal = shipmentTotal.Add(o.Shipments[i].DiscountedAmount())
	}

	o.ItemTotal = itemTotal
	o.ShipmentTotal = shipmentTotal
	o.TaxTotal = o.additionalTaxTotal()
	o.Total = itemTotal.Add(shipmentTotal).Add(o.TaxTotal)
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderTotalsRecalculatedEvent(o))
}

// UpdateTaxTotals refreshes the tax total and grand total from the
// current set of tax adjustments, without emitting a recalculation
// event. The tax integration calls this after reconciling adjustments.
func (o *Order) UpdateTaxTotals() {
	o.TaxTotal = o.additionalTaxTotal()
	o.Total = o.ItemTotal.Add(o.ShipmentTotal).Add(o.TaxTotal)
	o.UpdatedAt = time.Now()
}

// additionalTaxTotal sums adjustments that add tax on top of the price.
// Adjustments mirroring tax already included in the price do not change
// the total.
func (o *Order) additionalTaxTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.TaxAdjustments {
		if o.TaxAdjustments[i].IncludedInPrice {
			continue
		}
		total = total.Add(o.TaxAdjustments[i].Amount)
	}
	return total
}

// FindItem returns the taxable item with the given avatax identifier
func (o *Order) FindItem(avataxID string) (Taxable, bool) {
	for _, item := range o.AllItems() {
		if item.AvataxID() == avataxID {
			return item, true
		}
	}
	return nil, false
}
