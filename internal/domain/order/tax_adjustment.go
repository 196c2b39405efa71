package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxAdjustment is a tax amount attached to the order for a single
// taxable item, keyed by the item's avatax identifier
type TaxAdjustment struct {
	ID      uuid.UUID
	OrderID uuid.UUID
	// ItemRef is the avatax identifier of the item this adjustment belongs to
	ItemRef string
	Label   string
	Amount  decimal.Decimal
	// IncludedInPrice is true when the amount mirrors tax already
	// contained in the displayed price
	IncludedInPrice bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UpsertTaxAdjustment creates or updates the adjustment for the given
// item reference and returns it
func (o *Order) UpsertTaxAdjustment(itemRef, label string, amount decimal.Decimal, includedInPrice bool) *TaxAdjustment {
	now := time.Now()
	for i := range o.TaxAdjustments {
		if o.TaxAdjustments[i].ItemRef == itemRef {
			o.TaxAdjustments[i].Label = label
			o.TaxAdjustments[i].Amount = amount
			o.TaxAdjustments[i].IncludedInPrice = includedInPrice
			o.TaxAdjustments[i].UpdatedAt = now
			return &o.TaxAdjustments[i]
		}
	}
	o.TaxAdjustments = append(o.TaxAdjustments, TaxAdjustment{
		ID:              uuid.New(),
		OrderID:         o.ID,
		ItemRef:         itemRef,
		Label:           label,
		Amount:          amount,
		IncludedInPrice: includedInPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	return &o.TaxAdjustments[len(o.TaxAdjustments)-1]
}

// RemoveTaxAdjustmentsExcept deletes adjustments whose item reference is
// not in keep and returns how many were removed
func (o *Order) RemoveTaxAdjustmentsExcept(keep map[string]struct{}) int {
	kept := o.TaxAdjustments[:0]
	removed := 0
	for _, adj := range o.TaxAdjustments {
		if _, ok := keep[adj.ItemRef]; ok {
			kept = append(kept, adj)
		} else {
			removed++
		}
	}
	o.TaxAdjustments = kept
	return removed
}

// ClearTaxAdjustments removes every tax adjustment from the order
func (o *Order) ClearTaxAdjustments() int {
	removed := len(o.TaxAdjustments)
	o.TaxAdjustments = nil
	return removed
}
