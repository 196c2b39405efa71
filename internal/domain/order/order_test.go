package order

import (
	"testing"

	"github.com/oms/avatax/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderWithItems() *Order {
	o := NewOrder("R200001", "USD", "CUST-1")
	li := NewLineItem(o.ID, "Widget", "WID-001", 2, decimal.NewFromInt(10))
	o.LineItems = []LineItem{*li}
	sh := NewShipment(o.ID, "H1", decimal.NewFromInt(5))
	o.Shipments = []Shipment{*sh}
	return o
}

func TestStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusDraft.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusDraft.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusDraft.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusShipped.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusConfirmed))
}

func TestOrder_TaxCalculationRequired(t *testing.T) {
	t.Run("requires tax address and line items", func(t *testing.T) {
		o := newOrderWithItems()
		assert.False(t, o.TaxCalculationRequired())

		o.TaxAddress = &Address{Line1: "1 Main St"}
		assert.True(t, o.TaxCalculationRequired())

		o.LineItems = nil
		assert.False(t, o.TaxCalculationRequired())
	})

	t.Run("shipments alone do not require calculation", func(t *testing.T) {
		o := NewOrder("R1", "USD", "C1")
		o.TaxAddress = &Address{Line1: "1 Main St"}
		o.Shipments = []Shipment{*NewShipment(o.ID, "H1", decimal.NewFromInt(5))}
		assert.False(t, o.TaxCalculationRequired())
	})
}

func TestOrder_Lifecycle(t *testing.T) {
	t.Run("complete stamps the completion time", func(t *testing.T) {
		o := NewOrder("R1", "USD", "C1")
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Complete())

		assert.True(t, o.IsCompleted())
		assert.NotNil(t, o.CompletedAt)
	})

	t.Run("cancel records the reason and emits an event", func(t *testing.T) {
		o := NewOrder("R1", "USD", "C1")
		require.NoError(t, o.Cancel("out of stock"))

		assert.Equal(t, StatusCancelled, o.Status)
		assert.Equal(t, "out of stock", o.CancelReason)
		assert.NotNil(t, o.CancelledAt)

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderCancelled, events[0].EventType())
	})

	t.Run("cancel on terminal state fails", func(t *testing.T) {
		o := NewOrder("R1", "USD", "C1")
		require.NoError(t, o.Cancel("first"))
		assert.ErrorIs(t, o.Cancel("second"), shared.ErrInvalidState)
	})
}

func TestOrder_RecalculateTotals(t *testing.T) {
	o := newOrderWithItems()
	o.LineItems[0].PromoTotal = decimal.NewFromInt(-2)
	o.RecalculateTotals()

	assert.True(t, o.ItemTotal.Equal(decimal.NewFromInt(18)))
	assert.True(t, o.ShipmentTotal.Equal(decimal.NewFromInt(5)))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(23)))

	events := o.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeOrderTotalsRecalculated, events[0].EventType())
}

func TestOrder_UpdateTaxTotals(t *testing.T) {
	t.Run("sums only additional tax", func(t *testing.T) {
		o := newOrderWithItems()
		o.RecalculateTotals()

		o.UpsertTaxAdjustment("item-a", "Sales Tax", decimal.NewFromFloat(1.50), false)
		o.UpsertTaxAdjustment("item-b", "Sales Tax", decimal.NewFromFloat(0.75), true)
		o.UpdateTaxTotals()

		assert.True(t, o.TaxTotal.Equal(decimal.NewFromFloat(1.50)))
		assert.True(t, o.Total.Equal(decimal.NewFromFloat(26.50)))
	})
}

func TestOrder_UpsertTaxAdjustment(t *testing.T) {
	t.Run("creates then updates in place", func(t *testing.T) {
		o := newOrderWithItems()
		o.UpsertTaxAdjustment("ref-1", "Sales Tax", decimal.NewFromInt(1), false)
		o.UpsertTaxAdjustment("ref-1", "Sales Tax", decimal.NewFromInt(2), false)

		require.Len(t, o.TaxAdjustments, 1)
		assert.True(t, o.TaxAdjustments[0].Amount.Equal(decimal.NewFromInt(2)))
	})
}

func TestOrder_RemoveTaxAdjustmentsExcept(t *testing.T) {
	o := newOrderWithItems()
	o.UpsertTaxAdjustment("keep", "Sales Tax", decimal.NewFromInt(1), false)
	o.UpsertTaxAdjustment("drop-1", "Sales Tax", decimal.NewFromInt(2), false)
	o.UpsertTaxAdjustment("drop-2", "Sales Tax", decimal.NewFromInt(3), false)

	removed := o.RemoveTaxAdjustmentsExcept(map[string]struct{}{"keep": {}})

	assert.Equal(t, 2, removed)
	require.Len(t, o.TaxAdjustments, 1)
	assert.Equal(t, "keep", o.TaxAdjustments[0].ItemRef)
}

func TestOrder_FindItem(t *testing.T) {
	o := newOrderWithItems()

	item, ok := o.FindItem(o.LineItems[0].AvataxUUID)
	require.True(t, ok)
	assert.Equal(t, ItemKindLineItem, item.Kind())

	item, ok = o.FindItem(o.Shipments[0].AvataxUUID)
	require.True(t, ok)
	assert.Equal(t, ItemKindShipment, item.Kind())

	_, ok = o.FindItem("nope")
	assert.False(t, ok)
}

func TestLineItem_Taxable(t *testing.T) {
	li := NewLineItem(NewOrder("R1", "USD", "C1").ID, "Widget", "WID-001", 3, decimal.NewFromFloat(9.99))

	assert.True(t, li.Amount().Equal(decimal.NewFromFloat(29.97)))
	assert.Equal(t, 3, li.TaxableQuantity())
	assert.False(t, li.IsDiscounted())

	li.PromoTotal = decimal.NewFromFloat(-5)
	assert.True(t, li.IsDiscounted())
	assert.True(t, li.DiscountedAmount().Equal(decimal.NewFromFloat(24.97)))

	_, ok := li.ShipFrom()
	assert.False(t, ok)
	li.StockLocation = &Address{Line1: "Warehouse"}
	addr, ok := li.ShipFrom()
	require.True(t, ok)
	assert.Equal(t, "Warehouse", addr.Line1)
}

func TestShipment_Taxable(t *testing.T) {
	sh := NewShipment(NewOrder("R1", "USD", "C1").ID, "H1", decimal.NewFromInt(12))

	assert.Equal(t, 1, sh.TaxableQuantity())
	assert.Empty(t, sh.DisplayName())
	assert.Empty(t, sh.ItemCode())
	assert.True(t, sh.DiscountedAmount().Equal(decimal.NewFromInt(12)))
}
