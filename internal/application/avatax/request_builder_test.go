package avatax

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oms/avatax/internal/domain/avatax"
	"github.com/oms/avatax/internal/domain/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTaxableOrder builds an order that requires tax calculation: one
// line item, one shipment, a tax address and a tax zone
func newTaxableOrder() *order.Order {
	o := order.NewOrder("R100001", "USD", "CUST-42")
	o.TaxAddress = &order.Address{Line1: "1 Main St", City: "Sacramento", StateAbbr: "CA", CountryISO: "US", Zipcode: "95814"}
	o.TaxZone = &order.TaxZone{Name: "US-CA"}
	li := order.NewLineItem(o.ID, "Widget", "WID-001", 1, decimal.NewFromInt(25))
	o.LineItems = []order.LineItem{*li}
	sh := order.NewShipment(o.ID, "H1", decimal.NewFromInt(5))
	o.Shipments = []order.Shipment{*sh}
	return o
}

func TestRequestBuilder_Build(t *testing.T) {
	builder := NewRequestBuilder("ACME")

	t.Run("incomplete order builds a SalesOrder estimate", func(t *testing.T) {
		o := newTaxableOrder()
		req, err := builder.Build(o)

		require.NoError(t, err)
		assert.Equal(t, avatax.TransactionTypeSalesOrder, req.Type)
		assert.False(t, req.Commit)
		assert.Equal(t, "R100001", req.Code)
		assert.Equal(t, "ACME", req.CompanyCode)
		assert.Equal(t, "CUST-42", req.CustomerCode)
		assert.Equal(t, "USD", req.CurrencyCode)
		assert.Equal(t, time.Now().Format("2006-01-02"), req.Date)
		assert.Len(t, req.Lines, 2)
	})

	t.Run("completed order builds a committed SalesInvoice", func(t *testing.T) {
		o := newTaxableOrder()
		completedAt := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
		o.Status = order.StatusCompleted
		o.CompletedAt = &completedAt

		req, err := builder.Build(o)

		require.NoError(t, err)
		assert.Equal(t, avatax.TransactionTypeSalesInvoice, req.Type)
		assert.True(t, req.Commit)
		assert.Equal(t, "2026-03-15", req.Date)
	})

	t.Run("order without tax address is not required", func(t *testing.T) {
		o := newTaxableOrder()
		o.TaxAddress = nil

		_, err := builder.Build(o)
		assert.ErrorIs(t, err, avatax.ErrCalculationNotRequired)
	})

	t.Run("order without line items is not required", func(t *testing.T) {
		o := newTaxableOrder()
		o.LineItems = nil

		_, err := builder.Build(o)
		assert.ErrorIs(t, err, avatax.ErrCalculationNotRequired)
	})

	t.Run("order without tax zone fails presentation", func(t *testing.T) {
		o := newTaxableOrder()
		o.TaxZone = nil

		_, err := builder.Build(o)
		assert.ErrorIs(t, err, avatax.ErrMissingTaxZone)
	})

	t.Run("lines preserve item order: line items before shipments", func(t *testing.T) {
		o := newTaxableOrder()
		req, err := builder.Build(o)

		require.NoError(t, err)
		assert.Equal(t, "LI-"+o.LineItems[0].AvataxUUID, req.Lines[0].Number)
		assert.Equal(t, "FR-"+o.Shipments[0].AvataxUUID, req.Lines[1].Number)
	})
}

func TestTransactionTypeFor(t *testing.T) {
	o := order.NewOrder("R1", "USD", "C1")
	assert.Equal(t, avatax.TransactionTypeSalesOrder, TransactionTypeFor(o))

	o.Status = order.StatusCompleted
	assert.Equal(t, avatax.TransactionTypeSalesInvoice, TransactionTypeFor(o))
}

func TestStripNumberPrefix(t *testing.T) {
	id := uuid.NewString()
	assert.Equal(t, id, stripNumberPrefix("LI-"+id))
	assert.Equal(t, id, stripNumberPrefix("FR-"+id))
	assert.Equal(t, id, stripNumberPrefix(id))
}
