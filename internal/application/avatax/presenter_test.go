package avatax

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/oms/avatax/internal/domain/avatax"
	"github.com/oms/avatax/internal/domain/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLineItem() *order.LineItem {
	li := order.NewLineItem(uuid.New(), "Widget", "WID-001", 2, decimal.NewFromFloat(19.99))
	li.TaxCode = ""
	return li
}

func newTestTaxZone(included bool) *order.TaxZone {
	return &order.TaxZone{Name: "US-CA", IncludedInPrice: included}
}

func TestItemPresenter_Present(t *testing.T) {
	t.Run("line item with defaults", func(t *testing.T) {
		li := newTestLineItem()
		doc, err := NewItemPresenter(li, newTestTaxZone(false), nil).Present()

		require.NoError(t, err)
		assert.Equal(t, "LI-"+li.AvataxUUID, doc.Number)
		assert.Equal(t, "Widget", doc.Description)
		assert.Equal(t, "WID-001", doc.ItemCode)
		assert.Equal(t, 2, doc.Quantity)
		assert.True(t, doc.Amount.Equal(decimal.NewFromFloat(39.98)))
		assert.Equal(t, DefaultLineItemTaxCode, doc.TaxCode)
		assert.False(t, doc.Discounted)
		assert.False(t, doc.TaxIncluded)
	})

	t.Run("shipment gets FR prefix and freight tax code", func(t *testing.T) {
		sh := order.NewShipment(uuid.New(), "H1", decimal.NewFromInt(10))
		doc, err := NewItemPresenter(sh, newTestTaxZone(false), nil).Present()

		require.NoError(t, err)
		assert.Equal(t, "FR-"+sh.AvataxUUID, doc.Number)
		assert.Equal(t, DefaultShipmentTaxCode, doc.TaxCode)
		assert.Equal(t, 1, doc.Quantity)
		assert.Empty(t, doc.Description)
		assert.Empty(t, doc.ItemCode)
	})

	t.Run("item tax code wins over defaults", func(t *testing.T) {
		li := newTestLineItem()
		li.TaxCode = "PC040100"
		doc, err := NewItemPresenter(li, newTestTaxZone(false), nil).Present()

		require.NoError(t, err)
		assert.Equal(t, "PC040100", doc.TaxCode)
	})

	t.Run("missing tax zone fails", func(t *testing.T) {
		li := newTestLineItem()
		_, err := NewItemPresenter(li, nil, nil).Present()

		assert.ErrorIs(t, err, avatax.ErrMissingTaxZone)
	})

	t.Run("tax included follows the zone", func(t *testing.T) {
		li := newTestLineItem()
		doc, err := NewItemPresenter(li, newTestTaxZone(true), nil).Present()

		require.NoError(t, err)
		assert.True(t, doc.TaxIncluded)
	})

	t.Run("description truncated to 256 runes", func(t *testing.T) {
		li := newTestLineItem()
		li.Name = strings.Repeat("ü", 300)
		doc, err := NewItemPresenter(li, newTestTaxZone(false), nil).Present()

		require.NoError(t, err)
		assert.Equal(t, 256, len([]rune(doc.Description)))
		assert.Equal(t, strings.Repeat("ü", 256), doc.Description)
	})

	t.Run("discounted reflects promo total", func(t *testing.T) {
		li := newTestLineItem()
		li.PromoTotal = decimal.NewFromFloat(-5.00)
		doc, err := NewItemPresenter(li, newTestTaxZone(false), nil).Present()

		require.NoError(t, err)
		assert.True(t, doc.Discounted)
		assert.True(t, doc.Amount.Equal(decimal.NewFromFloat(34.98)))
	})

	t.Run("custom quantity and amount overrides", func(t *testing.T) {
		li := newTestLineItem()
		doc, err := NewItemPresenter(li, newTestTaxZone(false), nil,
			WithCustomQuantity(7),
			WithCustomAmount(decimal.NewFromInt(100)),
		).Present()

		require.NoError(t, err)
		assert.Equal(t, 7, doc.Quantity)
		assert.True(t, doc.Amount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("no stock location yields empty addresses", func(t *testing.T) {
		li := newTestLineItem()
		shipTo := &order.Address{Line1: "1 Main St", City: "Sacramento"}
		doc, err := NewItemPresenter(li, newTestTaxZone(false), shipTo).Present()

		require.NoError(t, err)
		assert.Empty(t, doc.Addresses)
	})

	t.Run("stock location yields ship-from and ship-to", func(t *testing.T) {
		li := newTestLineItem()
		li.StockLocation = &order.Address{Line1: "2 Warehouse Rd", City: "Reno", StateAbbr: "NV", CountryISO: "US", Zipcode: "89501"}
		shipTo := &order.Address{Line1: "1 Main St", City: "Sacramento", StateAbbr: "CA", CountryISO: "US", Zipcode: "95814"}
		doc, err := NewItemPresenter(li, newTestTaxZone(false), shipTo).Present()

		require.NoError(t, err)
		require.Len(t, doc.Addresses, 2)
		assert.Equal(t, "2 Warehouse Rd", doc.Addresses[avatax.AddressRoleShipFrom].Line1)
		assert.Equal(t, "1 Main St", doc.Addresses[avatax.AddressRoleShipTo].Line1)
	})

	t.Run("nil ship-to yields ship-from only", func(t *testing.T) {
		li := newTestLineItem()
		li.StockLocation = &order.Address{Line1: "2 Warehouse Rd"}
		doc, err := NewItemPresenter(li, newTestTaxZone(false), nil).Present()

		require.NoError(t, err)
		require.Len(t, doc.Addresses, 1)
		_, ok := doc.Addresses[avatax.AddressRoleShipTo]
		assert.False(t, ok)
	})
}

func TestItemPresenter_JSONShape(t *testing.T) {
	t.Run("shipment omits description and itemCode keys", func(t *testing.T) {
		sh := order.NewShipment(uuid.New(), "H1", decimal.NewFromInt(10))
		doc, err := NewItemPresenter(sh, newTestTaxZone(false), nil).Present()
		require.NoError(t, err)

		raw, err := json.Marshal(doc)
		require.NoError(t, err)

		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &m))
		_, hasDescription := m["description"]
		_, hasItemCode := m["itemCode"]
		assert.False(t, hasDescription)
		assert.False(t, hasItemCode)
	})

	t.Run("empty addresses serialize as empty object", func(t *testing.T) {
		li := newTestLineItem()
		doc, err := NewItemPresenter(li, newTestTaxZone(false), nil).Present()
		require.NoError(t, err)

		raw, err := json.Marshal(doc)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"addresses":{}`)
	})

	t.Run("amount marshals as bare number", func(t *testing.T) {
		li := newTestLineItem()
		doc, err := NewItemPresenter(li, newTestTaxZone(false), nil).Present()
		require.NoError(t, err)

		raw, err := json.Marshal(doc)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"amount":39.98`)
	})
}

func TestAddressPresenter_Present(t *testing.T) {
	t.Run("maps all fields", func(t *testing.T) {
		addr := order.Address{
			Line1:      "123 Elm Street",
			Line2:      "Suite 4",
			City:       "Springfield",
			StateAbbr:  "IL",
			CountryISO: "US",
			Zipcode:    "62701",
		}
		doc := NewAddressPresenter(addr, avatax.AddressRoleShipTo).Present()

		assert.Equal(t, "123 Elm Street", doc.Line1)
		assert.Equal(t, "Suite 4", doc.Line2)
		assert.Equal(t, "Springfield", doc.City)
		assert.Equal(t, "IL", doc.Region)
		assert.Equal(t, "US", doc.Country)
		assert.Equal(t, "62701", doc.PostalCode)
	})

	t.Run("truncates line1 and line2 to 50 runes", func(t *testing.T) {
		addr := order.Address{
			Line1: strings.Repeat("a", 60),
			Line2: strings.Repeat("é", 55),
		}
		doc := NewAddressPresenter(addr, avatax.AddressRoleShipFrom).Present()

		assert.Equal(t, strings.Repeat("a", 50), doc.Line1)
		assert.Equal(t, strings.Repeat("é", 50), doc.Line2)
	})

	t.Run("short and empty fields pass through", func(t *testing.T) {
		doc := NewAddressPresenter(order.Address{Line1: "short"}, avatax.AddressRoleShipFrom).Present()

		assert.Equal(t, "short", doc.Line1)
		assert.Empty(t, doc.Line2)
	})

	t.Run("role is retained", func(t *testing.T) {
		p := NewAddressPresenter(order.Address{}, avatax.AddressRoleShipFrom)
		assert.Equal(t, avatax.AddressRoleShipFrom, p.Role())
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "", truncate("", 5))
	// multi-byte characters are never cut mid-rune
	assert.Equal(t, "日本", truncate("日本語", 2))
}
