package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/oms/avatax/internal/domain/order"
	"github.com/shopspring/decimal"
)

// AddressColumns maps the order.Address value object onto a set of
// embedded columns
type AddressColumns struct {
	Line1      string `gorm:"type:varchar(255)"`
	Line2      string `gorm:"type:varchar(255)"`
	City       string `gorm:"type:varchar(100)"`
	StateAbbr  string `gorm:"type:varchar(10)"`
	CountryISO string `gorm:"type:varchar(2)"`
	Zipcode    string `gorm:"type:varchar(20)"`
}

// ToDomain converts the embedded columns to a domain address, returning
// nil when every column is empty
func (a AddressColumns) ToDomain() *order.Address {
	addr := order.Address{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		StateAbbr:  a.StateAbbr,
		CountryISO: a.CountryISO,
		Zipcode:    a.Zipcode,
	}
	if addr.IsZero() {
		return nil
	}
	return &addr
}

// FromDomainAddress populates the columns from a domain address
func FromDomainAddress(addr *order.Address) AddressColumns {
	if addr == nil {
		return AddressColumns{}
	}
	return AddressColumns{
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		StateAbbr:  addr.StateAbbr,
		CountryISO: addr.CountryISO,
		Zipcode:    addr.Zipcode,
	}
}

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	Number             string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	CurrencyCode       string              `gorm:"type:varchar(3);not null"`
	CustomerCode       string              `gorm:"type:varchar(100);not null"`
	Status             order.Status        `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	TaxZoneName        string              `gorm:"type:varchar(100)"`
	TaxIncludedInPrice bool                `gorm:"not null;default:false"`
	HasTaxZone         bool                `gorm:"not null;default:false"`
	TaxAddress         AddressColumns      `gorm:"embedded;embeddedPrefix:tax_"`
	ShipAddress        AddressColumns      `gorm:"embedded;embeddedPrefix:ship_"`
	LineItems          []LineItemModel     `gorm:"foreignKey:OrderID;references:ID"`
	Shipments          []ShipmentModel     `gorm:"foreignKey:OrderID;references:ID"`
	TaxAdjustments     []TaxAdjustmentModel `gorm:"foreignKey:OrderID;references:ID"`
	ItemTotal          decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	ShipmentTotal      decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TaxTotal           decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Total              decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	CompletedAt        *time.Time          `gorm:"index"`
	CancelledAt        *time.Time
	CancelReason       string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		Number:       m.Number,
		CurrencyCode: m.CurrencyCode,
		CustomerCode: m.CustomerCode,
		Status:       m.Status,
		TaxAddress:   m.TaxAddress.ToDomain(),
		ShipAddress:  m.ShipAddress.ToDomain(),
		ItemTotal:    m.ItemTotal,
		ShipmentTotal: m.ShipmentTotal,
		TaxTotal:     m.TaxTotal,
		Total:        m.Total,
		CompletedAt:  m.CompletedAt,
		CancelledAt:  m.CancelledAt,
		CancelReason: m.CancelReason,
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)

	if m.HasTaxZone {
		o.TaxZone = &order.TaxZone{
			Name:            m.TaxZoneName,
			IncludedInPrice: m.TaxIncludedInPrice,
		}
	}

	o.LineItems = make([]order.LineItem, len(m.LineItems))
	for i := range m.LineItems {
		o.LineItems[i] = *m.LineItems[i].ToDomain()
	}
	o.Shipments = make([]order.Shipment, len(m.Shipments))
	for i := range m.Shipments {
		o.Shipments[i] = *m.Shipments[i].ToDomain()
	}
	o.TaxAdjustments = make([]order.TaxAdjustment, len(m.TaxAdjustments))
	for i := range m.TaxAdjustments {
		o.TaxAdjustments[i] = *m.TaxAdjustments[i].ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Number = o.Number
	m.CurrencyCode = o.CurrencyCode
	m.CustomerCode = o.CustomerCode
	m.Status = o.Status
	m.TaxAddress = FromDomainAddress(o.TaxAddress)
	m.ShipAddress = FromDomainAddress(o.ShipAddress)
	m.ItemTotal = o.ItemTotal
	m.ShipmentTotal = o.ShipmentTotal
	m.TaxTotal = o.TaxTotal
	m.Total = o.Total
	m.CompletedAt = o.CompletedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason

	if o.TaxZone != nil {
		m.HasTaxZone = true
		m.TaxZoneName = o.TaxZone.Name
		m.TaxIncludedInPrice = o.TaxZone.IncludedInPrice
	} else {
		m.HasTaxZone = false
		m.TaxZoneName = ""
		m.TaxIncludedInPrice = false
	}

	m.LineItems = make([]LineItemModel, len(o.LineItems))
	for i := range o.LineItems {
		m.LineItems[i].FromDomain(&o.LineItems[i])
	}
	m.Shipments = make([]ShipmentModel, len(o.Shipments))
	for i := range o.Shipments {
		m.Shipments[i].FromDomain(&o.Shipments[i])
	}
	m.TaxAdjustments = make([]TaxAdjustmentModel, len(o.TaxAdjustments))
	for i := range o.TaxAdjustments {
		m.TaxAdjustments[i].FromDomain(&o.TaxAdjustments[i])
	}
}

// LineItemModel is the persistence model for order line items
type LineItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	AvataxUUID       string          `gorm:"type:uuid;not null;uniqueIndex"`
	Name             string          `gorm:"type:varchar(500);not null"`
	SKU              string          `gorm:"type:varchar(100)"`
	Quantity         int             `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PromoTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxCode          string          `gorm:"type:varchar(25)"`
	HasStockLocation bool            `gorm:"not null;default:false"`
	StockLocation    AddressColumns  `gorm:"embedded;embeddedPrefix:stock_"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "order_line_items"
}

// ToDomain converts the persistence model to a domain LineItem
func (m *LineItemModel) ToDomain() *order.LineItem {
	li := &order.LineItem{
		ID:         m.ID,
		OrderID:    m.OrderID,
		AvataxUUID: m.AvataxUUID,
		Name:       m.Name,
		SKU:        m.SKU,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		PromoTotal: m.PromoTotal,
		TaxCode:    m.TaxCode,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.HasStockLocation {
		li.StockLocation = m.StockLocation.ToDomain()
	}
	return li
}

// FromDomain populates the persistence model from a domain LineItem
func (m *LineItemModel) FromDomain(li *order.LineItem) {
	m.ID = li.ID
	m.OrderID = li.OrderID
	m.AvataxUUID = li.AvataxUUID
	m.Name = li.Name
	m.SKU = li.SKU
	m.Quantity = li.Quantity
	m.UnitPrice = li.UnitPrice
	m.PromoTotal = li.PromoTotal
	m.TaxCode = li.TaxCode
	m.HasStockLocation = li.StockLocation != nil
	m.StockLocation = FromDomainAddress(li.StockLocation)
	m.CreatedAt = li.CreatedAt
	m.UpdatedAt = li.UpdatedAt
}

// ShipmentModel is the persistence model for order shipments
type ShipmentModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	AvataxUUID       string          `gorm:"type:uuid;not null;uniqueIndex"`
	Number           string          `gorm:"type:varchar(50)"`
	Cost             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PromoTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxCode          string          `gorm:"type:varchar(25)"`
	HasStockLocation bool            `gorm:"not null;default:false"`
	StockLocation    AddressColumns  `gorm:"embedded;embeddedPrefix:stock_"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "order_shipments"
}

// ToDomain converts the persistence model to a domain Shipment
func (m *ShipmentModel) ToDomain() *order.Shipment {
	s := &order.Shipment{
		ID:         m.ID,
		OrderID:    m.OrderID,
		AvataxUUID: m.AvataxUUID,
		Number:     m.Number,
		Cost:       m.Cost,
		PromoTotal: m.PromoTotal,
		TaxCode:    m.TaxCode,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.HasStockLocation {
		s.StockLocation = m.StockLocation.ToDomain()
	}
	return s
}

// FromDomain populates the persistence model from a domain Shipment
func (m *ShipmentModel) FromDomain(s *order.Shipment) {
	m.ID = s.ID
	m.OrderID = s.OrderID
	m.AvataxUUID = s.AvataxUUID
	m.Number = s.Number
	m.Cost = s.Cost
	m.PromoTotal = s.PromoTotal
	m.TaxCode = s.TaxCode
	m.HasStockLocation = s.StockLocation != nil
	m.StockLocation = FromDomainAddress(s.StockLocation)
	m.CreatedAt = s.CreatedAt
	m.UpdatedAt = s.UpdatedAt
}

// TaxAdjustmentModel is the persistence model for order tax adjustments
type TaxAdjustmentModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_tax_adjustment_order_item,priority:1"`
	ItemRef         string          `gorm:"type:uuid;not null;uniqueIndex:idx_tax_adjustment_order_item,priority:2"`
	Label           string          `gorm:"type:varchar(100);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IncludedInPrice bool            `gorm:"not null;default:false"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaxAdjustmentModel) TableName() string {
	return "order_tax_adjustments"
}

// ToDomain converts the persistence model to a domain TaxAdjustment
func (m *TaxAdjustmentModel) ToDomain() *order.TaxAdjustment {
	return &order.TaxAdjustment{
		ID:              m.ID,
		OrderID:         m.OrderID,
		ItemRef:         m.ItemRef,
		Label:           m.Label,
		Amount:          m.Amount,
		IncludedInPrice: m.IncludedInPrice,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain TaxAdjustment
func (m *TaxAdjustmentModel) FromDomain(adj *order.TaxAdjustment) {
	m.ID = adj.ID
	m.OrderID = adj.OrderID
	m.ItemRef = adj.ItemRef
	m.Label = adj.Label
	m.Amount = adj.Amount
	m.IncludedInPrice = adj.IncludedInPrice
	m.CreatedAt = adj.CreatedAt
	m.UpdatedAt = adj.UpdatedAt
}
