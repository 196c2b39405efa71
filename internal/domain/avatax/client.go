package avatax

import (
	"context"

	"github.com/shopspring/decimal"
)

// AddressRole identifies the role an address plays on a line
type AddressRole string

const (
	AddressRoleShipFrom AddressRole = "ShipFrom"
	AddressRoleShipTo   AddressRole = "ShipTo"
)

// Amount is a decimal that marshals as a bare JSON number, which is
// what the AvaTax API expects for monetary fields
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal for wire serialization
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// MarshalJSON renders the amount without surrounding quotes
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts both bare numbers and quoted strings
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// AddressDocument is the wire-level address sub-document
type AddressDocument struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode"`
}

// LineDocument is the wire-level line item of a tax computation request
type LineDocument struct {
	Number      string                          `json:"number"`
	Description string                          `json:"description,omitempty"`
	ItemCode    string                          `json:"itemCode,omitempty"`
	Quantity    int                             `json:"quantity"`
	Amount      Amount                          `json:"amount"`
	TaxCode     string                          `json:"taxCode"`
	Discounted  bool                            `json:"discounted"`
	Addresses   map[AddressRole]AddressDocument `json:"addresses"`
	TaxIncluded bool                            `json:"taxIncluded"`
}

// CreateTransactionRequest is the full tax computation request document.
// It is built fresh per invocation and never persisted.
type CreateTransactionRequest struct {
	Type TransactionType `json:"type"`
	// Code is the idempotency code for the document, the order number
	Code         string         `json:"code"`
	CompanyCode  string         `json:"companyCode"`
	Date         string         `json:"date"`
	CustomerCode string         `json:"customerCode"`
	CurrencyCode string         `json:"currencyCode"`
	Commit       bool           `json:"commit"`
	Lines        []LineDocument `json:"lines"`
}

// TaxLine is one line of a tax computation response, keyed back to the
// request line by its number
type TaxLine struct {
	Number string          `json:"lineNumber"`
	Tax    decimal.Decimal `json:"tax"`
	Rate   decimal.Decimal `json:"rate"`
}

// TransactionResponse is the external service's answer to a tax
// computation request
type TransactionResponse struct {
	Code     string          `json:"code"`
	TotalTax decimal.Decimal `json:"totalTax"`
	Lines    []TaxLine       `json:"lines"`
}

// TaxClient talks to the external tax service. Implementations must
// bound every call with a timeout and classify failures with the error
// kinds of this package.
type TaxClient interface {
	// CreateTransaction submits a tax computation request and returns
	// the committed or estimated result
	CreateTransaction(ctx context.Context, req *CreateTransactionRequest) (*TransactionResponse, error)
	// VoidTransaction cancels a previously committed transaction by its
	// external code
	VoidTransaction(ctx context.Context, code string) error
}
