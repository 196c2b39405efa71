package avatax

import (
	"time"

	"github.com/oms/avatax/internal/domain/avatax"
	"github.com/oms/avatax/internal/domain/order"
)

// RequestBuilder composes an order's items and addresses into one tax
// computation request document
type RequestBuilder struct {
	companyCode string
}

// NewRequestBuilder creates a builder for the given AvaTax company code
func NewRequestBuilder(companyCode string) *RequestBuilder {
	return &RequestBuilder{companyCode: companyCode}
}

// Build produces the request document for the order. Callers must check
// order.TaxCalculationRequired first; Build returns
// avatax.ErrCalculationNotRequired otherwise so the external service is
// never called with an empty or invalid request.
func (b *RequestBuilder) Build(o *order.Order) (*avatax.CreateTransactionRequest, error) {
	if !o.TaxCalculationRequired() {
		return nil, avatax.ErrCalculationNotRequired
	}

	items := o.AllItems()
	lines := make([]avatax.LineDocument, 0, len(items))
	for _, item := range items {
		line, err := NewItemPresenter(item, o.TaxZone, o.TaxAddress).Present()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	committed := o.IsCompleted()
	return &avatax.CreateTransactionRequest{
		Type:         TransactionTypeFor(o),
		Code:         o.Number,
		CompanyCode:  b.companyCode,
		Date:         b.documentDate(o),
		CustomerCode: o.CustomerCode,
		CurrencyCode: o.CurrencyCode,
		Commit:       committed,
		Lines:        lines,
	}, nil
}

// TransactionTypeFor returns the transaction type an order's tax
// computation uses: committed invoices for completed orders, estimates
// otherwise
func TransactionTypeFor(o *order.Order) avatax.TransactionType {
	if o.IsCompleted() {
		return avatax.TransactionTypeSalesInvoice
	}
	return avatax.TransactionTypeSalesOrder
}

// documentDate is the completion date for completed orders, today for
// estimates
func (b *RequestBuilder) documentDate(o *order.Order) string {
	const layout = "2006-01-02"
	if o.CompletedAt != nil {
		return o.CompletedAt.Format(layout)
	}
	return time.Now().Format(layout)
}
