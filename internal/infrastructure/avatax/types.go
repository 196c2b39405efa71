package avatax

import "github.com/shopspring/decimal"

// transactionModel is the service's representation of a created or
// adjusted transaction
type transactionModel struct {
	ID       int64                  `json:"id"`
	Code     string                 `json:"code"`
	Status   string                 `json:"status"`
	TotalTax decimal.Decimal        `json:"totalTax"`
	Lines    []transactionLineModel `json:"lines"`
}

// transactionLineModel is one line of the service's transaction document
type transactionLineModel struct {
	LineNumber string          `json:"lineNumber"`
	Tax        decimal.Decimal `json:"tax"`
	Rate       decimal.Decimal `json:"rate"`
	TaxCode    string          `json:"taxCode"`
}

// errorResponse is the service's error envelope
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail carries the service-provided error information
type errorDetail struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []errorDetailEntry `json:"details"`
}

type errorDetailEntry struct {
	Code        string `json:"code"`
	Number      int    `json:"number"`
	Message     string `json:"message"`
	Description string `json:"description"`
	FaultCode   string `json:"faultCode"`
	Severity    string `json:"severity"`
}

// voidRequest is the body of a void/cancel call
type voidRequest struct {
	Code string `json:"code"`
}

// voidReasonDocVoided marks the document as voided at the service
const voidReasonDocVoided = "DocVoided"
