package avatax

import "errors"

var (
	// ErrNotConfigured indicates the integration is missing credentials
	ErrNotConfigured = errors.New("avatax: client not configured")

	// ErrTransport indicates a network or timeout failure talking to
	// the external service; safe to retry
	ErrTransport = errors.New("avatax: transport failure")

	// ErrServiceRejected indicates the external service returned a
	// semantic error; retrying without payload changes will not help
	ErrServiceRejected = errors.New("avatax: service rejected request")

	// ErrMissingTaxZone indicates an order without a tax zone, leaving
	// the tax-inclusion state undefined
	ErrMissingTaxZone = errors.New("avatax: order has no tax zone")

	// ErrCalculationNotRequired indicates the order has no tax address
	// or no line items; a defined skip outcome, not a failure
	ErrCalculationNotRequired = errors.New("avatax: tax calculation not required")
)

// IsRetryable reports whether the caller may safely retry the operation
// that produced err without changing the request
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransport)
}
