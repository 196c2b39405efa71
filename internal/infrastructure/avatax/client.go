package avatax

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	avataxdomain "github.com/oms/avatax/internal/domain/avatax"
	"go.uber.org/zap"
)

// maxResponseSize is the maximum allowed response size from the AvaTax
// API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// RestClient implements the avatax.TaxClient interface against the
// AvaTax REST v2 API
type RestClient struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRestClient creates a new REST client with the given configuration
func NewRestClient(config *Config, logger *zap.Logger) (*RestClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &RestClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

// CreateTransaction submits a tax computation request and returns the
// committed or estimated result
func (c *RestClient) CreateTransaction(ctx context.Context, req *avataxdomain.CreateTransactionRequest) (*avataxdomain.TransactionResponse, error) {
	respBody, err := c.doRequest(ctx, http.MethodPost, "/api/v2/transactions/create", req)
	if err != nil {
		return nil, err
	}

	var model transactionModel
	if err := json.Unmarshal(respBody, &model); err != nil {
		return nil, fmt.Errorf("%w: malformed transaction response: %v", avataxdomain.ErrServiceRejected, err)
	}

	resp := &avataxdomain.TransactionResponse{
		Code:     model.Code,
		TotalTax: model.TotalTax,
		Lines:    make([]avataxdomain.TaxLine, 0, len(model.Lines)),
	}
	for _, line := range model.Lines {
		resp.Lines = append(resp.Lines, avataxdomain.TaxLine{
			Number: line.LineNumber,
			Tax:    line.Tax,
			Rate:   line.Rate,
		})
	}
	return resp, nil
}

// VoidTransaction cancels a previously committed transaction by its
// external code
func (c *RestClient) VoidTransaction(ctx context.Context, code string) error {
	path := fmt.Sprintf("/api/v2/companies/%s/transactions/%s/void",
		url.PathEscape(c.config.CompanyCode), url.PathEscape(code))

	_, err := c.doRequest(ctx, http.MethodPost, path, voidRequest{Code: voidReasonDocVoided})
	return err
}

// doRequest executes one HTTP call against the service and returns the
// response body. Failures are classified: network and timeout problems
// map to avatax.ErrTransport (retryable), semantic rejections to
// avatax.ErrServiceRejected with the service-provided detail.
func (c *RestClient) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.config.APIBaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.config.AccountID, c.config.LicenseKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", avataxdomain.ErrTransport, err)
	}

	switch {
	case httpResp.StatusCode >= 200 && httpResp.StatusCode < 300:
		return respBody, nil
	case httpResp.StatusCode >= 500:
		// Service-side failures are safe to retry
		return nil, fmt.Errorf("%w: service returned status %d", avataxdomain.ErrTransport, httpResp.StatusCode)
	default:
		return nil, c.rejectionError(httpResp.StatusCode, respBody)
	}
}

// rejectionError extracts the service's error detail from a 4xx response
func (c *RestClient) rejectionError(status int, body []byte) error {
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		return fmt.Errorf("%w: %s - %s (status %d)",
			avataxdomain.ErrServiceRejected, envelope.Error.Code, envelope.Error.Message, status)
	}
	return fmt.Errorf("%w: status %d", avataxdomain.ErrServiceRejected, status)
}

// classifyTransportError maps low-level HTTP client failures onto the
// domain's retryable transport error
func classifyTransportError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", avataxdomain.ErrTransport, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: timeout: %v", avataxdomain.ErrTransport, err)
	default:
		return fmt.Errorf("%w: %v", avataxdomain.ErrTransport, err)
	}
}

// Ensure RestClient implements TaxClient
var _ avataxdomain.TaxClient = (*RestClient)(nil)
