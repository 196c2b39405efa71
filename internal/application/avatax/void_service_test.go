package avatax

import (
	"context"
	"testing"

	"github.com/google/uuid"
	avataxdomain "github.com/oms/avatax/internal/domain/avatax"
	"github.com/oms/avatax/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVoidService_Void(t *testing.T) {
	t.Run("disabled integration is a no-op", func(t *testing.T) {
		txs := new(MockTransactionRepository)
		client := new(MockTaxClient)
		svc := NewVoidService(txs, client, false, zap.NewNop())

		err := svc.Void(context.Background(), uuid.New())

		assert.NoError(t, err)
		txs.AssertNotCalled(t, "FindActive")
	})

	t.Run("no active transaction is a no-op", func(t *testing.T) {
		txs := new(MockTransactionRepository)
		client := new(MockTaxClient)
		svc := NewVoidService(txs, client, true, zap.NewNop())

		orderID := uuid.New()
		txs.On("FindActive", mock.Anything, orderID, avataxdomain.TransactionTypeSalesInvoice).Return(nil, shared.ErrNotFound)
		txs.On("FindActive", mock.Anything, orderID, avataxdomain.TransactionTypeSalesOrder).Return(nil, shared.ErrNotFound)

		err := svc.Void(context.Background(), orderID)

		assert.NoError(t, err)
		client.AssertNotCalled(t, "VoidTransaction")
		txs.AssertNotCalled(t, "Void")
	})

	t.Run("voids the committed SalesInvoice first", func(t *testing.T) {
		txs := new(MockTransactionRepository)
		client := new(MockTaxClient)
		svc := NewVoidService(txs, client, true, zap.NewNop())

		orderID := uuid.New()
		invoice := avataxdomain.NewTransaction(orderID, avataxdomain.TransactionTypeSalesInvoice, "R100001")
		txs.On("FindActive", mock.Anything, orderID, avataxdomain.TransactionTypeSalesInvoice).Return(invoice, nil)
		client.On("VoidTransaction", mock.Anything, "R100001").Return(nil)
		txs.On("Void", mock.Anything, invoice).Return(nil)

		err := svc.Void(context.Background(), orderID)

		require.NoError(t, err)
		txs.AssertNotCalled(t, "FindActive", mock.Anything, orderID, avataxdomain.TransactionTypeSalesOrder)
		client.AssertExpectations(t)
		txs.AssertExpectations(t)
	})

	t.Run("falls back to the SalesOrder estimate", func(t *testing.T) {
		txs := new(MockTransactionRepository)
		client := new(MockTaxClient)
		svc := NewVoidService(txs, client, true, zap.NewNop())

		orderID := uuid.New()
		estimate := avataxdomain.NewTransaction(orderID, avataxdomain.TransactionTypeSalesOrder, "R100002")
		txs.On("FindActive", mock.Anything, orderID, avataxdomain.TransactionTypeSalesInvoice).Return(nil, shared.ErrNotFound)
		txs.On("FindActive", mock.Anything, orderID, avataxdomain.TransactionTypeSalesOrder).Return(estimate, nil)
		client.On("VoidTransaction", mock.Anything, "R100002").Return(nil)
		txs.On("Void", mock.Anything, estimate).Return(nil)

		err := svc.Void(context.Background(), orderID)

		require.NoError(t, err)
		client.AssertExpectations(t)
		txs.AssertExpectations(t)
	})

	t.Run("client failure surfaces and keeps the transaction active", func(t *testing.T) {
		txs := new(MockTransactionRepository)
		client := new(MockTaxClient)
		svc := NewVoidService(txs, client, true, zap.NewNop())

		orderID := uuid.New()
		invoice := avataxdomain.NewTransaction(orderID, avataxdomain.TransactionTypeSalesInvoice, "R100003")
		txs.On("FindActive", mock.Anything, orderID, avataxdomain.TransactionTypeSalesInvoice).Return(invoice, nil)
		client.On("VoidTransaction", mock.Anything, "R100003").Return(avataxdomain.ErrTransport)

		err := svc.Void(context.Background(), orderID)

		assert.ErrorIs(t, err, avataxdomain.ErrTransport)
		txs.AssertNotCalled(t, "Void")
		assert.True(t, invoice.IsActive())
	})

	t.Run("lookup failure other than not-found propagates", func(t *testing.T) {
		txs := new(MockTransactionRepository)
		client := new(MockTaxClient)
		svc := NewVoidService(txs, client, true, zap.NewNop())

		orderID := uuid.New()
		txs.On("FindActive", mock.Anything, orderID, avataxdomain.TransactionTypeSalesInvoice).Return(nil, shared.ErrConcurrencyConflict)

		err := svc.Void(context.Background(), orderID)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		client.AssertNotCalled(t, "VoidTransaction")
	})
}
