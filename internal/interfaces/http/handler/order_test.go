package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oms/avatax/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockOrderLifecycle is a mock implementation of OrderLifecycle
type MockOrderLifecycle struct {
	mock.Mock
}

func (m *MockOrderLifecycle) RecalculateTotals(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderLifecycle) Complete(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderLifecycle) Cancel(ctx context.Context, orderID uuid.UUID, reason string) error {
	args := m.Called(ctx, orderID, reason)
	return args.Error(0)
}

func setupOrderRouter(lifecycle *MockOrderLifecycle) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewOrderHandler(lifecycle, zap.NewNop()).RegisterRoutes(engine.Group(""))
	return engine
}

func doJSONRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestOrderHandler_Cancel(t *testing.T) {
	t.Run("cancels with a reason", func(t *testing.T) {
		lifecycle := new(MockOrderLifecycle)
		engine := setupOrderRouter(lifecycle)

		orderID := uuid.New()
		lifecycle.On("Cancel", mock.Anything, orderID, "customer request").Return(nil)

		w := doJSONRequest(engine, http.MethodPost,
			"/orders/"+orderID.String()+"/cancel", `{"reason":"customer request"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		lifecycle.AssertExpectations(t)
	})

	t.Run("reason is optional", func(t *testing.T) {
		lifecycle := new(MockOrderLifecycle)
		engine := setupOrderRouter(lifecycle)

		orderID := uuid.New()
		lifecycle.On("Cancel", mock.Anything, orderID, "").Return(nil)

		w := doRequest(engine, http.MethodPost, "/orders/"+orderID.String()+"/cancel")

		assert.Equal(t, http.StatusOK, w.Code)
		lifecycle.AssertExpectations(t)
	})

	t.Run("invalid order id", func(t *testing.T) {
		lifecycle := new(MockOrderLifecycle)
		engine := setupOrderRouter(lifecycle)

		w := doRequest(engine, http.MethodPost, "/orders/not-a-uuid/cancel")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		lifecycle.AssertNotCalled(t, "Cancel")
	})

	t.Run("malformed body", func(t *testing.T) {
		lifecycle := new(MockOrderLifecycle)
		engine := setupOrderRouter(lifecycle)

		w := doJSONRequest(engine, http.MethodPost,
			"/orders/"+uuid.NewString()+"/cancel", `{"reason":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("terminal order maps to unprocessable", func(t *testing.T) {
		lifecycle := new(MockOrderLifecycle)
		engine := setupOrderRouter(lifecycle)

		orderID := uuid.New()
		lifecycle.On("Cancel", mock.Anything, orderID, "").Return(shared.ErrInvalidState)

		w := doRequest(engine, http.MethodPost, "/orders/"+orderID.String()+"/cancel")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestOrderHandler_Complete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		lifecycle := new(MockOrderLifecycle)
		engine := setupOrderRouter(lifecycle)

		orderID := uuid.New()
		lifecycle.On("Complete", mock.Anything, orderID).Return(nil)

		w := doRequest(engine, http.MethodPost, "/orders/"+orderID.String()+"/complete")

		assert.Equal(t, http.StatusOK, w.Code)
		lifecycle.AssertExpectations(t)
	})

	t.Run("unknown order maps to not found", func(t *testing.T) {
		lifecycle := new(MockOrderLifecycle)
		engine := setupOrderRouter(lifecycle)

		orderID := uuid.New()
		lifecycle.On("Complete", mock.Anything, orderID).Return(shared.ErrNotFound)

		w := doRequest(engine, http.MethodPost, "/orders/"+orderID.String()+"/complete")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandler_RecalculateTotals(t *testing.T) {
	lifecycle := new(MockOrderLifecycle)
	engine := setupOrderRouter(lifecycle)

	orderID := uuid.New()
	lifecycle.On("RecalculateTotals", mock.Anything, orderID).Return(nil)

	w := doRequest(engine, http.MethodPost, "/orders/"+orderID.String()+"/recalculate-totals")

	assert.Equal(t, http.StatusOK, w.Code)
	lifecycle.AssertExpectations(t)
}
