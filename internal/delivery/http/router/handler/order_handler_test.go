package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/validator"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	mockUC "storefront/internal/mocks/usecase"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderTestContext(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validator.New()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/api/orders", nil)
	} else {
		req = httptest.NewRequest(method, "/api/orders", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return c, rec
}

func placeOrderBody(productID uuid.UUID) string {
	return `{
		"items": [{"productId": "` + productID.String() + `", "quantity": 2, "price": "24.50"}],
		"total": "49.00",
		"shippingAddress": {
			"fullName": "Test Buyer",
			"address": "1 Main Street",
			"city": "Springfield",
			"state": "IL",
			"pincode": "62704",
			"phone": "555-0100"
		},
		"paymentMethod": "cod"
	}`
}

func TestOrderHandler_PlaceOrder_Success(t *testing.T) {
	uc := mockUC.NewMockOrderUsecase(t)
	h := NewOrderHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	userID := uuid.New()
	productID := uuid.New()

	c, rec := newOrderTestContext(http.MethodPost, placeOrderBody(productID))
	c.Set(middleware.ContextKeyUserID, userID)

	uc.EXPECT().
		PlaceOrder(mock.Anything, mock.AnythingOfType("*usecase.PlaceOrderInput")).
		Run(func(ctx context.Context, input *usecase.PlaceOrderInput) {
			assert.Equal(t, userID, input.UserID)
			assert.Equal(t, entity.PaymentMethodCOD, input.PaymentMethod)
			require.Len(t, input.Items, 1)
			assert.Equal(t, productID, input.Items[0].ProductID)
			assert.Equal(t, 2, input.Items[0].Quantity)
			assert.True(t, input.Total.Equal(decimal.NewFromFloat(49.00)))
			assert.Equal(t, "Springfield", input.ShippingAddress.City)
		}).
		Return(&entity.Order{ID: uuid.New(), UserID: userID, Status: entity.OrderStatusPending}, nil)

	err := h.PlaceOrder(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order placed successfully")
}

func TestOrderHandler_PlaceOrder_RequiresAuthentication(t *testing.T) {
	uc := mockUC.NewMockOrderUsecase(t)
	h := NewOrderHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	c, _ := newOrderTestContext(http.MethodPost, placeOrderBody(uuid.New()))

	err := h.PlaceOrder(c)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestOrderHandler_PlaceOrder_RejectsEmptyItems(t *testing.T) {
	uc := mockUC.NewMockOrderUsecase(t)
	h := NewOrderHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	body := `{
		"items": [],
		"total": "0",
		"shippingAddress": {
			"fullName": "Test Buyer",
			"address": "1 Main Street",
			"city": "Springfield",
			"state": "IL",
			"pincode": "62704",
			"phone": "555-0100"
		},
		"paymentMethod": "cod"
	}`

	c, _ := newOrderTestContext(http.MethodPost, body)
	c.Set(middleware.ContextKeyUserID, uuid.New())

	err := h.PlaceOrder(c)

	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestOrderHandler_PlaceOrder_RejectsUnknownPaymentMethod(t *testing.T) {
	uc := mockUC.NewMockOrderUsecase(t)
	h := NewOrderHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	body := strings.Replace(placeOrderBody(uuid.New()), `"cod"`, `"wire"`, 1)

	c, _ := newOrderTestContext(http.MethodPost, body)
	c.Set(middleware.ContextKeyUserID, uuid.New())

	err := h.PlaceOrder(c)

	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestOrderHandler_ListOrders_Success(t *testing.T) {
	uc := mockUC.NewMockOrderUsecase(t)
	h := NewOrderHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	userID := uuid.New()

	c, rec := newOrderTestContext(http.MethodGet, "")
	c.Set(middleware.ContextKeyUserID, userID)

	uc.EXPECT().
		ListOrders(mock.Anything, userID).
		Return([]*entity.Order{{ID: uuid.New(), UserID: userID}}, nil)

	err := h.ListOrders(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOrderHandler_GetOrder_MalformedID(t *testing.T) {
	uc := mockUC.NewMockOrderUsecase(t)
	h := NewOrderHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	c, _ := newOrderTestContext(http.MethodGet, "")
	c.Set(middleware.ContextKeyUserID, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetOrder(c)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestOrderHandler_GetOrder_Success(t *testing.T) {
	uc := mockUC.NewMockOrderUsecase(t)
	h := NewOrderHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	userID := uuid.New()
	orderID := uuid.New()

	c, rec := newOrderTestContext(http.MethodGet, "")
	c.Set(middleware.ContextKeyUserID, userID)
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())

	uc.EXPECT().
		GetOrder(mock.Anything, userID, orderID).
		Return(&entity.Order{ID: orderID, UserID: userID}, nil)

	err := h.GetOrder(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
