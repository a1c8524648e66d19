package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/gateway"
	"github.com/utafrali/storefront/internal/service"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/health"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/middleware"
)

// --- Mock repositories ---

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) FindActiveOrder(ctx context.Context, userID string) (*domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) GetByRefCode(ctx context.Context, refCode string) (*domain.Order, error) {
	args := m.Called(ctx, refCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) RefCodeExists(ctx context.Context, refCode string) (bool, error) {
	args := m.Called(ctx, refCode)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderRepository) CreateWithItem(ctx context.Context, order *domain.Order, line *domain.OrderItem) error {
	args := m.Called(ctx, order, line)
	return args.Error(0)
}

func (m *mockOrderRepository) AddItem(ctx context.Context, line *domain.OrderItem) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *mockOrderRepository) UpdateItemQuantity(ctx context.Context, lineID string, quantity int) error {
	args := m.Called(ctx, lineID, quantity)
	return args.Error(0)
}

func (m *mockOrderRepository) RemoveItem(ctx context.Context, lineID string) error {
	args := m.Called(ctx, lineID)
	return args.Error(0)
}

func (m *mockOrderRepository) AttachAddresses(ctx context.Context, orderID string, shipping, billing *domain.Address) error {
	args := m.Called(ctx, orderID, shipping, billing)
	return args.Error(0)
}

func (m *mockOrderRepository) AttachCoupon(ctx context.Context, orderID, couponID string) error {
	args := m.Called(ctx, orderID, couponID)
	return args.Error(0)
}

func (m *mockOrderRepository) Finalize(ctx context.Context, order *domain.Order, payment *domain.Payment) error {
	args := m.Called(ctx, order, payment)
	return args.Error(0)
}

func (m *mockOrderRepository) RequestRefund(ctx context.Context, orderID string, refund *domain.Refund) error {
	args := m.Called(ctx, orderID, refund)
	return args.Error(0)
}

type mockCatalogRepository struct {
	mock.Mock
}

func (m *mockCatalogRepository) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockCatalogRepository) List(ctx context.Context, limit, offset int) ([]domain.Item, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Item), args.Int(1), args.Error(2)
}

func (m *mockCatalogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Item, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

// mockCatalogCache always misses so handler tests exercise the repository.
type mockCatalogCache struct{}

func (mockCatalogCache) GetItem(context.Context, string) (*domain.Item, error) {
	return nil, apperrors.ErrNotFound
}
func (mockCatalogCache) SetItem(context.Context, *domain.Item, time.Duration) error { return nil }
func (mockCatalogCache) GetList(context.Context, string) ([]domain.Item, int, error) {
	return nil, 0, apperrors.ErrNotFound
}
func (mockCatalogCache) SetList(context.Context, string, []domain.Item, int, time.Duration) error {
	return nil
}
func (mockCatalogCache) Invalidate(context.Context) error { return nil }

type mockAddressRepository struct {
	mock.Mock
}

func (m *mockAddressRepository) FindDefault(ctx context.Context, userID, addressType string) (*domain.Address, error) {
	args := m.Called(ctx, userID, addressType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

type mockCouponRepository struct {
	mock.Mock
}

func (m *mockCouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

type mockProfileRepository struct {
	mock.Mock
}

func (m *mockProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Charge(ctx context.Context, input gateway.ChargeInput) (*gateway.ChargeResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ChargeResult), args.Error(1)
}

func (m *mockGateway) CreateCustomer(ctx context.Context, userID string) (*gateway.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Customer), args.Error(1)
}

func (m *mockGateway) AttachSource(ctx context.Context, customerID, token string) (*gateway.Source, error) {
	args := m.Called(ctx, customerID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Source), args.Error(1)
}

func (m *mockGateway) ListSources(ctx context.Context, customerID string) ([]gateway.Source, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Source), args.Error(1)
}

// --- Test Helpers ---

type testDeps struct {
	orders    *mockOrderRepository
	catalog   *mockCatalogRepository
	addresses *mockAddressRepository
	coupons   *mockCouponRepository
	profiles  *mockProfileRepository
	gateway   *mockGateway
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func setupRouter(t *testing.T) (http.Handler, *testDeps) {
	t.Helper()

	deps := &testDeps{
		orders:    new(mockOrderRepository),
		catalog:   new(mockCatalogRepository),
		addresses: new(mockAddressRepository),
		coupons:   new(mockCouponRepository),
		profiles:  new(mockProfileRepository),
		gateway:   new(mockGateway),
	}

	logger := testLogger()
	producer := testEventProducer()

	svcs := Services{
		Catalog:  service.NewCatalogService(deps.catalog, mockCatalogCache{}, logger, time.Minute),
		Cart:     service.NewCartService(deps.orders, deps.catalog, producer, logger),
		Checkout: service.NewCheckoutService(deps.orders, deps.addresses, logger),
		Payment:  service.NewPaymentService(deps.orders, deps.profiles, deps.gateway, producer, logger),
		Coupon:   service.NewCouponService(deps.orders, deps.coupons, producer, logger),
		Refund:   service.NewRefundService(deps.orders, producer, logger),
	}

	router := NewRouter(svcs, health.NewHandler(), middleware.DefaultCORSConfig(), logger)
	return router, deps
}

func doRequest(t *testing.T, router http.Handler, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func cartWithLine() *domain.Order {
	return &domain.Order{
		ID:     "order-001",
		UserID: "user-001",
		Items: []domain.OrderItem{
			{ID: "line-001", OrderID: "order-001", ItemID: "item-001", Title: "Linen Shirt", Slug: "linen-shirt", Price: 4500, Quantity: 2},
		},
	}
}

// --- Catalog ---

func TestListItems(t *testing.T) {
	router, deps := setupRouter(t)

	items := []domain.Item{
		{ID: "item-001", Title: "Linen Shirt", Slug: "linen-shirt", Price: 4500},
	}
	deps.catalog.On("List", mock.Anything, 20, 0).Return(items, 1, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/items", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Nil(t, resp.Error)
	assert.Contains(t, string(resp.Data), "linen-shirt")
}

func TestGetItem_NotFound(t *testing.T) {
	router, deps := setupRouter(t)

	deps.catalog.On("GetBySlug", mock.Anything, "missing").Return(nil, apperrors.NotFound("item", "missing"))

	rec := doRequest(t, router, http.MethodGet, "/api/v1/items/missing", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

// --- Cart ---

func TestGetCart_RequiresUserHeader(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestCreateItem(t *testing.T) {
	router, deps := setupRouter(t)

	deps.catalog.On("Create", mock.Anything, mock.MatchedBy(func(item *domain.Item) bool {
		return item.Title == "Linen Shirt" && item.Slug == "linen-shirt" && item.Price == 4500
	})).Return(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/items", "user-001", CreateItemRequest{Title: "Linen Shirt", Price: 4500})

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Nil(t, resp.Error)
	deps.catalog.AssertExpectations(t)
}

func TestCreateItem_RequiresUserHeader(t *testing.T) {
	router, deps := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/items", "", CreateItemRequest{Title: "Linen Shirt", Price: 4500})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	deps.catalog.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateItem_MissingTitle(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/items", "user-001", CreateItemRequest{Price: 100})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Fields, "Title")
}

func TestAddItem(t *testing.T) {
	router, deps := setupRouter(t)

	item := &domain.Item{ID: "item-001", Title: "Linen Shirt", Slug: "linen-shirt", Price: 4500}
	deps.catalog.On("GetBySlug", mock.Anything, "linen-shirt").Return(item, nil)
	deps.orders.On("FindActiveOrder", mock.Anything, "user-001").Return(nil, apperrors.NotFound("order", "user-001")).Once()
	deps.orders.On("CreateWithItem", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	deps.orders.On("FindActiveOrder", mock.Anything, "user-001").Return(cartWithLine(), nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "user-001", AddItemRequest{Slug: "linen-shirt"})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Nil(t, resp.Error)
}

func TestAddItem_ValidationError(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "user-001", AddItemRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "Slug")
}

func TestAddItem_RejectsNonJSONContentType(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("slug=linen-shirt"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-User-ID", "user-001")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRemoveItem(t *testing.T) {
	router, deps := setupRouter(t)

	deps.orders.On("FindActiveOrder", mock.Anything, "user-001").Return(cartWithLine(), nil)
	deps.orders.On("RemoveItem", mock.Anything, "line-001").Return(nil)

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/cart/items/linen-shirt", "user-001", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRemoveSingleItem(t *testing.T) {
	router, deps := setupRouter(t)

	deps.orders.On("FindActiveOrder", mock.Anything, "user-001").Return(cartWithLine(), nil)
	deps.orders.On("UpdateItemQuantity", mock.Anything, "line-001", 1).Return(nil)

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/cart/items/linen-shirt/one", "user-001", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- Checkout ---

func TestCheckout(t *testing.T) {
	router, deps := setupRouter(t)

	deps.orders.On("FindActiveOrder", mock.Anything, "user-001").Return(cartWithLine(), nil)
	deps.orders.On("AttachAddresses", mock.Anything, "order-001", mock.Anything, mock.Anything).Return(nil)

	body := CheckoutRequest{
		ShippingAddress: &AddressRequest{
			StreetAddress: "Hauptstrasse 1",
			CountryCode:   "DE",
			PostalCode:    "10115",
		},
		SameBillingAddress: true,
		PaymentOption:      "stripe",
	}

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout", "user-001", body)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckout_MissingPaymentOption(t *testing.T) {
	router, _ := setupRouter(t)

	body := CheckoutRequest{
		ShippingAddress: &AddressRequest{
			StreetAddress: "Hauptstrasse 1",
			CountryCode:   "DE",
			PostalCode:    "10115",
		},
		SameBillingAddress: true,
	}

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout", "user-001", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

// --- Payment ---

func TestPay_CardDeclined(t *testing.T) {
	router, deps := setupRouter(t)

	order := cartWithLine()
	order.ShippingAddressID = "addr-001"
	order.BillingAddressID = "addr-002"

	deps.orders.On("FindActiveOrder", mock.Anything, "user-001").Return(order, nil)
	deps.profiles.On("Get", mock.Anything, "user-001").Return(&domain.Profile{UserID: "user-001"}, nil)
	deps.orders.On("RefCodeExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	deps.gateway.On("Charge", mock.Anything, mock.Anything).Return(nil, &gateway.Error{
		Category: gateway.CategoryCardDeclined,
		Code:     "card_declined",
		Message:  "your card was declined",
	})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payment", "user-001", PaymentRequest{
		PaymentOption: "stripe",
		Token:         "tok_visa",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "PAYMENT_FAILED", resp.Error.Code)
	assert.Equal(t, "your card was declined", resp.Error.Message)
}

func TestPay_Success(t *testing.T) {
	router, deps := setupRouter(t)

	order := cartWithLine()
	order.ShippingAddressID = "addr-001"
	order.BillingAddressID = "addr-002"

	deps.orders.On("FindActiveOrder", mock.Anything, "user-001").Return(order, nil)
	deps.profiles.On("Get", mock.Anything, "user-001").Return(&domain.Profile{UserID: "user-001"}, nil)
	deps.gateway.On("Charge", mock.Anything, mock.Anything).Return(&gateway.ChargeResult{ChargeID: "ch_123"}, nil)
	deps.orders.On("RefCodeExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	deps.orders.On("Finalize", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payment", "user-001", PaymentRequest{
		PaymentOption: "stripe",
		Token:         "tok_visa",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.Order `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Data.Ordered)
	assert.Len(t, resp.Data.RefCode, 20)
}

// --- Coupons ---

func TestApplyCoupon(t *testing.T) {
	router, deps := setupRouter(t)

	deps.orders.On("FindActiveOrder", mock.Anything, "user-001").Return(cartWithLine(), nil)
	deps.coupons.On("GetByCode", mock.Anything, "WELCOME10").Return(&domain.Coupon{ID: "coupon-001", Code: "WELCOME10", Amount: 1000}, nil)
	deps.orders.On("AttachCoupon", mock.Anything, "order-001", "coupon-001").Return(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/coupons/apply", "user-001", ApplyCouponRequest{Code: "WELCOME10"})

	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- Refunds ---

func TestRequestRefund(t *testing.T) {
	router, deps := setupRouter(t)

	order := cartWithLine()
	order.Ordered = true
	order.RefCode = "a1b2c3d4e5f6g7h8i9j0"

	deps.orders.On("GetByRefCode", mock.Anything, "a1b2c3d4e5f6g7h8i9j0").Return(order, nil)
	deps.orders.On("RequestRefund", mock.Anything, "order-001", mock.Anything).Return(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/refunds", "", RefundRequest{
		RefCode: "a1b2c3d4e5f6g7h8i9j0",
		Reason:  "arrived damaged",
		Email:   "alice@example.com",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRequestRefund_UnknownRefCode(t *testing.T) {
	router, deps := setupRouter(t)

	deps.orders.On("GetByRefCode", mock.Anything, "a1b2c3d4e5f6g7h8i9j0").
		Return(nil, apperrors.NotFound("order", "a1b2c3d4e5f6g7h8i9j0"))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/refunds", "", RefundRequest{
		RefCode: "a1b2c3d4e5f6g7h8i9j0",
		Reason:  "arrived damaged",
		Email:   "alice@example.com",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Health ---

func TestHealthLive(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/health/live", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}
