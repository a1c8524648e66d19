package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/gateway"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
)

// --- Mock Order Repository ---

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

// --- Mock Catalog Repository ---

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

// --- Mock Catalog Cache ---

type mockCatalogCache struct {
	mock.Mock
}

func (m *mockCatalogCache) GetItem(ctx context.Context, slug string) (*domain.Item, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *mockCatalogCache) SetItem(ctx context.Context, item *domain.Item, ttl time.Duration) error {
	args := m.Called(ctx, item, ttl)
	return args.Error(0)
}

func (m *mockCatalogCache) GetList(ctx context.Context, key string) ([]domain.Item, int, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Item), args.Int(1), args.Error(2)
}

func (m *mockCatalogCache) SetList(ctx context.Context, key string, items []domain.Item, total int, ttl time.Duration) error {
	args := m.Called(ctx, key, items, total, ttl)
	return args.Error(0)
}

func (m *mockCatalogCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- Mock Address Repository ---

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

// --- Mock Coupon Repository ---

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

// --- Mock Profile Repository ---

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

// --- Mock Gateway ---

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

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestEventProducer() *event.Producer {
	logger := newTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}
