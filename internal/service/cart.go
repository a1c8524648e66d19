package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CartService mutates the user's single active order. A cart is just an
// order that has not been placed yet.
type CartService struct {
	orders   repository.OrderRepository
	catalog  repository.CatalogRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(orders repository.OrderRepository, catalog repository.CatalogRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		orders:   orders,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
	}
}

// GetCart returns the user's active order, or ErrNotFound when the cart is
// empty and no order exists yet.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	return s.orders.FindActiveOrder(ctx, userID)
}

// AddToCart adds one unit of the item to the user's active order, creating
// the order when none exists and incrementing the line when the item is
// already in the cart. It returns the updated order.
func (s *CartService) AddToCart(ctx context.Context, userID, slug string) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if slug == "" {
		return nil, apperrors.InvalidInput("slug is required")
	}

	item, err := s.catalog.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindActiveOrder(ctx, userID)
	switch {
	case err == nil:
		if line := order.FindItem(item.ID); line != nil {
			if err := s.orders.UpdateItemQuantity(ctx, line.ID, line.Quantity+1); err != nil {
				return nil, fmt.Errorf("increment cart line: %w", err)
			}
		} else {
			newLine := newOrderLine(order.ID, item)
			if err := s.orders.AddItem(ctx, newLine); err != nil {
				return nil, fmt.Errorf("add cart line: %w", err)
			}
		}
	case errors.Is(err, apperrors.ErrNotFound):
		now := time.Now().UTC()
		order = &domain.Order{
			ID:        uuid.New().String(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		line := newOrderLine(order.ID, item)
		if err := s.orders.CreateWithItem(ctx, order, line); err != nil {
			return nil, fmt.Errorf("create order: %w", err)
		}
	default:
		return nil, err
	}

	updated, err := s.orders.FindActiveOrder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}

	s.publishCartUpdated(ctx, updated, updated.FindItem(item.ID), event.CartActionAdded)

	return updated, nil
}

// RemoveFromCart removes the entire line for the item from the user's active
// order and returns the updated order.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, slug string) (*domain.Order, error) {
	_, line, err := s.findCartLine(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	if err := s.orders.RemoveItem(ctx, line.ID); err != nil {
		return nil, fmt.Errorf("remove cart line: %w", err)
	}

	updated, err := s.orders.FindActiveOrder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}

	removed := *line
	removed.Quantity = 0
	s.publishCartUpdated(ctx, updated, &removed, event.CartActionRemoved)

	return updated, nil
}

// RemoveSingleItem decrements the line for the item by one unit, removing
// the line entirely when the quantity reaches zero.
func (s *CartService) RemoveSingleItem(ctx context.Context, userID, slug string) (*domain.Order, error) {
	_, line, err := s.findCartLine(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	if line.Quantity > 1 {
		if err := s.orders.UpdateItemQuantity(ctx, line.ID, line.Quantity-1); err != nil {
			return nil, fmt.Errorf("decrement cart line: %w", err)
		}
	} else {
		if err := s.orders.RemoveItem(ctx, line.ID); err != nil {
			return nil, fmt.Errorf("remove cart line: %w", err)
		}
	}

	updated, err := s.orders.FindActiveOrder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}

	decremented := *line
	decremented.Quantity = line.Quantity - 1
	s.publishCartUpdated(ctx, updated, &decremented, event.CartActionDecremented)

	return updated, nil
}

func (s *CartService) findCartLine(ctx context.Context, userID, slug string) (*domain.Order, *domain.OrderItem, error) {
	if userID == "" {
		return nil, nil, apperrors.InvalidInput("user id is required")
	}
	if slug == "" {
		return nil, nil, apperrors.InvalidInput("slug is required")
	}

	order, err := s.orders.FindActiveOrder(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	for i := range order.Items {
		if order.Items[i].Slug == slug {
			return order, &order.Items[i], nil
		}
	}
	return nil, nil, apperrors.NotFound("cart item", slug)
}

func (s *CartService) publishCartUpdated(ctx context.Context, order *domain.Order, line *domain.OrderItem, action string) {
	if line == nil {
		return
	}
	if err := s.producer.PublishCartUpdated(ctx, order, line, action); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}

func newOrderLine(orderID string, item *domain.Item) *domain.OrderItem {
	return &domain.OrderItem{
		ID:       uuid.New().String(),
		OrderID:  orderID,
		ItemID:   item.ID,
		Title:    item.Title,
		Slug:     item.Slug,
		Price:    item.Price,
		Quantity: 1,
	}
}
