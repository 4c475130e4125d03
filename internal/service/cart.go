package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/mykafka"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
}

// AddToCart always inserts a new row; adding a product twice yields two lines.
func (s *CartService) AddToCart(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	ok, err := s.Repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}

	item := &models.CartItem{UserID: userID, ProductID: productID}
	if err := s.Repo.AddCartItem(ctx, item); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicCartEvents, userID, Event{
		Type: EventCartItemAdded, UserID: userID, ProductID: productID, ItemID: item.ID,
	})
	return item, nil
}

func (s *CartService) ViewCart(ctx context.Context, userID uint) ([]transport.CartLine, error) {
	return s.Repo.ListCartLines(ctx, userID)
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, itemID uint) error {
	if err := s.Repo.DeleteCartItem(ctx, userID, itemID); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
		}
		return err
	}
	publish(ctx, s.Events, mykafka.TopicCartEvents, userID, Event{Type: EventCartItemRemoved, UserID: userID, ItemID: itemID})
	return nil
}

// Checkout empties the cart. No order is recorded.
func (s *CartService) Checkout(ctx context.Context, userID uint) (int64, error) {
	n, err := s.Repo.ClearCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	publish(ctx, s.Events, mykafka.TopicCartEvents, userID, Event{Type: EventCartCheckedOut, UserID: userID, Count: n})
	return n, nil
}
