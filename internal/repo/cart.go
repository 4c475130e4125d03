package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

func (r *GormRepo) AddCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

// ListCartLines joins the user's items with the live product rows. Items
// whose product no longer exists drop out of the inner join.
func (r *GormRepo) ListCartLines(ctx context.Context, userID uint) ([]transport.CartLine, error) {
	lines := []transport.CartLine{}
	err := r.DB.WithContext(ctx).
		Table("cart_items AS ci").
		Select("ci.id AS item_id, ci.product_id AS product_id, p.name AS name, p.price AS price").
		Joins("JOIN products AS p ON p.id = ci.product_id").
		Where("ci.user_id = ?", userID).
		Order("ci.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []transport.CartLine{}
	}
	return lines, nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, userID, itemID uint) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
