package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/service"
)

const msgItemNotFound = "Item not found in the cart"

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	user, err := identity(c)
	if err != nil {
		return err
	}
	productID, ok := parseID(c.Param("product_id"))
	if !ok {
		l.Warn("add_to_cart_failed", "status", 404, "reason", "product id is not a positive integer")
		return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
	}

	item, err := h.Svc.AddToCart(ctx, user.UserID, productID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("add_to_cart_failed", "status", 404, "reason", "no such product", "product_id", productID)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("add_to_cart_failed", "status", 500, "error", err)
		return err
	}

	l.Info("add_to_cart_success", "item_id", item.ID, "product_id", productID)
	return message(c, http.StatusOK, "Item added to the cart successfully!")
}

func (h *CartHTTP) ViewCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.view_cart")

	user, err := identity(c)
	if err != nil {
		return err
	}

	lines, err := h.Svc.ViewCart(ctx, user.UserID)
	if err != nil {
		l.Error("view_cart_failed", "status", 500, "error", err)
		return err
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_from_cart")

	user, err := identity(c)
	if err != nil {
		return err
	}
	itemID, ok := parseID(c.Param("item_id"))
	if !ok {
		l.Warn("remove_from_cart_failed", "status", 404, "reason", "item id is not a positive integer")
		return echo.NewHTTPError(http.StatusNotFound, msgItemNotFound)
	}

	if err := h.Svc.RemoveFromCart(ctx, user.UserID, itemID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("remove_from_cart_failed", "status", 404, "reason", "not in this user's cart", "item_id", itemID)
			return echo.NewHTTPError(http.StatusNotFound, msgItemNotFound)
		}
		l.Error("remove_from_cart_failed", "status", 500, "error", err)
		return err
	}

	l.Info("remove_from_cart_success", "item_id", itemID)
	return message(c, http.StatusOK, "Item removed from the cart successfully!")
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	user, err := identity(c)
	if err != nil {
		return err
	}

	n, err := h.Svc.Checkout(ctx, user.UserID)
	if err != nil {
		l.Error("checkout_failed", "status", 500, "error", err)
		return err
	}

	l.Info("checkout_success", "items", n)
	return message(c, http.StatusOK, "Checkout successful. Cart has been cleared!")
}
