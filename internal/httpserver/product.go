package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/internal/util"
)

const (
	msgProductNotFound = "Product not found"
	msgInvalidProduct  = "Invalid product data"
)

type ProductHTTP struct {
	Svc *service.CatalogService
}

// ListProducts returns the whole catalog unless page or size is given.
func (h *ProductHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_products")

	offset, limit := 0, 0
	if c.QueryParam("page") != "" || c.QueryParam("size") != "" {
		offset, limit = util.Calculate(
			util.ParseIntDefault(c.QueryParam("page"), 1),
			util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
		)
	}

	items, err := h.Svc.ListProducts(ctx, offset, limit)
	if err != nil {
		l.Error("list_products_failed", "status", 500, "error", err)
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	offset, limit := util.Calculate(
		util.ParseIntDefault(c.QueryParam("page"), 1),
		util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	)

	res, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("search_products_failed", "status", 400, "reason", "empty query")
			return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
		}
		l.Error("search_products_failed", "status", 500, "error", err)
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, ok := parseID(c.Param("id"))
	if !ok {
		l.Warn("get_product_failed", "status", 404, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
	}

	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", "no such product", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("get_product_failed", "status", 500, "error", err)
		return err
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.add_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidProduct)
	}

	prod, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("add_product_failed", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidProduct)
		}
		l.Error("add_product_failed", "status", 500, "error", err)
		return err
	}

	l.Info("add_product_success", "product_id", prod.ID)
	return message(c, http.StatusCreated, "Product added successfully!")
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, ok := parseID(c.Param("id"))
	if !ok {
		l.Warn("update_product_failed", "status", 404, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
	}

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidProduct)
	}

	if _, err := h.Svc.UpdateProduct(ctx, id, req); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("update_product_failed", "status", 404, "reason", "no such product", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_product_failed", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidProduct)
		default:
			l.Error("update_product_failed", "status", 500, "error", err)
			return err
		}
	}

	l.Info("update_product_success", "product_id", id)
	return message(c, http.StatusOK, "Product updated successfully!")
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, ok := parseID(c.Param("id"))
	if !ok {
		l.Warn("delete_product_failed", "status", 404, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_product_failed", "status", 404, "reason", "no such product", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("delete_product_failed", "status", 500, "error", err)
		return err
	}

	l.Info("delete_product_success", "product_id", id)
	return message(c, http.StatusOK, "Product deleted successfully!")
}
