package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/middleware/csrf"
)

// Route is one row of the routing table. Auth routes run behind the
// session guard.
type Route struct {
	Name    string
	Method  string
	Path    string
	Handler echo.HandlerFunc
	Auth    bool
}

type Deps struct {
	DB       *gorm.DB
	Auth     *AuthHTTP
	Products *ProductHTTP
	Cart     *CartHTTP
	Guard    *auth.Guard

	// CSRF enables the double-submit check when non-nil.
	CSRF *csrf.Config
}

func Routes(d *Deps) []Route {
	return []Route{
		{Name: "root", Method: http.MethodGet, Path: "/", Handler: hello},
		{Name: "health.live", Method: http.MethodGet, Path: "/health/live", Handler: live},
		{Name: "health.ready", Method: http.MethodGet, Path: "/health/ready", Handler: ready(d.DB)},

		{Name: "auth.register", Method: http.MethodPost, Path: "/register", Handler: d.Auth.Register},
		{Name: "auth.login", Method: http.MethodPost, Path: "/login", Handler: d.Auth.Login},
		{Name: "auth.logout", Method: http.MethodPost, Path: "/logout", Handler: d.Auth.Logout, Auth: true},

		{Name: "products.list", Method: http.MethodGet, Path: "/api/products", Handler: d.Products.ListProducts},
		{Name: "products.search", Method: http.MethodGet, Path: "/api/products/search", Handler: d.Products.SearchProducts},
		{Name: "products.get", Method: http.MethodGet, Path: "/api/products/:id", Handler: d.Products.GetProduct},
		{Name: "products.add", Method: http.MethodPost, Path: "/api/products/add", Handler: d.Products.AddProduct, Auth: true},
		{Name: "products.update", Method: http.MethodPut, Path: "/api/products/update/:id", Handler: d.Products.UpdateProduct, Auth: true},
		{Name: "products.delete", Method: http.MethodDelete, Path: "/api/products/delete/:id", Handler: d.Products.DeleteProduct, Auth: true},

		{Name: "cart.add", Method: http.MethodPost, Path: "/api/cart/add/:product_id", Handler: d.Cart.AddToCart, Auth: true},
		{Name: "cart.view", Method: http.MethodGet, Path: "/api/cart", Handler: d.Cart.ViewCart, Auth: true},
		{Name: "cart.remove", Method: http.MethodDelete, Path: "/api/cart/remove/:item_id", Handler: d.Cart.RemoveFromCart, Auth: true},
		{Name: "cart.checkout", Method: http.MethodPost, Path: "/api/cart/checkout", Handler: d.Cart.Checkout, Auth: true},
	}
}

func Register(e *echo.Echo, d *Deps) {
	if d.CSRF != nil {
		cfg := *d.CSRF
		cfg.SkipPaths = append(cfg.SkipPaths, "/login", "/register")
		e.Use(csrf.Middleware(cfg))
	}

	for _, r := range Routes(d) {
		h := r.Handler
		if r.Auth {
			h = d.Guard.RequireSession(h)
		}
		e.Add(r.Method, r.Path, h).Name = r.Name
	}
}

func hello(c echo.Context) error {
	return c.String(http.StatusOK, "Hello world!")
}

func live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func ready(gdb *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if gdb == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx := c.Request().Context()
		if err := db.Ping(ctx, gdb); err != nil {
			logging.FromContext(ctx).Error("readiness_failed", "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	}
}
