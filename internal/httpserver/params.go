package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/service"
)

func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// identity is only reachable behind RequireSession; a missing identity means
// the route was registered without the guard.
func identity(c echo.Context) (service.Identity, error) {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return service.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, auth.MsgAccessDenied)
	}
	return id, nil
}
