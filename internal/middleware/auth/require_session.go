package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/tokens"
)

const MsgAccessDenied = "Unauthorized. Please log in."

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Identity, error)
}

type Guard struct {
	Auth          Authenticator
	LoginRedirect string
	CookieSecure  bool
}

// RequireSession resolves the session cookie before the wrapped handler
// runs. Requests without a valid session never reach it.
func (g *Guard) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "require_session")

		var raw string
		if ck, err := c.Cookie(tokens.SessionCookie); err == nil {
			raw = ck.Value
		}

		id, err := g.Auth.Authenticate(ctx, raw)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				l.Warn("access_denied", "status", http.StatusUnauthorized, "reason", err.Error())
				if raw != "" {
					c.SetCookie(tokens.DeleteCookie(tokens.SessionCookie, "/", g.CookieSecure))
				}
				return g.deny(c)
			}
			l.Error("session_lookup_failed", "status", http.StatusInternalServerError, "error", err)
			return err
		}

		ctx = WithIdentity(ctx, *id)
		ctx = logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", id.UserID))
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func (g *Guard) deny(c echo.Context) error {
	if g.LoginRedirect != "" {
		return c.Redirect(http.StatusFound, g.LoginRedirect)
	}
	return echo.NewHTTPError(http.StatusUnauthorized, MsgAccessDenied)
}
