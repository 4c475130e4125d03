package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/tokens"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.Credentials
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.Svc.Register(ctx, req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_failed", "status", 400, "reason", "missing fields")
			return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
		case errors.Is(err, service.ErrConflict):
			l.Warn("register_failed", "status", 409, "reason", "username taken")
			return echo.NewHTTPError(http.StatusConflict, "Username already exists")
		default:
			l.Error("register_failed", "status", 500, "error", err)
			return err
		}
	}

	l.Info("register_success", "username", req.Username)
	return message(c, http.StatusCreated, "User registered successfully!")
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.Credentials
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized. Invalid credentials")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return err
	}

	c.SetCookie(tokens.CreateCookie(tokens.SessionCookie, res.Token, "/", res.ExpiresAt, h.CookieSecure))
	l.Info("login_success", "user_id", res.UserID)
	return message(c, http.StatusOK, "Logged in successfully!")
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	id, err := identity(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Logout(ctx, id); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			l.Warn("logout_failed", "status", 401, "reason", "session already closed")
			return echo.NewHTTPError(http.StatusUnauthorized, auth.MsgAccessDenied)
		}
		l.Error("logout_failed", "status", 500, "error", err)
		return err
	}

	c.SetCookie(tokens.DeleteCookie(tokens.SessionCookie, "/", h.CookieSecure))
	l.Info("logout_success")
	return message(c, http.StatusOK, "Logged out successfully!")
}
