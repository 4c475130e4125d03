package auth

import (
	"context"

	"github.com/Skotchmaster/shop_api/internal/service"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, id service.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by RequireSession.
func IdentityFromContext(ctx context.Context) (service.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(service.Identity)
	return id, ok
}
