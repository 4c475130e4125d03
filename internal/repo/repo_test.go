package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	ctx := context.Background()
	gdb, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.Migrate(ctx, gdb))
	return &GormRepo{DB: gdb}
}

func mustUser(t *testing.T, r *GormRepo, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Password: "pw"}
	require.NoError(t, r.CreateUserIfNotExists(context.Background(), u))
	return u
}

func mustProduct(t *testing.T, r *GormRepo, name string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestUsers(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := mustUser(t, r, "alice")
	assert.NotZero(t, u.ID)

	dup := &models.User{Username: "alice", Password: "other"}
	err := r.CreateUserIfNotExists(ctx, dup)
	require.ErrorIs(t, err, ErrUserAlreadyExist)
	assert.Equal(t, u.ID, dup.ID)

	got, err := r.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "pw", got.Password)

	_, err = r.FindUserByUsername(ctx, "Alice")
	assert.True(t, IsNotFound(err))

	byID, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestSessions(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := mustUser(t, r, "bob")
	now := time.Now()

	live := &models.Session{JTI: "live", UserID: u.ID, TokenHash: "h1", ExpiresAt: now.Add(time.Hour).Unix()}
	old := &models.Session{JTI: "old", UserID: u.ID, TokenHash: "h2", ExpiresAt: now.Add(-time.Hour).Unix()}
	require.NoError(t, r.CreateSession(ctx, live))
	require.NoError(t, r.CreateSession(ctx, old))

	got, err := r.FindSessionByJTI(ctx, "live")
	require.NoError(t, err)
	assert.True(t, got.Active(now))

	n, err := r.DeleteExpiredSessions(ctx, u.ID, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	_, err = r.FindSessionByJTI(ctx, "old")
	assert.True(t, IsNotFound(err))

	require.NoError(t, r.RevokeSession(ctx, "live"))
	assert.True(t, IsNotFound(r.RevokeSession(ctx, "live")))
	assert.True(t, IsNotFound(r.RevokeSession(ctx, "missing")))

	got, err = r.FindSessionByJTI(ctx, "live")
	require.NoError(t, err)
	assert.False(t, got.Active(now))
}

func TestProducts_CRUD(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first := mustProduct(t, r, "Mouse", 10)
	second := &models.Product{Name: "Keyboard", Price: 25.5, Description: strPtr("mechanical")}
	require.NoError(t, r.CreateProduct(ctx, second))

	all, err := r.ListProducts(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	page, err := r.ListProducts(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, second.ID, page[0].ID)

	updated, err := r.UpdateProduct(ctx, second.ID, transport.UpdateProductRequest{Price: floatPtr(30)})
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", updated.Name)
	assert.Equal(t, 30.0, updated.Price)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "mechanical", *updated.Description)

	_, err = r.UpdateProduct(ctx, 999, transport.UpdateProductRequest{Name: strPtr("x")})
	assert.True(t, IsNotFound(err))

	ok, err := r.ProductExists(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, r.DeleteProduct(ctx, first.ID))
	assert.True(t, IsNotFound(r.DeleteProduct(ctx, first.ID)))

	_, err = r.GetProduct(ctx, first.ID)
	assert.True(t, IsNotFound(err))

	total, err := r.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestUpdateProduct_DeletedConcurrently(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	prod := mustProduct(t, r, "Mouse", 10)

	// Delete the row inside the update's own transaction, right before the
	// UPDATE statement runs.
	deleted := false
	require.NoError(t, r.DB.Callback().Update().Before("gorm:update").Register("test:delete_row", func(tx *gorm.DB) {
		if deleted {
			return
		}
		deleted = true
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Exec("DELETE FROM products WHERE id = ?", prod.ID).Error)
	}))

	_, err := r.UpdateProduct(ctx, prod.ID, transport.UpdateProductRequest{Price: floatPtr(2)})
	assert.True(t, IsNotFound(err))
	assert.True(t, deleted)

	ok, err := r.ProductExists(ctx, prod.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateProduct_NoFields(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	prod := mustProduct(t, r, "Mouse", 10)

	got, err := r.UpdateProduct(ctx, prod.ID, transport.UpdateProductRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Mouse", got.Name)

	_, err = r.UpdateProduct(ctx, 999, transport.UpdateProductRequest{})
	assert.True(t, IsNotFound(err))
}

func TestSearchProducts(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	mustProduct(t, r, "Red Shirt", 10)
	require.NoError(t, r.CreateProduct(ctx, &models.Product{Name: "Mug", Price: 3, Description: strPtr("shirt-coloured mug")}))
	mustProduct(t, r, "100% cotton", 8)
	mustProduct(t, r, "Lamp", 20)

	total, items, err := r.SearchProducts(ctx, "SHIRT", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Red Shirt", items[0].Name)

	total, items, err = r.SearchProducts(ctx, "shirt", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 1)

	total, _, err = r.SearchProducts(ctx, "%", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestCart(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	alice := mustUser(t, r, "alice")
	bob := mustUser(t, r, "bob")
	mouse := mustProduct(t, r, "Mouse", 10)
	lamp := mustProduct(t, r, "Lamp", 20)

	for _, pid := range []uint{mouse.ID, mouse.ID, lamp.ID} {
		require.NoError(t, r.AddCartItem(ctx, &models.CartItem{UserID: alice.ID, ProductID: pid}))
	}
	bobItem := &models.CartItem{UserID: bob.ID, ProductID: lamp.ID}
	require.NoError(t, r.AddCartItem(ctx, bobItem))

	lines, err := r.ListCartLines(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, mouse.ID, lines[0].ProductID)
	assert.Equal(t, "Mouse", lines[0].Name)
	assert.NotEqual(t, lines[0].ItemID, lines[1].ItemID)
	assert.Equal(t, 20.0, lines[2].Price)

	// another user's item is invisible to the delete predicate
	err = r.DeleteCartItem(ctx, alice.ID, bobItem.ID)
	assert.True(t, IsNotFound(err))

	require.NoError(t, r.DeleteProduct(ctx, lamp.ID))
	lines, err = r.ListCartLines(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	require.NoError(t, r.DeleteCartItem(ctx, alice.ID, lines[0].ItemID))

	n, err := r.ClearCart(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n) // one live line plus the orphaned lamp row

	lines, err = r.ListCartLines(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.NotNil(t, lines)

	var bobCount int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Where("user_id = ?", bob.ID).Count(&bobCount).Error)
	assert.EqualValues(t, 1, bobCount)
}
