package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *gorm.DB, *model.User) {
	testDB := setupServiceTest(t)
	svc := NewCartService(repository.NewCartRepository(testDB), repository.NewProductRepository(testDB))
	user := createUser(t, testDB, "cart@example.com", model.Address{})
	return svc, testDB, user
}

func TestCartService_GetCart_Empty(t *testing.T) {
	svc, _, user := setupCartServiceTest(t)

	cart, err := svc.GetCart(user.ID)
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
	assert.Zero(t, cart.Count)
}

func TestCartService_SetQuantity(t *testing.T) {
	svc, testDB, user := setupCartServiceTest(t)
	racket := createProduct(t, testDB, "Racket", "20.00")
	balls := createProduct(t, testDB, "Balls", "4.50")

	cart, err := svc.SetQuantity(user.ID, racket.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(40)))

	cart, err = svc.SetQuantity(user.ID, balls.ID, 3)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 5, cart.Count)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("53.50")))

	// setting replaces, it does not add
	cart, err = svc.SetQuantity(user.ID, racket.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Count)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("33.50")))
}

func TestCartService_SetQuantity_ZeroRemoves(t *testing.T) {
	svc, testDB, user := setupCartServiceTest(t)
	racket := createProduct(t, testDB, "Racket", "20.00")

	_, err := svc.SetQuantity(user.ID, racket.ID, 2)
	require.NoError(t, err)

	cart, err := svc.SetQuantity(user.ID, racket.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_SetQuantity_UnknownProduct(t *testing.T) {
	svc, _, user := setupCartServiceTest(t)

	_, err := svc.SetQuantity(user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_RemoveItem_Idempotent(t *testing.T) {
	svc, testDB, user := setupCartServiceTest(t)
	racket := createProduct(t, testDB, "Racket", "20.00")
	_, err := svc.SetQuantity(user.ID, racket.ID, 1)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(user.ID, racket.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	cart, err = svc.RemoveItem(user.ID, racket.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_ClearCart(t *testing.T) {
	svc, testDB, user := setupCartServiceTest(t)
	other := createUser(t, testDB, "other@example.com", model.Address{})
	racket := createProduct(t, testDB, "Racket", "20.00")

	_, err := svc.SetQuantity(user.ID, racket.ID, 1)
	require.NoError(t, err)
	_, err = svc.SetQuantity(other.ID, racket.ID, 4)
	require.NoError(t, err)

	cart, err := svc.ClearCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	otherCart, err := svc.GetCart(other.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, otherCart.Count)
}

func TestCartService_GetCart_DropsDeletedProducts(t *testing.T) {
	svc, testDB, user := setupCartServiceTest(t)
	racket := createProduct(t, testDB, "Racket", "20.00")
	balls := createProduct(t, testDB, "Balls", "5.00")

	_, err := svc.SetQuantity(user.ID, racket.ID, 1)
	require.NoError(t, err)
	_, err = svc.SetQuantity(user.ID, balls.ID, 2)
	require.NoError(t, err)

	require.NoError(t, testDB.Delete(&model.Product{}, balls.ID).Error)

	cart, err := svc.GetCart(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, racket.ID, cart.Items[0].Product.ID)
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(20)))

	var remaining int64
	testDB.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&remaining)
	assert.Equal(t, int64(1), remaining)
}

func TestCartService_SweepOrphanedItems(t *testing.T) {
	svc, testDB, user := setupCartServiceTest(t)
	racket := createProduct(t, testDB, "Racket", "20.00")
	balls := createProduct(t, testDB, "Balls", "5.00")

	_, err := svc.SetQuantity(user.ID, racket.ID, 1)
	require.NoError(t, err)
	_, err = svc.SetQuantity(user.ID, balls.ID, 2)
	require.NoError(t, err)
	require.NoError(t, testDB.Delete(&model.Product{}, balls.ID).Error)

	removed, err := svc.SweepOrphanedItems()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = svc.SweepOrphanedItems()
	require.NoError(t, err)
	assert.Zero(t, removed)
}
