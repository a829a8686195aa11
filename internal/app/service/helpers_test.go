package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupServiceTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, email string, address model.Address) *model.User {
	user := &model.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
		Address:      address,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createProduct(t *testing.T, testDB *gorm.DB, name, price string) *model.Product {
	product := &model.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "tennis",
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func testAddress() model.Address {
	return model.Address{
		Street:  "1 Court Lane",
		City:    "Springfield",
		State:   "IL",
		ZipCode: "62701",
		Country: "USA",
	}
}
