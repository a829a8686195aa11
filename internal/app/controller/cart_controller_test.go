package controller

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/internal/app/repository"
	"github.com/sportaccessories/storefront/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartControllerTest(t *testing.T) (*gin.Engine, *model.Product) {
	router, testDB := setupControllerTest(t)
	cartService := service.NewCartService(repository.NewCartRepository(testDB), repository.NewProductRepository(testDB))
	ctrl := NewCartController(cartService)

	user := createUser(t, testDB, "cart@example.com")
	product := createProduct(t, testDB, "Running Socks", "7.50")

	cart := router.Group("/api/cart", asUser(user.ID))
	cart.GET("", ctrl.GetCart)
	cart.PUT("/update", ctrl.UpdateItem)
	cart.DELETE("/remove/:productId", ctrl.RemoveItem)
	cart.DELETE("", ctrl.ClearCart)
	return router, product
}

func TestCartController_GetCart_Empty(t *testing.T) {
	router, _ := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, []interface{}{}, body["items"])
	assert.Equal(t, float64(0), body["total"])
	assert.Equal(t, float64(0), body["count"])
}

func TestCartController_UpdateItem(t *testing.T) {
	router, product := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodPut, "/api/cart/update", gin.H{
		"productId": product.ID,
		"quantity":  4,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, float64(30), body["total"])
	assert.Equal(t, float64(4), body["count"])
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, "Running Socks", line["product"].(map[string]interface{})["name"])
	assert.Equal(t, float64(30), line["subtotal"])
}

func TestCartController_UpdateItem_ZeroRemoves(t *testing.T) {
	router, product := setupCartControllerTest(t)
	doJSON(t, router, http.MethodPut, "/api/cart/update", gin.H{"productId": product.ID, "quantity": 2})

	w := doJSON(t, router, http.MethodPut, "/api/cart/update", gin.H{"productId": product.ID, "quantity": 0})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["items"])
}

func TestCartController_UpdateItem_Errors(t *testing.T) {
	router, product := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodPut, "/api/cart/update", gin.H{"productId": product.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_INPUT", decodeBody(t, w)["error"])

	w = doJSON(t, router, http.MethodPut, "/api/cart/update", gin.H{"productId": 9999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", decodeBody(t, w)["error"])
}

func TestCartController_RemoveItem(t *testing.T) {
	router, product := setupCartControllerTest(t)
	doJSON(t, router, http.MethodPut, "/api/cart/update", gin.H{"productId": product.ID, "quantity": 2})

	path := "/api/cart/remove/" + strconv.Itoa(int(product.ID))
	w := doJSON(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["items"])

	// removing again is not an error
	w = doJSON(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/cart/remove/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_ID", decodeBody(t, w)["error"])
}

func TestCartController_ClearCart(t *testing.T) {
	router, product := setupCartControllerTest(t)
	doJSON(t, router, http.MethodPut, "/api/cart/update", gin.H{"productId": product.ID, "quantity": 2})

	w := doJSON(t, router, http.MethodDelete, "/api/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["count"])
}
