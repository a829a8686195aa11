package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/internal/app/repository"
	"github.com/sportaccessories/storefront/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderControllerFixture struct {
	router  *gin.Engine
	db      *gorm.DB
	user    *model.User
	product *model.Product
	carts   service.CartService
}

func setupOrderControllerTest(t *testing.T) *orderControllerFixture {
	router, testDB := setupControllerTest(t)
	cartRepo := repository.NewCartRepository(testDB)
	orderService := service.NewOrderService(testDB, repository.NewOrderRepository(testDB), cartRepo, repository.NewUserRepository(testDB))
	ctrl := NewOrderController(orderService)

	user := createUser(t, testDB, "orders@example.com")
	stranger := createUser(t, testDB, "stranger@example.com")

	orders := router.Group("/api/orders", asUser(user.ID))
	orders.GET("", ctrl.ListOrders)
	orders.GET("/:id", ctrl.GetOrder)
	orders.POST("", ctrl.CreateOrder)
	orders.POST("/:id/cancel", ctrl.CancelOrder)
	orders.PUT("/:id/status", ctrl.UpdateStatus)
	orders.PUT("/:id/payment", ctrl.UpdatePaymentStatus)

	router.GET("/as-stranger/orders/:id", asUser(stranger.ID), ctrl.GetOrder)

	return &orderControllerFixture{
		router:  router,
		db:      testDB,
		user:    user,
		product: createProduct(t, testDB, "Water Bottle", "12.25"),
		carts:   service.NewCartService(cartRepo, repository.NewProductRepository(testDB)),
	}
}

var shippingBody = gin.H{
	"street":  "7 Stadium Rd",
	"city":    "Portland",
	"state":   "OR",
	"zipCode": "97201",
	"country": "USA",
}

func (f *orderControllerFixture) placeOrder(t *testing.T) map[string]interface{} {
	t.Helper()
	_, err := f.carts.SetQuantity(f.user.ID, f.product.ID, 2)
	require.NoError(t, err)

	w := doJSON(t, f.router, http.MethodPost, "/api/orders", gin.H{
		"shippingAddress": shippingBody,
		"paymentMethod":   "credit_card",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)["order"].(map[string]interface{})
}

func TestOrderController_CreateOrder(t *testing.T) {
	f := setupOrderControllerTest(t)

	order := f.placeOrder(t)
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "pending", order["paymentStatus"])
	assert.Equal(t, float64(24.5), order["totalAmount"])
	assert.Regexp(t, `^SA-`, order["trackingNumber"])
	assert.Equal(t, "Portland", order["shippingAddress"].(map[string]interface{})["city"])
	assert.Len(t, order["items"], 1)
}

func TestOrderController_CreateOrder_Errors(t *testing.T) {
	f := setupOrderControllerTest(t)

	w := doJSON(t, f.router, http.MethodPost, "/api/orders", gin.H{"shippingAddress": shippingBody})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_INPUT", decodeBody(t, w)["error"])

	w = doJSON(t, f.router, http.MethodPost, "/api/orders", gin.H{
		"shippingAddress": shippingBody,
		"paymentMethod":   "paypal",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CART_EMPTY", decodeBody(t, w)["error"])

	_, err := f.carts.SetQuantity(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)
	w = doJSON(t, f.router, http.MethodPost, "/api/orders", gin.H{"paymentMethod": "paypal"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ORDER_INVALID_ADDRESS", decodeBody(t, w)["error"])
}

func TestOrderController_GetAndList(t *testing.T) {
	f := setupOrderControllerTest(t)
	order := f.placeOrder(t)
	id := int(order["id"].(float64))

	w := doJSON(t, f.router, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, f.router, http.MethodGet, fmt.Sprintf("/as-stranger/orders/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", decodeBody(t, w)["error"])

	w = doJSON(t, f.router, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])
}

func TestOrderController_CancelOrder(t *testing.T) {
	f := setupOrderControllerTest(t)
	order := f.placeOrder(t)
	path := fmt.Sprintf("/api/orders/%d/cancel", int(order["id"].(float64)))

	w := doJSON(t, f.router, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decodeBody(t, w)["order"].(map[string]interface{})["status"])

	w = doJSON(t, f.router, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ORDER_INVALID_STATE", decodeBody(t, w)["error"])
}

func TestOrderController_UpdateStatus(t *testing.T) {
	f := setupOrderControllerTest(t)
	order := f.placeOrder(t)
	id := int(order["id"].(float64))

	w := doJSON(t, f.router, http.MethodPut, fmt.Sprintf("/api/orders/%d/status", id), gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ORDER_INVALID_TRANSITION", decodeBody(t, w)["error"])

	w = doJSON(t, f.router, http.MethodPut, fmt.Sprintf("/api/orders/%d/status", id), gin.H{"status": "processing"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "processing", decodeBody(t, w)["order"].(map[string]interface{})["status"])

	w = doJSON(t, f.router, http.MethodPut, fmt.Sprintf("/api/orders/%d/payment", id), gin.H{"paymentStatus": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", decodeBody(t, w)["order"].(map[string]interface{})["paymentStatus"])

	w = doJSON(t, f.router, http.MethodPut, "/api/orders/x/status", gin.H{"status": "processing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
