package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sportaccessories/storefront/internal/app/service"
	apperrors "github.com/sportaccessories/storefront/internal/errors"
	"github.com/sportaccessories/storefront/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type UpdateCartRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  *int `json:"quantity" binding:"required"`
}

// GetCart
// GET /api/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		respondCartError(c, err, "get cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateItem sets a line's quantity; zero or less removes it
// PUT /api/cart/update
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid cart update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "productId and quantity are required")
		return
	}

	cart, err := ctrl.cartService.SetQuantity(userID, req.ProductID, *req.Quantity)
	if err != nil {
		respondCartError(c, err, "update cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem
// DELETE /api/cart/remove/:productId
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	cart, err := ctrl.cartService.RemoveItem(userID, productID)
	if err != nil {
		respondCartError(c, err, "remove cart item")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart
// DELETE /api/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.ClearCart(userID)
	if err != nil {
		respondCartError(c, err, "clear cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func respondCartError(c *gin.Context, err error, action string) {
	if errors.Is(err, service.ErrProductNotFound) {
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		return
	}
	middleware.GetLoggerFromContext(c).Error("Cart request failed", err, map[string]interface{}{
		"action": action,
	})
	apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, action)
}
