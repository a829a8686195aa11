package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/internal/app/service"
	apperrors "github.com/sportaccessories/storefront/internal/errors"
	"github.com/sportaccessories/storefront/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

type CreateOrderRequest struct {
	ShippingAddress model.Address       `json:"shippingAddress"`
	PaymentMethod   model.PaymentMethod `json:"paymentMethod" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus model.PaymentStatus `json:"paymentStatus" binding:"required"`
}

// ListOrders returns the caller's orders, newest first
// GET /api/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.ListOrders(userID)
	if err != nil {
		respondOrderError(c, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder
// GET /api/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrder(userID, orderID)
	if err != nil {
		respondOrderError(c, err, "get order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CreateOrder checks out the caller's cart
// POST /api/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "paymentMethod is required")
		return
	}

	order, err := ctrl.orderService.CreateOrder(userID, service.CheckoutRequest{
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		respondOrderError(c, err, "create order")
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  userID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}

// CancelOrder
// POST /api/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.CancelOrder(userID, orderID)
	if err != nil {
		respondOrderError(c, err, "cancel order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}

// UpdateStatus
// PUT /api/orders/:id/status (admin)
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "status is required")
		return
	}

	order, err := ctrl.orderService.UpdateStatus(orderID, req.Status)
	if err != nil {
		respondOrderError(c, err, "update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// UpdatePaymentStatus
// PUT /api/orders/:id/payment (admin)
func (ctrl *OrderController) UpdatePaymentStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "paymentStatus is required")
		return
	}

	order, err := ctrl.orderService.UpdatePaymentStatus(orderID, req.PaymentStatus)
	if err != nil {
		respondOrderError(c, err, "update payment status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment status updated successfully",
		"order":   order,
	})
}

func respondOrderError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
	case errors.Is(err, service.ErrEmptyCart):
		apperrors.BadRequest(c, apperrors.CartEmpty, "Your cart is empty")
	case errors.Is(err, service.ErrInvalidShippingAddress):
		apperrors.BadRequest(c, apperrors.OrderInvalidAddress, "A shipping address with street and city is required")
	case errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidOrderStatus),
		errors.Is(err, service.ErrInvalidPaymentStatus):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
	case errors.Is(err, service.ErrInvalidOrderState):
		apperrors.Conflict(c, apperrors.OrderInvalidState, "Only pending or processing orders can be cancelled")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		apperrors.Conflict(c, apperrors.OrderInvalidTransition, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
	default:
		middleware.GetLoggerFromContext(c).Error("Order request failed", err, map[string]interface{}{
			"action": action,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, action)
	}
}
