package service

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/internal/app/repository"
	"github.com/sportaccessories/storefront/pkg/logger"
	"github.com/sportaccessories/storefront/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrInvalidOrderState       = errors.New("order can no longer be cancelled")
	ErrInvalidStatusTransition = errors.New("order status transition not allowed")
	ErrInvalidOrderStatus      = errors.New("unknown order status")
	ErrInvalidShippingAddress  = errors.New("shipping address is required")
	ErrInvalidPaymentMethod    = errors.New("unsupported payment method")
	ErrInvalidPaymentStatus    = errors.New("unknown payment status")
)

// CheckoutRequest carries the checkout form. A zero ShippingAddress falls back
// to the address on the user's profile.
type CheckoutRequest struct {
	ShippingAddress model.Address
	PaymentMethod   model.PaymentMethod
}

type OrderService interface {
	CreateOrder(userID uint, req CheckoutRequest) (*model.Order, error)
	GetOrder(userID, orderID uint) (*model.Order, error)
	ListOrders(userID uint) ([]model.Order, error)
	CancelOrder(userID, orderID uint) (*model.Order, error)
	UpdateStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
	UpdatePaymentStatus(orderID uint, status model.PaymentStatus) (*model.Order, error)
}

type orderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	userRepo  repository.UserRepository
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
) OrderService {
	return &orderService{
		db:        db,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
	}
}

func (s *orderService) resolveShippingAddress(userID uint, requested model.Address) (model.Address, error) {
	requested = requested.Normalize()
	if !requested.IsZero() {
		return requested, nil
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Address{}, ErrUserNotFound
		}
		return model.Address{}, err
	}
	if user.Address.IsZero() {
		return model.Address{}, ErrInvalidShippingAddress
	}
	return user.Address, nil
}

// CreateOrder converts the cart into an order. The order insert and the cart
// clear commit together or not at all.
func (s *orderService) CreateOrder(userID uint, req CheckoutRequest) (*model.Order, error) {
	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id":        userID,
		"payment_method": req.PaymentMethod,
	})

	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	address, err := s.resolveShippingAddress(userID, req.ShippingAddress)
	if err != nil {
		logger.Warn("Order creation failed: no shipping address", map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	var order *model.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		cartItems, err := cartRepo.FindByUserID(userID)
		if err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			if ci.IsOrphaned() {
				continue
			}
			item := model.OrderItem{
				ProductID: ci.ProductID,
				Name:      ci.Product.Name,
				ImageURL:  ci.Product.ImageURL,
				Price:     ci.Product.Price,
				Quantity:  ci.Quantity,
			}
			total = total.Add(item.Subtotal())
			items = append(items, item)
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		order = &model.Order{
			UserID:          userID,
			TrackingNumber:  util.GenerateTrackingNumber(),
			TotalAmount:     total,
			Status:          model.OrderStatusPending,
			PaymentMethod:   req.PaymentMethod,
			PaymentStatus:   model.PaymentStatusPending,
			ShippingAddress: address,
			Items:           items,
		}
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}

		return cartRepo.DeleteByUserID(userID)
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
				"user_id": userID,
			})
		} else {
			logger.Error("Order transaction failed", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"order_id":        order.ID,
		"user_id":         userID,
		"tracking_number": order.TrackingNumber,
		"total_amount":    order.TotalAmount.String(),
	})
	return order, nil
}

// GetOrder returns ErrOrderNotFound both for missing orders and for orders
// owned by someone else.
func (s *orderService) GetOrder(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDAndUser(orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
			"user_id":  userID,
		})
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to list orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (s *orderService) CancelOrder(userID, orderID uint) (*model.Order, error) {
	order, err := s.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanCancel() {
		logger.Warn("Cancel rejected", map[string]interface{}{
			"order_id": orderID,
			"status":   order.Status,
		})
		return nil, ErrInvalidOrderState
	}

	extra := map[string]interface{}{"cancelled_at": time.Now()}
	if order.PaymentStatus == model.PaymentStatusCompleted {
		extra["payment_status"] = model.PaymentStatusRefunded
	}

	applied, err := s.orderRepo.TransitionStatus(orderID, []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusProcessing,
	}, model.OrderStatusCancelled, extra)
	if err != nil {
		return nil, err
	}
	if !applied {
		// status moved on between read and update
		return nil, ErrInvalidOrderState
	}

	logger.Info("Order cancelled", map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
	})
	return s.GetOrder(userID, orderID)
}

func (s *orderService) findOrder(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order along the fulfillment path
func (s *orderService) UpdateStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		logger.Warn("Status transition rejected", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       status,
		})
		return nil, ErrInvalidStatusTransition
	}

	var extra map[string]interface{}
	if status == model.OrderStatusCancelled {
		extra = map[string]interface{}{"cancelled_at": time.Now()}
		if order.PaymentStatus == model.PaymentStatusCompleted {
			extra["payment_status"] = model.PaymentStatusRefunded
		}
	}

	applied, err := s.orderRepo.TransitionStatus(orderID, []model.OrderStatus{order.Status}, status, extra)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrInvalidStatusTransition
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"from":     order.Status,
		"to":       status,
	})
	return s.findOrder(orderID)
}

func (s *orderService) UpdatePaymentStatus(orderID uint, status model.PaymentStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidPaymentStatus
	}

	if err := s.orderRepo.UpdatePaymentStatus(orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	logger.Info("Payment status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return s.findOrder(orderID)
}
