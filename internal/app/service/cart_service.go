package service

import (
	"errors"

	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/internal/app/repository"
	"github.com/sportaccessories/storefront/pkg/logger"
	"gorm.io/gorm"
)

type CartService interface {
	GetCart(userID uint) (*model.CartView, error)
	SetQuantity(userID, productID uint, quantity int) (*model.CartView, error)
	RemoveItem(userID, productID uint) (*model.CartView, error)
	ClearCart(userID uint) (*model.CartView, error)
	SweepOrphanedItems() (int64, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the priced cart. A user without lines gets an empty cart.
// Lines whose product has been deleted are dropped and removed from storage.
func (s *cartService) GetCart(userID uint) (*model.CartView, error) {
	items, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	var orphaned []uint
	for _, item := range items {
		if item.IsOrphaned() {
			orphaned = append(orphaned, item.ID)
		}
	}
	if len(orphaned) > 0 {
		logger.Warn("Dropping cart lines for deleted products", map[string]interface{}{
			"user_id": userID,
			"count":   len(orphaned),
		})
		if err := s.cartRepo.DeleteByIDs(orphaned); err != nil {
			// the view already excludes them; the sweeper retries later
			logger.Error("Failed to prune orphaned cart lines", err, map[string]interface{}{
				"user_id": userID,
			})
		}
	}

	view := model.NewCartView(items)
	return &view, nil
}

// SetQuantity sets the line to exactly quantity. Quantities below one remove the line.
func (s *cartService) SetQuantity(userID, productID uint, quantity int) (*model.CartView, error) {
	logger.Info("Setting cart quantity", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return s.RemoveItem(userID, productID)
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := s.cartRepo.SetQuantity(userID, productID, quantity); err != nil {
		logger.Error("Failed to set cart quantity", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}
	return s.GetCart(userID)
}

// RemoveItem is idempotent
func (s *cartService) RemoveItem(userID, productID uint) (*model.CartView, error) {
	if err := s.cartRepo.DeleteByUserAndProduct(userID, productID); err != nil {
		logger.Error("Failed to remove cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}
	return s.GetCart(userID)
}

func (s *cartService) ClearCart(userID uint) (*model.CartView, error) {
	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	logger.Info("Cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	return s.GetCart(userID)
}

func (s *cartService) SweepOrphanedItems() (int64, error) {
	removed, err := s.cartRepo.DeleteOrphaned()
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.Info("Swept orphaned cart lines", map[string]interface{}{
			"count": removed,
		})
	}
	return removed, nil
}
