package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of a user's cart. A user's cart is the set of their lines.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"userId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product;index" json:"productId"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// IsOrphaned reports whether the referenced product no longer resolves.
// Preload skips soft-deleted products, leaving the zero value behind.
func (c *CartItem) IsOrphaned() bool {
	return c.Product.ID == 0
}

// CartLine is a priced cart line.
type CartLine struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartView is the derived representation of a cart. Total is never stored.
type CartView struct {
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// NewCartView prices the given lines, skipping orphaned ones.
func NewCartView(items []CartItem) CartView {
	view := CartView{Items: make([]CartLine, 0, len(items)), Total: decimal.Zero}
	for _, item := range items {
		if item.IsOrphaned() {
			continue
		}
		subtotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, CartLine{
			Product:  item.Product,
			Quantity: item.Quantity,
			Subtotal: subtotal,
		})
		view.Total = view.Total.Add(subtotal)
		view.Count += item.Quantity
	}
	return view
}
