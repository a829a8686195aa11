package storefront

import (
	"time"

	"github.com/sportaccessories/storefront/internal/app/model"
)

// Session is the authenticated state a caller carries between requests
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserName  string
}

// Valid reports whether the session can still be presented at now
func (s Session) Valid(now time.Time) bool {
	return s.Token != "" && now.Before(s.ExpiresAt)
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

type ProfileUpdate struct {
	Name    string         `json:"name,omitempty"`
	Phone   string         `json:"phone,omitempty"`
	Address *model.Address `json:"address,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type userResponse struct {
	User *model.User `json:"user"`
}

type productsResponse struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

type productResponse struct {
	Product *model.Product `json:"product"`
}

type cartUpdateRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// CheckoutRequest places an order. A nil ShippingAddress uses the profile address.
type CheckoutRequest struct {
	ShippingAddress *model.Address      `json:"shippingAddress,omitempty"`
	PaymentMethod   model.PaymentMethod `json:"paymentMethod"`
}

type ordersResponse struct {
	Orders []model.Order `json:"orders"`
	Count  int           `json:"count"`
}

type orderResponse struct {
	Order *model.Order `json:"order"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
