package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/pkg/logger"
)

// Client is a typed client for the storefront REST API. Protected calls take
// the caller's Session explicitly; the client itself holds no credentials.
type Client struct {
	config     Config
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a new API client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		now:        time.Now,
	}, nil
}

func (c *Client) newSession(resp authResponse) Session {
	s := Session{Token: resp.Token, ExpiresAt: resp.ExpiresAt}
	if resp.User != nil {
		s.UserName = resp.User.Name
	}
	return s
}

// Register creates an account and returns a session for it
func (c *Client) Register(ctx context.Context, req RegisterRequest) (Session, *model.User, error) {
	var resp authResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/users/register", nil, req, &resp); err != nil {
		return Session{}, nil, err
	}
	return c.newSession(resp), resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, *model.User, error) {
	var resp authResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/users/login", nil, LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return Session{}, nil, err
	}
	return c.newSession(resp), resp.User, nil
}

func (c *Client) Logout(ctx context.Context, s Session) error {
	return c.doRequest(ctx, http.MethodPost, "/api/users/logout", &s, nil, nil)
}

func (c *Client) Profile(ctx context.Context, s Session) (*model.User, error) {
	var resp userResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/users/profile", &s, nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, s Session, update ProfileUpdate) (*model.User, error) {
	var resp userResponse
	if err := c.doRequest(ctx, http.MethodPut, "/api/users/profile", &s, update, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, s Session, current, next string) error {
	return c.doRequest(ctx, http.MethodPut, "/api/users/change-password", &s,
		changePasswordRequest{CurrentPassword: current, NewPassword: next}, nil)
}

// ListProducts returns the catalog; an empty search returns everything
func (c *Client) ListProducts(ctx context.Context, search string) ([]model.Product, error) {
	path := "/api/products"
	if search != "" {
		path += "?" + url.Values{"search": {search}}.Encode()
	}

	var resp productsResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	var resp productResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/products/"+idPath(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Product, nil
}

func (c *Client) GetCart(ctx context.Context, s Session) (*model.CartView, error) {
	var cart model.CartView
	if err := c.doRequest(ctx, http.MethodGet, "/api/cart", &s, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// SetCartQuantity sets a line to quantity; zero removes it
func (c *Client) SetCartQuantity(ctx context.Context, s Session, productID uint, quantity int) (*model.CartView, error) {
	var cart model.CartView
	err := c.doRequest(ctx, http.MethodPut, "/api/cart/update", &s,
		cartUpdateRequest{ProductID: productID, Quantity: quantity}, &cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, s Session, productID uint) (*model.CartView, error) {
	var cart model.CartView
	if err := c.doRequest(ctx, http.MethodDelete, "/api/cart/remove/"+idPath(productID), &s, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) ClearCart(ctx context.Context, s Session) (*model.CartView, error) {
	var cart model.CartView
	if err := c.doRequest(ctx, http.MethodDelete, "/api/cart", &s, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) ListOrders(ctx context.Context, s Session) ([]model.Order, error) {
	var resp ordersResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/orders", &s, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) GetOrder(ctx context.Context, s Session, id uint) (*model.Order, error) {
	var resp orderResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/orders/"+idPath(id), &s, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (c *Client) CreateOrder(ctx context.Context, s Session, req CheckoutRequest) (*model.Order, error) {
	var resp orderResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/orders", &s, req, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (c *Client) CancelOrder(ctx context.Context, s Session, id uint) (*model.Order, error) {
	var resp orderResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/orders/"+idPath(id)+"/cancel", &s, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func idPath(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// doRequest performs an HTTP request against the API. A non-nil session must
// be valid; out may be nil when the body is not needed.
func (c *Client) doRequest(ctx context.Context, method, path string, session *Session, payload, out interface{}) error {
	if session != nil && !session.Valid(c.now()) {
		return ErrSessionExpired
	}

	var body io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug("API request finished", map[string]interface{}{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil {
			apiErr.Code = errResp.Error
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
