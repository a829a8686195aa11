package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/internal/middleware"
	"github.com/sportaccessories/storefront/pkg/storefront"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders the storefront pages on top of the REST API
type Server struct {
	api          *storefront.Client
	templates    *template.Template
	cookieSecure bool
	now          func() time.Time
}

func NewServer(api *storefront.Client, cookieSecure bool) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		api:          api,
		templates:    tmpl,
		cookieSecure: cookieSecure,
		now:          time.Now,
	}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return "$" + d.StringFixed(2)
		},
		"badge": StatusBadge,
		"tracked": func(s model.OrderStatus) bool {
			return s != model.OrderStatusPending
		},
		"paymentMethods": func() []model.PaymentMethod {
			return []model.PaymentMethod{
				model.PaymentMethodCreditCard,
				model.PaymentMethodPayPal,
				model.PaymentMethodCashOnDelivery,
			}
		},
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
	}
}

// Handler builds the page routes
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggingMiddleware())
	r.SetHTMLTemplate(s.templates)

	r.GET("/", s.catalog)
	r.GET("/products", s.catalog)
	r.GET("/products/:id", s.productDetail)
	r.POST("/products/:id/add", s.protected(s.addToCart))

	r.GET("/cart", s.protected(s.cartPage))
	r.POST("/cart/update", s.protected(s.cartUpdate))
	r.POST("/cart/remove/:productId", s.protected(s.cartRemove))
	r.POST("/cart/checkout", s.protected(s.checkout))

	r.GET("/orders/:id", s.protected(s.orderPage))
	r.POST("/orders/:id/cancel", s.protected(s.orderCancel))

	r.GET("/profile", s.protected(s.profilePage))
	r.POST("/profile", s.protected(s.profileUpdate))
	r.POST("/profile/password", s.protected(s.passwordChange))

	r.GET("/login", s.loginPage)
	r.POST("/login", s.login)
	r.GET("/register", s.registerPage)
	r.POST("/register", s.register)
	r.POST("/logout", s.logout)

	return r
}

func (s *Server) render(c *gin.Context, status int, name string, sess *storefront.Session, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Session"] = sess
	if _, set := data["Search"]; !set {
		data["Search"] = ""
	}
	if _, set := data["Error"]; !set {
		data["Error"] = c.Query("error")
	}
	c.HTML(status, name, data)
}

func redirectWithError(c *gin.Context, path, msg string) {
	c.Redirect(http.StatusSeeOther, path+"?error="+url.QueryEscape(msg))
}

// fail sends the user back to path with err shown inline. Auth failures end the session.
func (s *Server) fail(c *gin.Context, err error, path string) {
	if errors.Is(err, storefront.ErrUnauthorized) || errors.Is(err, storefront.ErrSessionExpired) {
		s.clearSession(c)
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	middleware.GetLoggerFromContext(c).Warn("API call failed", map[string]interface{}{
		"error": err.Error(),
		"back":  path,
	})
	redirectWithError(c, path, storefront.Message(err))
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func formAddress(c *gin.Context) model.Address {
	return model.Address{
		Street:  strings.TrimSpace(c.PostForm("street")),
		City:    strings.TrimSpace(c.PostForm("city")),
		State:   strings.TrimSpace(c.PostForm("state")),
		ZipCode: strings.TrimSpace(c.PostForm("zipCode")),
		Country: strings.TrimSpace(c.PostForm("country")),
	}
}

func (s *Server) catalog(c *gin.Context) {
	sess := s.optionalSession(c)
	search := strings.TrimSpace(c.Query("search"))

	data := gin.H{"Search": search}
	products, err := s.api.ListProducts(c.Request.Context(), search)
	if err != nil {
		data["Error"] = storefront.Message(err)
	}
	data["Products"] = products
	s.render(c, http.StatusOK, "catalog.html", sess, data)
}

func (s *Server) productDetail(c *gin.Context) {
	sess := s.optionalSession(c)
	id, ok := idParam(c, "id")
	if !ok {
		redirectWithError(c, "/", "Product not found")
		return
	}

	product, err := s.api.GetProduct(c.Request.Context(), id)
	if err != nil {
		redirectWithError(c, "/", storefront.Message(err))
		return
	}
	s.render(c, http.StatusOK, "product.html", sess, gin.H{"Product": product})
}

// addToCart adds quantity on top of whatever the cart already holds
func (s *Server) addToCart(c *gin.Context, sess storefront.Session) {
	id, ok := idParam(c, "id")
	if !ok {
		redirectWithError(c, "/", "Product not found")
		return
	}
	back := "/products/" + c.Param("id")

	qty, err := strconv.Atoi(c.DefaultPostForm("quantity", "1"))
	if err != nil || qty < 1 {
		redirectWithError(c, back, "Quantity must be at least 1")
		return
	}

	ctx := c.Request.Context()
	cart, err := s.api.GetCart(ctx, sess)
	if err != nil {
		s.fail(c, err, back)
		return
	}
	for _, line := range cart.Items {
		if line.Product.ID == id {
			qty += line.Quantity
			break
		}
	}

	if _, err := s.api.SetCartQuantity(ctx, sess, id, qty); err != nil {
		s.fail(c, err, back)
		return
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (s *Server) cartPage(c *gin.Context, sess storefront.Session) {
	ctx := c.Request.Context()
	cart, err := s.api.GetCart(ctx, sess)
	if err != nil {
		s.fail(c, err, "/")
		return
	}
	user, err := s.api.Profile(ctx, sess)
	if err != nil {
		s.fail(c, err, "/")
		return
	}
	s.render(c, http.StatusOK, "cart.html", &sess, gin.H{"Cart": cart, "User": user})
}

func (s *Server) cartUpdate(c *gin.Context, sess storefront.Session) {
	productID, err := strconv.ParseUint(c.PostForm("productId"), 10, 32)
	if err != nil || productID == 0 {
		redirectWithError(c, "/cart", "Unknown product")
		return
	}
	qty, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil {
		redirectWithError(c, "/cart", "Quantity must be a number")
		return
	}

	if _, err := s.api.SetCartQuantity(c.Request.Context(), sess, uint(productID), qty); err != nil {
		s.fail(c, err, "/cart")
		return
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (s *Server) cartRemove(c *gin.Context, sess storefront.Session) {
	id, ok := idParam(c, "productId")
	if !ok {
		redirectWithError(c, "/cart", "Unknown product")
		return
	}
	if _, err := s.api.RemoveFromCart(c.Request.Context(), sess, id); err != nil {
		s.fail(c, err, "/cart")
		return
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (s *Server) checkout(c *gin.Context, sess storefront.Session) {
	req := storefront.CheckoutRequest{PaymentMethod: model.PaymentMethod(c.PostForm("paymentMethod"))}
	if addr := formAddress(c); addr != (model.Address{}) {
		req.ShippingAddress = &addr
	}

	order, err := s.api.CreateOrder(c.Request.Context(), sess, req)
	if err != nil {
		s.fail(c, err, "/cart")
		return
	}
	c.Redirect(http.StatusSeeOther, "/orders/"+strconv.FormatUint(uint64(order.ID), 10))
}

func (s *Server) orderPage(c *gin.Context, sess storefront.Session) {
	id, ok := idParam(c, "id")
	if !ok {
		redirectWithError(c, "/profile", "Order not found")
		return
	}
	order, err := s.api.GetOrder(c.Request.Context(), sess, id)
	if err != nil {
		s.fail(c, err, "/profile")
		return
	}
	s.render(c, http.StatusOK, "order.html", &sess, gin.H{"Order": order})
}

func (s *Server) orderCancel(c *gin.Context, sess storefront.Session) {
	id, ok := idParam(c, "id")
	if !ok {
		redirectWithError(c, "/profile", "Order not found")
		return
	}
	back := "/orders/" + c.Param("id")
	if _, err := s.api.CancelOrder(c.Request.Context(), sess, id); err != nil {
		s.fail(c, err, back)
		return
	}
	c.Redirect(http.StatusSeeOther, back)
}

func (s *Server) profilePage(c *gin.Context, sess storefront.Session) {
	ctx := c.Request.Context()
	user, err := s.api.Profile(ctx, sess)
	if err != nil {
		s.fail(c, err, "/")
		return
	}
	orders, err := s.api.ListOrders(ctx, sess)
	if err != nil {
		s.fail(c, err, "/")
		return
	}
	s.render(c, http.StatusOK, "profile.html", &sess, gin.H{"User": user, "Orders": orders})
}

func (s *Server) profileUpdate(c *gin.Context, sess storefront.Session) {
	addr := formAddress(c)
	user, err := s.api.UpdateProfile(c.Request.Context(), sess, storefront.ProfileUpdate{
		Name:    strings.TrimSpace(c.PostForm("name")),
		Phone:   strings.TrimSpace(c.PostForm("phone")),
		Address: &addr,
	})
	if err != nil {
		s.fail(c, err, "/profile")
		return
	}

	sess.UserName = user.Name
	s.setSession(c, sess)
	c.Redirect(http.StatusSeeOther, "/profile")
}

func (s *Server) passwordChange(c *gin.Context, sess storefront.Session) {
	next := c.PostForm("newPassword")
	if next != c.PostForm("confirmPassword") {
		redirectWithError(c, "/profile", "New passwords do not match")
		return
	}
	if err := s.api.ChangePassword(c.Request.Context(), sess, c.PostForm("currentPassword"), next); err != nil {
		s.fail(c, err, "/profile")
		return
	}
	c.Redirect(http.StatusSeeOther, "/profile")
}

func (s *Server) loginPage(c *gin.Context) {
	if sess := s.optionalSession(c); sess != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	s.render(c, http.StatusOK, "login.html", nil, nil)
}

func (s *Server) login(c *gin.Context) {
	sess, _, err := s.api.Login(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		redirectWithError(c, "/login", storefront.Message(err))
		return
	}
	s.setSession(c, sess)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) registerPage(c *gin.Context) {
	if sess := s.optionalSession(c); sess != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	s.render(c, http.StatusOK, "register.html", nil, nil)
}

func (s *Server) register(c *gin.Context) {
	password := c.PostForm("password")
	if password != c.PostForm("confirmPassword") {
		redirectWithError(c, "/register", "Passwords do not match")
		return
	}

	sess, _, err := s.api.Register(c.Request.Context(), storefront.RegisterRequest{
		Email:    c.PostForm("email"),
		Password: password,
		Name:     c.PostForm("name"),
		Phone:    c.PostForm("phone"),
	})
	if err != nil {
		redirectWithError(c, "/register", storefront.Message(err))
		return
	}
	s.setSession(c, sess)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c *gin.Context) {
	if sess, ok := s.loadSession(c); ok {
		if err := s.api.Logout(c.Request.Context(), sess); err != nil {
			middleware.GetLoggerFromContext(c).Warn("API logout failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	s.clearSession(c)
	c.Redirect(http.StatusSeeOther, "/")
}
