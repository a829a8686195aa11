package web

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sportaccessories/storefront/pkg/storefront"
)

const (
	tokenCookie   = "sf_token"
	expiresCookie = "sf_expires"
	nameCookie    = "sf_name"
)

func (s *Server) setSession(c *gin.Context, sess storefront.Session) {
	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, sess.Token, maxAge, "/", "", s.cookieSecure, true)
	c.SetCookie(expiresCookie, strconv.FormatInt(sess.ExpiresAt.Unix(), 10), maxAge, "/", "", s.cookieSecure, true)
	c.SetCookie(nameCookie, url.QueryEscape(sess.UserName), maxAge, "/", "", s.cookieSecure, true)
}

func (s *Server) clearSession(c *gin.Context) {
	for _, name := range []string{tokenCookie, expiresCookie, nameCookie} {
		c.SetCookie(name, "", -1, "/", "", s.cookieSecure, true)
	}
}

// loadSession reads the session cookies; ok is false when they are missing,
// malformed or expired.
func (s *Server) loadSession(c *gin.Context) (storefront.Session, bool) {
	token, err := c.Cookie(tokenCookie)
	if err != nil || token == "" {
		return storefront.Session{}, false
	}
	raw, err := c.Cookie(expiresCookie)
	if err != nil {
		return storefront.Session{}, false
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return storefront.Session{}, false
	}

	sess := storefront.Session{Token: token, ExpiresAt: time.Unix(unix, 0)}
	if name, err := c.Cookie(nameCookie); err == nil {
		sess.UserName, _ = url.QueryUnescape(name)
	}
	if !sess.Valid(s.now()) {
		return storefront.Session{}, false
	}
	return sess, true
}

// optionalSession is the session if there is one, for pages that render either way
func (s *Server) optionalSession(c *gin.Context) *storefront.Session {
	sess, ok := s.loadSession(c)
	if !ok {
		return nil
	}
	return &sess
}

// protected wraps handlers that need a signed-in user
func (s *Server) protected(h func(c *gin.Context, sess storefront.Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := s.loadSession(c)
		if !ok {
			s.clearSession(c)
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		h(c, sess)
	}
}
