package storefront

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config represents the configuration for the storefront API client
type Config struct {
	// BaseURL is the API origin, e.g. http://localhost:5050
	BaseURL string

	// Timeout bounds every request; zero means 10 seconds
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("base URL must be absolute")
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return nil
}
