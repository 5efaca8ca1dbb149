package mpesa

import "time"

const (
	DefaultBaseURL = "https://mpesaapi-sbss.onrender.com"
	DefaultPayPath = "/mpesa/pay"
)

// Config represents the configuration for the M-Pesa payment client
type Config struct {
	// BaseURL is the payment service origin, without a trailing slash
	BaseURL string

	// PayPath is the STK push initiation endpoint
	PayPath string

	// Timeout bounds a single request. Zero leaves the transport default.
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	if c.PayPath == "" {
		c.PayPath = DefaultPayPath
	}
	return nil
}
