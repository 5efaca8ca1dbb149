package mpesa

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid mpesa client config")

	// ErrInvalidRequest is returned when the phone or amount is unusable
	ErrInvalidRequest = errors.New("invalid payment request")

	// ErrPaymentFailed is returned when the service answers with a non-2xx status
	ErrPaymentFailed = errors.New("payment failed")

	// ErrNetworkError is returned when the service can't be reached
	ErrNetworkError = errors.New("network error")
)

// UnknownErrorMessage is reported when a failed response carries no message.
const UnknownErrorMessage = "Unknown error"

// APIError is a non-2xx answer from the payment service. Message is the
// service's own wording and is meant to be shown to the customer as is.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mpesa: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrPaymentFailed
}
