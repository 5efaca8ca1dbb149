package errors

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vibeprint/storefront/pkg/payment/mpesa"
	"gorm.io/gorm"
)

// ErrorInfo is the client-facing view of an internal error.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError turns infrastructure errors (database, payment gateway, network)
// into a status, code and message safe to show a shopper. resource names the
// thing being handled, e.g. "product".
func ParseError(err error, resource string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: defaultMessage(resource)}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: notFoundMessage(resource)}
	}

	var apiErr *mpesa.APIError
	if errors.As(err, &apiErr) {
		return ErrorInfo{Status: http.StatusBadGateway, Code: PaymentFailed, Message: apiErr.Message}
	}
	if errors.Is(err, mpesa.ErrNetworkError) {
		return ErrorInfo{Status: http.StatusBadGateway, Code: PaymentNetworkError, Message: "Request failed: " + err.Error()}
	}
	if errors.Is(err, mpesa.ErrInvalidRequest) {
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidInput, Message: err.Error()}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorInfo{Status: http.StatusGatewayTimeout, Code: InternalExternalAPI, Message: "The request timed out. Please try again"}
	}

	lower := strings.ToLower(err.Error())

	// Postgres constraint violations (23505, 23503, 23502).
	switch {
	case strings.Contains(lower, "duplicate key") || strings.Contains(lower, "unique constraint"):
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: resourceLabel(resource) + " already exists"}
	case strings.Contains(lower, "foreign key constraint"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidInput, Message: resourceLabel(resource) + " references a record that does not exist"}
	case strings.Contains(lower, "violates not-null constraint"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationRequired, Message: "A required field is missing"}
	}

	if strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "timeout") {
		return ErrorInfo{Status: http.StatusBadGateway, Code: InternalExternalAPI, Message: "An upstream service is unavailable. Please try again shortly"}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: defaultMessage(resource)}
}

func resourceLabel(resource string) string {
	if resource == "" {
		return "Resource"
	}
	return strings.ToUpper(resource[:1]) + resource[1:]
}

func notFoundMessage(resource string) string {
	return resourceLabel(resource) + " not found"
}

func defaultMessage(resource string) string {
	if resource == "" {
		return "Something went wrong. Please try again shortly"
	}
	return "Failed to process " + resource + ". Please try again shortly"
}

// ParseAndRespond writes the parsed error as an ErrorResponse.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, err error, resource string) {
	info := ParseError(err, resource)
	c.JSON(info.Status, ErrorResponse{Error: info.Code, Message: info.Message})
}
