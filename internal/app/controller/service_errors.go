package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vibeprint/storefront/internal/app/service"
	apperrors "github.com/vibeprint/storefront/internal/errors"
)

type serviceError struct {
	status  int
	code    string
	message string
}

var serviceErrors = []struct {
	target error
	serviceError
}{
	{service.ErrProductNotFound, serviceError{http.StatusNotFound, apperrors.CatalogProductNotFound, "Product not found"}},
	{service.ErrVariationNotFound, serviceError{http.StatusNotFound, apperrors.CatalogVariationNotFound, "Variation not found"}},
	{service.ErrCategoryNotFound, serviceError{http.StatusNotFound, apperrors.CatalogCategoryNotFound, "Category not found"}},
	{service.ErrInvalidQuantity, serviceError{http.StatusBadRequest, apperrors.CartInvalidQuantity, "Quantity must be at least 1"}},
	{service.ErrCartPersist, serviceError{http.StatusInternalServerError, apperrors.CartPersistFailed, "The cart was updated but could not be saved"}},
	{service.ErrEmptyCart, serviceError{http.StatusBadRequest, apperrors.CartEmpty, "Your cart is empty"}},
	{service.ErrCheckoutInProgress, serviceError{http.StatusConflict, apperrors.CheckoutInProgress, "A payment is already being processed"}},
	{service.ErrEmptyMessage, serviceError{http.StatusBadRequest, apperrors.AssistantEmptyMessage, "Message must not be empty"}},
	{service.ErrInvalidCatalog, serviceError{http.StatusUnprocessableEntity, apperrors.CatalogInvalidDocument, "The catalog document is invalid"}},
	{service.ErrCatalogSyncInProgress, serviceError{http.StatusConflict, apperrors.CatalogSyncInProgress, "A catalog sync is already running"}},
	{service.ErrInvalidCredentials, serviceError{http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password"}},
}

// respondWithServiceError maps service sentinels to their API error and
// falls back to ParseError for everything else.
func respondWithServiceError(c *gin.Context, err error, resource string) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			apperrors.RespondWithError(c, m.status, m.code, m.message)
			return
		}
	}
	apperrors.ParseAndRespond(c, err, resource)
}
