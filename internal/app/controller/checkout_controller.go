package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vibeprint/storefront/internal/app/service"
	apperrors "github.com/vibeprint/storefront/internal/errors"
	"github.com/vibeprint/storefront/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

// Submit validates the form and starts an M-Pesa payment for the cart total
// POST /api/v1/checkout
func (ctrl *CheckoutController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var form service.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Request body must be a JSON checkout form")
		return
	}

	result, err := ctrl.checkoutService.Submit(c.Request.Context(), form)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)

	case errors.Is(err, service.ErrCheckoutInvalid):
		apperrors.RespondWithValidationError(c, apperrors.CheckoutInvalidForm, result.Message, result.FieldErrors)

	case result != nil && result.State == service.CheckoutFailed:
		// The shopper sees the gateway's wording; the state lets them retry.
		info := apperrors.ParseError(err, "payment")
		c.JSON(info.Status, gin.H{
			"error":   info.Code,
			"message": result.Message,
			"state":   result.State,
		})

	default:
		respondWithServiceError(c, err, "checkout")
	}
}

// Status reports the current checkout state
// GET /api/v1/checkout/status
func (ctrl *CheckoutController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.checkoutService.Status())
}
