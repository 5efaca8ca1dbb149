package controller

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibeprint/storefront/internal/app/model"
	"github.com/vibeprint/storefront/internal/app/repository"
	"github.com/vibeprint/storefront/internal/app/service"
	apperrors "github.com/vibeprint/storefront/internal/errors"
	"github.com/vibeprint/storefront/pkg/payment/mpesa"
)

func setupCheckoutControllerTest(t *testing.T) (*gin.Engine, service.CartService, *stubGateway) {
	cartService := service.NewCartService(repository.NewMemoryCartRecordRepository(), nil)
	gateway := &stubGateway{}
	checkout := service.NewCheckoutService(cartService, gateway, service.CheckoutOptions{
		RedirectPath:  "/",
		RedirectDelay: time.Minute,
	})
	ctrl := NewCheckoutController(checkout)

	router := newTestRouter()
	router.POST("/api/v1/checkout", ctrl.Submit)
	router.GET("/api/v1/checkout/status", ctrl.Status)
	return router, cartService, gateway
}

func addMug(t *testing.T, cartService service.CartService) {
	mug := model.Product{ID: 201, Name: "Custom Ceramic Mug", Price: 800, Category: "drinkware", InStock: true}
	_, err := cartService.Add(context.Background(), mug, 2, nil)
	require.NoError(t, err)
}

func checkoutBody() gin.H {
	return gin.H{
		"name":    "Otieno Odhiambo",
		"email":   "otieno@example.co.ke",
		"phone":   "+254712345678",
		"address": "Kenyatta Avenue, Nairobi",
	}
}

func TestCheckoutController_Submit_Success(t *testing.T) {
	router, cartService, gateway := setupCheckoutControllerTest(t)
	addMug(t, cartService)

	w := performJSON(router, http.MethodPost, "/api/v1/checkout", checkoutBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result service.CheckoutResult
	decodeBody(t, w, &result)
	assert.Equal(t, service.CheckoutSucceeded, result.State)
	assert.Equal(t, service.MessagePaymentStarted, result.Message)
	assert.Equal(t, "ws_CO_controller", result.CheckoutRequest)
	assert.Equal(t, "/", result.RedirectTo)

	require.Len(t, gateway.calls, 1)
	assert.Equal(t, "254712345678", gateway.calls[0].Phone)
	assert.Equal(t, int64(1728), gateway.calls[0].Amount)
	assert.Empty(t, cartService.Items())

	w = performJSON(router, http.MethodGet, "/api/v1/checkout/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status service.CheckoutResult
	decodeBody(t, w, &status)
	assert.Equal(t, service.CheckoutSucceeded, status.State)
}

func TestCheckoutController_Submit_InvalidForm(t *testing.T) {
	router, cartService, gateway := setupCheckoutControllerTest(t)
	addMug(t, cartService)

	body := checkoutBody()
	body["email"] = "otieno"
	delete(body, "address")

	w := performJSON(router, http.MethodPost, "/api/v1/checkout", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp apperrors.ValidationError
	decodeBody(t, w, &resp)
	assert.Equal(t, apperrors.CheckoutInvalidForm, resp.Error)
	assert.Equal(t, service.MessageFixErrors, resp.Message)
	assert.Equal(t, map[string]string{
		"email":   "Email is invalid",
		"address": "Address is required",
	}, resp.Fields)

	assert.Empty(t, gateway.calls)
	assert.Len(t, cartService.Items(), 1)
}

func TestCheckoutController_Submit_EmptyCart(t *testing.T) {
	router, _, gateway := setupCheckoutControllerTest(t)

	w := performJSON(router, http.MethodPost, "/api/v1/checkout", checkoutBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CartEmpty, errorCode(t, w))
	assert.Empty(t, gateway.calls)
}

func TestCheckoutController_Submit_MalformedBody(t *testing.T) {
	router, _, _ := setupCheckoutControllerTest(t)

	w := performJSON(router, http.MethodPost, "/api/v1/checkout", []string{"not", "a", "form"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidFormat, errorCode(t, w))
}

func TestCheckoutController_Submit_PaymentFailures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "Gateway rejected",
			err:         &mpesa.APIError{StatusCode: http.StatusBadRequest, Message: "Bad Request - Invalid PhoneNumber"},
			wantStatus:  http.StatusBadGateway,
			wantCode:    apperrors.PaymentFailed,
			wantMessage: "Bad Request - Invalid PhoneNumber",
		},
		{
			name:        "Gateway unreachable",
			err:         mpesa.ErrNetworkError,
			wantStatus:  http.StatusBadGateway,
			wantCode:    apperrors.PaymentNetworkError,
			wantMessage: "Request failed: " + mpesa.ErrNetworkError.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, cartService, gateway := setupCheckoutControllerTest(t)
			addMug(t, cartService)
			gateway.err = tt.err

			w := performJSON(router, http.MethodPost, "/api/v1/checkout", checkoutBody())
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp struct {
				Error   string                `json:"error"`
				Message string                `json:"message"`
				State   service.CheckoutState `json:"state"`
			}
			decodeBody(t, w, &resp)
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Equal(t, service.CheckoutFailed, resp.State)

			assert.Len(t, cartService.Items(), 1, "cart kept for retry")
		})
	}
}
