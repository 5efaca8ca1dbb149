package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/vibeprint/storefront/internal/app/model"
	"github.com/vibeprint/storefront/internal/app/service"
	apperrors "github.com/vibeprint/storefront/internal/errors"
	"github.com/vibeprint/storefront/internal/middleware"
	ws "github.com/vibeprint/storefront/internal/websocket"
)

type CartController struct {
	cartService    service.CartService
	productService service.ProductService
	hub            *ws.Hub
	whatsAppNumber string
	upgrader       gorilla.Upgrader
}

func NewCartController(
	cartService service.CartService,
	productService service.ProductService,
	hub *ws.Hub,
	whatsAppNumber string,
	allowedOrigins []string,
) *CartController {
	return &CartController{
		cartService:    cartService,
		productService: productService,
		hub:            hub,
		whatsAppNumber: whatsAppNumber,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

type AddToCartRequest struct {
	ProductID   int64 `json:"product_id" binding:"required"`
	Quantity    *int  `json:"quantity"`
	VariationID int64 `json:"variation_id"`
}

type UpdateCartItemRequest struct {
	ProductID int64                   `json:"product_id" binding:"required"`
	Variation *model.ProductVariation `json:"variation"`
	Quantity  *int                    `json:"quantity" binding:"required"`
}

type RemoveCartItemRequest struct {
	ProductID int64                   `json:"product_id" binding:"required"`
	Variation *model.ProductVariation `json:"variation"`
}

type CartResponse struct {
	Items         []model.CartItem `json:"items"`
	PaymentAmount int64            `json:"payment_amount"`
	service.CartTotals
}

func (ctrl *CartController) cartResponse() CartResponse {
	items := ctrl.cartService.Items()
	return CartResponse{
		Items:         items,
		PaymentAmount: service.ToPaymentAmount(items),
		CartTotals:    service.CalculateTotals(items),
	}
}

// GetCart returns the cart with its totals
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.cartResponse())
}

// AddItem adds a product, or one of its variations, to the cart
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "product_id is required")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product, variation, err := ctrl.productService.GetVariation(req.ProductID, req.VariationID)
	if err != nil {
		respondWithServiceError(c, err, "product")
		return
	}

	if !product.InStock || (variation != nil && !variation.InStock) {
		log.Warn("Out of stock item rejected", map[string]interface{}{
			"product_id":   req.ProductID,
			"variation_id": req.VariationID,
		})
		apperrors.Conflict(c, apperrors.CartOutOfStock, "This item is out of stock")
		return
	}

	openCart, err := ctrl.cartService.Add(c.Request.Context(), *product, quantity, variation)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidQuantity) {
			log.Error("Failed to add item to cart", err, map[string]interface{}{
				"product_id": req.ProductID,
			})
		}
		respondWithServiceError(c, err, "cart")
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"product_id":   req.ProductID,
		"variation_id": req.VariationID,
		"quantity":     quantity,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Item added to cart",
		"open_cart": openCart,
		"cart":      ctrl.cartResponse(),
	})
}

// UpdateItem sets the quantity of a cart slot. Quantities below 1 are ignored.
// PUT /api/v1/cart/items
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid cart update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "product_id and quantity are required")
		return
	}

	if err := ctrl.cartService.UpdateQuantity(c.Request.Context(), req.ProductID, req.Variation, *req.Quantity); err != nil {
		log.Error("Failed to update cart item", err, map[string]interface{}{
			"product_id": req.ProductID,
		})
		respondWithServiceError(c, err, "cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated",
		"cart":    ctrl.cartResponse(),
	})
}

// RemoveItem deletes a cart slot. Removing an absent slot succeeds.
// DELETE /api/v1/cart/items
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RemoveCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "product_id is required")
		return
	}

	if err := ctrl.cartService.Remove(c.Request.Context(), req.ProductID, req.Variation); err != nil {
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"product_id": req.ProductID,
		})
		respondWithServiceError(c, err, "cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"cart":    ctrl.cartResponse(),
	})
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.cartService.Clear(c.Request.Context()); err != nil {
		log.Error("Failed to clear cart", err)
		respondWithServiceError(c, err, "cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
		"cart":    ctrl.cartResponse(),
	})
}

// GetSummary renders the order message and its WhatsApp deep link
// GET /api/v1/cart/summary
func (ctrl *CartController) GetSummary(c *gin.Context) {
	items := ctrl.cartService.Items()
	if len(items) == 0 {
		respondWithServiceError(c, service.ErrEmptyCart, "cart")
		return
	}

	text := service.ToMessageSummary(items)
	c.JSON(http.StatusOK, gin.H{
		"text":         text,
		"whatsapp_url": service.WhatsAppOrderLink(ctrl.whatsAppNumber, text),
	})
}

// Events streams cartUpdated triggers over a websocket
// GET /api/v1/cart/events
func (ctrl *CartController) Events(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("Failed to upgrade to WebSocket", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn})
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Cart event stream opened", map[string]interface{}{
		"client_id": client.ID,
	})
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range allowedOrigins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}
		return false
	}
}
