package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vibeprint/storefront/internal/app/service"
	apperrors "github.com/vibeprint/storefront/internal/errors"
	"github.com/vibeprint/storefront/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ListProductsQuery struct {
	Category string `form:"category"`
	InStock  bool   `form:"in_stock"`
	Limit    int    `form:"limit" binding:"gte=0,lte=100"`
	Offset   int    `form:"offset" binding:"gte=0"`
}

// GetAllProducts lists products, optionally filtered by category and stock
// GET /api/v1/products
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var query ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Invalid query parameters")
		return
	}

	products, err := ctrl.productService.ListProducts(service.ProductListOptions{
		Category:    query.Category,
		InStockOnly: query.InStock,
		Limit:       query.Limit,
		Offset:      query.Offset,
	})
	if err != nil {
		log.Error("Failed to fetch products", err)
		respondWithServiceError(c, err, "products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductByID returns a product with its variations
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		log.Warn("Invalid product ID format", map[string]interface{}{
			"product_id": idStr,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProduct(id)
	if err != nil {
		respondWithServiceError(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GetCategories lists every category
// GET /api/v1/categories
func (ctrl *ProductController) GetCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.productService.ListCategories()
	if err != nil {
		log.Error("Failed to fetch categories", err)
		respondWithServiceError(c, err, "categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetCategory returns a category and its products
// GET /api/v1/categories/:slug
func (ctrl *ProductController) GetCategory(c *gin.Context) {
	category, err := ctrl.productService.GetCategory(c.Param("slug"))
	if err != nil {
		respondWithServiceError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}
