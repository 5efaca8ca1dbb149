package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibeprint/storefront/internal/app/model"
	"github.com/vibeprint/storefront/internal/app/service"
	apperrors "github.com/vibeprint/storefront/internal/errors"
)

func setupProductControllerTest(t *testing.T) *gin.Engine {
	catalog := setupCatalogFixture(t)
	ctrl := NewProductController(catalog.productService)

	router := newTestRouter()
	v1 := router.Group("/api/v1")
	{
		v1.GET("/categories", ctrl.GetCategories)
		v1.GET("/categories/:slug", ctrl.GetCategory)
		v1.GET("/products", ctrl.GetAllProducts)
		v1.GET("/products/:id", ctrl.GetProductByID)
	}
	return router
}

type productListResponse struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

func TestProductController_GetAllProducts(t *testing.T) {
	router := setupProductControllerTest(t)

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{name: "All products", query: "", wantCount: 4},
		{name: "By category", query: "?category=tote-bags", wantCount: 2},
		{name: "Duplicate id moved category", query: "?category=drinkware", wantCount: 1},
		{name: "Paged", query: "?limit=1&offset=1", wantCount: 1},
		{name: "Unknown category", query: "?category=stickers", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodGet, "/api/v1/products"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var resp productListResponse
			decodeBody(t, w, &resp)
			assert.Equal(t, tt.wantCount, resp.Count)
			assert.Len(t, resp.Products, tt.wantCount)
		})
	}
}

func TestProductController_GetAllProducts_InvalidQuery(t *testing.T) {
	router := setupProductControllerTest(t)

	w := performJSON(router, http.MethodGet, "/api/v1/products?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidFormat, errorCode(t, w))
}

func TestProductController_GetProductByID(t *testing.T) {
	router := setupProductControllerTest(t)

	t.Run("Found", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/api/v1/products/202", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Product model.Product `json:"product"`
		}
		decodeBody(t, w, &resp)
		assert.Equal(t, "Insulated Travel Tumbler", resp.Product.Name)
		assert.Equal(t, "apparels", resp.Product.Category)
		assert.Len(t, resp.Product.Variations, 2)
	})

	t.Run("Invalid id", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/api/v1/products/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ValidationInvalidID, errorCode(t, w))
	})

	t.Run("Not found", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/api/v1/products/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.CatalogProductNotFound, errorCode(t, w))
	})
}

func TestProductController_Categories(t *testing.T) {
	router := setupProductControllerTest(t)

	w := performJSON(router, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Categories []model.Category `json:"categories"`
		Count      int              `json:"count"`
	}
	decodeBody(t, w, &list)
	assert.Equal(t, 6, list.Count)

	w = performJSON(router, http.MethodGet, "/api/v1/categories/drinkware", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var one struct {
		Category service.CategoryWithProducts `json:"category"`
	}
	decodeBody(t, w, &one)
	assert.Equal(t, "drinkware", one.Category.Slug)
	require.Len(t, one.Category.Products, 1)
	assert.Equal(t, int64(201), one.Category.Products[0].ID)

	w = performJSON(router, http.MethodGet, "/api/v1/categories/stickers", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.CatalogCategoryNotFound, errorCode(t, w))
}
