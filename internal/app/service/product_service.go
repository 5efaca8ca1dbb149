package service

import (
	"errors"

	"github.com/vibeprint/storefront/internal/app/model"
	"github.com/vibeprint/storefront/internal/app/repository"
	"github.com/vibeprint/storefront/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrVariationNotFound = errors.New("variation not found")
	ErrCategoryNotFound  = errors.New("category not found")
)

type ProductListOptions struct {
	Category    string
	InStockOnly bool
	Limit       int
	Offset      int
}

type CategoryWithProducts struct {
	model.Category
	Products []model.Product `json:"products"`
}

type ProductService interface {
	ListProducts(opts ProductListOptions) ([]model.Product, error)
	GetProduct(id int64) (*model.Product, error)
	GetVariation(productID, variationID int64) (*model.Product, *model.ProductVariation, error)
	ListCategories() ([]model.Category, error)
	GetCategory(slug string) (*CategoryWithProducts, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) ListProducts(opts ProductListOptions) ([]model.Product, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"category":      opts.Category,
		"in_stock_only": opts.InStockOnly,
	})

	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		Category:    opts.Category,
		InStockOnly: opts.InStockOnly,
		Limit:       opts.Limit,
		Offset:      opts.Offset,
	})
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProduct(id int64) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

// GetVariation resolves a variation id against its product. A zero
// variationID means "no variation" and returns a nil variation.
func (s *productService) GetVariation(productID, variationID int64) (*model.Product, *model.ProductVariation, error) {
	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, nil, err
	}
	if variationID == 0 {
		return product, nil, nil
	}

	variation, ok := product.Variation(variationID)
	if !ok {
		logger.Warn("Variation not found", map[string]interface{}{
			"product_id":   productID,
			"variation_id": variationID,
		})
		return nil, nil, ErrVariationNotFound
	}
	return product, variation, nil
}

func (s *productService) ListCategories() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

func (s *productService) GetCategory(slug string) (*CategoryWithProducts, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	products, err := s.productRepo.FindByCategory(slug)
	if err != nil {
		logger.Error("Failed to list category products", err, map[string]interface{}{
			"category": slug,
		})
		return nil, err
	}

	return &CategoryWithProducts{Category: *category, Products: products}, nil
}
