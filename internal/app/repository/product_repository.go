package repository

import (
	"github.com/vibeprint/storefront/internal/app/model"
	"github.com/vibeprint/storefront/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductFilter struct {
	Category    string
	InStockOnly bool
	Limit       int
	Offset      int
}

type ProductRepository interface {
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id int64) (*model.Product, error)
	FindByCategory(slug string) ([]model.Product, error)
	Upsert(products []model.Product) error
	Count() (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter in database", map[string]interface{}{
		"category":      filter.Category,
		"in_stock_only": filter.InStockOnly,
		"limit":         filter.Limit,
		"offset":        filter.Offset,
	})

	query := r.db.Model(&model.Product{}).Preload("Variations", func(db *gorm.DB) *gorm.DB {
		return db.Order("product_variations.id ASC")
	})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.InStockOnly {
		query = query.Where("in_stock = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Order("products.id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter in database", err, map[string]interface{}{
			"category": filter.Category,
		})
		return nil, err
	}

	logger.Debug("Products found with filter in database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id int64) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	err := r.db.Preload("Variations", func(db *gorm.DB) *gorm.DB {
		return db.Order("product_variations.id ASC")
	}).First(&product, "id = ?", id).Error
	if err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) FindByCategory(slug string) ([]model.Product, error) {
	return r.FindWithFilter(ProductFilter{Category: slug})
}

// Upsert writes products and replaces each product's variations in one
// transaction.
func (r *productRepository) Upsert(products []model.Product) error {
	logger.Debug("Upserting products in database", map[string]interface{}{
		"count": len(products),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i := range products {
			p := products[i]
			variations := p.Variations
			p.Variations = nil

			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&p).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", p.ID).Delete(&model.ProductVariation{}).Error; err != nil {
				return err
			}
			for j := range variations {
				variations[j].ProductID = p.ID
			}
			if len(variations) > 0 {
				if err := tx.Create(&variations).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to upsert products in database", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}

	logger.Debug("Products upserted in database", map[string]interface{}{
		"count": len(products),
	})
	return nil
}

func (r *productRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count products in database", err)
		return 0, err
	}
	return count, nil
}
