package repository

import (
	"github.com/vibeprint/storefront/internal/app/model"
	"github.com/vibeprint/storefront/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository interface {
	FindAll() ([]model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	Upsert(categories []model.Category) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("id ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories in database", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		logger.Error("Failed to find category by slug in database", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Upsert(categories []model.Category) error {
	if len(categories) == 0 {
		return nil
	}

	err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&categories).Error
	if err != nil {
		logger.Error("Failed to upsert categories in database", err, map[string]interface{}{
			"count": len(categories),
		})
		return err
	}

	logger.Debug("Categories upserted in database", map[string]interface{}{
		"count": len(categories),
	})
	return nil
}
