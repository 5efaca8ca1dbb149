package model

import (
	"time"
)

type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// Product is a catalog entry. Price is in whole KSh. The JSON shape is the one
// embedded in the durable cart record, so tags stay camelCase.
type Product struct {
	ID          int64              `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string             `gorm:"not null" json:"name"`
	Price       int64              `gorm:"not null" json:"price"`
	Image       string             `json:"image"`
	Category    string             `gorm:"type:varchar(100);index" json:"category"`
	Description string             `gorm:"type:text" json:"description"`
	InStock     bool               `gorm:"not null" json:"inStock"`
	Tags        []string           `gorm:"serializer:json;type:text" json:"tags,omitempty"`
	Images      []string           `gorm:"serializer:json;type:text" json:"images,omitempty"`
	Details     string             `gorm:"type:text" json:"details,omitempty"`
	Variations  []ProductVariation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variations,omitempty"`
	CreatedAt   time.Time          `json:"-"`
	UpdatedAt   time.Time          `json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// Variation returns the product's variation with the given id.
func (p *Product) Variation(id int64) (*ProductVariation, bool) {
	for i := range p.Variations {
		if p.Variations[i].ID == id {
			v := p.Variations[i]
			return &v, true
		}
	}
	return nil, false
}

// ProductVariation is a purchasable option whose price supersedes the
// parent product's price.
type ProductVariation struct {
	ID         int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ProductID  int64      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Name       string     `gorm:"not null" json:"name"`
	Price      int64      `gorm:"not null" json:"price"`
	InStock    bool       `gorm:"not null" json:"inStock"`
	Attributes Attributes `gorm:"serializer:json;type:text" json:"attributes"`
}

func (ProductVariation) TableName() string {
	return "product_variations"
}

// Equal is structural: identifier, name, price, stock flag and the attribute
// mapping key by key. ProductID is catalog bookkeeping and is not compared.
func (v ProductVariation) Equal(other ProductVariation) bool {
	return v.ID == other.ID &&
		v.Name == other.Name &&
		v.Price == other.Price &&
		v.InStock == other.InStock &&
		v.Attributes.Equal(other.Attributes)
}

// VariationsEqual treats two absent variations as equal and an absent one as
// different from any present one.
func VariationsEqual(a, b *ProductVariation) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
