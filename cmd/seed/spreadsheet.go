package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vibeprint/storefront/internal/app/model"
	"github.com/vibeprint/storefront/internal/app/service"
	"github.com/xuri/excelize/v2"
)

const (
	productsSheet   = "Products"
	categoriesSheet = "Categories"
)

// Products sheet columns. A product with variations spans several rows that
// repeat its id; product columns are read from the first of them.
const (
	colProductID = iota
	colName
	colPrice
	colCategory
	colDescription
	colInStock
	colImage
	colTags
	colVariationID
	colVariationName
	colVariationPrice
	colVariationInStock
	colAttributes
)

// Categories sheet columns.
const (
	colCategoryID = iota
	colCategoryName
	colCategorySlug
	colCategoryDescription
	colCategoryImage
)

type importStats struct {
	rows    int
	skipped int
}

// readCatalogFromXLSX builds a catalog document from a workbook with a
// Products sheet and an optional Categories sheet.
func readCatalogFromXLSX(filePath string) (*service.CatalogDocument, importStats, error) {
	var stats importStats

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	doc := &service.CatalogDocument{}

	if idx, _ := f.GetSheetIndex(categoriesSheet); idx >= 0 {
		rows, err := f.GetRows(categoriesSheet)
		if err != nil {
			return nil, stats, fmt.Errorf("failed to read %s: %w", categoriesSheet, err)
		}
		doc.Categories = parseCategoryRows(rows)
	}

	rows, err := f.GetRows(productsSheet)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read %s: %w", productsSheet, err)
	}
	if len(rows) < 2 {
		return nil, stats, fmt.Errorf("no products found in sheet %s", productsSheet)
	}

	doc.Products, stats = parseProductRows(rows)
	return doc, stats, nil
}

func parseCategoryRows(rows [][]string) []model.Category {
	var categories []model.Category
	for i, row := range rows {
		if i == 0 {
			continue
		}
		id, err := strconv.ParseInt(cell(row, colCategoryID), 10, 64)
		name := cell(row, colCategoryName)
		if err != nil || name == "" {
			continue
		}

		slug := cell(row, colCategorySlug)
		if slug == "" {
			slug = generateSlug(name)
		}

		categories = append(categories, model.Category{
			ID:          id,
			Name:        name,
			Slug:        slug,
			Description: cell(row, colCategoryDescription),
			Image:       cell(row, colCategoryImage),
		})
	}
	return categories
}

func parseProductRows(rows [][]string) ([]model.Product, importStats) {
	var (
		products []model.Product
		index    = make(map[int64]int)
		stats    importStats
	)

	for i, row := range rows {
		if i == 0 {
			continue
		}
		stats.rows++

		id, err := strconv.ParseInt(cell(row, colProductID), 10, 64)
		if err != nil || id <= 0 {
			stats.skipped++
			continue
		}

		pos, seen := index[id]
		if !seen {
			product, ok := productFromRow(id, row)
			if !ok {
				stats.skipped++
				continue
			}
			index[id] = len(products)
			products = append(products, product)
			pos = len(products) - 1
		}

		if variation, ok := variationFromRow(row); ok {
			variation.ProductID = id
			products[pos].Variations = append(products[pos].Variations, variation)
		}
	}

	return products, stats
}

func productFromRow(id int64, row []string) (model.Product, bool) {
	name := cell(row, colName)
	price, err := strconv.ParseInt(cell(row, colPrice), 10, 64)
	if name == "" || err != nil || price < 0 {
		return model.Product{}, false
	}

	return model.Product{
		ID:          id,
		Name:        name,
		Price:       price,
		Category:    generateSlug(cell(row, colCategory)),
		Description: cell(row, colDescription),
		InStock:     parseBool(cell(row, colInStock), true),
		Image:       cell(row, colImage),
		Tags:        splitList(cell(row, colTags), ","),
	}, true
}

func variationFromRow(row []string) (model.ProductVariation, bool) {
	id, err := strconv.ParseInt(cell(row, colVariationID), 10, 64)
	if err != nil || id <= 0 {
		return model.ProductVariation{}, false
	}
	price, err := strconv.ParseInt(cell(row, colVariationPrice), 10, 64)
	if err != nil {
		return model.ProductVariation{}, false
	}

	var attrs model.Attributes
	for _, pair := range splitList(cell(row, colAttributes), ";") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		attrs = attrs.With(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	return model.ProductVariation{
		ID:         id,
		Name:       cell(row, colVariationName),
		Price:      price,
		InStock:    parseBool(cell(row, colVariationInStock), true),
		Attributes: attrs,
	}, true
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func parseBool(s string, fallback bool) bool {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "1":
		return true
	case "no", "n", "false", "0":
		return false
	}
	return fallback
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var (
	slugInvalid = regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// generateSlug turns "Tote Bags" into "tote-bags".
func generateSlug(name string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(name), "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
