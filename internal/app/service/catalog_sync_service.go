package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vibeprint/storefront/internal/app/model"
	"github.com/vibeprint/storefront/internal/app/repository"
	"github.com/vibeprint/storefront/pkg/logger"
)

var (
	ErrCatalogSyncInProgress = errors.New("catalog sync already in progress")
	ErrInvalidCatalog        = errors.New("invalid catalog document")
)

// CatalogDocument is the published catalog: every category and product the
// storefront sells.
type CatalogDocument struct {
	Categories []model.Category `json:"categories"`
	Products   []model.Product  `json:"products"`
}

// CatalogSource fetches the raw catalog document.
type CatalogSource interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

type FileCatalogSource struct {
	Path string
}

func (s FileCatalogSource) Name() string {
	return "file:" + s.Path
}

func (s FileCatalogSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return data, nil
}

// ObjectReader is the slice of object storage the catalog needs.
type ObjectReader interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

type S3CatalogSource struct {
	Objects ObjectReader
	Key     string
}

func (s S3CatalogSource) Name() string {
	return "s3:" + s.Key
}

func (s S3CatalogSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.Objects.GetObject(ctx, s.Key)
}

type CatalogSyncResult struct {
	Source     string    `json:"source"`
	Categories int       `json:"categories"`
	Products   int       `json:"products"`
	Duplicates []int64   `json:"duplicates,omitempty"`
	SyncedAt   time.Time `json:"synced_at"`
}

type CatalogSyncService interface {
	Sync(ctx context.Context) (*CatalogSyncResult, error)
}

type catalogSyncService struct {
	source       CatalogSource
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	running      sync.Mutex
}

func NewCatalogSyncService(source CatalogSource, productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) CatalogSyncService {
	return &catalogSyncService{
		source:       source,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *catalogSyncService) Sync(ctx context.Context) (*CatalogSyncResult, error) {
	if !s.running.TryLock() {
		return nil, ErrCatalogSyncInProgress
	}
	defer s.running.Unlock()

	logger.Info("Catalog sync started", map[string]interface{}{
		"source": s.source.Name(),
	})

	data, err := s.source.Fetch(ctx)
	if err != nil {
		logger.Error("Failed to fetch catalog", err, map[string]interface{}{
			"source": s.source.Name(),
		})
		return nil, err
	}

	doc, err := ParseCatalog(data)
	if err != nil {
		logger.Error("Failed to parse catalog", err, map[string]interface{}{
			"source": s.source.Name(),
		})
		return nil, err
	}

	products, duplicates := dedupeProducts(doc.Products)
	if len(duplicates) > 0 {
		logger.Warn("Catalog contains duplicate product ids, keeping the last entry", map[string]interface{}{
			"ids": duplicates,
		})
	}

	if err := s.categoryRepo.Upsert(doc.Categories); err != nil {
		return nil, fmt.Errorf("upsert categories: %w", err)
	}
	if err := s.productRepo.Upsert(products); err != nil {
		return nil, fmt.Errorf("upsert products: %w", err)
	}

	result := &CatalogSyncResult{
		Source:     s.source.Name(),
		Categories: len(doc.Categories),
		Products:   len(products),
		Duplicates: duplicates,
		SyncedAt:   time.Now(),
	}

	logger.Info("Catalog sync completed", map[string]interface{}{
		"source":     result.Source,
		"categories": result.Categories,
		"products":   result.Products,
	})
	return result, nil
}

// ParseCatalog decodes and checks a catalog document.
func ParseCatalog(data []byte) (*CatalogDocument, error) {
	var doc CatalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	slugs := make(map[string]bool, len(doc.Categories))
	for _, c := range doc.Categories {
		if c.ID <= 0 || c.Slug == "" {
			return nil, fmt.Errorf("%w: category %q needs an id and slug", ErrInvalidCatalog, c.Name)
		}
		slugs[c.Slug] = true
	}

	for _, p := range doc.Products {
		if p.ID <= 0 || p.Name == "" {
			return nil, fmt.Errorf("%w: product %d needs an id and name", ErrInvalidCatalog, p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("%w: product %d has a negative price", ErrInvalidCatalog, p.ID)
		}
		if len(slugs) > 0 && !slugs[p.Category] {
			return nil, fmt.Errorf("%w: product %d is in unknown category %q", ErrInvalidCatalog, p.ID, p.Category)
		}
		for _, v := range p.Variations {
			if v.ID <= 0 || v.Price < 0 {
				return nil, fmt.Errorf("%w: product %d has an invalid variation %d", ErrInvalidCatalog, p.ID, v.ID)
			}
		}
	}

	return &doc, nil
}

// dedupeProducts keeps the last entry for each id, at the position where the
// id first appeared.
func dedupeProducts(products []model.Product) ([]model.Product, []int64) {
	index := make(map[int64]int, len(products))
	out := make([]model.Product, 0, len(products))
	var duplicates []int64

	for _, p := range products {
		if i, seen := index[p.ID]; seen {
			out[i] = p
			duplicates = append(duplicates, p.ID)
			continue
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	return out, duplicates
}
