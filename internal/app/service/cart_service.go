package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/vibeprint/storefront/internal/app/model"
	"github.com/vibeprint/storefront/internal/app/repository"
	"github.com/vibeprint/storefront/pkg/logger"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrCartPersist     = errors.New("failed to persist cart")
)

// CartService owns the in-process cart and keeps it in step with the durable
// record. Every successful mutation writes the whole list and then triggers
// the change notification.
type CartService interface {
	Load(ctx context.Context) []model.CartItem
	Items() []model.CartItem
	Totals() CartTotals
	Add(ctx context.Context, product model.Product, quantity int, variation *model.ProductVariation) (openCart bool, err error)
	Remove(ctx context.Context, productID int64, variation *model.ProductVariation) error
	UpdateQuantity(ctx context.Context, productID int64, variation *model.ProductVariation, quantity int) error
	Clear(ctx context.Context) error
	Subscribe(handler func()) (unsubscribe func())
}

type cartService struct {
	mu       sync.Mutex
	items    []model.CartItem
	records  repository.CartRecordRepository
	notifier CartNotifier
}

func NewCartService(records repository.CartRecordRepository, notifier CartNotifier) CartService {
	if notifier == nil {
		notifier = NewLocalCartNotifier()
	}
	return &cartService{
		items:    []model.CartItem{},
		records:  records,
		notifier: notifier,
	}
}

// Load replaces the in-process list with the durable record. A missing,
// unreadable or malformed record yields an empty cart. The read happens under
// the same lock as mutations so a reload never installs a record older than
// the last write.
func (s *cartService) Load(ctx context.Context) []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = s.readRecord(ctx)
	return model.CloneCartItems(s.items)
}

func (s *cartService) readRecord(ctx context.Context) []model.CartItem {
	data, err := s.records.Read(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrCartRecordNotFound) {
			logger.Warn("Failed to read cart record, starting empty", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return []model.CartItem{}
	}

	var stored []model.CartItem
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Warn("Cart record is malformed, starting empty", map[string]interface{}{
			"error": err.Error(),
			"size":  len(data),
		})
		return []model.CartItem{}
	}

	items, dropped := sanitizeCartItems(stored)
	if dropped > 0 {
		logger.Warn("Cart record contained invalid entries", map[string]interface{}{
			"dropped": dropped,
		})
	}
	return items
}

// sanitizeCartItems drops non-positive quantities and folds repeated slots
// together so a hand-edited record can't break the list invariants.
func sanitizeCartItems(stored []model.CartItem) ([]model.CartItem, int) {
	items := make([]model.CartItem, 0, len(stored))
	dropped := 0
	for _, item := range stored {
		if item.Quantity < 1 {
			dropped++
			continue
		}
		if idx := findSlot(items, item.Product.ID, item.SelectedVariation); idx >= 0 {
			items[idx].Quantity += item.Quantity
			dropped++
			continue
		}
		items = append(items, item)
	}
	return items, dropped
}

func (s *cartService) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneCartItems(s.items)
}

func (s *cartService) Totals() CartTotals {
	return CalculateTotals(s.Items())
}

func (s *cartService) Add(ctx context.Context, product model.Product, quantity int, variation *model.ProductVariation) (bool, error) {
	if quantity < 1 {
		logger.Warn("Rejected cart add with invalid quantity", map[string]interface{}{
			"product_id": product.ID,
			"quantity":   quantity,
		})
		return false, ErrInvalidQuantity
	}

	logger.Info("Adding item to cart", map[string]interface{}{
		"product_id":   product.ID,
		"variation_id": variationID(variation),
		"quantity":     quantity,
	})

	err := s.mutate(ctx, func(items []model.CartItem) []model.CartItem {
		if idx := findSlot(items, product.ID, variation); idx >= 0 {
			items[idx].Quantity += quantity
			return items
		}
		item := model.CartItem{Product: product, Quantity: quantity}
		if variation != nil {
			v := *variation
			item.SelectedVariation = &v
		}
		return append(items, item)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *cartService) Remove(ctx context.Context, productID int64, variation *model.ProductVariation) error {
	logger.Info("Removing item from cart", map[string]interface{}{
		"product_id":   productID,
		"variation_id": variationID(variation),
	})

	return s.mutate(ctx, func(items []model.CartItem) []model.CartItem {
		idx := findSlot(items, productID, variation)
		if idx < 0 {
			return items
		}
		return append(items[:idx], items[idx+1:]...)
	})
}

// UpdateQuantity sets the slot's quantity outright. Quantities below 1 are
// ignored entirely: nothing is written and nobody is notified.
func (s *cartService) UpdateQuantity(ctx context.Context, productID int64, variation *model.ProductVariation, quantity int) error {
	if quantity < 1 {
		logger.Debug("Ignoring cart quantity update below 1", map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		})
		return nil
	}

	logger.Info("Updating cart item quantity", map[string]interface{}{
		"product_id":   productID,
		"variation_id": variationID(variation),
		"quantity":     quantity,
	})

	return s.mutate(ctx, func(items []model.CartItem) []model.CartItem {
		if idx := findSlot(items, productID, variation); idx >= 0 {
			items[idx].Quantity = quantity
		}
		return items
	})
}

// Clear empties the cart and deletes the durable record rather than writing
// an empty list.
func (s *cartService) Clear(ctx context.Context) error {
	logger.Info("Clearing cart")

	s.mu.Lock()
	s.items = []model.CartItem{}
	err := s.records.Delete(ctx)
	s.mu.Unlock()

	if err != nil {
		logger.Error("Failed to delete cart record", err)
		return fmt.Errorf("%w: %v", ErrCartPersist, err)
	}

	s.notifier.Publish(ctx)
	return nil
}

func (s *cartService) Subscribe(handler func()) func() {
	return s.notifier.Subscribe(handler)
}

// mutate applies fn to the list and writes the result while holding the lock,
// then notifies once the lock is released so handlers can call back in.
func (s *cartService) mutate(ctx context.Context, fn func([]model.CartItem) []model.CartItem) error {
	s.mu.Lock()
	s.items = fn(s.items)
	if s.items == nil {
		s.items = []model.CartItem{}
	}
	err := s.persist(ctx, s.items)
	s.mu.Unlock()

	if err != nil {
		return err
	}

	s.notifier.Publish(ctx)
	return nil
}

func (s *cartService) persist(ctx context.Context, items []model.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		logger.Error("Failed to encode cart", err, map[string]interface{}{
			"items": len(items),
		})
		return fmt.Errorf("%w: %v", ErrCartPersist, err)
	}

	if err := s.records.Write(ctx, data); err != nil {
		logger.Error("Failed to write cart record", err, map[string]interface{}{
			"items": len(items),
		})
		return fmt.Errorf("%w: %v", ErrCartPersist, err)
	}
	return nil
}

func findSlot(items []model.CartItem, productID int64, variation *model.ProductVariation) int {
	for idx, item := range items {
		if item.SameSlot(productID, variation) {
			return idx
		}
	}
	return -1
}

func variationID(variation *model.ProductVariation) interface{} {
	if variation == nil {
		return nil
	}
	return variation.ID
}
