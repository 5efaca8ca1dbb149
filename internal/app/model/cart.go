package model

import "strings"

// CartItem is one line of the cart as stored in the durable record:
// {product, quantity, selectedVariation?}.
type CartItem struct {
	Product           Product           `json:"product"`
	Quantity          int               `json:"quantity"`
	SelectedVariation *ProductVariation `json:"selectedVariation,omitempty"`
}

// SameSlot reports whether the item occupies the (productID, variation) slot.
func (i CartItem) SameSlot(productID int64, variation *ProductVariation) bool {
	return i.Product.ID == productID && VariationsEqual(i.SelectedVariation, variation)
}

// EffectivePrice is the variation's price when one is selected, otherwise the
// product's base price.
func (i CartItem) EffectivePrice() int64 {
	if i.SelectedVariation != nil {
		return i.SelectedVariation.Price
	}
	return i.Product.Price
}

// DisplayName is the product name followed by the variation's attribute values.
func (i CartItem) DisplayName() string {
	if i.SelectedVariation == nil {
		return i.Product.Name
	}
	return i.Product.Name + " (" + strings.Join(i.SelectedVariation.Attributes.Values(), ", ") + ")"
}

// CloneCartItems copies the list so callers can't mutate store state.
func CloneCartItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for idx, item := range items {
		out[idx] = item
		if item.SelectedVariation != nil {
			v := *item.SelectedVariation
			out[idx].SelectedVariation = &v
		}
	}
	return out
}
