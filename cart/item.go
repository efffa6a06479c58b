// cart/item.go

package cart

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidProduct is returned when a product cannot enter the cart.
var ErrInvalidProduct = errors.New("cart: invalid product")

// Product describes an item the user wants to buy, before it has a quantity.
type Product struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
}

// Validate checks the fields a cart relies on.
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return fmt.Errorf("%w: price must be a finite number", ErrInvalidProduct)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	return nil
}

// LineItem is one product entry in the cart.
// Quantity is always >= 1 while the item is part of a Cart.
type LineItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Product returns the item without its quantity.
func (li LineItem) Product() Product {
	return Product{
		ID:       li.ID,
		Title:    li.Title,
		ImageURL: li.ImageURL,
		Price:    li.Price,
	}
}

func newLineItem(p Product) LineItem {
	return LineItem{
		ID:       p.ID,
		Title:    p.Title,
		ImageURL: p.ImageURL,
		Price:    p.Price,
		Quantity: 1,
	}
}
