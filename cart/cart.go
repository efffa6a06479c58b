// cart/cart.go

// Package cart holds the cart domain: line items and the pure transforms
// that produce a new cart from the previous one.
package cart

// Cart is an insertion-ordered list of line items, unique by ID.
//
// The transforms below never modify the receiver; they return a new slice
// so a published cart can be handed to readers without copying again.
type Cart []LineItem

// Empty returns a non-nil cart with no items. It serializes as "[]".
func Empty() Cart {
	return Cart{}
}

// Len returns the number of distinct items.
func (c Cart) Len() int {
	return len(c)
}

// TotalQuantity returns the sum of all item quantities.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c {
		total += item.Quantity
	}
	return total
}

// Find returns the item with the given id.
func (c Cart) Find(id string) (LineItem, bool) {
	for _, item := range c {
		if item.ID == id {
			return item, true
		}
	}
	return LineItem{}, false
}

// Has reports whether an item with the given id is present.
func (c Cart) Has(id string) bool {
	_, ok := c.Find(id)
	return ok
}

// Clone returns a copy that shares nothing with c.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Add returns a cart where p has been added once. An item already present
// keeps its title, image and price; only its quantity grows.
func (c Cart) Add(p Product) Cart {
	out := make(Cart, 0, len(c)+1)
	found := false
	for _, item := range c {
		if item.ID == p.ID {
			item.Quantity++
			found = true
		}
		out = append(out, item)
	}
	if !found {
		out = append(out, newLineItem(p))
	}
	return out
}

// Increment returns a cart where the quantity of id grew by one.
// An unknown id leaves the content unchanged.
func (c Cart) Increment(id string) Cart {
	out := make(Cart, 0, len(c))
	for _, item := range c {
		if item.ID == id {
			item.Quantity++
		}
		out = append(out, item)
	}
	return out
}

// Decrement returns a cart where the quantity of id shrank by one.
// Items whose quantity reaches zero are evicted.
func (c Cart) Decrement(id string) Cart {
	out := make(Cart, 0, len(c))
	for _, item := range c {
		if item.ID == id && item.Quantity > 0 {
			item.Quantity--
		}
		if item.Quantity > 0 {
			out = append(out, item)
		}
	}
	return out
}
