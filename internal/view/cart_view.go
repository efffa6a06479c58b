// Package view renders a cart for a terminal. It is a plain subscriber of
// the cart store and never changes the cart itself.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/norun9/gomarketplace-cartstore/cart"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	quantityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Render draws the cart as a bordered list, one line per item.
func Render(c cart.Cart) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Cart (%d items, %d units)", c.Len(), c.TotalQuantity())))
	b.WriteString("\n")

	if c.Len() == 0 {
		b.WriteString(statusStyle.Render("Your cart is empty"))
		return boxStyle.Render(b.String())
	}

	idWidth := 0
	for _, item := range c {
		if w := lipgloss.Width(item.ID); w > idWidth {
			idWidth = w
		}
	}

	for i, item := range c {
		if i > 0 {
			b.WriteString("\n")
		}
		id := statusStyle.Render(fmt.Sprintf("%-*s", idWidth, item.ID))
		qty := quantityStyle.Render(fmt.Sprintf("x%d", item.Quantity))
		fmt.Fprintf(&b, "%s  %s  %s  @ %.2f", id, qty, item.Title, item.Price)
	}
	return boxStyle.Render(b.String())
}
