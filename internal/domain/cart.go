package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single line. Larger inputs saturate to it.
const MaxQuantity = 9999

// CartLine pairs a product with a positive quantity.
type CartLine struct {
	Product  *Product
	Quantity int
}

// Cart is an ordered collection of lines, unique by product id.
type Cart struct {
	lines []CartLine
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(productID int) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add merges quantity into the line for product, or appends a new line.
func (c *Cart) Add(product *Product, quantity int) {
	if product == nil || quantity <= 0 {
		return
	}
	quantity = min(quantity, MaxQuantity)
	if i := c.indexOf(product.ID); i >= 0 {
		c.lines[i].Quantity = min(c.lines[i].Quantity+quantity, MaxQuantity)
		return
	}
	c.lines = append(c.lines, CartLine{Product: product, Quantity: quantity})
}

// UpdateQuantity sets the absolute quantity of a line, saturating at
// MaxQuantity. A non-positive quantity removes the line.
func (c *Cart) UpdateQuantity(productID, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.indexOf(productID); i >= 0 {
		c.lines[i].Quantity = min(quantity, MaxQuantity)
	}
}

// Remove deletes the line for productID if present.
func (c *Cart) Remove(productID int) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Quantity returns the quantity held for productID, 0 when absent.
func (c *Cart) Quantity(productID int) int {
	if i := c.indexOf(productID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Subtotal sums price * quantity over the current lines.
func (c *Cart) Subtotal() float64 {
	return c.subtotal().InexactFloat64()
}

func (c *Cart) subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.total())
	}
	return total
}

func (l CartLine) total() decimal.Decimal {
	return decimal.NewFromFloat(l.Product.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total is price * quantity for the line.
func (l CartLine) Total() float64 {
	return l.total().InexactFloat64()
}

// ItemCount sums quantities over the current lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

// ParseQuantity reads the leading integer of a raw quantity entry, so
// "2.5" and "3abc" give 2 and 3. Input without leading digits gives 0,
// which UpdateQuantity reads as removal. Magnitudes saturate at MaxQuantity.
func ParseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	sign := 1
	if raw != "" && (raw[0] == '-' || raw[0] == '+') {
		if raw[0] == '-' {
			sign = -1
		}
		raw = raw[1:]
	}
	n := 0
	for i := 0; i < len(raw) && raw[i] >= '0' && raw[i] <= '9'; i++ {
		n = min(n*10+int(raw[i]-'0'), MaxQuantity)
	}
	return sign * n
}

// ClampStepper applies delta to the detail-screen stepper, keeping it
// within 1..MaxQuantity.
func ClampStepper(current, delta int) int {
	delta = max(min(delta, MaxQuantity), -MaxQuantity)
	return max(1, min(current+delta, MaxQuantity))
}
