package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is applied to the subtotal at checkout.
const DefaultTaxRate = 0.08

var ErrInvalidShipping = errors.New("invalid shipping information")

// OrderSummary is the checkout breakdown of a cart. Tax is rounded to cents.
type OrderSummary struct {
	Lines    []CartLine
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Summarize computes the checkout totals for cart.
func Summarize(cart *Cart, taxRate float64) OrderSummary {
	subtotal := cart.subtotal()
	tax := subtotal.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	return OrderSummary{
		Lines:    cart.Lines(),
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// ShippingInfo is the checkout form.
type ShippingInfo struct {
	Name    string
	Email   string
	Address string
	City    string
	Zip     string
}

// Validate requires every field and a plausible email.
func (s ShippingInfo) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"name", s.Name},
		{"email", s.Email},
		{"address", s.Address},
		{"city", s.City},
		{"zip", s.Zip},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidShipping, f.name)
		}
	}
	if !strings.Contains(s.Email, "@") {
		return fmt.Errorf("%w: email is malformed", ErrInvalidShipping)
	}
	return nil
}

// Order is the record of a placed order.
type Order struct {
	ID       string
	Summary  OrderSummary
	Shipping ShippingInfo
	PlacedAt time.Time
}
