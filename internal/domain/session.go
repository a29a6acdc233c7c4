package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session owns all mutable state of one browsing session.
type Session struct {
	ID             string
	Cart           *Cart
	Nav            *Navigator
	Criteria       Criteria
	DetailQuantity int
	LastOrder      *Order
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewSession creates a session on the catalog screen with an empty cart
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New().String(),
		Cart:           NewCart(),
		Nav:            NewNavigator(),
		Criteria:       DefaultCriteria(),
		DetailQuantity: 1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

// Select opens the detail screen for p with the stepper reset to 1.
func (s *Session) Select(p *Product) {
	s.Nav.Select(p)
	s.DetailQuantity = 1
	s.touch()
}

// StepQuantity moves the detail stepper by delta.
func (s *Session) StepQuantity(delta int) int {
	s.DetailQuantity = ClampStepper(s.DetailQuantity, delta)
	s.touch()
	return s.DetailQuantity
}

// AddToCart adds p to the cart and opens the cart screen. A zero quantity
// uses the detail stepper.
func (s *Session) AddToCart(p *Product, quantity int) {
	if quantity == 0 {
		quantity = s.DetailQuantity
	}
	s.Nav.AddToCart(s.Cart, p, quantity)
	s.touch()
}

func (s *Session) UpdateQuantity(productID, quantity int) {
	s.Cart.UpdateQuantity(productID, quantity)
	s.touch()
}

func (s *Session) Remove(productID int) {
	s.Cart.Remove(productID)
	s.touch()
}

func (s *Session) Navigate(target Screen) {
	s.Nav.Navigate(target)
	s.touch()
}

// Search stores term and surfaces the catalog when term is non-empty.
func (s *Session) Search(term string) bool {
	s.Criteria.Search = term
	s.touch()
	return s.Nav.Search(term)
}

// SetFilters replaces category, price range and sort. The search term is
// owned by Search and left alone.
func (s *Session) SetFilters(c Criteria) {
	c.Search = s.Criteria.Search
	s.Criteria = c
	s.touch()
}

// PlaceOrder records the order, clears the cart and opens the confirmation
// screen.
func (s *Session) PlaceOrder(shipping ShippingInfo, taxRate float64) *Order {
	order := &Order{
		ID:       uuid.New().String(),
		Summary:  Summarize(s.Cart, taxRate),
		Shipping: shipping,
		PlacedAt: time.Now(),
	}
	s.LastOrder = order
	s.Nav.PlaceOrder(s.Cart)
	s.touch()
	return order
}
