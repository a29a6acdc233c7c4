package domain

import (
	"errors"
	"strings"
)

var ErrInvalidScreen = errors.New("invalid screen")

// Screen is the active top-level view.
type Screen string

const (
	ScreenCatalog      Screen = "catalog"
	ScreenDetail       Screen = "detail"
	ScreenCart         Screen = "cart"
	ScreenCheckout     Screen = "checkout"
	ScreenConfirmation Screen = "confirmation"
)

// ParseScreen validates a raw screen name.
func ParseScreen(raw string) (Screen, error) {
	switch s := Screen(strings.ToLower(strings.TrimSpace(raw))); s {
	case ScreenCatalog, ScreenDetail, ScreenCart, ScreenCheckout, ScreenConfirmation:
		return s, nil
	default:
		return "", ErrInvalidScreen
	}
}

// Navigator tracks the active screen and the selected product. The
// selection survives navigation away from the detail screen.
type Navigator struct {
	screen   Screen
	selected *Product
}

// NewNavigator starts on the catalog screen.
func NewNavigator() *Navigator {
	return &Navigator{screen: ScreenCatalog}
}

// Screen returns the stored screen.
func (n *Navigator) Screen() Screen {
	return n.screen
}

// Selected returns the selected product, possibly stale or nil.
func (n *Navigator) Selected() *Product {
	return n.selected
}

// ActiveScreen is the screen to render. The detail screen without a
// selection renders as the catalog.
func (n *Navigator) ActiveScreen() Screen {
	if n.screen == ScreenDetail && n.selected == nil {
		return ScreenCatalog
	}
	return n.screen
}

func (n *Navigator) Select(p *Product) {
	n.selected = p
	n.screen = ScreenDetail
}

// AddToCart adds to cart and moves to the cart screen.
func (n *Navigator) AddToCart(cart *Cart, p *Product, quantity int) {
	cart.Add(p, quantity)
	n.screen = ScreenCart
}

func (n *Navigator) Navigate(target Screen) {
	n.screen = target
}

// PlaceOrder clears cart and moves to the confirmation screen. The source
// screen is not checked.
func (n *Navigator) PlaceOrder(cart *Cart) {
	cart.Clear()
	n.screen = ScreenConfirmation
}

// Search moves to the catalog when term is non-empty. It reports whether
// the screen changed.
func (n *Navigator) Search(term string) bool {
	if term == "" || n.screen == ScreenCatalog {
		return false
	}
	n.screen = ScreenCatalog
	return true
}
