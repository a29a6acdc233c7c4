package domain_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/mrops-br/storefront-api/internal/domain"
)

type storefrontTestContext struct {
	catalog []*domain.Product
	session *domain.Session
}

func (c *storefrontTestContext) reset() {
	c.catalog = nil
	c.session = nil
}

func (c *storefrontTestContext) theCatalog(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		id, err := strconv.Atoi(row.Cells[0].Value)
		if err != nil {
			return err
		}
		price, err := strconv.ParseFloat(row.Cells[2].Value, 64)
		if err != nil {
			return err
		}
		c.catalog = append(c.catalog, &domain.Product{
			ID:       id,
			Name:     row.Cells[1].Value,
			Price:    price,
			Category: row.Cells[3].Value,
		})
	}
	return domain.ValidateCatalog(c.catalog)
}

func (c *storefrontTestContext) aNewSession() error {
	c.session = domain.NewSession()
	return nil
}

func (c *storefrontTestContext) iAddOfProductToTheCart(quantity, productID int) error {
	p, err := domain.FindProduct(c.catalog, productID)
	if err != nil {
		return err
	}
	// A zero quantity on the session means "use the stepper"; go through
	// the cart directly so 0 stays a no-op.
	if quantity == 0 {
		c.session.Cart.Add(p, 0)
		return nil
	}
	c.session.AddToCart(p, quantity)
	return nil
}

func (c *storefrontTestContext) iSetTheQuantityOfProductTo(productID, quantity int) error {
	c.session.UpdateQuantity(productID, quantity)
	return nil
}

func (c *storefrontTestContext) iNavigateTo(raw string) error {
	screen, err := domain.ParseScreen(raw)
	if err != nil {
		return err
	}
	c.session.Navigate(screen)
	return nil
}

func (c *storefrontTestContext) iSearchFor(term string) error {
	c.session.Search(term)
	return nil
}

func (c *storefrontTestContext) iPlaceTheOrder() error {
	c.session.PlaceOrder(domain.ShippingInfo{}, domain.DefaultTaxRate)
	return nil
}

func (c *storefrontTestContext) theCartHasLines(n int) error {
	if got := len(c.session.Cart.Lines()); got != n {
		return fmt.Errorf("expected %d cart lines, got %d", n, got)
	}
	return nil
}

func (c *storefrontTestContext) theCartHoldsOfProduct(quantity, productID int) error {
	if got := c.session.Cart.Quantity(productID); got != quantity {
		return fmt.Errorf("expected quantity %d for product %d, got %d", quantity, productID, got)
	}
	return nil
}

func (c *storefrontTestContext) theCartIsEmpty() error {
	if !c.session.Cart.IsEmpty() {
		return errors.New("expected the cart to be empty")
	}
	return nil
}

func (c *storefrontTestContext) theSubtotalIs(want float64) error {
	if got := c.session.Cart.Subtotal(); fmt.Sprintf("%.2f", got) != fmt.Sprintf("%.2f", want) {
		return fmt.Errorf("expected subtotal %.2f, got %.2f", want, got)
	}
	return nil
}

func (c *storefrontTestContext) theItemCountIs(want int) error {
	if got := c.session.Cart.ItemCount(); got != want {
		return fmt.Errorf("expected item count %d, got %d", want, got)
	}
	return nil
}

func (c *storefrontTestContext) theScreenIs(raw string) error {
	if got := c.session.Nav.ActiveScreen(); string(got) != raw {
		return fmt.Errorf("expected screen %q, got %q", raw, got)
	}
	return nil
}

func (c *storefrontTestContext) theVisibleProductsAre(list string) error {
	var got []string
	for _, p := range domain.Apply(c.catalog, c.session.Criteria) {
		got = append(got, strconv.Itoa(p.ID))
	}
	if strings.Join(got, ",") != list {
		return fmt.Errorf("expected visible products %q, got %q", list, strings.Join(got, ","))
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &storefrontTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the catalog:$`, tc.theCatalog)
	ctx.Step(`^a new session$`, tc.aNewSession)

	ctx.Step(`^I add (\d+) of product (\d+) to the cart$`, tc.iAddOfProductToTheCart)
	ctx.Step(`^I set the quantity of product (\d+) to (-?\d+)$`, tc.iSetTheQuantityOfProductTo)
	ctx.Step(`^I navigate to "([^"]*)"$`, tc.iNavigateTo)
	ctx.Step(`^I search for "([^"]*)"$`, tc.iSearchFor)
	ctx.Step(`^I place the order$`, tc.iPlaceTheOrder)

	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart holds (\d+) of product (\d+)$`, tc.theCartHoldsOfProduct)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the subtotal is (\d+\.\d+)$`, tc.theSubtotalIs)
	ctx.Step(`^the item count is (\d+)$`, tc.theItemCountIs)
	ctx.Step(`^the screen is "([^"]*)"$`, tc.theScreenIs)
	ctx.Step(`^the visible products are "([^"]*)"$`, tc.theVisibleProductsAre)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/storefront.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
