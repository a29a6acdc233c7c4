package service

import (
	"context"
	"math"
	"testing"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func newTestService(t *testing.T, source domain.CatalogSource) (*StorefrontService, *CatalogLoader) {
	t.Helper()
	logger := newTestLogger()
	tracer := tracenoop.NewTracerProvider().Tracer("test")

	loader := NewCatalogLoader(source, logger)
	loader.Start(context.Background())

	repo := memory.NewSessionRepository(tracer, logger)
	svc := NewStorefrontService(loader, repo, domain.DefaultTaxRate, tracer, metricnoop.NewMeterProvider().Meter("test"), logger)
	return svc, loader
}

func newLoadedService(t *testing.T) *StorefrontService {
	t.Helper()
	source := newGatedSource(testCatalog(), nil)
	close(source.release)
	svc, loader := newTestService(t, source)
	waitDone(t, loader)
	return svc
}

func validOrder() dto.PlaceOrderRequest {
	return dto.PlaceOrderRequest{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Address: "12 Analytical Row",
		City:    "London",
		Zip:     "N1 9GU",
	}
}

func TestStorefrontService_CreateSession(t *testing.T) {
	svc := newLoadedService(t)
	ctx := context.Background()

	view, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "catalog", view.Screen)
	assert.Len(t, view.Products, 3)
	assert.Equal(t, []string{"All", "Apparel", "Lifestyle", "Accessories"}, view.Categories)
	assert.True(t, view.Cart.Empty)
	assert.Nil(t, view.Criteria.MaxPrice)
	assert.Equal(t, "loaded", view.CatalogStatus)
}

func TestStorefrontService_UnknownSession(t *testing.T) {
	svc := newLoadedService(t)
	ctx := context.Background()

	_, err := svc.GetView(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.AddToCart(ctx, "missing", 1, 1)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, svc.DeleteSession(ctx, "missing"), domain.ErrSessionNotFound)

	_, err = svc.PlaceOrder(ctx, "missing", dto.PlaceOrderRequest{Name: "Ada"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStorefrontService_QuantitiesSaturate(t *testing.T) {
	svc := newLoadedService(t)
	ctx := context.Background()
	view, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, view.ID, 1, math.MaxInt)
	require.NoError(t, err)
	view, err = svc.AddToCart(ctx, view.ID, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, domain.MaxQuantity, view.Cart.ItemCount)
	assert.Positive(t, view.Cart.Subtotal)

	view, err = svc.UpdateQuantity(ctx, view.ID, 1, "2.5")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Cart.ItemCount)
}

func TestStorefrontService_SelectAndAddWithStepper(t *testing.T) {
	svc := newLoadedService(t)
	ctx := context.Background()
	view, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	view, err = svc.SelectProduct(ctx, view.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, "detail", view.Screen)
	require.NotNil(t, view.SelectedProduct)
	assert.Equal(t, 4, view.SelectedProduct.ID)

	view, err = svc.StepQuantity(ctx, view.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, view.DetailQuantity)

	view, err = svc.AddToCart(ctx, view.ID, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, "cart", view.Screen)
	assert.Nil(t, view.SelectedProduct)
	assert.Equal(t, 3, view.Cart.ItemCount)
	assert.InDelta(t, 3*34.99, view.Cart.Subtotal, 1e-9)
}

func TestStorefrontService_SelectUnknownProduct(t *testing.T) {
	svc := newLoadedService(t)
	ctx := context.Background()
	view, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.SelectProduct(ctx, view.ID, 404)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	view, err = svc.GetView(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "catalog", view.Screen)
}

func TestStorefrontService_UpdateQuantityFromRawInput(t *testing.T) {
	svc := newLoadedService(t)
	ctx := context.Background()
	view, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	id := view.ID

	_, err = svc.AddToCart(ctx, id, 1, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, id, 1, 3)
	require.NoError(t, err)

	view, err = svc.UpdateQuantity(ctx, id, 1, "1")
	require.NoError(t, err)
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, 1, view.Cart.Lines[0].Quantity)

	view, err = svc.UpdateQuantity(ctx, id, 1, "lots")
	require.NoError(t, err)
	assert.True(t, view.Cart.Empty)
}

func TestStorefrontService_RemoveFromCart(t *testing.T) {
	svc := newLoadedService(t)
	ctx := context.Background()
	view, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, view.ID, 1, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, view.ID, 7, 1)
	require.NoError(t, err)

	view, err = svc.RemoveFromCart(ctx, view.ID, 1)
	require.NoError(t, err)
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, 7, view.Cart.Lines[0].Product.ID)
}

func TestStorefrontService_NavigateAndSearch(t *testing.T) {
	svc := newLoadedService(t)
	ctx := context.Background()
	view, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	id := view.ID

	_, err = svc.Navigate(ctx, id, "basket")
	assert.ErrorIs(t, err, domain.ErrInvalidScreen)

	_, err = svc.AddToCart(ctx, id, 4, 2)
	require.NoError(t, err)
	view, err = svc.Navigate(ctx, id, "checkout")
	require.NoError(t, err)
	assert.Equal(t, "checkout", view.Screen)

	view, err = svc.Search(ctx, id, "boba")
	require.NoError(t, err)
	assert.Equal(t, "catalog", view.Screen)
	assert.Equal(t, 2, view.Cart.ItemCount)
	require.Len(t, view.Products, 1)
	assert.Equal(t, 4, view.Products[0].ID)
}

func TestStorefrontService_UpdateCriteria(t *testing.T) {
	svc := newLoadedService(t)
	ctx := context.Background()
	view, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	view, err = svc.UpdateCriteria(ctx, view.ID, dto.CriteriaRequest{
		MinPrice: "abc",
		MaxPrice: "40",
		Sort:     "price-desc",
	})
	require.NoError(t, err)

	require.Len(t, view.Products, 2)
	assert.Equal(t, 4, view.Products[0].ID)
	assert.Equal(t, 7, view.Products[1].ID)
	assert.Equal(t, "All", view.Criteria.Category)
	require.NotNil(t, view.Criteria.MaxPrice)
	assert.Equal(t, 40.0, *view.Criteria.MaxPrice)
	assert.Equal(t, 0.0, view.Criteria.MinPrice)
}

func TestStorefrontService_CheckoutAndPlaceOrder(t *testing.T) {
	svc := newLoadedService(t)
	ctx := context.Background()
	view, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	id := view.ID

	_, err = svc.AddToCart(ctx, id, 7, 2)
	require.NoError(t, err)

	summary, err := svc.Checkout(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, 36.0, summary.Subtotal, 1e-9)
	assert.InDelta(t, 2.88, summary.Tax, 1e-9)
	assert.InDelta(t, 38.88, summary.Total, 1e-9)

	bad := validOrder()
	bad.Email = "nope"
	_, err = svc.PlaceOrder(ctx, id, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidShipping)

	order, err := svc.PlaceOrder(ctx, id, validOrder())
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.InDelta(t, 38.88, order.Summary.Total, 1e-9)

	view, err = svc.GetView(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "confirmation", view.Screen)
	assert.True(t, view.Cart.Empty)
	require.NotNil(t, view.LastOrder)
	assert.Equal(t, order.ID, view.LastOrder.ID)
}

func TestStorefrontService_CatalogGate(t *testing.T) {
	source := newGatedSource(testCatalog(), nil)
	svc, loader := newTestService(t, source)
	ctx := context.Background()

	catalog := svc.Catalog(ctx)
	assert.Equal(t, "loading", catalog.Status)
	assert.Empty(t, catalog.Products)

	view, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "loading", view.CatalogStatus)
	assert.Empty(t, view.Products)

	_, err = svc.SelectProduct(ctx, view.ID, 1)
	assert.ErrorIs(t, err, domain.ErrCatalogLoading)

	close(source.release)
	waitDone(t, loader)

	_, err = svc.SelectProduct(ctx, view.ID, 1)
	require.NoError(t, err)
	assert.Len(t, svc.Catalog(ctx).Products, 3)
}

func TestStorefrontService_CatalogFailure(t *testing.T) {
	source := newGatedSource(nil, domain.ErrCatalogFetchFailed)
	close(source.release)
	svc, loader := newTestService(t, source)
	waitDone(t, loader)
	ctx := context.Background()

	catalog := svc.Catalog(ctx)
	assert.Equal(t, "failed", catalog.Status)
	assert.Equal(t, "failed to fetch products", catalog.Error)

	view, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, view.ID, 1, 1)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}
