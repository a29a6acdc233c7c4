package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedSource answers FetchCatalog once release is closed.
type gatedSource struct {
	products []*domain.Product
	err      error
	release  chan struct{}
	calls    int
}

func newGatedSource(products []*domain.Product, err error) *gatedSource {
	return &gatedSource{products: products, err: err, release: make(chan struct{})}
}

func (s *gatedSource) FetchCatalog(ctx context.Context) ([]*domain.Product, error) {
	s.calls++
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.products, s.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitDone(t *testing.T, loader *CatalogLoader) {
	t.Helper()
	select {
	case <-loader.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("catalog loader did not finish")
	}
}

func testCatalog() []*domain.Product {
	return []*domain.Product{
		{ID: 1, Name: "Graphic Hoodie", Price: 69.99, Category: "Apparel"},
		{ID: 4, Name: "DIY Boba Tea Kit", Price: 34.99, Category: "Lifestyle"},
		{ID: 7, Name: "Oval Sunglasses", Price: 18.00, Category: "Accessories"},
	}
}

func TestCatalogLoader_LoadingGate(t *testing.T) {
	source := newGatedSource(testCatalog(), nil)
	loader := NewCatalogLoader(source, newTestLogger())
	loader.Start(context.Background())

	_, err := loader.Products()
	assert.ErrorIs(t, err, domain.ErrCatalogLoading)
	assert.Equal(t, CatalogLoading, loader.State().Status)

	close(source.release)
	waitDone(t, loader)

	products, err := loader.Products()
	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, CatalogLoaded, loader.State().Status)
}

func TestCatalogLoader_Failure(t *testing.T) {
	source := newGatedSource(nil, domain.ErrCatalogFetchFailed)
	close(source.release)

	loader := NewCatalogLoader(source, newTestLogger())
	loader.Start(context.Background())
	waitDone(t, loader)

	_, err := loader.Products()
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.Contains(t, err.Error(), "failed to fetch products")

	st := loader.State()
	assert.Equal(t, CatalogFailed, st.Status)
	assert.ErrorIs(t, st.Err, domain.ErrCatalogFetchFailed)
}

func TestCatalogLoader_StartsOnce(t *testing.T) {
	source := newGatedSource(testCatalog(), nil)
	close(source.release)

	loader := NewCatalogLoader(source, newTestLogger())
	loader.Start(context.Background())
	loader.Start(context.Background())
	waitDone(t, loader)

	assert.Equal(t, 1, source.calls)
}
