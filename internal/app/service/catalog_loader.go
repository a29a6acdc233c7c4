package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mrops-br/storefront-api/internal/domain"
)

// CatalogStatus is the load state observed by consumers.
type CatalogStatus string

const (
	CatalogLoading CatalogStatus = "loading"
	CatalogLoaded  CatalogStatus = "loaded"
	CatalogFailed  CatalogStatus = "failed"
)

// CatalogState is a snapshot of the loader.
type CatalogState struct {
	Status   CatalogStatus
	Products []*domain.Product
	Err      error
}

// CatalogLoader performs the one-shot catalog fetch in the background and
// gates access to the products until it resolves.
type CatalogLoader struct {
	source domain.CatalogSource
	logger *slog.Logger

	once  sync.Once
	done  chan struct{}
	mu    sync.RWMutex
	state CatalogState
}

// NewCatalogLoader creates a loader over source. Nothing is fetched until Start.
func NewCatalogLoader(source domain.CatalogSource, logger *slog.Logger) *CatalogLoader {
	return &CatalogLoader{
		source: source,
		logger: logger,
		done:   make(chan struct{}),
		state:  CatalogState{Status: CatalogLoading},
	}
}

// Start launches the fetch. Calls after the first are ignored.
func (l *CatalogLoader) Start(ctx context.Context) {
	l.once.Do(func() {
		go l.load(ctx)
	})
}

func (l *CatalogLoader) load(ctx context.Context) {
	defer close(l.done)

	l.logger.InfoContext(ctx, "Loading catalog")

	products, err := l.source.FetchCatalog(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		l.state = CatalogState{Status: CatalogFailed, Err: err}
		l.logger.ErrorContext(ctx, "Catalog load failed",
			slog.String("error", err.Error()),
		)
		return
	}

	l.state = CatalogState{Status: CatalogLoaded, Products: products}
	l.logger.InfoContext(ctx, "Catalog loaded",
		slog.Int("count", len(products)),
	)
}

// Done is closed once the fetch has resolved either way.
func (l *CatalogLoader) Done() <-chan struct{} {
	return l.done
}

func (l *CatalogLoader) State() CatalogState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Products returns the catalog, or ErrCatalogLoading / ErrCatalogUnavailable
// while it cannot be browsed.
func (l *CatalogLoader) Products() ([]*domain.Product, error) {
	st := l.State()
	switch st.Status {
	case CatalogLoaded:
		return st.Products, nil
	case CatalogFailed:
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, st.Err)
	default:
		return nil, domain.ErrCatalogLoading
	}
}
