package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrCatalogFetchFailed = errors.New("failed to fetch products")
	ErrCatalogLoading     = errors.New("catalog is still loading")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// CatalogSource supplies the full product collection. It is fetched once
// per process.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]*Product, error)
}

// SessionRepository defines the contract for session storage
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// View and Update run fn with exclusive access to the session. The
	// session must not be retained after fn returns.
	View(ctx context.Context, id string, fn func(*Session) error) error
	Update(ctx context.Context, id string, fn func(*Session) error) error
	Delete(ctx context.Context, id string) error
}
