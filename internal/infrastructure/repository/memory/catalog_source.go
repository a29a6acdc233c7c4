package memory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SeedCatalog returns the demo product collection.
func SeedCatalog() []*domain.Product {
	return []*domain.Product{
		{ID: 1, Name: "Oversized Graphic Hoodie", Description: "Stay comfy and stylish with this 100% cotton oversized hoodie. Features a unique back print and a soft fleece interior. Essential for any streetwear look.", ImageURL: "https://picsum.photos/seed/hoodie/600/400", Price: 69.99, Category: "Apparel"},
		{ID: 2, Name: "RGB LED Strip Lights (5m)", Description: "Transform your room's vibe with these remote-controlled RGB LED strip lights. Easy to install and perfect for creating aesthetic backgrounds.", ImageURL: "https://picsum.photos/seed/led/600/400", Price: 24.99, Category: "Decor"},
		{ID: 3, Name: "Customizable Phone Case", Description: "Protect your phone and show off your personality. Durable, shock-absorbent case that you can customize with your own text or design.", ImageURL: "https://picsum.photos/seed/case/600/400", Price: 29.50, Category: "Accessories"},
		{ID: 4, Name: "DIY Boba Tea Kit", Description: "Become a boba master at home. This kit includes everything you need to make 5 servings of delicious classic milk tea with tapioca pearls.", ImageURL: "https://picsum.photos/seed/boba/600/400", Price: 34.99, Category: "Lifestyle"},
		{ID: 5, Name: "Noise-Cancelling Gaming Headset", Description: "Level up your gaming experience. Crystal-clear audio, a noise-cancelling mic, and comfy earcups for long sessions. Universal compatibility.", ImageURL: "https://picsum.photos/seed/headset/600/400", Price: 89.00, Category: "Tech"},
		{ID: 6, Name: "Cloud-Shaped Throw Pillow", Description: "An adorable and super-soft cloud-shaped pillow to add a touch of whimsy to your bed or couch. Perfect for cozy vibes.", ImageURL: "https://picsum.photos/seed/pillow/600/400", Price: 22.50, Category: "Decor"},
		{ID: 7, Name: "Vintage-Style Oval Sunglasses", Description: "The perfect Y2K accessory. These retro-inspired sunglasses offer UV400 protection and come in multiple lens colors.", ImageURL: "https://picsum.photos/seed/glasses/600/400", Price: 18.00, Category: "Accessories"},
		{ID: 8, Name: "Hydro-Boost Skincare Set", Description: "A 3-step skincare routine for glowing, hydrated skin. Includes a gentle cleanser, hyaluronic acid serum, and a gel moisturizer.", ImageURL: "https://picsum.photos/seed/skincare/600/400", Price: 45.00, Category: "Beauty"},
		{ID: 9, Name: "Portable Bluetooth Speaker", Description: "Take your music anywhere. Compact, waterproof, and packs a punch with deep bass and 12-hour battery life.", ImageURL: "https://picsum.photos/seed/speaker/600/400", Price: 55.00, Category: "Tech"},
		{ID: 10, Name: "Set of 4 Matte Claw Clips", Description: "Effortless hairstyles in seconds. This set includes four large claw clips in neutral matte colors to match any outfit.", ImageURL: "https://picsum.photos/seed/clips/600/400", Price: 15.99, Category: "Accessories"},
	}
}

// CatalogSource is an in-memory domain.CatalogSource that answers after a
// simulated network delay.
type CatalogSource struct {
	products []*domain.Product
	delay    time.Duration
	fail     bool
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewCatalogSource creates a catalog source over products. When fail is set
// every fetch returns domain.ErrCatalogFetchFailed.
func NewCatalogSource(products []*domain.Product, delay time.Duration, fail bool, tracer trace.Tracer, logger *slog.Logger) *CatalogSource {
	return &CatalogSource{
		products: products,
		delay:    delay,
		fail:     fail,
		tracer:   tracer,
		logger:   logger,
	}
}

// FetchCatalog returns the product collection after the configured delay
func (s *CatalogSource) FetchCatalog(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogSource.FetchCatalog")
	defer span.End()

	span.SetAttributes(attribute.Int64("catalog.delay_ms", s.delay.Milliseconds()))

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			span.SetStatus(codes.Error, "Fetch cancelled")
			return nil, fmt.Errorf("%w: %w", domain.ErrCatalogFetchFailed, ctx.Err())
		case <-timer.C:
		}
	}

	if s.fail {
		span.RecordError(domain.ErrCatalogFetchFailed)
		span.SetStatus(codes.Error, "Fetch failed")
		s.logger.ErrorContext(ctx, "Catalog fetch failed")
		return nil, domain.ErrCatalogFetchFailed
	}

	if err := domain.ValidateCatalog(s.products); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid catalog")
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogFetchFailed, err)
	}

	products := make([]*domain.Product, len(s.products))
	copy(products, s.products)

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.logger.InfoContext(ctx, "Catalog fetched",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Catalog fetched")
	return products, nil
}
