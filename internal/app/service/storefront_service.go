package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// StorefrontService handles storefront session use cases
type StorefrontService struct {
	catalog      *CatalogLoader
	sessions     domain.SessionRepository
	taxRate      float64
	tracer       trace.Tracer
	logger       *slog.Logger
	operations   metric.Int64Counter
	ordersPlaced metric.Int64Counter
	cartItems    metric.Int64Histogram
}

// NewStorefrontService creates a new storefront service
func NewStorefrontService(
	catalog *CatalogLoader,
	sessions domain.SessionRepository,
	taxRate float64,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *StorefrontService {
	// Initialize metrics
	operations, _ := meter.Int64Counter(
		"storefront.operations",
		metric.WithDescription("Total number of storefront session operations"),
	)

	ordersPlaced, _ := meter.Int64Counter(
		"storefront.orders.placed.total",
		metric.WithDescription("Total number of orders placed"),
	)

	cartItems, _ := meter.Int64Histogram(
		"storefront.cart.items",
		metric.WithDescription("Cart item count after an add-to-cart"),
		metric.WithUnit("{item}"),
	)

	return &StorefrontService{
		catalog:      catalog,
		sessions:     sessions,
		taxRate:      taxRate,
		tracer:       tracer,
		logger:       logger,
		operations:   operations,
		ordersPlaced: ordersPlaced,
		cartItems:    cartItems,
	}
}

func resultFor(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrProductNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrCatalogLoading), errors.Is(err, domain.ErrCatalogUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrInvalidScreen), errors.Is(err, domain.ErrInvalidShipping):
		return "invalid"
	default:
		return "failure"
	}
}

// finish records the outcome of an operation on its span and counter
func (s *StorefrontService) finish(ctx context.Context, span trace.Span, op string, err error) {
	result := resultFor(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "Storefront operation failed",
			slog.String("operation", op),
			slog.String("result", result),
			slog.String("error", err.Error()),
		)
	} else {
		span.SetStatus(codes.Ok, op+" succeeded")
	}

	s.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("result", result),
		),
	)
}

// mutate applies fn to the session and returns the refreshed view
func (s *StorefrontService) mutate(ctx context.Context, op, id string, fn func(context.Context, *domain.Session) error) (*dto.SessionViewResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService."+op)
	defer span.End()

	span.SetAttributes(attribute.String("session.id", id))

	var view *dto.SessionViewResponse
	err := s.sessions.Update(ctx, id, func(sess *domain.Session) error {
		if err := fn(ctx, sess); err != nil {
			return err
		}
		view = s.buildView(sess)
		return nil
	})

	s.finish(ctx, span, op, err)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("session.screen", view.Screen),
		attribute.Int("cart.item_count", view.Cart.ItemCount),
	)
	return view, nil
}

func (s *StorefrontService) buildView(sess *domain.Session) *dto.SessionViewResponse {
	st := s.catalog.State()
	screen := sess.Nav.ActiveScreen()

	view := &dto.SessionViewResponse{
		ID:             sess.ID,
		Screen:         string(screen),
		DetailQuantity: sess.DetailQuantity,
		Products:       []*dto.ProductResponse{},
		Categories:     []string{},
		Criteria:       dto.ToCriteriaResponse(sess.Criteria),
		Cart:           dto.ToCartResponse(sess.Cart),
		LastOrder:      dto.ToOrderResponse(sess.LastOrder),
		CatalogStatus:  string(st.Status),
		UpdatedAt:      sess.UpdatedAt,
	}
	if st.Err != nil {
		view.CatalogError = st.Err.Error()
	}
	if screen == domain.ScreenDetail {
		view.SelectedProduct = dto.ToProductResponse(sess.Nav.Selected())
	}
	if st.Status == CatalogLoaded {
		view.Products = dto.ToProductResponseList(domain.Apply(st.Products, sess.Criteria))
		view.Categories = domain.Categories(st.Products)
	}
	return view
}

// product resolves a catalog entry, honoring the loading gate
func (s *StorefrontService) product(id int) (*domain.Product, error) {
	products, err := s.catalog.Products()
	if err != nil {
		return nil, err
	}
	return domain.FindProduct(products, id)
}

// Catalog reports the catalog load state and the full product list
func (s *StorefrontService) Catalog(ctx context.Context) *dto.CatalogResponse {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.Catalog")
	defer span.End()

	st := s.catalog.State()
	resp := &dto.CatalogResponse{
		Status:     string(st.Status),
		Products:   dto.ToProductResponseList(st.Products),
		Categories: domain.Categories(st.Products),
	}
	if st.Err != nil {
		resp.Error = st.Err.Error()
	}

	span.SetAttributes(
		attribute.String("catalog.status", resp.Status),
		attribute.Int("product.count", len(resp.Products)),
	)
	s.finish(ctx, span, "Catalog", nil)
	return resp
}

// CreateSession starts a new browsing session
func (s *StorefrontService) CreateSession(ctx context.Context) (*dto.SessionViewResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.CreateSession")
	defer span.End()

	sess := domain.NewSession()
	span.SetAttributes(attribute.String("session.id", sess.ID))

	view := s.buildView(sess)
	if err := s.sessions.Create(ctx, sess); err != nil {
		s.finish(ctx, span, "CreateSession", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "Session created",
		slog.String("session_id", sess.ID),
	)

	s.finish(ctx, span, "CreateSession", nil)
	return view, nil
}

// GetView returns the current view of a session
func (s *StorefrontService) GetView(ctx context.Context, id string) (*dto.SessionViewResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.GetView")
	defer span.End()

	span.SetAttributes(attribute.String("session.id", id))

	var view *dto.SessionViewResponse
	err := s.sessions.View(ctx, id, func(sess *domain.Session) error {
		view = s.buildView(sess)
		return nil
	})

	s.finish(ctx, span, "GetView", err)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// DeleteSession ends a browsing session
func (s *StorefrontService) DeleteSession(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.DeleteSession")
	defer span.End()

	span.SetAttributes(attribute.String("session.id", id))

	err := s.sessions.Delete(ctx, id)
	s.finish(ctx, span, "DeleteSession", err)
	return err
}

// SelectProduct opens the detail screen for a product
func (s *StorefrontService) SelectProduct(ctx context.Context, id string, productID int) (*dto.SessionViewResponse, error) {
	return s.mutate(ctx, "SelectProduct", id, func(ctx context.Context, sess *domain.Session) error {
		p, err := s.product(productID)
		if err != nil {
			return err
		}
		sess.Select(p)
		s.logger.InfoContext(ctx, "Product selected",
			slog.String("session_id", id),
			slog.Int("product_id", p.ID),
		)
		return nil
	})
}

// StepQuantity moves the detail-screen quantity stepper
func (s *StorefrontService) StepQuantity(ctx context.Context, id string, delta int) (*dto.SessionViewResponse, error) {
	return s.mutate(ctx, "StepQuantity", id, func(ctx context.Context, sess *domain.Session) error {
		sess.StepQuantity(delta)
		return nil
	})
}

// AddToCart merges a product into the cart and opens the cart screen
func (s *StorefrontService) AddToCart(ctx context.Context, id string, productID, quantity int) (*dto.SessionViewResponse, error) {
	return s.mutate(ctx, "AddToCart", id, func(ctx context.Context, sess *domain.Session) error {
		p, err := s.product(productID)
		if err != nil {
			return err
		}
		if quantity < 0 {
			quantity = 0
		}
		sess.AddToCart(p, quantity)

		s.cartItems.Record(ctx, int64(sess.Cart.ItemCount()))
		s.logger.InfoContext(ctx, "Product added to cart",
			slog.String("session_id", id),
			slog.Int("product_id", p.ID),
			slog.Int("line_quantity", sess.Cart.Quantity(p.ID)),
			slog.Int("cart_items", sess.Cart.ItemCount()),
		)
		return nil
	})
}

// UpdateQuantity sets a line quantity from raw input. Non-positive or
// non-numeric input removes the line.
func (s *StorefrontService) UpdateQuantity(ctx context.Context, id string, productID int, raw string) (*dto.SessionViewResponse, error) {
	return s.mutate(ctx, "UpdateQuantity", id, func(ctx context.Context, sess *domain.Session) error {
		quantity := domain.ParseQuantity(raw)
		sess.UpdateQuantity(productID, quantity)
		s.logger.InfoContext(ctx, "Cart quantity updated",
			slog.String("session_id", id),
			slog.Int("product_id", productID),
			slog.Int("quantity", quantity),
		)
		return nil
	})
}

// RemoveFromCart deletes a cart line
func (s *StorefrontService) RemoveFromCart(ctx context.Context, id string, productID int) (*dto.SessionViewResponse, error) {
	return s.mutate(ctx, "RemoveFromCart", id, func(ctx context.Context, sess *domain.Session) error {
		sess.Remove(productID)
		s.logger.InfoContext(ctx, "Product removed from cart",
			slog.String("session_id", id),
			slog.Int("product_id", productID),
		)
		return nil
	})
}

// Navigate switches to an explicit screen
func (s *StorefrontService) Navigate(ctx context.Context, id string, rawScreen string) (*dto.SessionViewResponse, error) {
	return s.mutate(ctx, "Navigate", id, func(ctx context.Context, sess *domain.Session) error {
		screen, err := domain.ParseScreen(rawScreen)
		if err != nil {
			return err
		}
		sess.Navigate(screen)
		return nil
	})
}

// Search updates the search term, surfacing the catalog for non-empty terms
func (s *StorefrontService) Search(ctx context.Context, id string, term string) (*dto.SessionViewResponse, error) {
	return s.mutate(ctx, "Search", id, func(ctx context.Context, sess *domain.Session) error {
		moved := sess.Search(term)
		s.logger.DebugContext(ctx, "Search term changed",
			slog.String("session_id", id),
			slog.String("term", term),
			slog.Bool("navigated", moved),
		)
		return nil
	})
}

// UpdateCriteria replaces the category, price and sort filters
func (s *StorefrontService) UpdateCriteria(ctx context.Context, id string, req dto.CriteriaRequest) (*dto.SessionViewResponse, error) {
	return s.mutate(ctx, "UpdateCriteria", id, func(ctx context.Context, sess *domain.Session) error {
		sess.SetFilters(req.ToCriteria())
		return nil
	})
}

// Checkout returns the order summary for the current cart
func (s *StorefrontService) Checkout(ctx context.Context, id string) (*dto.OrderSummaryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.Checkout")
	defer span.End()

	span.SetAttributes(attribute.String("session.id", id))

	var summary domain.OrderSummary
	err := s.sessions.View(ctx, id, func(sess *domain.Session) error {
		summary = domain.Summarize(sess.Cart, s.taxRate)
		return nil
	})

	s.finish(ctx, span, "Checkout", err)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Float64("order.total", summary.Total.InexactFloat64()))
	return dto.ToOrderSummaryResponse(summary), nil
}

// PlaceOrder turns the cart into an order and opens the confirmation screen
func (s *StorefrontService) PlaceOrder(ctx context.Context, id string, req dto.PlaceOrderRequest) (*dto.OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.PlaceOrder")
	defer span.End()

	span.SetAttributes(attribute.String("session.id", id))

	// An unknown session is reported before any shipping error.
	shipping := req.ToShippingInfo()
	var order *domain.Order
	err := s.sessions.Update(ctx, id, func(sess *domain.Session) error {
		if err := shipping.Validate(); err != nil {
			return err
		}
		order = sess.PlaceOrder(shipping, s.taxRate)
		return nil
	})

	s.finish(ctx, span, "PlaceOrder", err)
	if err != nil {
		return nil, err
	}

	s.ordersPlaced.Add(ctx, 1)
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Float64("order.total", order.Summary.Total.InexactFloat64()),
	)
	s.logger.InfoContext(ctx, "Order placed",
		slog.String("session_id", id),
		slog.String("order_id", order.ID),
		slog.String("total", order.Summary.Total.StringFixed(2)),
	)

	return dto.ToOrderResponse(order), nil
}
