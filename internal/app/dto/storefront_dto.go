package dto

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/mrops-br/storefront-api/internal/domain"
)

// SelectProductRequest represents the request to open a product detail
type SelectProductRequest struct {
	ProductID int `json:"product_id"`
}

// StepQuantityRequest moves the detail-screen stepper
type StepQuantityRequest struct {
	Delta int `json:"delta"`
}

// AddToCartRequest adds a product to the cart. A zero quantity uses the
// detail stepper.
type AddToCartRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// UpdateQuantityRequest carries the raw quantity input, either a JSON
// number or a string.
type UpdateQuantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

// RawQuantity returns the quantity input with any JSON string quoting removed.
func (r UpdateQuantityRequest) RawQuantity() string {
	var s string
	if err := json.Unmarshal(r.Quantity, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(r.Quantity))
}

// NavigateRequest represents an explicit navigation
type NavigateRequest struct {
	Screen string `json:"screen"`
}

// SearchRequest carries the header search box contents
type SearchRequest struct {
	Term string `json:"term"`
}

// CriteriaRequest carries the raw filter controls. Price bounds are the
// text-box contents and may be empty or malformed.
type CriteriaRequest struct {
	Category string `json:"category"`
	MinPrice string `json:"min_price"`
	MaxPrice string `json:"max_price"`
	Sort     string `json:"sort"`
}

// ToCriteria normalizes the raw controls into domain criteria
func (r CriteriaRequest) ToCriteria() domain.Criteria {
	c := domain.DefaultCriteria()
	if r.Category != "" {
		c.Category = r.Category
	}
	c.MinPrice = domain.ParsePriceBound(r.MinPrice, 0)
	c.MaxPrice = domain.ParsePriceBound(r.MaxPrice, math.Inf(1))
	c.Sort = domain.ParseSortMode(r.Sort)
	return c
}

// PlaceOrderRequest is the shipping form
type PlaceOrderRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
}

func (r PlaceOrderRequest) ToShippingInfo() domain.ShippingInfo {
	return domain.ShippingInfo{
		Name:    r.Name,
		Email:   r.Email,
		Address: r.Address,
		City:    r.City,
		Zip:     r.Zip,
	}
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}

type CartLineResponse struct {
	Product   *ProductResponse `json:"product"`
	Quantity  int              `json:"quantity"`
	LineTotal float64          `json:"line_total"`
}

func toCartLineResponses(lines []domain.CartLine) []*CartLineResponse {
	out := make([]*CartLineResponse, len(lines))
	for i, line := range lines {
		out[i] = &CartLineResponse{
			Product:   ToProductResponse(line.Product),
			Quantity:  line.Quantity,
			LineTotal: line.Total(),
		}
	}
	return out
}

// CartResponse is the cart screen and header badge
type CartResponse struct {
	Lines     []*CartLineResponse `json:"lines"`
	Subtotal  float64             `json:"subtotal"`
	ItemCount int                 `json:"item_count"`
	Empty     bool                `json:"empty"`
}

func ToCartResponse(c *domain.Cart) *CartResponse {
	return &CartResponse{
		Lines:     toCartLineResponses(c.Lines()),
		Subtotal:  c.Subtotal(),
		ItemCount: c.ItemCount(),
		Empty:     c.IsEmpty(),
	}
}

// CriteriaResponse echoes the active filters. An unbounded maximum is
// encoded as null.
type CriteriaResponse struct {
	Category string   `json:"category"`
	Search   string   `json:"search"`
	MinPrice float64  `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
	Sort     string   `json:"sort"`
}

func ToCriteriaResponse(c domain.Criteria) *CriteriaResponse {
	resp := &CriteriaResponse{
		Category: c.Category,
		Search:   c.Search,
		MinPrice: c.MinPrice,
		Sort:     string(c.Sort),
	}
	if !math.IsInf(c.MaxPrice, 1) {
		bound := c.MaxPrice
		resp.MaxPrice = &bound
	}
	return resp
}

// OrderSummaryResponse is the checkout breakdown
type OrderSummaryResponse struct {
	Lines    []*CartLineResponse `json:"lines"`
	Subtotal float64             `json:"subtotal"`
	Tax      float64             `json:"tax"`
	Total    float64             `json:"total"`
}

func ToOrderSummaryResponse(s domain.OrderSummary) *OrderSummaryResponse {
	return &OrderSummaryResponse{
		Lines:    toCartLineResponses(s.Lines),
		Subtotal: s.Subtotal.InexactFloat64(),
		Tax:      s.Tax.InexactFloat64(),
		Total:    s.Total.InexactFloat64(),
	}
}

// OrderResponse represents a placed order
type OrderResponse struct {
	ID       string                `json:"id"`
	Summary  *OrderSummaryResponse `json:"summary"`
	PlacedAt time.Time             `json:"placed_at"`
}

func ToOrderResponse(o *domain.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	return &OrderResponse{
		ID:       o.ID,
		Summary:  ToOrderSummaryResponse(o.Summary),
		PlacedAt: o.PlacedAt,
	}
}

// CatalogResponse reports the catalog load state
type CatalogResponse struct {
	Status     string             `json:"status"`
	Error      string             `json:"error,omitempty"`
	Products   []*ProductResponse `json:"products"`
	Categories []string           `json:"categories"`
}

// SessionViewResponse is everything the renderer needs for one session
type SessionViewResponse struct {
	ID              string             `json:"id"`
	Screen          string             `json:"screen"`
	SelectedProduct *ProductResponse   `json:"selected_product,omitempty"`
	DetailQuantity  int                `json:"detail_quantity"`
	Products        []*ProductResponse `json:"products"`
	Categories      []string           `json:"categories"`
	Criteria        *CriteriaResponse  `json:"criteria"`
	Cart            *CartResponse      `json:"cart"`
	LastOrder       *OrderResponse     `json:"last_order,omitempty"`
	CatalogStatus   string             `json:"catalog_status"`
	CatalogError    string             `json:"catalog_error,omitempty"`
	UpdatedAt       time.Time          `json:"updated_at"`
}
