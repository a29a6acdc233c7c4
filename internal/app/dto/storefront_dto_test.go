package dto

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateQuantityRequest_RawQuantity(t *testing.T) {
	tests := map[string]string{
		`{"quantity": 3}`:     "3",
		`{"quantity": "4"}`:   "4",
		`{"quantity": "abc"}`: "abc",
		`{"quantity": null}`:  "",
		`{}`:                  "",
	}
	for body, want := range tests {
		var req UpdateQuantityRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req))
		assert.Equal(t, want, req.RawQuantity(), body)
	}
}

func TestCriteriaRequest_ToCriteria(t *testing.T) {
	c := CriteriaRequest{MinPrice: "x", MaxPrice: "", Sort: "bogus"}.ToCriteria()

	assert.Equal(t, domain.AllCategories, c.Category)
	assert.Equal(t, 0.0, c.MinPrice)
	assert.True(t, math.IsInf(c.MaxPrice, 1))
	assert.Equal(t, domain.SortFeatured, c.Sort)

	c = CriteriaRequest{Category: "Tech", MinPrice: "10", MaxPrice: "60", Sort: "name-asc"}.ToCriteria()

	assert.Equal(t, "Tech", c.Category)
	assert.Equal(t, 10.0, c.MinPrice)
	assert.Equal(t, 60.0, c.MaxPrice)
	assert.Equal(t, domain.SortNameAsc, c.Sort)
}

func TestToCriteriaResponse_UnboundedMaxIsNull(t *testing.T) {
	raw, err := json.Marshal(ToCriteriaResponse(domain.DefaultCriteria()))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"max_price":null`)
}

func TestToCartResponse(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(&domain.Product{ID: 1, Name: "Mug", Price: 4.5}, 2)

	resp := ToCartResponse(cart)

	require.Len(t, resp.Lines, 1)
	assert.InDelta(t, 9.0, resp.Lines[0].LineTotal, 1e-9)
	assert.InDelta(t, 9.0, resp.Subtotal, 1e-9)
	assert.Equal(t, 2, resp.ItemCount)
	assert.False(t, resp.Empty)

	empty := ToCartResponse(domain.NewCart())
	assert.NotNil(t, empty.Lines)
	assert.True(t, empty.Empty)
}
