package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProduct(t *testing.T) {
	t.Run("NormalizedRecord", func(t *testing.T) {
		created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		d := Document{
			ID: "p1",
			Data: map[string]any{
				"name":        "Red Dress",
				"description": "Cotton",
				"price":       json.Number("1000.50"),
				"discount":    float64(20),
				"stock":       float64(3),
				"categoryId":  "A",
				"code":        "RD-1",
				"isActive":    true,
				"images":      []any{"a", "b"},
			},
			CreatedAt: created,
		}

		p := DecodeProduct(d)
		assert.Equal(t, "p1", p.ID)
		assert.Equal(t, "Red Dress", p.Name)
		assert.True(t, decimal.RequireFromString("1000.50").Equal(p.Price))
		assert.True(t, decimal.NewFromInt(20).Equal(p.Discount))
		assert.Equal(t, 3, p.Stock)
		assert.Equal(t, "A", p.CategoryID)
		assert.True(t, p.IsActive)
		assert.Equal(t, []string{"a", "b"}, p.Images)
		assert.Equal(t, created, p.CreatedAt)
	})

	t.Run("LenientNumbers", func(t *testing.T) {
		p := DecodeProduct(Document{Data: map[string]any{
			"price":    "499.99 INR",
			"discount": "abc",
			"stock":    "",
		}})
		assert.True(t, decimal.RequireFromString("499.99").Equal(p.Price))
		assert.True(t, p.Discount.IsZero())
		assert.Equal(t, 0, p.Stock)
	})

	t.Run("MissingFields", func(t *testing.T) {
		p := DecodeProduct(Document{ID: "p2", Data: map[string]any{}})
		assert.True(t, p.Price.IsZero())
		assert.True(t, p.Discount.IsZero())
		assert.True(t, p.IsActive)
		assert.Empty(t, p.Images)
	})

	t.Run("OnlyBooleanFalseDeactivates", func(t *testing.T) {
		p := DecodeProduct(Document{Data: map[string]any{"isActive": "false"}})
		assert.True(t, p.IsActive)

		p = DecodeProduct(Document{Data: map[string]any{"isActive": false}})
		assert.False(t, p.IsActive)
	})

	t.Run("NegativeStockClamped", func(t *testing.T) {
		p := DecodeProduct(Document{Data: map[string]any{"stock": float64(-1)}})
		assert.Equal(t, 0, p.Stock)
	})

	t.Run("NonStringImagesDropped", func(t *testing.T) {
		p := DecodeProduct(Document{Data: map[string]any{
			"images": []any{"a", float64(1), nil, "b"},
		}})
		assert.Equal(t, []string{"a", "b"}, p.Images)
	})
}

func TestProductFieldsRoundTrip(t *testing.T) {
	p := Product{
		Name:       "Blue Top",
		Price:      decimal.RequireFromString("500"),
		Discount:   decimal.RequireFromString("12.5"),
		Stock:      4,
		CategoryID: "B",
		IsActive:   true,
	}

	b, err := json.Marshal(p.Fields())
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal(b, &data))

	got := DecodeProduct(Document{Data: data})
	assert.True(t, p.Price.Equal(got.Price))
	assert.True(t, p.Discount.Equal(got.Discount))
	assert.Equal(t, p.Stock, got.Stock)
	assert.Equal(t, []string{}, got.Images)
}

func TestProductDiscountedPrice(t *testing.T) {
	p := Product{
		Price:    decimal.NewFromInt(500),
		Discount: decimal.NewFromInt(20),
	}
	assert.True(t, decimal.NewFromInt(400).Equal(p.DiscountedPrice()))

	p.Discount = decimal.Zero
	assert.True(t, decimal.NewFromInt(500).Equal(p.DiscountedPrice()))
}

func TestDecodeInquiryStatus(t *testing.T) {
	v := DecodeInquiry(Document{Data: map[string]any{"status": "new"}})
	assert.Equal(t, InquiryPending, v.Status)

	v = DecodeInquiry(Document{Data: map[string]any{"status": "contacted"}})
	assert.Equal(t, InquiryContacted, v.Status)

	m := DecodeContactMessage(Document{Data: map[string]any{}})
	assert.Equal(t, MessageUnread, m.Status)
}

func TestSessionValid(t *testing.T) {
	now := time.Now()
	s := Session{AdminEmail: "admin@example.com", ExpiresAt: now.Add(time.Minute)}
	assert.True(t, s.Valid(now))
	assert.False(t, s.Valid(now.Add(2*time.Minute)))
	assert.False(t, Session{}.Valid(now))
}
