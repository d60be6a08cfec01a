package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Discount    decimal.Decimal
	Stock       int
	CategoryID  string
	Code        string
	IsActive    bool
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DiscountedPrice returns the price with the percentage discount applied.
func (p Product) DiscountedPrice() decimal.Decimal {
	if !p.Discount.IsPositive() {
		return p.Price
	}
	return p.Price.Sub(p.Price.Mul(p.Discount).Div(hundred))
}

func (p Product) InStock() bool {
	return p.IsActive && p.Stock > 0
}

// MainImage returns the first image reference or an empty string.
func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Fields returns the document body persisted for p.
func (p Product) Fields() map[string]any {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"price":       json.Number(p.Price.String()),
		"discount":    json.Number(p.Discount.String()),
		"stock":       p.Stock,
		"categoryId":  p.CategoryID,
		"code":        p.Code,
		"isActive":    p.IsActive,
		"images":      images,
	}
}

// DecodeProduct normalizes a raw product document.
//
// Numeric fields accept numbers and numeric strings; anything else reads as 0.
// Only an explicit boolean false makes the product inactive.
func DecodeProduct(d Document) Product {
	return Product{
		ID:          d.ID,
		Name:        stringField(d.Data, "name"),
		Description: stringField(d.Data, "description"),
		Price:       decimalField(d.Data, "price"),
		Discount:    decimalField(d.Data, "discount"),
		Stock:       max(intField(d.Data, "stock"), 0),
		CategoryID:  stringField(d.Data, "categoryId"),
		Code:        stringField(d.Data, "code"),
		IsActive:    boolField(d.Data, "isActive", true),
		Images:      stringsField(d.Data, "images"),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func DecodeProducts(ds []Document) []Product {
	ps := make([]Product, len(ds))
	for i := range ds {
		ps[i] = DecodeProduct(ds[i])
	}
	return ps
}
