package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/niksmo/misslily/internal/core/catalog"
	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/pkg/weburl"
)

// ListProducts returns the storefront view of the catalog for f.
func (s Service) ListProducts(
	ctx context.Context, f catalog.Filters,
) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	ps, err := s.queryProducts(ctx)
	if err != nil {
		return nil, opErr(op, err)
	}
	return catalog.Filter(ps, f), nil
}

// GetProduct returns an active product. Inactive products are not found.
func (s Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	const op = "Service.GetProduct"

	d, err := s.store.GetDocument(ctx, domain.Products, id)
	if err != nil {
		return domain.Product{}, opErr(op, err)
	}

	p := domain.DecodeProduct(d)
	if !p.IsActive {
		return domain.Product{}, opErr(op, domain.ErrNotFound)
	}
	return p, nil
}

// ListCategories returns active categories by name with their active
// product counts.
func (s Service) ListCategories(ctx context.Context) ([]catalog.CategoryCount, error) {
	const op = "Service.ListCategories"

	cs, err := s.queryCategories(ctx)
	if err != nil {
		return nil, opErr(op, err)
	}

	ps, err := s.queryProducts(ctx)
	if err != nil {
		return nil, opErr(op, err)
	}

	return catalog.CategoryCounts(cs, ps), nil
}

func (s Service) ProductsInCategory(
	ctx context.Context, categoryID string,
) ([]domain.Product, error) {
	const op = "Service.ProductsInCategory"

	q := domain.Query{
		Collection: domain.Products,
		Equals:     map[string]any{"categoryId": categoryID},
		OrderBy:    domain.OrderBy{Field: "createdAt", Desc: true},
	}
	ds, err := s.store.QueryCollection(ctx, q)
	if err != nil {
		return nil, opErr(op, err)
	}

	// Visibility is decided after decoding, where a missing flag means active.
	ps := domain.DecodeProducts(ds)
	return slices.DeleteFunc(ps, func(p domain.Product) bool {
		return !p.IsActive
	}), nil
}

// SubmitInquiry accepts a product inquiry for asynchronous storage and
// returns the WhatsApp link that carries the same details.
func (s Service) SubmitInquiry(
	ctx context.Context, in domain.InquiryInput,
) (string, error) {
	const op = "Service.SubmitInquiry"

	if err := s.validateInput(in); err != nil {
		return "", opErr(op, err)
	}

	v := domain.Inquiry{
		ProductID:   in.ProductID,
		ProductName: in.ProductName,
		FullName:    strings.TrimSpace(in.FullName),
		Email:       strings.TrimSpace(in.Email),
		Phone:       in.Phone,
		City:        in.City,
		Size:        in.Size,
		Color:       in.Color,
		Message:     in.Message,
		InquiryType: domain.ProductInquiryType,
		Status:      domain.InquiryPending,
		CreatedAt:   s.now(),
	}

	if err := s.intake.EmitInquiry(ctx, v); err != nil {
		return "", opErr(op, err)
	}

	return s.inquiryLink(s.whatsAppNumber(ctx), v), nil
}

func (s Service) SubmitContact(ctx context.Context, in domain.ContactInput) error {
	const op = "Service.SubmitContact"

	if err := s.validateInput(in); err != nil {
		return opErr(op, err)
	}

	v := domain.ContactMessage{
		FullName:  strings.TrimSpace(in.FullName),
		Email:     strings.TrimSpace(in.Email),
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    domain.MessageUnread,
		CreatedAt: s.now(),
	}

	if err := s.intake.EmitContactMessage(ctx, v); err != nil {
		return opErr(op, err)
	}
	return nil
}

func (s Service) inquiryLink(number string, v domain.Inquiry) string {
	msg := fmt.Sprintf(
		"Hi, I'm interested in %s. My details: Name: %s, Email: %s, "+
			"Phone: %s, City: %s, Size: %s, Color: %s. Message: %s",
		v.ProductName, v.FullName, v.Email,
		v.Phone, v.City, v.Size, v.Color, v.Message,
	)
	return "https://wa.me/" + number + "?text=" + weburl.EscapeComponent(msg)
}

// FollowUpLink opens a WhatsApp chat with the given phone number.
func FollowUpLink(phone string) string {
	return "https://wa.me/" + digits(phone)
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
