package service

import (
	"context"
	"strings"

	"github.com/niksmo/misslily/internal/core/domain"
)

// AllProducts returns every product, inactive ones included, newest first.
func (s Service) AllProducts(
	ctx context.Context, sess domain.Session,
) ([]domain.Product, error) {
	const op = "Service.AllProducts"

	if err := s.authorize(sess); err != nil {
		return nil, opErr(op, err)
	}

	ps, err := s.queryProducts(ctx)
	if err != nil {
		return nil, opErr(op, err)
	}
	return ps, nil
}

func (s Service) CreateProduct(
	ctx context.Context,
	sess domain.Session,
	in domain.ProductInput,
	files []domain.Upload,
) (string, error) {
	const op = "Service.CreateProduct"

	if err := s.authorize(sess); err != nil {
		return "", opErr(op, err)
	}
	if err := s.validateInput(in); err != nil {
		return "", opErr(op, err)
	}

	images, err := s.photos.AssembleImages(ctx, nil, nil, toFiles(files))
	if err != nil {
		return "", opErr(op, err)
	}

	p := productFromInput(in)
	p.Images = images

	id, err := s.store.AddDocument(ctx, domain.Products, p.Fields())
	if err != nil {
		return "", opErr(op, err)
	}

	s.published(ctx, domain.Products, id, domain.Created)
	return id, nil
}

// UpdateProduct replaces the product fields and rebuilds its images from
// the kept existing references followed by the new files.
func (s Service) UpdateProduct(
	ctx context.Context,
	sess domain.Session,
	id string,
	in domain.ProductInput,
	images domain.ImageEdit,
) error {
	const op = "Service.UpdateProduct"

	if err := s.authorize(sess); err != nil {
		return opErr(op, err)
	}
	if err := s.validateInput(in); err != nil {
		return opErr(op, err)
	}

	refs, err := s.photos.AssembleImages(
		ctx, images.Existing, images.Deleted, toFiles(images.Files),
	)
	if err != nil {
		return opErr(op, err)
	}

	p := productFromInput(in)
	p.Images = refs

	if err := s.store.UpdateDocument(ctx, domain.Products, id, p.Fields()); err != nil {
		return opErr(op, err)
	}

	s.published(ctx, domain.Products, id, domain.Updated)
	return nil
}

// SetProductActive toggles storefront visibility.
func (s Service) SetProductActive(
	ctx context.Context, sess domain.Session, id string, active bool,
) error {
	const op = "Service.SetProductActive"

	if err := s.authorize(sess); err != nil {
		return opErr(op, err)
	}

	patch := map[string]any{"isActive": active}
	if err := s.store.UpdateDocument(ctx, domain.Products, id, patch); err != nil {
		return opErr(op, err)
	}

	s.published(ctx, domain.Products, id, domain.Updated)
	return nil
}

func (s Service) DeleteProduct(
	ctx context.Context, sess domain.Session, id string,
) error {
	const op = "Service.DeleteProduct"

	if err := s.authorize(sess); err != nil {
		return opErr(op, err)
	}

	if err := s.store.DeleteDocument(ctx, domain.Products, id); err != nil {
		return opErr(op, err)
	}

	s.published(ctx, domain.Products, id, domain.Deleted)
	return nil
}

// AllCategories returns every category by name, inactive ones included.
func (s Service) AllCategories(
	ctx context.Context, sess domain.Session,
) ([]domain.Category, error) {
	const op = "Service.AllCategories"

	if err := s.authorize(sess); err != nil {
		return nil, opErr(op, err)
	}

	cs, err := s.queryCategories(ctx)
	if err != nil {
		return nil, opErr(op, err)
	}
	return cs, nil
}

func (s Service) CreateCategory(
	ctx context.Context,
	sess domain.Session,
	in domain.CategoryInput,
	icon domain.Upload,
) (string, error) {
	const op = "Service.CreateCategory"

	if err := s.authorize(sess); err != nil {
		return "", opErr(op, err)
	}
	if err := s.validateInput(in); err != nil {
		return "", opErr(op, err)
	}

	c := categoryFromInput(in)
	ref, err := s.icons.Icon(ctx, in.Icon, toFile(icon), c.Name)
	if err != nil {
		return "", opErr(op, err)
	}
	c.Icon = ref

	id, err := s.store.AddDocument(ctx, domain.Categories, c.Fields())
	if err != nil {
		return "", opErr(op, err)
	}

	s.published(ctx, domain.Categories, id, domain.Created)
	return id, nil
}

func (s Service) UpdateCategory(
	ctx context.Context,
	sess domain.Session,
	id string,
	in domain.CategoryInput,
	icon domain.Upload,
) error {
	const op = "Service.UpdateCategory"

	if err := s.authorize(sess); err != nil {
		return opErr(op, err)
	}
	if err := s.validateInput(in); err != nil {
		return opErr(op, err)
	}

	c := categoryFromInput(in)
	ref, err := s.icons.Icon(ctx, in.Icon, toFile(icon), c.Name)
	if err != nil {
		return opErr(op, err)
	}
	c.Icon = ref

	if err := s.store.UpdateDocument(ctx, domain.Categories, id, c.Fields()); err != nil {
		return opErr(op, err)
	}

	s.published(ctx, domain.Categories, id, domain.Updated)
	return nil
}

// DeleteCategory removes the category only. Products keep their
// reference to it.
func (s Service) DeleteCategory(
	ctx context.Context, sess domain.Session, id string,
) error {
	const op = "Service.DeleteCategory"

	if err := s.authorize(sess); err != nil {
		return opErr(op, err)
	}

	if err := s.store.DeleteDocument(ctx, domain.Categories, id); err != nil {
		return opErr(op, err)
	}

	s.published(ctx, domain.Categories, id, domain.Deleted)
	return nil
}

func productFromInput(in domain.ProductInput) domain.Product {
	return domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Discount:    in.Discount,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		Code:        strings.TrimSpace(in.Code),
		IsActive:    in.IsActive,
	}
}

func categoryFromInput(in domain.CategoryInput) domain.Category {
	return domain.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Icon:        in.Icon,
		IsActive:    in.IsActive,
	}
}
