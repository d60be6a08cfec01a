package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/internal/core/ingest"
	"github.com/niksmo/misslily/internal/core/port"
	"github.com/shopspring/decimal"
)

var (
	_ port.IntakeSaver = (*Service)(nil)
	_ port.Storefront  = (*Service)(nil)
	_ port.Admin       = (*Service)(nil)
)

const DefaultWhatsAppNumber = "918320953686"

var (
	productsNewestFirst = domain.Query{
		Collection: domain.Products,
		OrderBy:    domain.OrderBy{Field: "createdAt", Desc: true},
	}
	categoriesByName = domain.Query{
		Collection: domain.Categories,
		OrderBy:    domain.OrderBy{Field: "name"},
	}
	inquiriesNewestFirst = domain.Query{
		Collection: domain.Inquiries,
		OrderBy:    domain.OrderBy{Field: "createdAt", Desc: true},
	}
	messagesNewestFirst = domain.Query{
		Collection: domain.ContactMessages,
		OrderBy:    domain.OrderBy{Field: "createdAt", Desc: true},
	}
)

// Deps are the collaborators of [Service]. Store, Changes and Intake are
// required.
type Deps struct {
	Store          port.DocumentStore
	Changes        port.ChangePublisher
	Intake         port.IntakeEmitter
	Subscriber     port.Subscriber
	ProductPhotos  ingest.Profile
	CategoryIcons  ingest.Profile
	WhatsAppNumber string
}

type Service struct {
	store    port.DocumentStore
	changes  port.ChangePublisher
	intake   port.IntakeEmitter
	subs     port.Subscriber
	photos   ingest.Pipeline
	icons    ingest.Pipeline
	whatsapp string
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

func New(d Deps) Service {
	if d.ProductPhotos == (ingest.Profile{}) {
		d.ProductPhotos = ingest.ProductPhotos
	}
	if d.CategoryIcons == (ingest.Profile{}) {
		d.CategoryIcons = ingest.CategoryIcons
	}

	if d.WhatsAppNumber == "" {
		d.WhatsAppNumber = DefaultWhatsAppNumber
	}

	return Service{
		store:    d.Store,
		changes:  d.Changes,
		intake:   d.Intake,
		subs:     d.Subscriber,
		photos:   ingest.NewPipeline(d.ProductPhotos),
		icons:    ingest.NewPipeline(d.CategoryIcons),
		whatsapp: d.WhatsAppNumber,
		validate: newValidator(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		return d.InexactFloat64()
	}, decimal.Decimal{})
	return v
}

func (s Service) validateInput(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ve := domain.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		ve.Fields[fieldPath(fe)] = reason
	}
	return ve
}

// fieldPath names a field relative to the validated struct, with list
// indices for nested entries.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func (s Service) authorize(sess domain.Session) error {
	if !sess.Valid(s.now()) {
		return domain.ErrUnauthorized
	}
	return nil
}

// published reports a completed write to live subscribers.
//
// A failed publish does not undo the write, so it is logged only.
func (s Service) published(
	ctx context.Context, c domain.Collection, id string, a domain.ChangeAction,
) {
	const op = "Service.published"

	e := domain.ChangeEvent{
		Collection: c,
		DocumentID: id,
		Action:     a,
		OccurredAt: s.now(),
	}
	if err := s.changes.PublishChanges(ctx, e); err != nil {
		slog.Error("failed to publish change",
			"op", op, "collection", c, "id", id, "err", err)
	}
}

func (s Service) queryProducts(ctx context.Context) ([]domain.Product, error) {
	ds, err := s.store.QueryCollection(ctx, productsNewestFirst)
	if err != nil {
		return nil, err
	}
	return domain.DecodeProducts(ds), nil
}

func (s Service) queryCategories(ctx context.Context) ([]domain.Category, error) {
	ds, err := s.store.QueryCollection(ctx, categoriesByName)
	if err != nil {
		return nil, err
	}
	return domain.DecodeCategories(ds), nil
}

func toFiles(us []domain.Upload) []ingest.File {
	fs := make([]ingest.File, len(us))
	for i, u := range us {
		fs[i] = u
	}
	return fs
}

func toFile(u domain.Upload) ingest.File {
	if u == nil {
		return nil
	}
	return u
}

func opErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
