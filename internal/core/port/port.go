package port

import (
	"context"

	"github.com/niksmo/misslily/internal/core/catalog"
	"github.com/niksmo/misslily/internal/core/domain"
)

type DocumentStore interface {
	AddDocument(context.Context, domain.Collection, map[string]any) (string, error)
	GetDocument(context.Context, domain.Collection, string) (domain.Document, error)
	// SetDocument creates or replaces the document with the given id.
	SetDocument(context.Context, domain.Collection, string, map[string]any) error
	QueryCollection(context.Context, domain.Query) ([]domain.Document, error)
	UpdateDocument(context.Context, domain.Collection, string, map[string]any) error
	DeleteDocument(context.Context, domain.Collection, string) error
}

type ChangePublisher interface {
	PublishChanges(context.Context, ...domain.ChangeEvent) error
}

type ChangeNotifier interface {
	Notify(context.Context, []domain.ChangeEvent)
}

// A Subscriber delivers the full result set of a query now and after every
// change to the queried collection.
type Subscriber interface {
	Subscribe(
		ctx context.Context,
		q domain.Query,
		onChange func([]domain.Document),
	) (unsubscribe func(), err error)
}

type IntakeEmitter interface {
	EmitInquiry(context.Context, domain.Inquiry) error
	EmitContactMessage(context.Context, domain.ContactMessage) error
}

type IntakeSaver interface {
	SaveInquiry(context.Context, domain.Inquiry) error
	SaveContactMessage(context.Context, domain.ContactMessage) error
}

type SessionManager interface {
	SignIn(ctx context.Context, email, password string) (domain.Session, string, error)
	Resolve(ctx context.Context, token string) (domain.Session, error)
	SignOut(context.Context, domain.Session) error
}

type Storefront interface {
	ListProducts(context.Context, catalog.Filters) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListCategories(context.Context) ([]catalog.CategoryCount, error)
	ProductsInCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	SubmitInquiry(context.Context, domain.InquiryInput) (link string, err error)
	SubmitContact(context.Context, domain.ContactInput) error

	BusinessHours(context.Context) (domain.BusinessHours, error)
	ContactSettings(context.Context) (domain.ContactSettings, error)
	InstagramConfig(context.Context) (domain.InstagramConfig, error)
}

type Admin interface {
	AllProducts(context.Context, domain.Session) ([]domain.Product, error)
	CreateProduct(
		ctx context.Context, sess domain.Session,
		in domain.ProductInput, files []domain.Upload,
	) (string, error)
	UpdateProduct(
		ctx context.Context, sess domain.Session, id string,
		in domain.ProductInput, images domain.ImageEdit,
	) error
	SetProductActive(ctx context.Context, sess domain.Session, id string, active bool) error
	DeleteProduct(ctx context.Context, sess domain.Session, id string) error

	AllCategories(context.Context, domain.Session) ([]domain.Category, error)
	CreateCategory(
		ctx context.Context, sess domain.Session,
		in domain.CategoryInput, icon domain.Upload,
	) (string, error)
	UpdateCategory(
		ctx context.Context, sess domain.Session, id string,
		in domain.CategoryInput, icon domain.Upload,
	) error
	DeleteCategory(ctx context.Context, sess domain.Session, id string) error

	ListInquiries(context.Context, domain.Session) ([]domain.Inquiry, error)
	SetInquiryStatus(
		ctx context.Context, sess domain.Session, id string, status domain.InquiryStatus,
	) error
	DeleteInquiry(ctx context.Context, sess domain.Session, id string) error
	ListMessages(context.Context, domain.Session) ([]domain.ContactMessage, error)
	SetMessageStatus(
		ctx context.Context, sess domain.Session, id string, status domain.MessageStatus,
	) error

	Dashboard(context.Context, domain.Session) (catalog.DashboardStats, error)
	WatchDashboard(
		ctx context.Context, sess domain.Session, onChange func(catalog.DashboardStats),
	) (unsubscribe func(), err error)
	CategoryReport(context.Context, domain.Session) ([]catalog.ReportRow, error)

	SaveBusinessHours(context.Context, domain.Session, domain.BusinessHours) error
	AllContactSettings(context.Context, domain.Session) (domain.ContactSettings, error)
	SaveContactSettings(context.Context, domain.Session, domain.ContactSettings) error
	SaveInstagramConfig(context.Context, domain.Session, domain.InstagramConfig) error
}
