package httphandler

import (
	"context"

	"github.com/niksmo/misslily/internal/core/catalog"
	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/internal/core/port"
	"github.com/stretchr/testify/mock"
)

var (
	_ port.Storefront     = (*MockStorefront)(nil)
	_ port.Admin          = (*MockAdmin)(nil)
	_ port.SessionManager = (*MockSessions)(nil)
)

type MockStorefront struct {
	mock.Mock
}

func (m *MockStorefront) ListProducts(
	ctx context.Context, f catalog.Filters,
) ([]domain.Product, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockStorefront) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockStorefront) ListCategories(ctx context.Context) ([]catalog.CategoryCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.CategoryCount), args.Error(1)
}

func (m *MockStorefront) ProductsInCategory(
	ctx context.Context, categoryID string,
) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockStorefront) SubmitInquiry(
	ctx context.Context, in domain.InquiryInput,
) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockStorefront) SubmitContact(ctx context.Context, in domain.ContactInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockStorefront) BusinessHours(ctx context.Context) (domain.BusinessHours, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.BusinessHours), args.Error(1)
}

func (m *MockStorefront) ContactSettings(ctx context.Context) (domain.ContactSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ContactSettings), args.Error(1)
}

func (m *MockStorefront) InstagramConfig(ctx context.Context) (domain.InstagramConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.InstagramConfig), args.Error(1)
}

type MockAdmin struct {
	mock.Mock
}

func (m *MockAdmin) AllProducts(
	ctx context.Context, sess domain.Session,
) ([]domain.Product, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockAdmin) CreateProduct(
	ctx context.Context, sess domain.Session,
	in domain.ProductInput, files []domain.Upload,
) (string, error) {
	args := m.Called(ctx, sess, in, files)
	return args.String(0), args.Error(1)
}

func (m *MockAdmin) UpdateProduct(
	ctx context.Context, sess domain.Session, id string,
	in domain.ProductInput, images domain.ImageEdit,
) error {
	return m.Called(ctx, sess, id, in, images).Error(0)
}

func (m *MockAdmin) SetProductActive(
	ctx context.Context, sess domain.Session, id string, active bool,
) error {
	return m.Called(ctx, sess, id, active).Error(0)
}

func (m *MockAdmin) DeleteProduct(ctx context.Context, sess domain.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

func (m *MockAdmin) AllCategories(
	ctx context.Context, sess domain.Session,
) ([]domain.Category, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockAdmin) CreateCategory(
	ctx context.Context, sess domain.Session,
	in domain.CategoryInput, icon domain.Upload,
) (string, error) {
	args := m.Called(ctx, sess, in, icon)
	return args.String(0), args.Error(1)
}

func (m *MockAdmin) UpdateCategory(
	ctx context.Context, sess domain.Session, id string,
	in domain.CategoryInput, icon domain.Upload,
) error {
	return m.Called(ctx, sess, id, in, icon).Error(0)
}

func (m *MockAdmin) DeleteCategory(ctx context.Context, sess domain.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

func (m *MockAdmin) ListInquiries(
	ctx context.Context, sess domain.Session,
) ([]domain.Inquiry, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]domain.Inquiry), args.Error(1)
}

func (m *MockAdmin) SetInquiryStatus(
	ctx context.Context, sess domain.Session, id string, status domain.InquiryStatus,
) error {
	return m.Called(ctx, sess, id, status).Error(0)
}

func (m *MockAdmin) DeleteInquiry(ctx context.Context, sess domain.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

func (m *MockAdmin) ListMessages(
	ctx context.Context, sess domain.Session,
) ([]domain.ContactMessage, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]domain.ContactMessage), args.Error(1)
}

func (m *MockAdmin) SetMessageStatus(
	ctx context.Context, sess domain.Session, id string, status domain.MessageStatus,
) error {
	return m.Called(ctx, sess, id, status).Error(0)
}

func (m *MockAdmin) Dashboard(
	ctx context.Context, sess domain.Session,
) (catalog.DashboardStats, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).(catalog.DashboardStats), args.Error(1)
}

func (m *MockAdmin) WatchDashboard(
	ctx context.Context, sess domain.Session, onChange func(catalog.DashboardStats),
) (func(), error) {
	args := m.Called(ctx, sess, onChange)
	unsubscribe, _ := args.Get(0).(func())
	return unsubscribe, args.Error(1)
}

func (m *MockAdmin) CategoryReport(
	ctx context.Context, sess domain.Session,
) ([]catalog.ReportRow, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]catalog.ReportRow), args.Error(1)
}

func (m *MockAdmin) SaveBusinessHours(
	ctx context.Context, sess domain.Session, h domain.BusinessHours,
) error {
	return m.Called(ctx, sess, h).Error(0)
}

func (m *MockAdmin) AllContactSettings(
	ctx context.Context, sess domain.Session,
) (domain.ContactSettings, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).(domain.ContactSettings), args.Error(1)
}

func (m *MockAdmin) SaveContactSettings(
	ctx context.Context, sess domain.Session, cs domain.ContactSettings,
) error {
	return m.Called(ctx, sess, cs).Error(0)
}

func (m *MockAdmin) SaveInstagramConfig(
	ctx context.Context, sess domain.Session, c domain.InstagramConfig,
) error {
	return m.Called(ctx, sess, c).Error(0)
}

type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) SignIn(
	ctx context.Context, email, password string,
) (domain.Session, string, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Session), args.String(1), args.Error(2)
}

func (m *MockSessions) Resolve(ctx context.Context, token string) (domain.Session, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessions) SignOut(ctx context.Context, sess domain.Session) error {
	return m.Called(ctx, sess).Error(0)
}
