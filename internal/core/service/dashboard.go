package service

import (
	"context"
	"errors"

	"github.com/niksmo/misslily/internal/core/catalog"
	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/internal/core/live"
	"github.com/niksmo/misslily/pkg/fanin"
)

var ErrNoSubscriber = errors.New("live subscriptions are not configured")

// Dashboard returns a one-off snapshot of the admin dashboard.
func (s Service) Dashboard(
	ctx context.Context, sess domain.Session,
) (catalog.DashboardStats, error) {
	const op = "Service.Dashboard"

	if err := s.authorize(sess); err != nil {
		return catalog.DashboardStats{}, opErr(op, err)
	}

	ps, err := s.queryProducts(ctx)
	if err != nil {
		return catalog.DashboardStats{}, opErr(op, err)
	}
	cs, err := s.queryCategories(ctx)
	if err != nil {
		return catalog.DashboardStats{}, opErr(op, err)
	}
	is, err := s.store.QueryCollection(ctx, inquiriesNewestFirst)
	if err != nil {
		return catalog.DashboardStats{}, opErr(op, err)
	}
	ms, err := s.store.QueryCollection(ctx, messagesNewestFirst)
	if err != nil {
		return catalog.DashboardStats{}, opErr(op, err)
	}

	return catalog.Dashboard(
		ps, cs, domain.DecodeInquiries(is), domain.DecodeContactMessages(ms),
	), nil
}

// WatchDashboard calls onChange with the dashboard once all four
// collections have been delivered and again after every later change.
//
// The returned function stops the updates. It must not be called from
// onChange.
func (s Service) WatchDashboard(
	ctx context.Context,
	sess domain.Session,
	onChange func(catalog.DashboardStats),
) (func(), error) {
	const op = "Service.WatchDashboard"

	if err := s.authorize(sess); err != nil {
		return nil, opErr(op, err)
	}
	if s.subs == nil {
		return nil, opErr(op, ErrNoSubscriber)
	}

	unsubscribe, err := fanin.Join4(ctx,
		live.Source(s.subs, productsNewestFirst, domain.DecodeProducts),
		live.Source(s.subs, categoriesByName, domain.DecodeCategories),
		live.Source(s.subs, inquiriesNewestFirst, domain.DecodeInquiries),
		live.Source(s.subs, messagesNewestFirst, domain.DecodeContactMessages),
		func(
			ps []domain.Product,
			cs []domain.Category,
			is []domain.Inquiry,
			ms []domain.ContactMessage,
		) {
			onChange(catalog.Dashboard(ps, cs, is, ms))
		},
	)
	if err != nil {
		return nil, opErr(op, err)
	}
	return unsubscribe, nil
}

// CategoryReport returns the number of products in every category.
func (s Service) CategoryReport(
	ctx context.Context, sess domain.Session,
) ([]catalog.ReportRow, error) {
	const op = "Service.CategoryReport"

	if err := s.authorize(sess); err != nil {
		return nil, opErr(op, err)
	}

	cs, err := s.queryCategories(ctx)
	if err != nil {
		return nil, opErr(op, err)
	}
	ps, err := s.queryProducts(ctx)
	if err != nil {
		return nil, opErr(op, err)
	}
	return catalog.ProductsByCategory(cs, ps), nil
}
