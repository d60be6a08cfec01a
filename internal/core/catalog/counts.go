package catalog

import (
	"cmp"
	"slices"
	"time"

	"github.com/niksmo/misslily/internal/core/domain"
)

type CategoryCount struct {
	Category domain.Category
	Count    int
}

// CategoryCounts counts active products per active category.
//
// The result follows the order of categories.
func CategoryCounts(
	categories []domain.Category, products []domain.Product,
) []CategoryCount {
	byID := activeByCategory(products)

	out := make([]CategoryCount, 0, len(categories))
	for _, c := range categories {
		if !c.IsActive {
			continue
		}
		out = append(out, CategoryCount{Category: c, Count: byID[c.ID]})
	}
	return out
}

type ReportRow struct {
	Name  string
	Count int
}

// ProductsByCategory reports the number of products of every category,
// inactive categories and products included.
func ProductsByCategory(
	categories []domain.Category, products []domain.Product,
) []ReportRow {
	byID := make(map[string]int)
	for _, p := range products {
		byID[p.CategoryID]++
	}

	rows := make([]ReportRow, len(categories))
	for i, c := range categories {
		rows[i] = ReportRow{Name: c.Name, Count: byID[c.ID]}
	}
	return rows
}

func activeByCategory(products []domain.Product) map[string]int {
	byID := make(map[string]int)
	for _, p := range products {
		if p.IsActive {
			byID[p.CategoryID]++
		}
	}
	return byID
}

const recentLimit = 5

type DashboardStats struct {
	TotalProducts    int
	TotalCategories  int
	PendingInquiries int
	UnreadMessages   int
	RecentProducts   []domain.Product
	RecentInquiries  []domain.Inquiry
	RecentMessages   []domain.ContactMessage
	TopCategories    []ReportRow
}

// Dashboard reduces the four admin collections into the dashboard view.
func Dashboard(
	products []domain.Product,
	categories []domain.Category,
	inquiries []domain.Inquiry,
	messages []domain.ContactMessage,
) DashboardStats {
	s := DashboardStats{
		TotalProducts:   len(products),
		TotalCategories: len(categories),
	}

	for _, v := range inquiries {
		if v.Status == domain.InquiryPending {
			s.PendingInquiries++
		}
	}
	for _, v := range messages {
		if v.Status == domain.MessageUnread {
			s.UnreadMessages++
		}
	}

	s.RecentProducts = newest(products, func(v domain.Product) time.Time {
		return v.CreatedAt
	})
	s.RecentInquiries = newest(inquiries, func(v domain.Inquiry) time.Time {
		return v.CreatedAt
	})
	s.RecentMessages = newest(messages, func(v domain.ContactMessage) time.Time {
		return v.CreatedAt
	})

	top := ProductsByCategory(categories, products)
	slices.SortStableFunc(top, func(a, b ReportRow) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	s.TopCategories = top[:min(len(top), recentLimit)]

	return s
}

func newest[T any](vs []T, createdAt func(T) time.Time) []T {
	out := slices.Clone(vs)
	slices.SortStableFunc(out, func(a, b T) int {
		return createdAt(b).Compare(createdAt(a))
	})
	if out == nil {
		return []T{}
	}
	return out[:min(len(out), recentLimit)]
}
