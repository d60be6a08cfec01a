package domain

import "time"

type Category struct {
	ID          string
	Name        string
	Description string
	Icon        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Category) Fields() map[string]any {
	return map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"icon":        c.Icon,
		"isActive":    c.IsActive,
	}
}

func DecodeCategory(d Document) Category {
	return Category{
		ID:          d.ID,
		Name:        stringField(d.Data, "name"),
		Description: stringField(d.Data, "description"),
		Icon:        stringField(d.Data, "icon"),
		IsActive:    boolField(d.Data, "isActive", true),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func DecodeCategories(ds []Document) []Category {
	cs := make([]Category, len(ds))
	for i := range ds {
		cs[i] = DecodeCategory(ds[i])
	}
	return cs
}
