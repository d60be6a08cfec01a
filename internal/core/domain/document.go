package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

type Collection string

const (
	Products        Collection = "products"
	Categories      Collection = "categories"
	Inquiries       Collection = "userInquiries"
	ContactMessages Collection = "contactMessages"

	ContactSettingsLog Collection = "settings"
	HoursSettings      Collection = "businessHours"
	InstagramSettings  Collection = "instagramConfig"
)

func (c Collection) Valid() bool {
	switch c {
	case Products, Categories, Inquiries, ContactMessages,
		ContactSettingsLog, HoursSettings, InstagramSettings:
		return true
	}
	return false
}

// A Document is a loosely shaped record as the document store holds it.
//
// ID, CreatedAt and UpdatedAt are assigned by the store.
type Document struct {
	ID        string
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderBy struct {
	Field string
	Desc  bool
}

// A Query selects documents of one collection by top-level field equality
// and orders them by a single field.
type Query struct {
	Collection Collection
	Equals     map[string]any
	OrderBy    OrderBy
}

type ChangeAction string

const (
	Created ChangeAction = "created"
	Updated ChangeAction = "updated"
	Deleted ChangeAction = "deleted"
)

type ChangeEvent struct {
	Collection Collection
	DocumentID string
	Action     ChangeAction
	OccurredAt time.Time
}

// A ValidationError lists rejected input fields with a short reason each.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func (e ValidationError) Unwrap() error {
	return ErrValidation
}
