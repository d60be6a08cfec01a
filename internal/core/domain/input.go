package domain

import (
	"io"

	"github.com/shopspring/decimal"
)

// An Upload is a file picked in an admin form.
type Upload interface {
	Name() string
	ContentType() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// An ImageEdit describes the images of a submitted form.
//
// Deleted holds indices into Existing.
type ImageEdit struct {
	Existing []string
	Deleted  []int
	Files    []Upload
}

type ProductInput struct {
	Name        string          `validate:"required"`
	Description string          `validate:"required"`
	Price       decimal.Decimal `validate:"gt=0"`
	Discount    decimal.Decimal `validate:"gte=0,lte=100"`
	Stock       int             `validate:"gte=0"`
	CategoryID  string          `validate:"required"`
	Code        string          `validate:"max=64"`
	IsActive    bool
}

type CategoryInput struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	Icon        string
	IsActive    bool
}

type InquiryInput struct {
	ProductID   string `validate:"required"`
	ProductName string `validate:"required"`
	FullName    string `validate:"required,min=3"`
	Email       string `validate:"required,email"`
	Phone       string `validate:"required,len=10,numeric"`
	City        string `validate:"required"`
	Size        string `validate:"required"`
	Color       string `validate:"required"`
	Message     string `validate:"required,min=5"`
}

type ContactInput struct {
	FullName string `validate:"required,min=3"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required,len=10,numeric"`
	Subject  string `validate:"required"`
	Message  string `validate:"required,min=10"`
}
