package httphandler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	maxFormMemory      = 32 << 20
	maxProductFormSize = 64 << 20
	maxCategoryForm    = 8 << 20
)

// A formFile adapts an uploaded multipart part to [domain.Upload].
type formFile struct {
	fh *multipart.FileHeader
}

func (f formFile) Name() string        { return f.fh.Filename }
func (f formFile) ContentType() string { return f.fh.Header.Get("Content-Type") }
func (f formFile) Size() int64         { return f.fh.Size }

func (f formFile) Open() (io.ReadCloser, error) {
	return f.fh.Open()
}

func formFiles(r *http.Request, key string) []domain.Upload {
	if r.MultipartForm == nil {
		return nil
	}
	fhs := r.MultipartForm.File[key]
	out := make([]domain.Upload, len(fhs))
	for i, fh := range fhs {
		out[i] = formFile{fh}
	}
	return out
}

func formFileOne(r *http.Request, key string) domain.Upload {
	if r.MultipartForm == nil {
		return nil
	}
	fhs := r.MultipartForm.File[key]
	if len(fhs) == 0 {
		return nil
	}
	return formFile{fhs[0]}
}

func parseMultipart(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return domain.ValidationError{Fields: map[string]string{"form": err.Error()}}
	}
	return nil
}

type formErrors map[string]string

func (fe formErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return domain.ValidationError{Fields: fe}
}

func (fe formErrors) decimalValue(r *http.Request, key string) decimal.Decimal {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		fe[key] = "not a number"
	}
	return d
}

func (fe formErrors) intValue(r *http.Request, key string) int {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		fe[key] = "not an integer"
	}
	return n
}

// boolValue reads a checkbox style value. A missing value is def.
func (fe formErrors) boolValue(r *http.Request, key string, def bool) bool {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return def
	}
	if v == "on" {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		fe[key] = "not a boolean"
	}
	return b
}

// indexList reads comma separated indices, each below n.
func (fe formErrors) indexList(r *http.Request, key string, n int) []int {
	vs := r.MultipartForm.Value[key]
	out := make([]int, 0, len(vs))
	for _, v := range vs {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 {
				fe[key] = "not a list of indices"
				continue
			}
			if i >= n {
				fe[key] = "index out of range"
				continue
			}
			out = append(out, i)
		}
	}
	return out
}

func productInput(r *http.Request) (domain.ProductInput, error) {
	fe := formErrors{}
	in := domain.ProductInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: r.FormValue("description"),
		Price:       fe.decimalValue(r, "price"),
		Discount:    fe.decimalValue(r, "discount"),
		Stock:       fe.intValue(r, "stock"),
		CategoryID:  r.FormValue("categoryId"),
		Code:        strings.TrimSpace(r.FormValue("code")),
		IsActive:    fe.boolValue(r, "isActive", true),
	}
	return in, fe.err()
}

func imageEdit(r *http.Request) (domain.ImageEdit, error) {
	fe := formErrors{}
	existing := r.MultipartForm.Value["existingImages"]
	edit := domain.ImageEdit{
		Existing: existing,
		Deleted:  fe.indexList(r, "deletedIndices", len(existing)),
		Files:    formFiles(r, "images"),
	}
	return edit, fe.err()
}

func categoryInput(r *http.Request) (domain.CategoryInput, error) {
	fe := formErrors{}
	in := domain.CategoryInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: r.FormValue("description"),
		Icon:        r.FormValue("currentIcon"),
		IsActive:    fe.boolValue(r, "isActive", true),
	}
	return in, fe.err()
}
