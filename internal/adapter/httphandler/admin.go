package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/internal/core/port"
)

// Every admin route requires a session.
//
// GET    v1/admin/products (200 OK)
// POST   v1/admin/products multipart (201 Created, 400 Bad request)
// PUT    v1/admin/products/{id} multipart (204 No content, 404 Not found)
// PATCH  v1/admin/products/{id} JSON {"isActive"} (204 No content)
// DELETE v1/admin/products/{id} (204 No content)
// GET    v1/admin/categories (200 OK)
// POST   v1/admin/categories multipart (201 Created)
// PUT    v1/admin/categories/{id} multipart (204 No content)
// DELETE v1/admin/categories/{id} (204 No content)
// GET    v1/admin/inquiries (200 OK)
// PATCH  v1/admin/inquiries/{id} JSON {"status"} (204 No content)
// DELETE v1/admin/inquiries/{id} (204 No content)
// GET    v1/admin/messages (200 OK)
// PATCH  v1/admin/messages/{id} JSON {"status"} (204 No content)

type AdminHandler struct {
	admin port.Admin
}

func (h AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.ListProducts"
	log := slog.With("op", op)

	ps, err := h.admin.AllProducts(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProducts(ps))
}

func (h AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.CreateProduct"
	log := slog.With("op", op)

	if err := parseMultipart(w, r, maxProductFormSize); err != nil {
		writeError(w, log, err)
		return
	}
	in, err := productInput(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	id, err := h.admin.CreateProduct(
		r.Context(), sessionFrom(r), in, formFiles(r, "images"),
	)
	if err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("product created", "id", id)
	writeJSON(w, http.StatusCreated, Created{ID: id})
}

func (h AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.UpdateProduct"
	log := slog.With("op", op)

	if err := parseMultipart(w, r, maxProductFormSize); err != nil {
		writeError(w, log, err)
		return
	}
	in, err := productInput(r)
	if err != nil {
		writeError(w, log, err)
		return
	}
	edit, err := imageEdit(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.admin.UpdateProduct(r.Context(), sessionFrom(r), id, in, edit); err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("product updated", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h AdminHandler) SetProductActive(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.SetProductActive"
	log := slog.With("op", op)

	var req ActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	if req.IsActive == nil {
		writeError(w, log, domain.ValidationError{
			Fields: map[string]string{"isActive": "required"},
		})
		return
	}

	id := chi.URLParam(r, "id")
	err := h.admin.SetProductActive(r.Context(), sessionFrom(r), id, *req.IsActive)
	if err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.DeleteProduct"
	log := slog.With("op", op)

	id := chi.URLParam(r, "id")
	if err := h.admin.DeleteProduct(r.Context(), sessionFrom(r), id); err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("product deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.ListCategories"
	log := slog.With("op", op)

	cs, err := h.admin.AllCategories(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategories(cs))
}

func (h AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.CreateCategory"
	log := slog.With("op", op)

	if err := parseMultipart(w, r, maxCategoryForm); err != nil {
		writeError(w, log, err)
		return
	}
	in, err := categoryInput(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	id, err := h.admin.CreateCategory(
		r.Context(), sessionFrom(r), in, formFileOne(r, "icon"),
	)
	if err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("category created", "id", id)
	writeJSON(w, http.StatusCreated, Created{ID: id})
}

func (h AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.UpdateCategory"
	log := slog.With("op", op)

	if err := parseMultipart(w, r, maxCategoryForm); err != nil {
		writeError(w, log, err)
		return
	}
	in, err := categoryInput(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	id := chi.URLParam(r, "id")
	err = h.admin.UpdateCategory(
		r.Context(), sessionFrom(r), id, in, formFileOne(r, "icon"),
	)
	if err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("category updated", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.DeleteCategory"
	log := slog.With("op", op)

	id := chi.URLParam(r, "id")
	if err := h.admin.DeleteCategory(r.Context(), sessionFrom(r), id); err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("category deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h AdminHandler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.ListInquiries"
	log := slog.With("op", op)

	vs, err := h.admin.ListInquiries(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toInquiries(vs))
}

func (h AdminHandler) SetInquiryStatus(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.SetInquiryStatus"
	log := slog.With("op", op)

	var req StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	id := chi.URLParam(r, "id")
	status := domain.InquiryStatus(req.Status)
	if err := h.admin.SetInquiryStatus(r.Context(), sessionFrom(r), id, status); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h AdminHandler) DeleteInquiry(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.DeleteInquiry"
	log := slog.With("op", op)

	id := chi.URLParam(r, "id")
	if err := h.admin.DeleteInquiry(r.Context(), sessionFrom(r), id); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h AdminHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.ListMessages"
	log := slog.With("op", op)

	vs, err := h.admin.ListMessages(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactMessages(vs))
}

func (h AdminHandler) SetMessageStatus(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.SetMessageStatus"
	log := slog.With("op", op)

	var req StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	id := chi.URLParam(r, "id")
	status := domain.MessageStatus(req.Status)
	if err := h.admin.SetMessageStatus(r.Context(), sessionFrom(r), id, status); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
