package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/niksmo/misslily/internal/core/catalog"
	"github.com/niksmo/misslily/internal/core/port"
)

// GET  v1/products?category=&search=&discount=&sort= (200 OK)
// GET  v1/products/{id} (200 OK, 404 Not found)
// GET  v1/categories (200 OK)
// GET  v1/categories/{id}/products (200 OK)
// POST v1/inquiries JSON (202 Accepted, 400 Bad request)
// POST v1/contact JSON (202 Accepted, 400 Bad request)

type StorefrontHandler struct {
	store port.Storefront
}

func (h StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.ListProducts"
	log := slog.With("op", op)

	ps, err := h.store.ListProducts(r.Context(), catalog.ParseFilters(r.URL.Query()))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProducts(ps))
}

func (h StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetProduct"
	log := slog.With("op", op)

	p, err := h.store.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProduct(p))
}

func (h StorefrontHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.ListCategories"
	log := slog.With("op", op)

	cs, err := h.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryCounts(cs))
}

func (h StorefrontHandler) ProductsInCategory(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.ProductsInCategory"
	log := slog.With("op", op)

	ps, err := h.store.ProductsInCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProducts(ps))
}

func (h StorefrontHandler) PostInquiry(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.PostInquiry"
	log := slog.With("op", op)

	var req InquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	link, err := h.store.SubmitInquiry(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("accepted", "product", req.ProductID)
	writeJSON(w, http.StatusAccepted, InquiryAccepted{WhatsApp: link})
}

func (h StorefrontHandler) PostContact(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.PostContact"
	log := slog.With("op", op)

	var req ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	if err := h.store.SubmitContact(r.Context(), req.toDomain()); err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("accepted")
	w.WriteHeader(http.StatusAccepted)
}
