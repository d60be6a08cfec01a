package httphandler

import (
	"log/slog"
	"net/http"
)

// GET v1/settings/hours (200 OK)
// GET v1/settings/contacts (200 OK)
// GET v1/settings/instagram (200 OK)
//
// GET v1/admin/settings/contacts (200 OK, 401 Unauthorized)
// PUT v1/admin/settings/hours JSON (204 No content, 400 Bad request)
// PUT v1/admin/settings/contacts JSON (204 No content, 400 Bad request)
// PUT v1/admin/settings/instagram JSON (204 No content, 400 Bad request)

func (h StorefrontHandler) BusinessHours(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.BusinessHours"
	log := slog.With("op", op)

	hours, err := h.store.BusinessHours(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBusinessHours(hours))
}

func (h StorefrontHandler) ContactSettings(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.ContactSettings"
	log := slog.With("op", op)

	cs, err := h.store.ContactSettings(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactSettings(cs))
}

func (h StorefrontHandler) InstagramConfig(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.InstagramConfig"
	log := slog.With("op", op)

	c, err := h.store.InstagramConfig(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toInstagramConfig(c))
}

func (h AdminHandler) ContactSettings(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.ContactSettings"
	log := slog.With("op", op)

	cs, err := h.admin.AllContactSettings(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactSettings(cs))
}

func (h AdminHandler) SaveBusinessHours(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.SaveBusinessHours"
	log := slog.With("op", op)

	var req BusinessHours
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	if err := h.admin.SaveBusinessHours(r.Context(), sessionFrom(r), req.toDomain()); err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("business hours saved")
	w.WriteHeader(http.StatusNoContent)
}

func (h AdminHandler) SaveContactSettings(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.SaveContactSettings"
	log := slog.With("op", op)

	var req ContactSettings
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	if err := h.admin.SaveContactSettings(r.Context(), sessionFrom(r), req.toDomain()); err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("contact settings saved")
	w.WriteHeader(http.StatusNoContent)
}

func (h AdminHandler) SaveInstagramConfig(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.SaveInstagramConfig"
	log := slog.With("op", op)

	var req InstagramConfig
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	if err := h.admin.SaveInstagramConfig(r.Context(), sessionFrom(r), req.toDomain()); err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("instagram config saved")
	w.WriteHeader(http.StatusNoContent)
}
