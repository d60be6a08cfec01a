package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/misslily/internal/core/catalog"
	"github.com/niksmo/misslily/internal/core/port"
)

// GET v1/admin/dashboard (200 OK)
// GET v1/admin/dashboard/stream text/event-stream
// GET v1/admin/reports/categories (200 OK)

const heartbeatInterval = 25 * time.Second

var errNoFlusher = errors.New("response writer does not support flushing")

type DashboardHandler struct {
	admin     port.Admin
	heartbeat time.Duration
}

func (h DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	const op = "DashboardHandler.Dashboard"
	log := slog.With("op", op)

	stats, err := h.admin.Dashboard(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboard(stats))
}

func (h DashboardHandler) CategoryReport(w http.ResponseWriter, r *http.Request) {
	const op = "DashboardHandler.CategoryReport"
	log := slog.With("op", op)

	rows, err := h.admin.CategoryReport(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportRows(rows))
}

// Stream pushes a dashboard event whenever any of its sources change. Only
// the latest snapshot is kept for a slow client.
func (h DashboardHandler) Stream(w http.ResponseWriter, r *http.Request) {
	const op = "DashboardHandler.Stream"
	log := slog.With("op", op)

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, log, errNoFlusher)
		return
	}

	ctx := r.Context()
	latest := make(chan catalog.DashboardStats, 1)
	onChange := func(s catalog.DashboardStats) {
		for {
			select {
			case latest <- s:
				return
			default:
			}
			select {
			case <-latest:
			default:
			}
		}
	}

	unsubscribe, err := h.admin.WatchDashboard(ctx, sessionFrom(r), onChange)
	if err != nil {
		writeError(w, log, err)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	interval := h.heartbeat
	if interval <= 0 {
		interval = heartbeatInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("dashboard stream opened")
	for {
		select {
		case <-ctx.Done():
			log.Info("dashboard stream closed")
			return
		case s := <-latest:
			if err := writeEvent(w, "dashboard", toDashboard(s)); err != nil {
				log.Warn("failed to write event", "err", err)
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		flusher.Flush()
	}
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
