package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finny-schedules/internal/export"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/calendar.ics", h.calendar)
	r.Get("/summary", h.summary)
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	// Buffered so a failure can still be reported with a proper status.
	var buf bytes.Buffer
	if err := h.svc.Calendar(r.Context(), &buf); err != nil {
		slog.Error("failed to export calendar", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"schedules_%s.ics\"", time.Now().Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write calendar", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.GenerateSummary(r.Context())
	if err != nil {
		slog.Error("failed to generate summary", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
}
