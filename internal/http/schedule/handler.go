package schedule

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finny-schedules/internal/recurrence"
	"github.com/MrJamesThe3rd/finny-schedules/internal/schedule"
	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

// Notifier asks the background sweeper for an immediate pass.
type Notifier interface {
	Notify()
}

type Handler struct {
	svc      *schedule.Service
	notifier Notifier
	validate *validator.Validate
}

func NewHandler(svc *schedule.Service, notifier Notifier) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return &Handler{
		svc:      svc,
		notifier: notifier,
		validate: v,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/upcoming", h.listUpcoming)
	r.Get("/completed", h.listCompleted)

	r.Post("/expense", h.create(transaction.TypeExpense))
	r.Post("/incoming", h.create(transaction.TypeIncome))
	r.Post("/transfer", h.create(transaction.TypeTransfer))
	r.Put("/expense", h.update(transaction.TypeExpense))
	r.Put("/incoming", h.update(transaction.TypeIncome))
	r.Put("/transfer", h.update(transaction.TypeTransfer))

	r.Get("/{id}", h.get)
	r.Get("/{id}/occurrences", h.occurrences)
	r.Post("/{id}/evaluate", h.evaluate)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (scheduleRequest, bool) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, false
	}

	if err := h.validate.Struct(req); err != nil {
		writeValidationErrors(w, err)
		return req, false
	}

	return req, true
}

func (h *Handler) create(typ transaction.Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decode(w, r)
		if !ok {
			return
		}

		rule, err := req.rule()
		if err != nil {
			writeError(w, err)
			return
		}

		series, err := h.svc.Create(r.Context(), schedule.CreateParams{
			Rule:     rule,
			Template: req.template(typ),
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSeriesResponse(series))
	}
}

func (h *Handler) update(typ transaction.Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decode(w, r)
		if !ok {
			return
		}

		if req.ID == nil {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}

		rule, err := req.rule()
		if err != nil {
			writeError(w, err)
			return
		}

		series, err := h.svc.Update(r.Context(), *req.ID, schedule.UpdateParams{
			Rule:     rule,
			Template: req.template(typ),
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSeriesResponse(series))
	}
}

func (h *Handler) listUpcoming(w http.ResponseWriter, r *http.Request) {
	if h.notifier != nil {
		h.notifier.Notify()
	}

	upcoming, err := h.svc.ListUpcoming(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := contentResponse[upcomingResponse]{Content: make([]upcomingResponse, len(upcoming))}
	for i, u := range upcoming {
		resp.Content[i] = toUpcomingResponse(u)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listCompleted(w http.ResponseWriter, r *http.Request) {
	filter := schedule.OccurrenceFilter{}

	if s := r.URL.Query().Get("series_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid series_id", http.StatusBadRequest)
			return
		}

		filter.SeriesID = &id
	}

	occs, err := h.svc.ListCompleted(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOccurrenceList(occs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	series, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSeriesResponse(series))
}

func (h *Handler) occurrences(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	occs, err := h.svc.ListCompleted(r.Context(), schedule.OccurrenceFilter{SeriesID: &id})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOccurrenceList(occs))
}

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	created, err := h.svc.Evaluate(r.Context(), id, h.svc.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOccurrenceList(created))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recurrence.ErrInvalidRule):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, schedule.ErrNotFound):
		http.Error(w, "scheduled series not found", http.StatusNotFound)
	case errors.Is(err, schedule.ErrConflict):
		http.Error(w, "scheduled series is busy, retry later", http.StatusConflict)
	default:
		slog.Error("schedule request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type validationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// writeValidationErrors reports each failing request field with the rule it
// broke.
func writeValidationErrors(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := validationErrorResponse{Errors: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		// Drop the request struct name: "scheduleRequest.recurrence.end_date".
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		resp.Errors[field] = fe.Tag()
	}

	writeJSON(w, http.StatusBadRequest, resp)
}
