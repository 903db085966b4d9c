package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

type Handler struct {
	svc      *transaction.Service
	validate *validator.Validate
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Type              transaction.Type `json:"type" validate:"required,oneof=expense income transfer"`
	Amount            int64            `json:"amount" validate:"required,gt=0"`
	Description       string           `json:"description" validate:"max=255"`
	Date              string           `json:"date" validate:"required,datetime=2006-01-02"`
	CategoryID        *uuid.UUID       `json:"category_id,omitempty"`
	AccountID         *uuid.UUID       `json:"account_id,omitempty"`
	FromAccountID     *uuid.UUID       `json:"from_account_id,omitempty"`
	ToAccountID       *uuid.UUID       `json:"to_account_id,omitempty"`
	PaymentModeID     *uuid.UUID       `json:"payment_mode_id,omitempty"`
	FromPaymentModeID *uuid.UUID       `json:"from_payment_mode_id,omitempty"`
	ToPaymentModeID   *uuid.UUID       `json:"to_payment_mode_id,omitempty"`
	Tags              []string         `json:"tags,omitempty" validate:"max=20,dive,max=50"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		Details: transaction.Details{
			Type:              req.Type,
			Amount:            req.Amount,
			Description:       req.Description,
			CategoryID:        req.CategoryID,
			AccountID:         req.AccountID,
			FromAccountID:     req.FromAccountID,
			ToAccountID:       req.ToAccountID,
			PaymentModeID:     req.PaymentModeID,
			FromPaymentModeID: req.FromPaymentModeID,
			ToPaymentModeID:   req.ToPaymentModeID,
			Tags:              req.Tags,
		},
		Date: date,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("series_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid series_id", http.StatusBadRequest)
			return
		}

		filter.SeriesID = &id
	}

	if s := q.Get("type"); s != "" {
		typ := transaction.Type(s)
		if !typ.Valid() {
			http.Error(w, "invalid type", http.StatusBadRequest)
			return
		}

		filter.Type = &typ
	}

	if s := q.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := q.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
