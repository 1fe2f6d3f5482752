package payments

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/platform/httpx"
	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        auth.Middleware
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw, validator: validator.New()}
}

// MountRoutes registers payment routes. Everything requires a principal.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Post("/initiate", h.initiate)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
}

type initiatePaymentRequest struct {
	ListingID   *int64  `json:"listingId"`
	PaymentType string  `json:"paymentType" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"omitempty,oneof=CDF USD"`
	Provider    string  `json:"provider" validate:"required"`
	PhoneNumber string  `json:"phoneNumber" validate:"required"`
	Description string  `json:"description"`
}

func (h *Handler) initiate(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	var req initiatePaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	p, err := h.service.Initiate(r.Context(), principal.ID, InitiateInput{
		ListingID:   req.ListingID,
		PaymentType: req.PaymentType,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Provider:    req.Provider,
		PhoneNumber: req.PhoneNumber,
		Description: req.Description,
	}, r.Header.Get("Idempotency-Key"))
	if err != nil {
		if errors.Is(err, shared.ErrIdempotencyConflict) {
			httpx.Problem(w, http.StatusConflict, "Conflict", "This payment request was already processed")
			return
		}
		h.logger.Error("initiate payment", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, "Payment initiated", map[string]any{"payment": p})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid payment id")
		return
	}
	p, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		auth.RespondPolicyError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"payment": p})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, pagination, err := h.service.ListForUser(r.Context(), principal.ID, page, limit)
	if err != nil {
		h.logger.Error("list payments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"payments": items, "pagination": pagination})
}
