package reviews

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/platform/httpx"
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

// MountRoutes registers review routes. Reading is public, writing needs a
// principal.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/listing/{listingID}", h.listForListing)

	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Post("/", h.create)
	})
}

type createReviewRequest struct {
	ListingID      int64  `json:"listingId" validate:"required"`
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	Comment        string `json:"comment"`
	ServiceQuality int    `json:"serviceQuality" validate:"required,min=1,max=5"`
	Communication  int    `json:"communication" validate:"required,min=1,max=5"`
	Timeliness     int    `json:"timeliness" validate:"required,min=1,max=5"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	var req createReviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	rv, err := h.service.Create(r.Context(), principal.ID, CreateInput{
		ListingID:      req.ListingID,
		Rating:         req.Rating,
		Comment:        req.Comment,
		ServiceQuality: req.ServiceQuality,
		Communication:  req.Communication,
		Timeliness:     req.Timeliness,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Review submitted successfully", map[string]any{"review": rv})
}

func (h *Handler) listForListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := strconv.ParseInt(chi.URLParam(r, "listingID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid listing id")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, averages, pagination, err := h.service.ListForListing(r.Context(), listingID, page, limit)
	if err != nil {
		h.logger.Error("list reviews", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{
		"reviews":        items,
		"averageRatings": averages,
		"pagination":     pagination,
	})
}
