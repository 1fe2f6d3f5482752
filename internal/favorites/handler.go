package favorites

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

// MountRoutes registers favorite routes. All of them require a principal.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Get("/", h.list)
		r.Post("/", h.add)
		r.Delete("/{listingID}", h.remove)
	})
}

type addFavoriteRequest struct {
	ListingID int64 `json:"listingId" validate:"required"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	items, err := h.service.List(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("list favorites", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"favorites": items})
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	var req addFavoriteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	fav, err := h.service.Add(r.Context(), principal.ID, req.ListingID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Added to favorites", map[string]any{"favorite": fav})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	listingID, err := strconv.ParseInt(chi.URLParam(r, "listingID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid listing id")
		return
	}
	if err := h.service.Remove(r.Context(), principal.ID, listingID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Message(w, "Removed from favorites")
}
