package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/platform/httpx"
)

// Handler manages profile endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        auth.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw, validator: validator.New()}
}

// MountRoutes registers profile routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Get("/profile", h.getProfile)
		r.Put("/profile", h.updateProfile)
	})
}

type updateProfileRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Province  string `json:"province"`
	City      string `json:"city"`
	Commune   string `json:"commune"`
	Address   string `json:"address"`
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	profile, err := h.service.GetProfile(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("get profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"user": profile})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), principal.ID, ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Province:  req.Province,
		City:      req.City,
		Commune:   req.Commune,
		Address:   req.Address,
	})
	if err != nil {
		h.logger.Error("update profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"user": profile})
}
