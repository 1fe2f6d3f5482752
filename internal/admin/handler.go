package admin

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/listings"
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

// MountRoutes registers the back-office routes behind the admin gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Use(h.mw.RequireRole(auth.AdminRoles()...))

		r.Get("/stats", h.stats)
		r.Get("/listings", h.listings)
		r.Patch("/listings/{id}/status", h.moderateListing)
		r.Get("/users", h.users)
		r.Patch("/users/{id}/verify", h.verifyUser)
		r.Patch("/users/{id}/role", h.changeRole)
	})
}

type moderateListingRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Reason string `json:"reason"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=CLIENT VENDOR ADMIN SUPER_ADMIN"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("admin dashboard", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, d)
}

func (h *Handler) listings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	items, pagination, err := h.service.Listings(r.Context(), listings.Status(q.Get("status")), page, limit)
	if err != nil {
		h.logger.Error("admin listings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"listings": items, "pagination": pagination})
}

func (h *Handler) moderateListing(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid listing id")
		return
	}
	var req moderateListingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.ModerateListing(r.Context(), principal, id, listings.Status(req.Status), req.Reason); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Message(w, "Listing "+req.Status+" recorded")
}

func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	var role auth.Role
	if raw := q.Get("role"); raw != "" {
		parsed, ok := auth.ParseRole(raw)
		if !ok {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Unknown role filter")
			return
		}
		role = parsed
	}

	items, pagination, err := h.service.Users(r.Context(), role, page, limit)
	if err != nil {
		h.logger.Error("admin users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"users": items, "pagination": pagination})
}

func (h *Handler) verifyUser(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid user id")
		return
	}
	u, err := h.service.VerifyUser(r.Context(), principal, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, "User verified successfully", map[string]any{"user": u})
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid user id")
		return
	}
	var req changeRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	role, ok := auth.ParseRole(req.Role)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Unknown role")
		return
	}
	if err := h.service.ChangeRole(r.Context(), principal, id, role); err != nil {
		auth.RespondPolicyError(w, err)
		return
	}
	httpx.Message(w, "Role updated successfully")
}
