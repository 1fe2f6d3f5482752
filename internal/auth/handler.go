package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ElvisBoka/makuta-marketplace/internal/platform/httpx"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		mw:        mw,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Get("/verify", h.handleVerify)
	})
}

type registerRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,e164"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Province  string `json:"province"`
	City      string `json:"city"`
	Role      string `json:"role" validate:"omitempty,oneof=CLIENT VENDOR"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required"`
}

// userView is the API projection of a user record. The password hash never
// leaves the service boundary.
type userView struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Avatar     string    `json:"avatar,omitempty"`
	Role       Role      `json:"role"`
	IsVerified bool      `json:"isVerified"`
	Province   string    `json:"province,omitempty"`
	City       string    `json:"city,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toUserView(u *User) userView {
	return userView{
		ID:         u.ID,
		Email:      u.Email,
		Phone:      u.Phone,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Avatar:     u.Avatar,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		Province:   u.Province,
		City:       u.City,
		CreatedAt:  u.CreatedAt,
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	role, _ := ParseRole(req.Role)
	user, token, err := h.service.Register(r.Context(), RegisterInput{
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Province:  req.Province,
		City:      req.City,
		Role:      role,
	})
	if err != nil {
		h.logger.Warn("register", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.Created(w, "User registered successfully", map[string]any{
		"user":  toUserView(user),
		"token": token,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, ErrInactiveAccount) {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "Account is deactivated")
			return
		}
		httpx.RespondError(w, err)
		return
	}

	httpx.OK(w, map[string]any{
		"user":  toUserView(user),
		"token": token,
	})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	httpx.OK(w, map[string]any{
		"user": map[string]any{
			"id":         principal.ID,
			"email":      principal.Email,
			"phone":      principal.Phone,
			"firstName":  principal.FirstName,
			"lastName":   principal.LastName,
			"role":       principal.Role,
			"isVerified": principal.IsVerified,
		},
	})
}
