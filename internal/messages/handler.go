package messages

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

// MountRoutes registers messaging routes. Everything requires a principal.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Post("/", h.send)
		r.Get("/conversations", h.conversations)
		r.Get("/conversation/{userID}", h.conversation)
	})
}

type sendMessageRequest struct {
	ReceiverID int64  `json:"receiverId" validate:"required"`
	ListingID  *int64 `json:"listingId"`
	Content    string `json:"content" validate:"required,max=2000"`
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	var req sendMessageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	m, err := h.service.Send(r.Context(), principal.ID, req.ReceiverID, req.ListingID, req.Content)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Message sent successfully", map[string]any{"message": m})
}

func (h *Handler) conversation(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	otherID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid user id")
		return
	}
	items, err := h.service.Conversation(r.Context(), principal.ID, otherID)
	if err != nil {
		h.logger.Error("load conversation", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"messages": items})
}

func (h *Handler) conversations(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	items, err := h.service.Conversations(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("list conversations", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"conversations": items})
}
