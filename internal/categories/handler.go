package categories

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ElvisBoka/makuta-marketplace/internal/platform/httpx"
)

// Handler serves the public category tree.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers category routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listTree)
}

func (h *Handler) listTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.Tree(r.Context())
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, tree)
}
