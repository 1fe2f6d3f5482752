package listings

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/platform/httpx"
)

// Handler exposes the listings REST surface.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        auth.Middleware
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw, validator: validator.New()}
}

// MountRoutes registers listing routes. Browsing is public, mutations
// require a principal.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.browse)
	r.Get("/{id}", h.detail)

	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})
}

type createListingRequest struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Description   string   `json:"description" validate:"required"`
	Price         float64  `json:"price" validate:"gte=0"`
	Currency      string   `json:"currency" validate:"omitempty,oneof=CDF USD"`
	Type          string   `json:"type" validate:"required"`
	CategoryID    int64    `json:"categoryId" validate:"required"`
	Province      string   `json:"province" validate:"required"`
	City          string   `json:"city" validate:"required"`
	Commune       string   `json:"commune"`
	ExactLocation string   `json:"exactLocation"`
	ContactPhone  string   `json:"contactPhone"`
	ContactEmail  string   `json:"contactEmail" validate:"omitempty,email"`
	Images        []string `json:"images"`
}

type updateListingRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	Currency      *string  `json:"currency"`
	Type          *string  `json:"type"`
	Province      *string  `json:"province"`
	City          *string  `json:"city"`
	Commune       *string  `json:"commune"`
	ExactLocation *string  `json:"exactLocation"`
	ContactPhone  *string  `json:"contactPhone"`
	ContactEmail  *string  `json:"contactEmail"`
	Images        []string `json:"images"`
}

func (h *Handler) browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := Filter{
		CategorySlug: q.Get("category"),
		Search:       q.Get("search"),
		Province:     q.Get("province"),
		City:         q.Get("city"),
		Type:         q.Get("type"),
		FeaturedOnly: q.Get("featured") == "true",
	}
	if v := q.Get("minPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	items, pagination, err := h.service.Browse(r.Context(), f, page, limit)
	if err != nil {
		h.logger.Error("browse listings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"listings": items, "pagination": pagination})
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid listing id")
		return
	}
	l, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"listing": l})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	var req createListingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	l, err := h.service.Create(r.Context(), principal, CreateInput{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Currency:      req.Currency,
		Type:          req.Type,
		CategoryID:    req.CategoryID,
		Province:      req.Province,
		City:          req.City,
		Commune:       req.Commune,
		ExactLocation: req.ExactLocation,
		ContactPhone:  req.ContactPhone,
		ContactEmail:  req.ContactEmail,
		Images:        req.Images,
	})
	if err != nil {
		h.logger.Error("create listing", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Listing created successfully", map[string]any{"listing": l})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid listing id")
		return
	}
	var req updateListingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Malformed JSON body")
		return
	}

	l, err := h.service.Update(r.Context(), principal, id, UpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Currency:      req.Currency,
		Type:          req.Type,
		Province:      req.Province,
		City:          req.City,
		Commune:       req.Commune,
		ExactLocation: req.ExactLocation,
		ContactPhone:  req.ContactPhone,
		ContactEmail:  req.ContactEmail,
		Images:        req.Images,
	})
	if err != nil {
		auth.RespondPolicyError(w, err)
		return
	}
	httpx.OKMessage(w, "Listing updated successfully", map[string]any{"listing": l})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid listing id")
		return
	}
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		auth.RespondPolicyError(w, err)
		return
	}
	httpx.Message(w, "Listing deleted successfully")
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
