package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ElvisBoka/makuta-marketplace/internal/admin"
	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/categories"
	"github.com/ElvisBoka/makuta-marketplace/internal/favorites"
	"github.com/ElvisBoka/makuta-marketplace/internal/listings"
	"github.com/ElvisBoka/makuta-marketplace/internal/messages"
	"github.com/ElvisBoka/makuta-marketplace/internal/observability"
	"github.com/ElvisBoka/makuta-marketplace/internal/payments"
	"github.com/ElvisBoka/makuta-marketplace/internal/reviews"
	"github.com/ElvisBoka/makuta-marketplace/internal/users"
	"github.com/ElvisBoka/makuta-marketplace/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthHandler       *auth.Handler
	UsersHandler      *users.Handler
	CategoriesHandler *categories.Handler
	ListingsHandler   *listings.Handler
	FavoritesHandler  *favorites.Handler
	ReviewsHandler    *reviews.Handler
	MessagesHandler   *messages.Handler
	PaymentsHandler   *payments.Handler
	AdminHandler      *admin.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router for the JSON API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.CategoriesHandler != nil {
			r.Route("/categories", params.CategoriesHandler.MountRoutes)
		}
		if params.ListingsHandler != nil {
			r.Route("/listings", params.ListingsHandler.MountRoutes)
		}
		if params.FavoritesHandler != nil {
			r.Route("/favorites", params.FavoritesHandler.MountRoutes)
		}
		if params.ReviewsHandler != nil {
			r.Route("/reviews", params.ReviewsHandler.MountRoutes)
		}
		if params.MessagesHandler != nil {
			r.Route("/messages", params.MessagesHandler.MountRoutes)
		}
		if params.PaymentsHandler != nil {
			r.Route("/payments", params.PaymentsHandler.MountRoutes)
		}
		if params.AdminHandler != nil {
			r.Route("/admin", params.AdminHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
