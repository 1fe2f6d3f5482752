package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ElvisBoka/makuta-marketplace/internal/platform/httpx"
)

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}

// Middleware wires the resolver and policy gates into the HTTP layer.
// It owns the mapping from auth outcomes to transport status codes.
type Middleware struct {
	Resolver *Resolver
	Logger   *slog.Logger
}

// Authenticate resolves the bearer token and stores the Principal in the
// request context. Identity failures map to 401; a credential-store outage
// maps to 503 so clients can retry the whole request.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.Resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingToken):
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "No token provided")
			case errors.Is(err, ErrInvalidToken):
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "Invalid token")
			case errors.Is(err, ErrUnknownPrincipal), errors.Is(err, ErrInactiveAccount):
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "User not found or inactive")
			default:
				if m.Logger != nil {
					m.Logger.Error("resolve principal", slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusServiceUnavailable, "Service Unavailable", "")
			}
			return
		}
		ctx := ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a subtree to the given tiers. Must run after Authenticate.
func (m Middleware) RequireRole(allowed ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if err := RequireRole(principal, allowed...); err != nil {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "Insufficient privileges")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RespondPolicyError maps a policy denial to 403 and everything else
// through the shared error mapping.
func RespondPolicyError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrForbidden) {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "Not authorized to perform this action")
		return
	}
	httpx.RespondError(w, err)
}
