package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// Store is the credential lookup the resolver depends on.
type Store interface {
	FindByID(ctx context.Context, id int64) (*User, error)
}

// Resolver turns an Authorization header into a Principal. It is the single
// token-verification path for every protected route.
type Resolver struct {
	codec *Codec
	store Store
}

// NewResolver constructs a Resolver.
func NewResolver(codec *Codec, store Store) *Resolver {
	return &Resolver{codec: codec, store: store}
}

// Resolve authenticates one request. The Principal is built from the live
// user record, never from the token's embedded role: deactivating an
// account or changing a role takes effect on the very next request even
// while outstanding tokens remain cryptographically valid.
//
// Exactly one store lookup happens per call; a store failure is returned
// verbatim for the caller to surface, never retried here.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (*Principal, error) {
	token := bearerToken(authorization)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := r.codec.Verify(token)
	if err != nil {
		return nil, err
	}
	subjectID, err := claims.SubjectID()
	if err != nil {
		return nil, err
	}

	user, err := r.store.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrUnknownPrincipal
		}
		return nil, fmt.Errorf("auth: lookup principal: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	return &Principal{
		ID:         user.ID,
		Email:      user.Email,
		Phone:      user.Phone,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role,
		IsActive:   user.IsActive,
		IsVerified: user.IsVerified,
	}, nil
}

func bearerToken(authorization string) string {
	authorization = strings.TrimSpace(authorization)
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
