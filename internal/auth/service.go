package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

const bcryptCost = 12

// Repository defines persistence operations for the auth module.
type Repository interface {
	Store
	FindByIdentifier(ctx context.Context, email, phone string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
}

// ServiceConfig carries the registration policy knobs.
type ServiceConfig struct {
	MinPasswordLen int
}

// Service wraps registration and login business rules. Password length and
// identifier checks live here, in the calling flow, not in the token or
// policy layers.
type Service struct {
	repo  Repository
	codec *Codec
	cfg   ServiceConfig
}

// NewService constructs a new Service.
func NewService(repo Repository, codec *Codec, cfg ServiceConfig) *Service {
	if cfg.MinPasswordLen <= 0 {
		cfg.MinPasswordLen = 6
	}
	return &Service{repo: repo, codec: codec, cfg: cfg}
}

// RegisterInput is the normalized registration payload.
type RegisterInput struct {
	Email     string
	Phone     string
	Password  string
	FirstName string
	LastName  string
	Province  string
	City      string
	Role      Role
}

// Register creates an account and issues its first token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	if in.Email == "" && in.Phone == "" {
		return nil, "", fmt.Errorf("%w: email or phone number is required", shared.ErrValidation)
	}
	if len(in.Password) < s.cfg.MinPasswordLen {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters long", shared.ErrValidation, s.cfg.MinPasswordLen)
	}
	if in.FirstName == "" || in.LastName == "" {
		return nil, "", fmt.Errorf("%w: first name and last name are required", shared.ErrValidation)
	}

	// Self-service registration never grants elevated tiers.
	role := in.Role
	if role != RoleVendor {
		role = RoleClient
	}

	existing, err := s.repo.FindByIdentifier(ctx, in.Email, in.Phone)
	if err != nil && !isNotFound(err) {
		return nil, "", fmt.Errorf("auth: check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", fmt.Errorf("%w: user with this email or phone already exists", shared.ErrDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		IsActive:     true,
		Province:     in.Province,
		City:         in.City,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login validates credentials by email or phone and issues a token.
func (s *Service) Login(ctx context.Context, email, phone, password string) (*User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	phone = strings.TrimSpace(phone)

	user, err := s.repo.FindByIdentifier(ctx, email, phone)
	if err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrInactiveAccount
	}

	token, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
