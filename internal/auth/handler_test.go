package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
	_ "github.com/ElvisBoka/makuta-marketplace/testing"
)

type fakeRepo struct {
	users  map[int64]*auth.User
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]*auth.User{}, nextID: 1}
}

func (f *fakeRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepo) FindByIdentifier(ctx context.Context, email, phone string) (*auth.User, error) {
	for _, user := range f.users {
		if (email != "" && user.Email == email) || (phone != "" && user.Phone == phone) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRepo) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied
	return user, nil
}

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(repo *fakeRepo) http.Handler {
	codec := auth.NewCodec("handler-secret", time.Hour)
	service := auth.NewService(repo, codec, auth.ServiceConfig{MinPasswordLen: 6})
	mw := auth.Middleware{Resolver: auth.NewResolver(codec, repo)}
	handler := auth.NewHandler(slogDiscard(), service, mw)

	r := chi.NewRouter()
	r.Route("/api/auth", handler.MountRoutes)
	return r
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	router := newTestRouter(newFakeRepo())

	body := `{"email":"a@example.com","password":"12345","firstName":"Amani","lastName":"Kabila"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()

	router.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for 5-char password, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "password") {
		t.Fatalf("expected password message, got %s", res.Body.String())
	}
}

func TestRegisterThenLogin(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(repo)

	body := `{"email":"a@example.com","password":"secret123","firstName":"Amani","lastName":"Kabila","province":"Kinshasa","city":"Gombe"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), `"token"`) {
		t.Fatalf("register: expected token in response")
	}

	login := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@example.com","password":"secret123"}`))
	login.Header.Set("Content-Type", "application/json")
	loginRes := httptest.NewRecorder()
	router.ServeHTTP(loginRes, login)

	if loginRes.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", loginRes.Code, loginRes.Body.String())
	}
}

func TestRegisterDuplicateIdentifier(t *testing.T) {
	repo := newFakeRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	repo.users[1] = &auth.User{ID: 1, Email: "a@example.com", PasswordHash: string(hash), Role: auth.RoleClient, IsActive: true}
	repo.nextID = 2
	router := newTestRouter(repo)

	body := `{"email":"a@example.com","password":"secret123","firstName":"Amani","lastName":"Kabila"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", res.Code)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	repo := newFakeRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	repo.users[1] = &auth.User{ID: 1, Email: "a@example.com", PasswordHash: string(hash), Role: auth.RoleClient, IsActive: false}
	repo.nextID = 2
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deactivated account, got %d", res.Code)
	}
}

func TestVerifyRequiresToken(t *testing.T) {
	router := newTestRouter(newFakeRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}
}

func TestVerifyWithFreshToken(t *testing.T) {
	repo := newFakeRepo()
	codec := auth.NewCodec("handler-secret", time.Hour)
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	repo.users[1] = &auth.User{ID: 1, Email: "a@example.com", FirstName: "Amani", LastName: "Kabila", PasswordHash: string(hash), Role: auth.RoleClient, IsActive: true}
	repo.nextID = 2
	router := newTestRouter(repo)

	token, err := codec.Issue(1, auth.RoleClient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), "a@example.com") {
		t.Fatalf("expected user payload, got %s", res.Body.String())
	}
}
