package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/trend-blog/internal/api/http"
	"github.com/spec-kit/trend-blog/internal/api/http/handlers"
	"github.com/spec-kit/trend-blog/internal/auth"
	"github.com/spec-kit/trend-blog/internal/config"
	"github.com/spec-kit/trend-blog/internal/domain"
	"github.com/spec-kit/trend-blog/internal/events"
	"github.com/spec-kit/trend-blog/internal/observability"
	"github.com/spec-kit/trend-blog/internal/repository"
	"github.com/spec-kit/trend-blog/internal/service"
)

type memUserRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	idLookups int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idLookups++
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (m *memUserRepo) idLookupCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idLookups
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, *user)
	}
	return out, nil
}

func (m *memUserRepo) UpdateApproval(_ context.Context, id, approvedYN string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user.ApprovedYN = approvedYN
	user.UpdatedAt = time.Now()
	clone := *user
	return &clone, nil
}

func (m *memUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	return nil
}

func (m *memUserRepo) UpdateProfile(_ context.Context, id, name string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user.Name = name
	user.UpdatedAt = time.Now()
	clone := *user
	return &clone, nil
}

func (m *memUserRepo) AdminUpdate(_ context.Context, id, name, email, approvedYN string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	for otherID, other := range m.users {
		if otherID != id && other.Email == email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	user.Name = name
	user.Email = email
	user.ApprovedYN = approvedYN
	user.UpdatedAt = time.Now()
	clone := *user
	return &clone, nil
}

func (m *memUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

type memPostRepo struct {
	mu    sync.Mutex
	posts map[string]*domain.BlogPost
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: make(map[string]*domain.BlogPost)}
}

func (m *memPostRepo) Create(_ context.Context, post *domain.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post.ID = uuid.NewString()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	clone := *post
	clone.Tags = append([]string(nil), post.Tags...)
	m.posts[post.ID] = &clone
	return nil
}

func (m *memPostRepo) Update(_ context.Context, post *domain.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.posts[post.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Title = post.Title
	stored.Content = post.Content
	stored.Excerpt = post.Excerpt
	stored.Author = post.Author
	stored.Tags = append([]string(nil), post.Tags...)
	stored.UpdatedAt = time.Now()
	return nil
}

func (m *memPostRepo) GetByID(_ context.Context, id string) (*domain.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *post
	clone.Tags = append([]string(nil), post.Tags...)
	return &clone, nil
}

func (m *memPostRepo) List(_ context.Context, _ repository.PostFilter) ([]domain.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.BlogPost, 0, len(m.posts))
	for _, post := range m.posts {
		out = append(out, *post)
	}
	return out, nil
}

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemDenylist() *memDenylist {
	return &memDenylist{revoked: make(map[string]bool)}
}

func (m *memDenylist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = true
	return nil
}

func (m *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[jti], nil
}

type testEnv struct {
	app   *fiber.App
	users *memUserRepo
	posts *memPostRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret",
			AccessTokenTTLMin: 1440,
			BcryptCost:        bcrypt.MinCost,
			FreshnessWindowMS: 300000,
		},
	}

	logger, err := observability.NewLogger(config.LoggerConfig{Level: "error"})
	require.NoError(t, err)

	userRepo := newMemUserRepo()
	postRepo := newMemPostRepo()
	denylist := newMemDenylist()

	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	freshness := auth.NewFreshnessGuard(cfg.Auth.FreshnessWindow())
	dispatcher := events.NewInMemoryDispatcher()

	userService := service.NewUserService(cfg, service.UserDependencies{
		UserRepo:   userRepo,
		TokenMgr:   tokenMgr,
		Denylist:   denylist,
		Dispatcher: dispatcher,
	})
	postService := service.NewPostService(postRepo, dispatcher)
	authMiddleware := auth.NewAuthMiddleware(tokenMgr, userRepo, denylist)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, nil, 0)

	usersHandler := handlers.NewUsersHandler(userService, freshness)
	adminHandler := handlers.NewAdminHandler(userService)
	postsHandler := handlers.NewPostsHandler(postService)
	managementHandler := handlers.NewManagementHandler(usersHandler, adminHandler, authMiddleware, freshness)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", nil, nil),
		Users:          usersHandler,
		Admin:          adminHandler,
		Posts:          postsHandler,
		Management:     managementHandler,
		AuthMiddleware: authMiddleware,
		Freshness:      freshness,
	})

	return &testEnv{app: app, users: userRepo, posts: postRepo}
}

func (e *testEnv) seedUser(t *testing.T, name, email, password, approvedYN string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		ApprovedYN:   approvedYN,
		Role:         role,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	payload := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp, payload
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, payload := e.request(t, fiber.MethodPost, "/api/login", "", fiber.Map{
		"email":     email,
		"password":  password,
		"timestamp": time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegister_CreatesUnapprovedAccount(t *testing.T) {
	env := newTestEnv(t)

	resp, payload := env.request(t, fiber.MethodPost, "/api/register", "", fiber.Map{
		"name":      "홍길동",
		"email":     "hong@example.com",
		"password":  "Secret1Pass",
		"timestamp": time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, payload["success"])
	require.NotEmpty(t, payload["userId"])

	stored, err := env.users.GetByEmail(context.Background(), "hong@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.ApprovedNo, stored.ApprovedYN)
}

func TestRegister_StaleTimestamp(t *testing.T) {
	env := newTestEnv(t)

	resp, payload := env.request(t, fiber.MethodPost, "/api/register", "", fiber.Map{
		"name":      "홍길동",
		"email":     "hong@example.com",
		"password":  "Secret1Pass",
		"timestamp": time.Now().Add(-10 * time.Minute).UnixMilli(),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, false, payload["success"])

	// the store was never touched
	_, err := env.users.GetByEmail(context.Background(), "hong@example.com")
	require.Equal(t, pgx.ErrNoRows, err)
}

func TestRegister_WeakPassword(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, fiber.MethodPost, "/api/register", "", fiber.Map{
		"name":      "홍길동",
		"email":     "hong@example.com",
		"password":  "alllowercase",
		"timestamp": time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "기존", "hong@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleUser)

	resp, _ := env.request(t, fiber.MethodPost, "/api/register", "", fiber.Map{
		"name":      "홍길동",
		"email":     "hong@example.com",
		"password":  "Secret1Pass",
		"timestamp": time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "홍길동", "a@b.com", "Secret1Pass", domain.ApprovedYes, domain.RoleUser)

	resp, payload := env.request(t, fiber.MethodPost, "/api/login", "", fiber.Map{
		"email":     "a@b.com",
		"password":  "Wrong1Pass",
		"timestamp": time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, false, payload["success"])
	require.Equal(t, "이메일 또는 비밀번호가 올바르지 않습니다.", payload["message"])
}

func TestLogin_UnapprovedAccount(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "홍길동", "hong@example.com", "Secret1Pass", domain.ApprovedNo, domain.RoleUser)

	resp, payload := env.request(t, fiber.MethodPost, "/api/login", "", fiber.Map{
		"email":     "hong@example.com",
		"password":  "Secret1Pass",
		"timestamp": time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, false, payload["success"])
}

func TestListUsers_NonAdminForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "일반", "user@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleUser)
	token := env.login(t, "user@example.com", "Secret1Pass")

	path := fmt.Sprintf("/api/users?timestamp=%d", time.Now().UnixMilli())
	resp, payload := env.request(t, fiber.MethodGet, path, token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, false, payload["success"])
	require.Equal(t, "관리자 권한이 필요합니다.", payload["message"])
}

func TestListUsers_AsAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "관리자", "admin@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleAdmin)
	env.seedUser(t, "일반", "user@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleUser)
	token := env.login(t, "admin@example.com", "Secret1Pass")

	path := fmt.Sprintf("/api/users?timestamp=%d", time.Now().UnixMilli())
	resp, payload := env.request(t, fiber.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, payload["success"])
	users, ok := payload["users"].([]any)
	require.True(t, ok)
	require.Len(t, users, 2)
}

func TestListUsers_StaleTimestampBeforeRoleGate(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "일반", "user@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleUser)
	token := env.login(t, "user@example.com", "Secret1Pass")
	lookups := env.users.idLookupCount()

	// A stale request from a non-admin is a 400, not a 403, and the store
	// is never consulted for the principal.
	path := fmt.Sprintf("/api/users?timestamp=%d", time.Now().Add(-10*time.Minute).UnixMilli())
	resp, payload := env.request(t, fiber.MethodGet, path, token, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, false, payload["success"])
	require.Equal(t, lookups, env.users.idLookupCount())
}

func TestListUsers_MissingTimestamp(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "관리자", "admin@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleAdmin)
	token := env.login(t, "admin@example.com", "Secret1Pass")

	resp, _ := env.request(t, fiber.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChangePassword_StaleTimestamp(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "홍길동", "hong@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleUser)
	token := env.login(t, "hong@example.com", "Secret1Pass")
	lookups := env.users.idLookupCount()

	resp, _ := env.request(t, fiber.MethodPost, "/api/change-password", token, fiber.Map{
		"currentPassword": "Secret1Pass",
		"newPassword":     "Updated1Pass",
		"timestamp":       time.Now().Add(-10 * time.Minute).UnixMilli(),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, lookups, env.users.idLookupCount())

	// the old password still works
	env.login(t, "hong@example.com", "Secret1Pass")
}

func TestListUsers_NoToken(t *testing.T) {
	env := newTestEnv(t)

	path := fmt.Sprintf("/api/users?timestamp=%d", time.Now().UnixMilli())
	resp, _ := env.request(t, fiber.MethodGet, path, "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestApproveUser_EnablesLogin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "관리자", "admin@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleAdmin)
	pending := env.seedUser(t, "대기중", "pending@example.com", "Secret1Pass", domain.ApprovedNo, domain.RoleUser)
	token := env.login(t, "admin@example.com", "Secret1Pass")

	resp, payload := env.request(t, fiber.MethodPost, "/api/approve-user", token, fiber.Map{
		"userId":    pending.ID,
		"approved":  true,
		"timestamp": time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user, ok := payload["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Y", user["approvedYN"])

	env.login(t, "pending@example.com", "Secret1Pass")
}

func TestDeleteUser_SelfDeleteRejected(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "관리자", "admin@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleAdmin)
	token := env.login(t, "admin@example.com", "Secret1Pass")

	resp, payload := env.request(t, fiber.MethodPost, "/api/delete-user", token, fiber.Map{
		"userId":    admin.ID,
		"timestamp": time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, false, payload["success"])

	_, err := env.users.GetByID(context.Background(), admin.ID)
	require.NoError(t, err)
}

func TestCheckAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "관리자", "admin@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleAdmin)
	env.seedUser(t, "일반", "user@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleUser)

	adminToken := env.login(t, "admin@example.com", "Secret1Pass")
	resp, payload := env.request(t, fiber.MethodGet, "/api/check-admin", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, payload["isAdmin"])

	userToken := env.login(t, "user@example.com", "Secret1Pass")
	resp, payload = env.request(t, fiber.MethodGet, "/api/check-admin", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, payload["isAdmin"])
}

func TestLogout_RevokesBearerToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "홍길동", "hong@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleUser)
	token := env.login(t, "hong@example.com", "Secret1Pass")

	resp, payload := env.request(t, fiber.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, payload["success"])

	resp, _ = env.request(t, fiber.MethodGet, "/api/check-admin", token, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_WithoutToken(t *testing.T) {
	env := newTestEnv(t)

	resp, payload := env.request(t, fiber.MethodPost, "/api/logout", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, payload["success"])
}

func TestChangePassword_Flow(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "홍길동", "hong@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleUser)
	token := env.login(t, "hong@example.com", "Secret1Pass")

	resp, _ := env.request(t, fiber.MethodPost, "/api/change-password", token, fiber.Map{
		"currentPassword": "Wrong1Pass",
		"newPassword":     "Updated1Pass",
		"timestamp":       time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.request(t, fiber.MethodPost, "/api/change-password", token, fiber.Map{
		"currentPassword": "Secret1Pass",
		"newPassword":     "Updated1Pass",
		"timestamp":       time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env.login(t, "hong@example.com", "Updated1Pass")
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "홍길동", "hong@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleUser)
	token := env.login(t, "hong@example.com", "Secret1Pass")

	resp, payload := env.request(t, fiber.MethodPost, "/api/update-profile", token, fiber.Map{
		"name":      "새이름",
		"timestamp": time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user, ok := payload["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "새이름", user["name"])
}

func TestUserManagement_UnknownAction(t *testing.T) {
	env := newTestEnv(t)

	resp, payload := env.request(t, fiber.MethodPost, "/api/user-management", "", fiber.Map{
		"action": "dropTables",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, false, payload["success"])
}

func TestUserManagement_LoginAction(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "홍길동", "hong@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleUser)

	resp, payload := env.request(t, fiber.MethodPost, "/api/user-management", "", fiber.Map{
		"action":    "login",
		"email":     "hong@example.com",
		"password":  "Secret1Pass",
		"timestamp": time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, payload["token"])
}

func TestUserManagement_ListRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "일반", "user@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleUser)
	token := env.login(t, "user@example.com", "Secret1Pass")

	path := fmt.Sprintf("/api/user-management?action=list&timestamp=%d", time.Now().UnixMilli())
	resp, payload := env.request(t, fiber.MethodGet, path, token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "관리자 권한이 필요합니다.", payload["message"])
}

func TestUserManagement_StaleTimestampBeforeRoleGate(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "일반", "user@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleUser)
	token := env.login(t, "user@example.com", "Secret1Pass")
	lookups := env.users.idLookupCount()

	path := fmt.Sprintf("/api/user-management?action=list&timestamp=%d",
		time.Now().Add(-10*time.Minute).UnixMilli())
	resp, payload := env.request(t, fiber.MethodGet, path, token, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, false, payload["success"])
	require.Equal(t, lookups, env.users.idLookupCount())
}

func TestUserManagement_MethodMismatch(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "관리자", "admin@example.com", "Secret1Pass", domain.ApprovedYes, domain.RoleAdmin)
	token := env.login(t, "admin@example.com", "Secret1Pass")

	// adminUpdate is PUT-only
	resp, _ := env.request(t, fiber.MethodPost, "/api/user-management", token, fiber.Map{
		"action":    "adminUpdate",
		"userId":    "some-id",
		"timestamp": time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestBlogPost_SaveAndRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	tags := []string{"트렌드", "golang", "여행"}

	resp, payload := env.request(t, fiber.MethodPost, "/api/saveBlogPost", "", fiber.Map{
		"title":   "첫 번째 글",
		"content": "본문입니다.",
		"tags":    tags,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID, _ := payload["postId"].(string)
	require.NotEmpty(t, postID)

	resp, payload = env.request(t, fiber.MethodGet, "/api/getBlogPost?id="+postID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	post, ok := payload["post"].(map[string]any)
	require.True(t, ok)

	got, ok := post["tags"].([]any)
	require.True(t, ok)
	require.Len(t, got, len(tags))
	for i, tag := range tags {
		require.Equal(t, tag, got[i])
	}
}

func TestBlogPost_GetMissing(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, fiber.MethodGet, "/api/getBlogPost?id=missing-id", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBlogPost_ListPosts(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		resp, _ := env.request(t, fiber.MethodPost, "/api/saveBlogPost", "", fiber.Map{
			"title":   fmt.Sprintf("글 %d", i),
			"content": "본문",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, payload := env.request(t, fiber.MethodGet, "/api/getBlogPosts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	posts, ok := payload["posts"].([]any)
	require.True(t, ok)
	require.Len(t, posts, 3)
}
