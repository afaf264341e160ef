package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/boutique-next/internal/config"
	"github.com/boutique-next/internal/constants"
	"github.com/boutique-next/internal/models"
	"github.com/boutique-next/internal/repository"
	"github.com/boutique-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const testSecretKey = "middleware-test-secret-key-0123456789"

func setupMiddlewareTestRepo(t *testing.T) *repository.GormUserRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate user failed: %v", err)
	}
	return repository.NewUserRepository(db)
}

func createMiddlewareTestUser(t *testing.T, repo *repository.GormUserRepository, email, role string, active bool) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "irrelevant",
		Role:         role,
		IsActive:     active,
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if !active {
		user.IsActive = false
		if err := repo.Update(user); err != nil {
			t.Fatalf("disable user failed: %v", err)
		}
	}
	return user
}

func issueMiddlewareTestToken(t *testing.T, user *models.User) string {
	t.Helper()
	cfg := &config.Config{}
	cfg.Session.SecretKey = testSecretKey
	cfg.Session.ExpireHours = 1
	authService := service.NewUserAuthService(cfg, nil)
	token, _, err := authService.GenerateUserJWT(user, 1)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	return token
}

func TestCartSessionMiddlewareMintsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CartSessionMiddleware(config.SessionConfig{CartTTLHours: 1}))
	r.GET("/cart", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(cartSessionContextKey))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.ServeHTTP(w, req)

	sessionID := w.Body.String()
	if sessionID == "" {
		t.Fatal("session id must be set in context")
	}
	setCookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(setCookie, constants.CartSessionCookie+"=") {
		t.Fatalf("expected session cookie in response, got %q", setCookie)
	}
}

func TestCartSessionMiddlewareKeepsExistingCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CartSessionMiddleware(config.SessionConfig{CartTTLHours: 1}))
	r.GET("/cart", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(cartSessionContextKey))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: constants.CartSessionCookie, Value: "existing-session"})
	r.ServeHTTP(w, req)

	if got := w.Body.String(); got != "existing-session" {
		t.Fatalf("session id want existing-session got %q", got)
	}
	if setCookie := w.Header().Get("Set-Cookie"); setCookie != "" {
		t.Fatalf("no new cookie expected, got %q", setCookie)
	}
}

func TestUserJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := setupMiddlewareTestRepo(t)
	user := createMiddlewareTestUser(t, repo, "jwt-mw-user@example.com", constants.RoleUser, true)
	disabled := createMiddlewareTestUser(t, repo, "jwt-mw-disabled@example.com", constants.RoleUser, false)

	r := gin.New()
	r.GET("/me", UserJWTAuthMiddleware(testSecretKey, repo), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	tests := []struct {
		name       string
		header     string
		wantBody   string
		wantDenied bool
	}{
		{name: "missing header", header: "", wantDenied: true},
		{name: "malformed header", header: "Token abc", wantDenied: true},
		{name: "garbage token", header: "Bearer not-a-token", wantDenied: true},
		{name: "valid token", header: "Bearer " + issueMiddlewareTestToken(t, user), wantBody: "ok"},
		{name: "disabled account", header: "Bearer " + issueMiddlewareTestToken(t, disabled), wantDenied: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			body := w.Body.String()
			if tt.wantDenied {
				if !strings.Contains(body, `"status_code":401`) {
					t.Fatalf("expected 401 envelope, got %q", body)
				}
				return
			}
			if body != tt.wantBody {
				t.Fatalf("body want %q got %q", tt.wantBody, body)
			}
		})
	}
}

func TestUserJWTAuthMiddlewareRejectsStaleTokenVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := setupMiddlewareTestRepo(t)
	user := createMiddlewareTestUser(t, repo, "jwt-mw-stale@example.com", constants.RoleUser, true)
	token := issueMiddlewareTestToken(t, user)

	if err := repo.BumpTokenVersion(user.ID); err != nil {
		t.Fatalf("bump token version failed: %v", err)
	}

	r := gin.New()
	r.GET("/me", UserJWTAuthMiddleware(testSecretKey, repo), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `"status_code":401`) {
		t.Fatalf("stale token must be rejected, got %q", w.Body.String())
	}
}

func TestAdminRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := setupMiddlewareTestRepo(t)
	admin := createMiddlewareTestUser(t, repo, "role-mw-admin@example.com", constants.RoleAdmin, true)
	regular := createMiddlewareTestUser(t, repo, "role-mw-user@example.com", constants.RoleUser, true)

	r := gin.New()
	r.GET("/admin/ping", UserJWTAuthMiddleware(testSecretKey, repo), AdminRoleMiddleware(repo), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+issueMiddlewareTestToken(t, regular))
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"status_code":403`) {
		t.Fatalf("regular user must be denied, got %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+issueMiddlewareTestToken(t, admin))
	r.ServeHTTP(w, req)
	if got := w.Body.String(); got != "pong" {
		t.Fatalf("admin must pass, got %q", got)
	}
}

func TestOptionalUserJWTMiddlewareAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := setupMiddlewareTestRepo(t)
	user := createMiddlewareTestUser(t, repo, "optional-mw@example.com", constants.RoleUser, true)

	r := gin.New()
	r.GET("/checkout", OptionalUserJWTMiddleware(testSecretKey, repo), func(c *gin.Context) {
		if _, exists := c.Get("user"); exists {
			c.String(http.StatusOK, "known")
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	// 无 token 按匿名放行
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	r.ServeHTTP(w, req)
	if got := w.Body.String(); got != "anonymous" {
		t.Fatalf("want anonymous got %q", got)
	}

	// 无效 token 同样按匿名放行而不是报错
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/checkout", nil)
	req.Header.Set("Authorization", "Bearer broken")
	r.ServeHTTP(w, req)
	if got := w.Body.String(); got != "anonymous" {
		t.Fatalf("want anonymous got %q", got)
	}

	// 有效 token 注入用户
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+issueMiddlewareTestToken(t, user))
	r.ServeHTTP(w, req)
	if got := w.Body.String(); got != "known" {
		t.Fatalf("want known got %q", got)
	}
}
