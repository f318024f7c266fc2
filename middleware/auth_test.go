package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"spacedodge/models"
	"spacedodge/services"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		id, ok := c.Get("user_id")
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, "user %d", id.(uint))
	})
	return r
}

func get(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, secret string, id uint) string {
	t.Helper()
	token, err := services.NewAuthService(nil, secret).GenerateToken(&models.User{ID: id, Username: "pilot"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret))

	tests := []struct {
		name   string
		auth   string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, ""},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + tokenFor(t, "other", 7), http.StatusUnauthorized, ""},
		{"valid", "Bearer " + tokenFor(t, testSecret, 7), http.StatusOK, "user 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.auth)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Fatalf("body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	r := newRouter(OptionalAuth(testSecret))

	if w := get(r, ""); w.Code != http.StatusOK || w.Body.String() != "anonymous" {
		t.Fatalf("anonymous: %d %q", w.Code, w.Body.String())
	}
	if w := get(r, "Bearer not.a.jwt"); w.Body.String() != "anonymous" {
		t.Fatalf("invalid token: %q", w.Body.String())
	}
	if w := get(r, "Bearer "+tokenFor(t, testSecret, 3)); w.Body.String() != "user 3" {
		t.Fatalf("valid token: %q", w.Body.String())
	}
}
