package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/sca-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/sca-inventory-backend/internal/platform/ctxutil"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
	"github.com/yungbote/sca-inventory-backend/internal/services"
)

type stubAuth struct {
	services.AuthService
	tokens map[string]*ctxutil.RequestData
	seen   string
}

func (s *stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	s.seen = token
	rd, ok := s.tokens[token]
	if !ok {
		return nil, apierr.Unauthorized("invalid_token", "unknown token")
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (s *stubAuth) SessionTTL() time.Duration { return time.Hour }

func newAuthRouter(auth *stubAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), auth)
	r := gin.New()
	r.GET("/me", am.RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/admin", am.RequireAuth(), am.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRequireAuthTokenSources(t *testing.T) {
	auth := &stubAuth{tokens: map[string]*ctxutil.RequestData{
		"operario": {UserID: uuid.New(), Role: "user"},
	}}
	r := newAuthRouter(auth)

	cases := []struct {
		name   string
		prep   func(*http.Request)
		target string
		status int
	}{
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer operario") }, "/me", http.StatusOK},
		{"session header", func(req *http.Request) { req.Header.Set(HeaderSessionToken, "operario") }, "/me", http.StatusOK},
		{"query", func(req *http.Request) {}, "/me?token=operario", http.StatusOK},
		{"missing", func(req *http.Request) {}, "/me", http.StatusUnauthorized},
		{"unknown", func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, "/me", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			tc.prep(req)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status: got %d want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	auth := &stubAuth{tokens: map[string]*ctxutil.RequestData{
		"operario": {UserID: uuid.New(), Role: "user"},
		"admin":    {UserID: uuid.New(), Role: "admin"},
	}}
	r := newAuthRouter(auth)

	for token, want := range map[string]int{"operario": http.StatusForbidden, "admin": http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("%s: got %d want %d", token, rec.Code, want)
		}
	}
}
