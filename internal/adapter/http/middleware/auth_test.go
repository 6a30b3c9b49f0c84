package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"tasktracker/internal/core/domain"
	ct "tasktracker/pkg/context"
)

type stubResolver struct {
	token    string
	identity domain.Identity
}

func (s stubResolver) ResolveCurrentUser(ctx context.Context, token string) (domain.Identity, error) {
	if token != s.token {
		return domain.Identity{}, domain.NewAuthenticationError("")
	}

	return s.identity, nil
}

func newProtectedRouter(resolver IdentityResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CurrentMiddleware())
	router.Use(AuthMiddleware(resolver))
	router.GET("/me", func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		userID, _ := GetCurrent(c).GetString(ct.UserIDKey)

		c.JSON(http.StatusOK, gin.H{"ok": ok, "email": identity.Email, "user_id": userID})
	})

	return router
}

func TestAuthMiddleware(t *testing.T) {
	identity := domain.Identity{UserID: uuid.New(), Email: "ada@example.com"}
	router := newProtectedRouter(stubResolver{token: "valid", identity: identity})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dmFsaWQ=", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer valid", http.StatusOK},
		{"lowercase scheme", "bearer valid", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)

			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)

			if tc.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), identity.Email)
				assert.Contains(t, w.Body.String(), identity.UserID.String())
			} else {
				assert.Contains(t, w.Body.String(), "AUTHENTICATION_ERROR")
			}
		})
	}
}

func TestCurrentMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CurrentMiddleware())
	router.GET("/", func(c *gin.Context) {
		requestID, _ := ct.GetCurrent(c.Request.Context()).GetString(ct.RequestIDKey)
		c.String(http.StatusOK, requestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
}
