package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"activitiesui/internal/shared/config"
	"activitiesui/internal/shared/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authConfig(enabled bool) *config.Config {
	return &config.Config{Auth: config.AuthConfig{
		TokenSecret:   "secret",
		TokenHeader:   "Authorization",
		SignInURL:     "/sign-in",
		Enabled:       enabled,
		DefaultPrison: "MDI",
	}}
}

func signedToken(t *testing.T, secret string, claims UserClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthenticateBearerToken(t *testing.T) {
	token := signedToken(t, "secret", UserClaims{
		Username:         "JSMITH",
		Name:             "Jo Smith",
		ActiveCaseLoadID: "RSI",
		Authorities:      []string{RoleActivityHub},
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})

	var user *User
	r := newEngine()
	r.GET("/", Authenticate(authConfig(true)), func(c *gin.Context) {
		user = CurrentUser(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, "JSMITH", user.Username)
	assert.Equal(t, "RSI", user.ActiveCaseLoadID)
	assert.True(t, user.HasRole(RoleActivityHub))
}

func TestAuthenticateRejects(t *testing.T) {
	expired := signedToken(t, "secret", UserClaims{
		Username:         "JSMITH",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	wrongKey := signedToken(t, "other", UserClaims{Username: "JSMITH"})

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing token redirects", "/appointments", "", http.StatusFound},
		{"expired token redirects", "/appointments", "Bearer " + expired, http.StatusFound},
		{"wrong signature redirects", "/appointments", "Bearer " + wrongKey, http.StatusFound},
		{"ui call gets 401", "/ui/prisoner-search", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine()
			r.GET("/*path", Authenticate(authConfig(true)), func(c *gin.Context) {
				t.Fatal("handler should not run")
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusFound {
				assert.Equal(t, "/sign-in", rec.Header().Get("Location"))
			}
		})
	}
}

func TestAuthenticateDisabledUsesDevUser(t *testing.T) {
	r := newEngine()
	r.GET("/", Authenticate(authConfig(false)), RequireRoles(RoleActivityHub), func(c *gin.Context) {
		assert.Equal(t, "MDI", CurrentUser(c).ActiveCaseLoadID)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesForbidden(t *testing.T) {
	r := newEngine()
	r.GET("/", Authenticate(authConfig(false)), RequireRoles(RoleActivityAdmin), func(c *gin.Context) {
		t.Fatal("handler should not run")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSignInCallbackStoresTokenInSession(t *testing.T) {
	cfg := authConfig(true)
	store := session.NewMemoryStore()
	token := signedToken(t, "secret", UserClaims{Username: "JSMITH", ActiveCaseLoadID: "RSI"})

	r := newEngine()
	r.Use(session.Middleware(store, session.Options{}))
	r.GET("/sign-in/callback", SignInCallback(cfg, store))
	r.GET("/whoami", Authenticate(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sign-in/callback?token="+token, nil))
	require.Equal(t, http.StatusFound, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "JSMITH", rec.Body.String())
}

func TestErrorHandlerRedirectsMissingJourney(t *testing.T) {
	r := newEngine()
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(session.ErrJourneyNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestErrorHandlerJSONForUI(t *testing.T) {
	r := newEngine()
	r.GET("/ui/thing", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ui/thing", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"error"`)
}

func TestErrorHandlerLeavesWrittenResponses(t *testing.T) {
	r := newEngine()
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusTeapot, "written")
		_ = c.Error(errors.New("late"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "written", rec.Body.String())
}

type rollout map[string]bool

func (r rollout) IsRolledOut(_ context.Context, prison string) (bool, error) {
	return r[prison], nil
}

func TestRequireRollout(t *testing.T) {
	r := newEngine()
	r.GET("/", Authenticate(authConfig(false)), RequireRollout(rollout{"RSI": true}), func(c *gin.Context) {
		t.Fatal("handler should not run")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"template":"pages/not-rolled-out"`)
}

func TestTraceIDReusesIncomingHeader(t *testing.T) {
	r := newEngine()
	r.Use(TraceID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("trace_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "abc", rec.Body.String())
	assert.Equal(t, "abc", rec.Header().Get(TraceIDHeader))
}
