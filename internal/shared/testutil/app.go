// Package testutil builds a gin engine wired like the real server for
// handler tests: memory sessions, a development user and JSON view models.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"activitiesui/internal/shared/config"
	"activitiesui/internal/shared/middleware"
	"activitiesui/internal/shared/session"
	"activitiesui/internal/shared/utils/response"
	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// App is a test engine with a cookie jar for one user
type App struct {
	Engine  *gin.Engine
	Group   *gin.RouterGroup
	Store   *session.MemoryStore
	t       *testing.T
	cookies map[string]*http.Cookie
	seeds   int
}

func NewApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Auth: config.AuthConfig{Enabled: false, DefaultPrison: "MDI", SignInURL: "/sign-in"}}
	store := session.NewMemoryStore()

	engine := gin.New()
	engine.HTMLRender = response.ViewModelRender{}
	engine.Use(middleware.ErrorHandler(logger.GetDefault()))
	engine.Use(session.Middleware(store, session.Options{}))
	group := engine.Group("", middleware.Authenticate(cfg))

	return &App{
		Engine:  engine,
		Group:   group,
		Store:   store,
		t:       t,
		cookies: make(map[string]*http.Cookie),
	}
}

func (a *App) Get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *App) PostForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *App) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.Engine.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		a.cookies[c.Name] = c
	}
	return rec
}

// Seed runs fn inside a request so it can write to this user's session
func (a *App) Seed(fn func(c *gin.Context)) {
	a.t.Helper()
	a.seeds++
	path := fmt.Sprintf("/__seed/%d", a.seeds)
	a.Engine.GET(path, func(c *gin.Context) {
		fn(c)
		c.Status(http.StatusNoContent)
	})
	rec := a.Get(path)
	require.Equal(a.t, http.StatusNoContent, rec.Code)
}

// Inspect runs fn inside a request to read this user's session
func (a *App) Inspect(fn func(c *gin.Context)) {
	a.Seed(fn)
}

// ViewModel decodes a page rendered by ViewModelRender
func ViewModel(t *testing.T, rec *httptest.ResponseRecorder) response.ViewModel {
	t.Helper()
	var vm response.ViewModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vm), rec.Body.String())
	return vm
}

// FieldErrors pulls the validationErrors out of a re-rendered form
func FieldErrors(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	vm := ViewModel(t, rec)
	out := make(map[string]string)
	raw, ok := vm.Context["validationErrors"].([]interface{})
	if !ok {
		return out
	}
	for _, item := range raw {
		fe := item.(map[string]interface{})
		out[fe["property"].(string)] = fe["error"].(string)
	}
	return out
}
