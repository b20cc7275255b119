package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"activitiesui/internal/activities"
	"activitiesui/internal/observability/metrics"
	"activitiesui/internal/shared/config"
	"activitiesui/internal/shared/middleware"
	"activitiesui/internal/shared/session"
	"activitiesui/internal/shared/utils/response"
	"activitiesui/internal/tracking"
	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthFunc func(ctx context.Context) error

func (f healthFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func newTestEngine(t *testing.T, rolledOut bool, health HealthChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/rollout/"):
			_ = json.NewEncoder(w).Encode(activities.RolloutPrison{PrisonCode: "MDI", ActivitiesRolledOut: rolledOut})
		case strings.HasPrefix(r.URL.Path, "/prisons/MDI/daily-attendance-summary"):
			_ = json.NewEncoder(w).Encode([]activities.AttendanceSummaryRow{{CategoryName: "Gym", Attended: 1}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(api.Close)

	registry := prometheus.NewRegistry()
	appMetrics := metrics.NewAppMetrics(registry)
	client := activities.NewClient(api.URL, 0, appMetrics)
	service := activities.NewService(activities.NewActivitiesAPI(client), activities.NewPrisonerSearchAPI(client), nil)

	cfg := &config.Config{
		ServiceName: "activities-ui",
		BuildNumber: "42",
		Auth:        config.AuthConfig{Enabled: false, DefaultPrison: "MDI", SignInURL: "/sign-in"},
	}
	store := session.NewMemoryStore()
	recorder := tracking.NewRecorder(tracking.NewLogTracker(logger.GetDefault()), appMetrics)

	engine := gin.New()
	engine.HTMLRender = response.ViewModelRender{}
	engine.Use(middleware.ErrorHandler(logger.GetDefault()), session.Middleware(store, session.Options{}))
	NewRouter(cfg, health, store, service, recorder, appMetrics, registry).SetupRoutes(engine)
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHomePage(t *testing.T) {
	engine := newTestEngine(t, true, nil)

	rec := get(engine, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"template":"pages/index"`)
}

func TestNotRolledOutPrison(t *testing.T) {
	engine := newTestEngine(t, false, nil)

	rec := get(engine, "/attendance/select-period")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "pages/not-rolled-out")
}

func TestReportingWired(t *testing.T) {
	engine := newTestEngine(t, true, nil)

	rec := get(engine, "/reporting/daily-attendance?date=2024-06-10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"attendanceRate":100`)
}

func TestHealthAndInfo(t *testing.T) {
	engine := newTestEngine(t, true, healthFunc(func(context.Context) error { return nil }))

	rec := get(engine, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"UP"`)

	rec = get(engine, "/info")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"buildNumber":"42"`)

	rec = get(engine, "/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthDown(t *testing.T) {
	engine := newTestEngine(t, true, healthFunc(func(context.Context) error { return errors.New("redis ping failed") }))

	rec := get(engine, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis ping failed")
}

func TestMetricsExposeBackendCalls(t *testing.T) {
	engine := newTestEngine(t, true, nil)
	get(engine, "/")

	rec := get(engine, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "backend_request_duration_seconds")
}
