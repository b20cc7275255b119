// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	"activitiesui/internal/activities"
	"activitiesui/internal/allocations"
	"activitiesui/internal/appointments"
	"activitiesui/internal/attendance"
	"activitiesui/internal/observability/metrics"
	"activitiesui/internal/reporting"
	"activitiesui/internal/shared/config"
	"activitiesui/internal/shared/middleware"
	"activitiesui/internal/shared/session"
	"activitiesui/internal/shared/utils/response"
	"activitiesui/internal/tracking"
	"activitiesui/internal/ui"
	"activitiesui/internal/waitlist"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker reports whether the backing stores respond
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	health   HealthChecker
	store    session.Store
	service  *activities.Service
	recorder *tracking.Recorder
	metrics  *metrics.AppMetrics
	gatherer prometheus.Gatherer
	started  time.Time
}

// NewRouter creates a new router instance. health may be nil when no
// backing store is configured.
func NewRouter(cfg *config.Config, health HealthChecker, store session.Store, service *activities.Service,
	recorder *tracking.Recorder, appMetrics *metrics.AppMetrics, gatherer prometheus.Gatherer) *Router {
	return &Router{
		config:   cfg,
		health:   health,
		store:    store,
		service:  service,
		recorder: recorder,
		metrics:  appMetrics,
		gatherer: gatherer,
		started:  time.Now(),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	r.setupSignInRoutes(engine)

	app := engine.Group("",
		middleware.Authenticate(r.config),
		activities.ForwardUserToken(),
		middleware.RequireRollout(r.service),
	)
	{
		app.GET("/", func(c *gin.Context) {
			response.Render(c, "pages/index", gin.H{})
		})

		r.setupAppointmentRoutes(app)
		r.setupWaitlistRoutes(app)
		r.setupAttendanceRoutes(app)
		r.setupAllocationRoutes(app)
		r.setupReportingRoutes(app)
		ui.SetupUIRoutes(app, ui.NewController(r.service), r.config.AllowedOrigins)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if r.health != nil {
			if err := r.health.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "DOWN",
					"error":     err.Error(),
					"timestamp": time.Now(),
					"service":   r.config.ServiceName,
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "UP",
			"timestamp": time.Now(),
			"service":   r.config.ServiceName,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "pong"})
	})

	engine.GET("/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     r.config.ServiceName,
			"buildNumber": r.config.BuildNumber,
			"uptime":      time.Since(r.started).Round(time.Second).String(),
		})
	})

	if r.gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}
}

func (r *Router) setupSignInRoutes(engine *gin.Engine) {
	engine.GET("/sign-in", func(c *gin.Context) {
		response.Render(c, "pages/sign-in", gin.H{})
	})
	engine.GET("/sign-in/callback", middleware.SignInCallback(r.config, r.store))
	engine.GET("/sign-out", middleware.SignOut(r.config, r.store))
}

func (r *Router) setupAppointmentRoutes(rg *gin.RouterGroup) {
	controller := appointments.NewController(r.service, r.recorder, r.metrics)
	appointments.SetupAppointmentRoutes(rg, controller, r.service, r.metrics)
}

func (r *Router) setupWaitlistRoutes(rg *gin.RouterGroup) {
	controller := waitlist.NewController(r.service, r.recorder, r.metrics)
	waitlist.SetupWaitlistRoutes(rg, controller, r.service)
}

func (r *Router) setupAttendanceRoutes(rg *gin.RouterGroup) {
	controller := attendance.NewController(r.service, r.recorder)
	attendance.SetupAttendanceRoutes(rg, controller, r.service)
}

func (r *Router) setupAllocationRoutes(rg *gin.RouterGroup) {
	controller := allocations.NewController(r.service, r.recorder, r.metrics)
	allocations.SetupAllocationRoutes(rg, controller, r.service)
}

func (r *Router) setupReportingRoutes(rg *gin.RouterGroup) {
	viewers := rg.Group("", middleware.RequireRoles(middleware.RoleReportingViewer, middleware.RolePrisonManager))
	reporting.SetupReportingRoutes(viewers, reporting.NewController(r.service))
}
