package activities

import (
	"context"
	"time"

	"activitiesui/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Context keys the preloaders store entities under
const (
	ActivityKey          = "activity"
	ScheduledInstanceKey = "scheduledInstance"
	AppointmentKey       = "appointment"
	AppointmentSeriesKey = "appointmentSeries"
	AppointmentSetKey    = "appointmentSet"
)

type ActivityGetter interface {
	GetActivity(ctx context.Context, id int64) (*Activity, error)
}

type ScheduledInstanceGetter interface {
	GetScheduledInstance(ctx context.Context, id int64) (*ScheduledInstance, error)
}

type AppointmentGetter interface {
	GetAppointment(ctx context.Context, id int64) (*Appointment, error)
	GetAppointmentSeries(ctx context.Context, id int64) (*AppointmentSeries, error)
	GetAppointmentSet(ctx context.Context, id int64) (*AppointmentSet, error)
}

func PreloadActivity(api ActivityGetter) gin.HandlerFunc {
	return middleware.Preload(middleware.PreloadConfig[Activity]{
		Param:  "activityId",
		Key:    ActivityKey,
		Entity: "activity",
		Load: func(c *gin.Context, id int64) (*Activity, error) {
			return api.GetActivity(c.Request.Context(), id)
		},
		ID: func(a *Activity) int64 { return a.ID },
	})
}

func PreloadScheduledInstance(api ScheduledInstanceGetter) gin.HandlerFunc {
	return middleware.Preload(middleware.PreloadConfig[ScheduledInstance]{
		Param:  "instanceId",
		Key:    ScheduledInstanceKey,
		Entity: "scheduled instance",
		Load: func(c *gin.Context, id int64) (*ScheduledInstance, error) {
			return api.GetScheduledInstance(c.Request.Context(), id)
		},
		ID: func(si *ScheduledInstance) int64 { return si.ID },
	})
}

func PreloadAppointment(api AppointmentGetter) gin.HandlerFunc {
	return middleware.Preload(middleware.PreloadConfig[Appointment]{
		Param:  "appointmentId",
		Key:    AppointmentKey,
		Entity: "appointment",
		Load: func(c *gin.Context, id int64) (*Appointment, error) {
			return api.GetAppointment(c.Request.Context(), id)
		},
		ID: func(a *Appointment) int64 { return a.ID },
	})
}

// PreloadAppointmentSeries loads a series with only its future occurrences
func PreloadAppointmentSeries(api AppointmentGetter, now func() time.Time) gin.HandlerFunc {
	return middleware.Preload(middleware.PreloadConfig[AppointmentSeries]{
		Param:  "seriesId",
		Key:    AppointmentSeriesKey,
		Entity: "appointment series",
		Load: func(c *gin.Context, id int64) (*AppointmentSeries, error) {
			return api.GetAppointmentSeries(c.Request.Context(), id)
		},
		ID: func(s *AppointmentSeries) int64 { return s.ID },
		Filters: []middleware.Filter[AppointmentSeries]{
			func(c *gin.Context, s *AppointmentSeries) {
				s.Appointments = FutureAppointments(s.Appointments, now())
			},
		},
	})
}

// PreloadAppointmentSet loads a bulk appointment with only its future occurrences
func PreloadAppointmentSet(api AppointmentGetter, now func() time.Time) gin.HandlerFunc {
	return middleware.Preload(middleware.PreloadConfig[AppointmentSet]{
		Param:  "bulkAppointmentId",
		Key:    AppointmentSetKey,
		Entity: "bulk appointment",
		Load: func(c *gin.Context, id int64) (*AppointmentSet, error) {
			return api.GetAppointmentSet(c.Request.Context(), id)
		},
		ID: func(s *AppointmentSet) int64 { return s.ID },
		Filters: []middleware.Filter[AppointmentSet]{
			func(c *gin.Context, s *AppointmentSet) {
				s.Appointments = FutureAppointments(s.Appointments, now())
			},
		},
	})
}
