package attendance

import (
	"activitiesui/internal/activities"

	"github.com/gin-gonic/gin"
)

// SetupAttendanceRoutes registers attendance recording
func SetupAttendanceRoutes(rg *gin.RouterGroup, controller *Controller, api activities.ScheduledInstanceGetter) {
	attendance := rg.Group("/attendance")
	{
		attendance.GET("/select-period", controller.SelectPeriodPage)
		attendance.POST("/select-period", controller.SelectPeriod)
		attendance.GET("/activities", controller.Activities)
		attendance.GET("/activities/:instanceId/attendance-list", activities.PreloadScheduledInstance(api), controller.AttendanceList)
		attendance.POST("/activities/attendance", controller.RecordAttendance)

		notAttended := attendance.Group("/activities/not-attended-reason/:journeyId", NotAttended.Require())
		{
			notAttended.GET("", controller.NotAttendedReasonPage)
			notAttended.POST("", controller.NotAttendedReason)
		}
	}
}
