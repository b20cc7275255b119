package reporting

import (
	"github.com/gin-gonic/gin"
)

func SetupReportingRoutes(rg *gin.RouterGroup, controller *Controller) {
	reporting := rg.Group("/reporting")
	{
		reporting.GET("/daily-attendance", controller.DailyAttendance)
	}
}
