package allocations

import (
	"activitiesui/internal/activities"

	"github.com/gin-gonic/gin"
)

func SetupAllocationRoutes(rg *gin.RouterGroup, controller *Controller, api activities.ActivityGetter) {
	allocations := rg.Group("/allocations")
	{
		allocations.GET("/start/:activityId/:prisonerNumber", activities.PreloadActivity(api), controller.Start)

		steps := allocations.Group("/:journeyId", Journey.Require())
		{
			steps.GET("/pay-band", controller.PayBandPage)
			steps.POST("/pay-band", controller.PayBand)
			steps.GET("/start-date", controller.StartDatePage)
			steps.POST("/start-date", controller.StartDate)
			steps.GET("/end-date", controller.EndDatePage)
			steps.POST("/end-date", controller.EndDate)
			steps.GET("/check-answers", controller.CheckAnswersPage)
			steps.POST("/check-answers", controller.CheckAnswers)
			steps.GET("/confirmation", controller.Confirmation)
		}
	}
}
