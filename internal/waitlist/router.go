package waitlist

import (
	"activitiesui/internal/activities"

	"github.com/gin-gonic/gin"
)

// SetupWaitlistRoutes registers the "log a waitlist application" flow
func SetupWaitlistRoutes(rg *gin.RouterGroup, controller *Controller, api activities.ActivityGetter) {
	waitlist := rg.Group("/waitlist")
	{
		waitlist.GET("/start/:activityId/:prisonerNumber", activities.PreloadActivity(api), controller.Start)

		steps := waitlist.Group("/:journeyId", Journey.Require())
		{
			steps.GET("/request-date", controller.RequestDatePage)
			steps.POST("/request-date", controller.RequestDate)
			steps.GET("/requester", controller.RequesterPage)
			steps.POST("/requester", controller.Requester)
			steps.GET("/status", controller.StatusPage)
			steps.POST("/status", controller.Status)
			steps.GET("/comment", controller.CommentPage)
			steps.POST("/comment", controller.Comment)
			steps.GET("/check-answers", controller.CheckAnswersPage)
			steps.POST("/check-answers", controller.CheckAnswers)
			steps.GET("/confirmation", controller.Confirmation)
		}
	}
}
