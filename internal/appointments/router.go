package appointments

import (
	"activitiesui/internal/activities"
	"activitiesui/internal/shared/journey"

	"github.com/gin-gonic/gin"
)

// SetupAppointmentRoutes registers the create journey and the read only
// appointment pages
func SetupAppointmentRoutes(rg *gin.RouterGroup, controller *Controller, api activities.AppointmentGetter, metrics journey.Metrics) {
	appointments := rg.Group("/appointments")
	{
		create := appointments.Group("/create")
		{
			create.GET("/start-individual", journey.CountStart(metrics, JourneyName), journey.StartNewJourney("create"))
			create.GET("/start-group", journey.CountStart(metrics, JourneyName), journey.StartNewJourney("create"))

			seeded := create.Group("/:journeyId")
			seeded.GET("/start-individual", controller.StartIndividual)
			seeded.GET("/start-group", controller.StartGroup)

			steps := seeded.Group("", Journey.Require())
			{
				steps.GET("/select-prisoner", controller.SelectPrisonerPage)
				steps.POST("/select-prisoner", controller.SelectPrisoner)
				steps.GET("/review-prisoners", controller.ReviewPrisonersPage)
				steps.POST("/review-prisoners", controller.ReviewPrisoners)
				steps.GET("/review-prisoners/:prisonerNumber/remove", controller.RemovePrisoner)
				steps.GET("/category", controller.CategoryPage)
				steps.POST("/category", controller.Category)
				steps.GET("/location", controller.LocationPage)
				steps.POST("/location", controller.Location)
				steps.GET("/date-and-time", controller.DateAndTimePage)
				steps.POST("/date-and-time", controller.DateAndTime)
				steps.GET("/repeat", controller.RepeatPage)
				steps.POST("/repeat", controller.Repeat)
				steps.GET("/repeat-frequency-and-count", controller.RepeatFrequencyAndCountPage)
				steps.POST("/repeat-frequency-and-count", controller.RepeatFrequencyAndCount)
				steps.GET("/comment", controller.CommentPage)
				steps.POST("/comment", controller.Comment)
				steps.GET("/check-answers", controller.CheckAnswersPage)
				steps.POST("/check-answers", controller.CheckAnswers)
				steps.GET("/confirmation", controller.Confirmation)
			}
		}

		appointments.GET("/series/:seriesId", activities.PreloadAppointmentSeries(api, controller.now), controller.SeriesDetails)
		appointments.GET("/bulk/:bulkAppointmentId", activities.PreloadAppointmentSet(api, controller.now), controller.BulkDetails)
		appointments.GET("/:appointmentId", activities.PreloadAppointment(api), controller.AppointmentDetails)
		appointments.GET("/:appointmentId/copy", activities.PreloadAppointment(api), controller.Copy)
	}
}
