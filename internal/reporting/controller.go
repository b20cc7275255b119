package reporting

import (
	"context"
	"time"

	"activitiesui/internal/activities"
	"activitiesui/internal/shared/middleware"
	"activitiesui/internal/shared/utils/response"
	"activitiesui/internal/shared/validation"
	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Service interface {
	GetDailyAttendanceSummary(ctx context.Context, prisonCode, date string) ([]activities.AttendanceSummaryRow, error)
}

type Controller struct {
	service Service
	now     func() time.Time
}

func NewController(service Service) *Controller {
	return &Controller{service: service, now: time.Now}
}

// DailyAttendance shows one day's attendance by activity category. The
// date defaults to today.
func (c *Controller) DailyAttendance(ctx *gin.Context) {
	date := ctx.DefaultQuery("date", validation.FormatISODate(c.now()))
	if _, err := validation.ParseISODate(date); err != nil {
		var errs validation.Errors
		errs.Add("date", "Enter a valid date")
		response.RenderWithErrors(ctx, "reporting/daily-attendance",
			gin.H{"summary": Summarise(validation.FormatISODate(c.now()), nil)}, errs, gin.H{"date": date})
		return
	}

	user := middleware.CurrentUser(ctx)
	rows, err := c.service.GetDailyAttendanceSummary(ctx.Request.Context(), user.ActiveCaseLoadID, date)
	if err != nil {
		if activities.IsNotFound(err) {
			rows = nil
		} else {
			logger.GetDefault().LogBackendError(ctx.Request.Context(), "daily attendance summary", date, err)
			_ = ctx.Error(err)
			return
		}
	}

	response.Render(ctx, "reporting/daily-attendance", gin.H{"summary": Summarise(date, rows)})
}
