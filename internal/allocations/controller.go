package allocations

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"activitiesui/internal/activities"
	"activitiesui/internal/shared/journey"
	"activitiesui/internal/shared/middleware"
	"activitiesui/internal/shared/session"
	"activitiesui/internal/shared/utils/response"
	"activitiesui/internal/shared/validation"
	"activitiesui/internal/tracking"
	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Service interface {
	GetPrisoner(ctx context.Context, prisonerNumber string) (*activities.Prisoner, error)
	GetActivityPayBands(ctx context.Context, activityID int64) ([]activities.PayBand, error)
	Allocate(ctx context.Context, scheduleID int64, req activities.AllocationRequest) error
}

type Controller struct {
	service  Service
	recorder *tracking.Recorder
	metrics  journey.Metrics
	newID    journey.IDGenerator
	now      func() time.Time
}

func NewController(service Service, recorder *tracking.Recorder, metrics journey.Metrics) *Controller {
	return &Controller{
		service:  service,
		recorder: recorder,
		metrics:  metrics,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (c *Controller) render(ctx *gin.Context, page string, data gin.H) {
	if j, ok := Journey.Get(ctx); ok {
		data["journey"] = j
	}
	response.Render(ctx, "allocations/"+page, data)
}

func (c *Controller) renderErrors(ctx *gin.Context, page string, data gin.H, errs validation.Errors, form interface{}) {
	if j, ok := Journey.Get(ctx); ok {
		data["journey"] = j
	}
	response.RenderWithErrors(ctx, "allocations/"+page, data, errs, form)
}

// Start seeds a journey for the preloaded activity and the prisoner in the URL
func (c *Controller) Start(ctx *gin.Context) {
	activity := middleware.MustLoaded[activities.Activity](ctx, activities.ActivityKey)

	prisoner, err := c.service.GetPrisoner(ctx.Request.Context(), ctx.Param("prisonerNumber"))
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if prisoner == nil {
		_ = ctx.Error(fmt.Errorf("prisoner %s: %w", ctx.Param("prisonerNumber"), middleware.ErrNotFound))
		return
	}

	journeyID := c.newID()
	err = Journey.SetFor(ctx, journeyID, &AllocateJourney{
		Prisoner: PrisonerRef{PrisonerNumber: prisoner.PrisonerNumber, Name: prisoner.DisplayName(), CellLocation: prisoner.CellLocation},
		Activity: ActivityRef{
			ActivityID: activity.ID,
			ScheduleID: activity.ScheduleID(),
			Name:       activity.Summary,
			StartDate:  activity.StartDate,
			EndDate:    activity.EndDate,
		},
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	if c.metrics != nil {
		c.metrics.JourneyStarted(JourneyName)
	}
	logger.GetDefault().LogJourneyStarted(ctx.Request.Context(), journeyID, ctx.Request.URL.Path)
	ctx.Redirect(http.StatusFound, "/allocations/"+journeyID+"/pay-band")
}

func (c *Controller) payBands(ctx *gin.Context) ([]activities.PayBand, bool) {
	j, _ := Journey.Get(ctx)
	bands, err := c.service.GetActivityPayBands(ctx.Request.Context(), j.Activity.ActivityID)
	if err != nil {
		logger.GetDefault().LogBackendError(ctx.Request.Context(), "pay bands", j.Activity.ActivityID, err)
		_ = ctx.Error(err)
		return nil, false
	}
	return bands, true
}

func (c *Controller) PayBandPage(ctx *gin.Context) {
	bands, ok := c.payBands(ctx)
	if !ok {
		return
	}
	j, _ := Journey.Get(ctx)
	form := PayBandForm{}
	if j.PayBand != nil {
		form.PayBandID = strconv.FormatInt(j.PayBand.ID, 10)
	}
	c.render(ctx, "pay-band", gin.H{"payBands": bands, "form": form})
}

func (c *Controller) PayBand(ctx *gin.Context) {
	var form PayBandForm
	_ = ctx.ShouldBind(&form)

	bands, ok := c.payBands(ctx)
	if !ok {
		return
	}
	ids := make([]string, 0, len(bands))
	for _, band := range bands {
		ids = append(ids, strconv.FormatInt(band.ID, 10))
	}

	if errs := form.Validate(ids); !errs.Empty() {
		c.renderErrors(ctx, "pay-band", gin.H{"payBands": bands}, errs, form)
		return
	}

	var chosen activities.PayBand
	for _, band := range bands {
		if band.ID == form.ID() {
			chosen = band
		}
	}
	if err := Journey.Update(ctx, func(j *AllocateJourney) { j.PayBand = &PayBandRef{ID: chosen.ID, Alias: chosen.Alias} }); err != nil {
		_ = ctx.Error(err)
		return
	}
	response.SeeOther(ctx, journey.NextStep(ctx, "start-date"))
}

func (c *Controller) StartDatePage(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	form := StartDateForm{}
	if t, err := validation.ParseISODate(j.StartDate); err == nil {
		d := validation.SimpleDateFrom(t)
		form = StartDateForm{Day: d.Day, Month: d.Month, Year: d.Year}
	}
	c.render(ctx, "start-date", gin.H{"form": form})
}

func (c *Controller) StartDate(ctx *gin.Context) {
	var form StartDateForm
	_ = ctx.ShouldBind(&form)

	j, _ := Journey.Get(ctx)
	if errs := form.Validate(c.now, j.Activity); !errs.Empty() {
		c.renderErrors(ctx, "start-date", gin.H{}, errs, form)
		return
	}

	err := Journey.Update(ctx, func(j *AllocateJourney) {
		j.StartDate = form.Date().ISO()
		// an end date before the new start is no longer valid
		if j.EndDate != "" && j.EndDate < j.StartDate {
			j.EndDate = ""
		}
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	response.SeeOther(ctx, journey.NextStep(ctx, "end-date"))
}

func (c *Controller) EndDatePage(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	form := EndDateForm{}
	if t, err := validation.ParseISODate(j.EndDate); err == nil {
		d := validation.SimpleDateFrom(t)
		form = EndDateForm{Day: d.Day, Month: d.Month, Year: d.Year}
	}
	c.render(ctx, "end-date", gin.H{"form": form})
}

func (c *Controller) EndDate(ctx *gin.Context) {
	var form EndDateForm
	_ = ctx.ShouldBind(&form)

	j, _ := Journey.Get(ctx)
	if errs := form.Validate(j.StartDate, j.Activity); !errs.Empty() {
		c.renderErrors(ctx, "end-date", gin.H{}, errs, form)
		return
	}

	if err := Journey.Update(ctx, func(j *AllocateJourney) { j.EndDate = form.Date().ISO() }); err != nil {
		_ = ctx.Error(err)
		return
	}
	response.SeeOther(ctx, "check-answers")
}

func (c *Controller) CheckAnswersPage(ctx *gin.Context) {
	c.render(ctx, "check-answers", gin.H{})
}

// CheckAnswers allocates the prisoner. Allocating twice is refused by the
// API, so a submitted journey skips straight to confirmation.
func (c *Controller) CheckAnswers(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	if j.Allocated {
		response.SeeOther(ctx, "confirmation")
		return
	}
	if j.PayBand == nil || j.StartDate == "" {
		_ = ctx.Error(fmt.Errorf("allocation journey %s is incomplete", ctx.Param(session.JourneyIDParam)))
		return
	}

	req := activities.AllocationRequest{
		PrisonerNumber: j.Prisoner.PrisonerNumber,
		PayBandID:      j.PayBand.ID,
		StartDate:      j.StartDate,
	}
	if j.EndDate != "" {
		end := j.EndDate
		req.EndDate = &end
	}

	if err := c.service.Allocate(ctx.Request.Context(), j.Activity.ScheduleID, req); err != nil {
		logger.GetDefault().LogBackendError(ctx.Request.Context(), "allocation", j.Activity.ScheduleID, err)
		_ = ctx.Error(err)
		return
	}

	j.Allocated = true
	if err := Journey.Set(ctx, j); err != nil {
		_ = ctx.Error(err)
		return
	}

	user := middleware.CurrentUser(ctx)
	c.recorder.Record(ctx.Request.Context(),
		tracking.NewEvent(tracking.EventAllocationCreated, user.Username, user.ActiveCaseLoadID).
			With("activityId", strconv.FormatInt(j.Activity.ActivityID, 10)).
			With("prisonerNumber", j.Prisoner.PrisonerNumber).
			With("payBand", j.PayBand.Alias).
			With("hasEndDate", strconv.FormatBool(j.EndDate != "")))
	if c.metrics != nil {
		c.metrics.JourneyCompleted(JourneyName)
	}
	logger.GetDefault().LogJourneyCompleted(ctx.Request.Context(), JourneyName, ctx.Param(session.JourneyIDParam), user.Username)

	response.SeeOther(ctx, "confirmation")
}

func (c *Controller) Confirmation(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	if !j.Allocated {
		ctx.Redirect(http.StatusFound, "check-answers")
		return
	}
	Journey.Clear(ctx)
	response.Render(ctx, "allocations/confirmation", gin.H{"journey": j})
}
