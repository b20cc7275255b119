package waitlist

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

// Service is the part of the activities facade the waitlist flow needs
type Service interface {
	GetPrisoner(ctx context.Context, prisonerNumber string) (*activities.Prisoner, error)
	LogWaitlistApplication(ctx context.Context, prisonCode string, req activities.WaitingListApplicationRequest) (*activities.WaitingListApplication, error)
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
	response.Render(ctx, "waitlist/"+page, data)
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
	err = Journey.SetFor(ctx, journeyID, &ApplicationJourney{
		Prisoner: PrisonerRef{PrisonerNumber: prisoner.PrisonerNumber, Name: prisoner.DisplayName()},
		Activity: ActivityRef{ActivityID: activity.ID, ScheduleID: activity.ScheduleID(), Name: activity.Summary},
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	if c.metrics != nil {
		c.metrics.JourneyStarted(JourneyName)
	}
	logger.GetDefault().LogJourneyStarted(ctx.Request.Context(), journeyID, ctx.Request.URL.Path)
	ctx.Redirect(http.StatusFound, "/waitlist/"+journeyID+"/request-date")
}

func (c *Controller) RequestDatePage(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	form := RequestDateForm{}
	if t, err := validation.ParseISODate(j.RequestDate); err == nil {
		d := validation.SimpleDateFrom(t)
		form = RequestDateForm{Day: d.Day, Month: d.Month, Year: d.Year}
	}
	c.render(ctx, "request-date", gin.H{"form": form})
}

func (c *Controller) RequestDate(ctx *gin.Context) {
	var form RequestDateForm
	_ = ctx.ShouldBind(&form)

	if errs := form.Validate(c.now); !errs.Empty() {
		response.RenderWithErrors(ctx, "waitlist/request-date", gin.H{"form": form}, errs, form)
		return
	}

	if err := Journey.Update(ctx, func(j *ApplicationJourney) { j.RequestDate = form.Date().ISO() }); err != nil {
		_ = ctx.Error(err)
		return
	}
	response.SeeOther(ctx, journey.NextStep(ctx, "requester"))
}

func (c *Controller) RequesterPage(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	c.render(ctx, "requester", gin.H{
		"requesters": Requesters,
		"form":       RequesterForm{Requester: j.Requester, OtherRequester: j.OtherRequester},
	})
}

func (c *Controller) Requester(ctx *gin.Context) {
	var form RequesterForm
	_ = ctx.ShouldBind(&form)

	if errs := form.Validate(); !errs.Empty() {
		response.RenderWithErrors(ctx, "waitlist/requester", gin.H{"requesters": Requesters}, errs, form)
		return
	}

	err := Journey.Update(ctx, func(j *ApplicationJourney) {
		j.Requester = form.Requester
		j.OtherRequester = ""
		if form.Requester == RequesterSomeoneElse {
			j.OtherRequester = form.OtherRequester
		}
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	response.SeeOther(ctx, journey.NextStep(ctx, "status"))
}

func (c *Controller) StatusPage(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	c.render(ctx, "status", gin.H{"statuses": Statuses, "form": StatusForm{Status: j.Status}})
}

func (c *Controller) Status(ctx *gin.Context) {
	var form StatusForm
	_ = ctx.ShouldBind(&form)

	if errs := form.Validate(); !errs.Empty() {
		response.RenderWithErrors(ctx, "waitlist/status", gin.H{"statuses": Statuses}, errs, form)
		return
	}

	if err := Journey.Update(ctx, func(j *ApplicationJourney) { j.Status = form.Status }); err != nil {
		_ = ctx.Error(err)
		return
	}
	response.SeeOther(ctx, journey.NextStep(ctx, "comment"))
}

func (c *Controller) CommentPage(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	c.render(ctx, "comment", gin.H{"form": CommentForm{Comment: j.Comment}})
}

func (c *Controller) Comment(ctx *gin.Context) {
	var form CommentForm
	_ = ctx.ShouldBind(&form)

	if errs := form.Validate(); !errs.Empty() {
		response.RenderWithErrors(ctx, "waitlist/comment", gin.H{}, errs, form)
		return
	}

	if err := Journey.Update(ctx, func(j *ApplicationJourney) { j.Comment = form.Comment }); err != nil {
		_ = ctx.Error(err)
		return
	}
	response.SeeOther(ctx, "check-answers")
}

func (c *Controller) CheckAnswersPage(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	c.render(ctx, "check-answers", gin.H{
		"requester": requesterText(j),
	})
}

// CheckAnswers logs the application with the API
func (c *Controller) CheckAnswers(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	if j.Submitted() {
		response.SeeOther(ctx, "confirmation")
		return
	}

	user := middleware.CurrentUser(ctx)
	req := activities.WaitingListApplicationRequest{
		PrisonerNumber:     j.Prisoner.PrisonerNumber,
		ActivityScheduleID: j.Activity.ScheduleID,
		ApplicationDate:    j.RequestDate,
		RequestedBy:        j.Requester,
		Status:             j.Status,
	}
	if j.Requester == RequesterSomeoneElse {
		req.RequestedBy = j.OtherRequester
	}
	if j.Comment != "" {
		req.Comments = &j.Comment
	}

	application, err := c.service.LogWaitlistApplication(ctx.Request.Context(), user.ActiveCaseLoadID, req)
	if err != nil {
		logger.GetDefault().LogBackendError(ctx.Request.Context(), "waitlist application", j.Activity.ScheduleID, err)
		_ = ctx.Error(err)
		return
	}

	j.ApplicationID = application.ID
	if err := Journey.Set(ctx, j); err != nil {
		_ = ctx.Error(err)
		return
	}

	c.recorder.Record(ctx.Request.Context(),
		tracking.NewEvent(tracking.EventWaitlistApplicationLogged, user.Username, user.ActiveCaseLoadID).
			With("activityId", strconv.FormatInt(j.Activity.ActivityID, 10)).
			With("prisonerNumber", j.Prisoner.PrisonerNumber).
			With("requester", j.Requester).
			With("status", j.Status))
	if c.metrics != nil {
		c.metrics.JourneyCompleted(JourneyName)
	}
	logger.GetDefault().LogJourneyCompleted(ctx.Request.Context(), JourneyName, ctx.Param(session.JourneyIDParam), user.Username)

	response.SeeOther(ctx, "confirmation")
}

// Confirmation shows the logged application and ends the journey
func (c *Controller) Confirmation(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	if !j.Submitted() {
		ctx.Redirect(http.StatusFound, "check-answers")
		return
	}
	// cleared before rendering, the session is saved as the page is written
	Journey.Clear(ctx)
	response.Render(ctx, "waitlist/confirmation", gin.H{"journey": j})
}

func requesterText(j *ApplicationJourney) string {
	if j.Requester == RequesterSomeoneElse && j.OtherRequester != "" {
		return j.OtherRequester
	}
	if text := WaitlistRequesterConverter(j.Requester, j.Prisoner.Name); text != nil {
		return *text
	}
	return ""
}
