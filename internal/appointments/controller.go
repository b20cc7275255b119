package appointments

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
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
	activities.AppointmentGetter
	GetPrisoner(ctx context.Context, prisonerNumber string) (*activities.Prisoner, error)
	GetAppointmentCategories(ctx context.Context) ([]activities.AppointmentCategory, error)
	GetAppointmentLocations(ctx context.Context, prisonCode string) ([]activities.Location, error)
	CreateAppointmentSeries(ctx context.Context, req activities.AppointmentSeriesCreateRequest) (*activities.AppointmentSeries, error)
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
	response.Render(ctx, "appointments/create/"+page, data)
}

func (c *Controller) renderErrors(ctx *gin.Context, page string, data gin.H, errs validation.Errors, form interface{}) {
	if j, ok := Journey.Get(ctx); ok {
		data["journey"] = j
	}
	response.RenderWithErrors(ctx, "appointments/create/"+page, data, errs, form)
}

// StartIndividual and StartGroup seed the journey behind the id that
// journey.StartNewJourney put in the path
func (c *Controller) StartIndividual(ctx *gin.Context) {
	c.start(ctx, activities.AppointmentIndividual)
}

func (c *Controller) StartGroup(ctx *gin.Context) {
	c.start(ctx, activities.AppointmentGroup)
}

// start leaves a journey already stored under the id alone, so going back
// to the start link keeps the answers
func (c *Controller) start(ctx *gin.Context, appointmentType string) {
	if _, ok := Journey.Get(ctx); !ok {
		if err := Journey.Set(ctx, &CreateJourney{Mode: ModeCreate, Type: appointmentType}); err != nil {
			_ = ctx.Error(err)
			return
		}
	}
	ctx.Redirect(http.StatusFound, "select-prisoner")
}

// Copy starts a journey prefilled from an existing appointment. Only the
// date and times are asked for again.
func (c *Controller) Copy(ctx *gin.Context) {
	appointment := middleware.MustLoaded[activities.Appointment](ctx, activities.AppointmentKey)

	j := &CreateJourney{
		Mode:             ModeCopy,
		Type:             activities.AppointmentIndividual,
		Category:         &CategoryRef{Code: appointment.Category.Code, Description: appointment.Category.Description},
		Repeat:           "NO",
		ExtraInformation: appointment.ExtraInformation,
	}
	if len(appointment.Attendees) > 1 {
		j.Type = activities.AppointmentGroup
	}
	for _, attendee := range appointment.Attendees {
		j.Prisoners = append(j.Prisoners, PrisonerRef{
			Number:       attendee.Prisoner.PrisonerNumber,
			Name:         attendee.Prisoner.DisplayName(),
			CellLocation: attendee.Prisoner.CellLocation,
		})
	}
	if appointment.InternalLocation != nil {
		j.Location = &LocationRef{ID: appointment.InternalLocation.ID, Description: appointment.InternalLocation.Description}
	}

	journeyID := c.newID()
	if err := Journey.SetFor(ctx, journeyID, j); err != nil {
		_ = ctx.Error(err)
		return
	}
	if c.metrics != nil {
		c.metrics.JourneyStarted(JourneyName)
	}
	logger.GetDefault().LogJourneyStarted(ctx.Request.Context(), journeyID, ctx.Request.URL.Path)
	ctx.Redirect(http.StatusFound, "/appointments/create/"+journeyID+"/date-and-time")
}

func (c *Controller) SelectPrisonerPage(ctx *gin.Context) {
	c.render(ctx, "select-prisoner", gin.H{"form": SelectPrisonerForm{}})
}

func (c *Controller) SelectPrisoner(ctx *gin.Context) {
	var form SelectPrisonerForm
	_ = ctx.ShouldBind(&form)

	errs := form.Validate()
	var prisoner *activities.Prisoner
	if errs.Empty() {
		var err error
		prisoner, err = c.service.GetPrisoner(ctx.Request.Context(), form.PrisonerNumber)
		if err != nil {
			_ = ctx.Error(err)
			return
		}
		user := middleware.CurrentUser(ctx)
		if prisoner == nil || (prisoner.PrisonID != "" && prisoner.PrisonID != user.ActiveCaseLoadID) {
			errs.Add("prisonerNumber", fmt.Sprintf("You must enter a valid prison number. %s was not found", strings.ToUpper(strings.TrimSpace(form.PrisonerNumber))))
		}
	}
	if !errs.Empty() {
		c.renderErrors(ctx, "select-prisoner", gin.H{}, errs, form)
		return
	}

	var group bool
	err := Journey.Update(ctx, func(j *CreateJourney) {
		j.AddPrisoner(PrisonerRef{Number: prisoner.PrisonerNumber, Name: prisoner.DisplayName(), CellLocation: prisoner.CellLocation})
		group = j.Type == activities.AppointmentGroup
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if group {
		response.SeeOther(ctx, "review-prisoners")
		return
	}
	response.SeeOther(ctx, journey.NextStep(ctx, "category"))
}

func (c *Controller) ReviewPrisonersPage(ctx *gin.Context) {
	c.render(ctx, "review-prisoners", gin.H{})
}

func (c *Controller) ReviewPrisoners(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	if len(j.Prisoners) == 0 {
		var errs validation.Errors
		errs.Add("prisoners", "You must add at least one prisoner")
		c.renderErrors(ctx, "review-prisoners", gin.H{}, errs, nil)
		return
	}
	response.SeeOther(ctx, journey.NextStep(ctx, "category"))
}

// RemovePrisoner is the "Remove" link on the review prisoners page
func (c *Controller) RemovePrisoner(ctx *gin.Context) {
	number := strings.ToUpper(ctx.Param("prisonerNumber"))
	if err := Journey.Update(ctx, func(j *CreateJourney) { j.RemovePrisoner(number) }); err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.Redirect(http.StatusFound, "/appointments/create/"+ctx.Param(session.JourneyIDParam)+"/review-prisoners")
}

func (c *Controller) CategoryPage(ctx *gin.Context) {
	categories, err := c.service.GetAppointmentCategories(ctx.Request.Context())
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	j, _ := Journey.Get(ctx)
	form := CategoryForm{}
	if j.Category != nil {
		form.CategoryCode = j.Category.Code
	}
	c.render(ctx, "category", gin.H{"categories": categories, "form": form})
}

func (c *Controller) Category(ctx *gin.Context) {
	var form CategoryForm
	_ = ctx.ShouldBind(&form)

	categories, err := c.service.GetAppointmentCategories(ctx.Request.Context())
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	codes := make([]string, 0, len(categories))
	for _, category := range categories {
		codes = append(codes, category.Code)
	}

	if errs := form.Validate(codes); !errs.Empty() {
		c.renderErrors(ctx, "category", gin.H{"categories": categories}, errs, form)
		return
	}

	var chosen activities.AppointmentCategory
	for _, category := range categories {
		if category.Code == form.CategoryCode {
			chosen = category
		}
	}
	err = Journey.Update(ctx, func(j *CreateJourney) {
		j.Category = &CategoryRef{Code: chosen.Code, Description: chosen.Description}
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	response.SeeOther(ctx, journey.NextStep(ctx, "location"))
}

func (c *Controller) LocationPage(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	locations, err := c.service.GetAppointmentLocations(ctx.Request.Context(), user.ActiveCaseLoadID)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	j, _ := Journey.Get(ctx)
	form := LocationForm{}
	if j.Location != nil {
		form.LocationID = strconv.FormatInt(j.Location.ID, 10)
	}
	c.render(ctx, "location", gin.H{"locations": locations, "form": form})
}

func (c *Controller) Location(ctx *gin.Context) {
	var form LocationForm
	_ = ctx.ShouldBind(&form)

	user := middleware.CurrentUser(ctx)
	locations, err := c.service.GetAppointmentLocations(ctx.Request.Context(), user.ActiveCaseLoadID)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	errs := form.Validate()
	var chosen *activities.Location
	if errs.Empty() {
		id, _ := strconv.ParseInt(form.LocationID, 10, 64)
		for i := range locations {
			if locations[i].ID == id {
				chosen = &locations[i]
			}
		}
		if chosen == nil {
			errs.Add("locationId", "Select a location")
		}
	}
	if !errs.Empty() {
		c.renderErrors(ctx, "location", gin.H{"locations": locations}, errs, form)
		return
	}

	err = Journey.Update(ctx, func(j *CreateJourney) {
		j.Location = &LocationRef{ID: chosen.ID, Description: chosen.Description}
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	response.SeeOther(ctx, journey.NextStep(ctx, "date-and-time"))
}

func (c *Controller) DateAndTimePage(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	form := DateAndTimeForm{}
	if t, err := validation.ParseISODate(j.StartDate); err == nil {
		d := validation.SimpleDateFrom(t)
		form.Day, form.Month, form.Year = d.Day, d.Month, d.Year
	}
	form.StartHour, form.StartMinute = splitClock(j.StartTime)
	form.EndHour, form.EndMinute = splitClock(j.EndTime)
	c.render(ctx, "date-and-time", gin.H{"form": form})
}

func (c *Controller) DateAndTime(ctx *gin.Context) {
	var form DateAndTimeForm
	_ = ctx.ShouldBind(&form)

	if errs := form.Validate(c.now); !errs.Empty() {
		c.renderErrors(ctx, "date-and-time", gin.H{}, errs, form)
		return
	}

	var copying bool
	err := Journey.Update(ctx, func(j *CreateJourney) {
		j.StartDate = form.StartDate().ISO()
		j.StartTime = form.StartTime()
		j.EndTime = form.EndTime()
		copying = j.Mode == ModeCopy
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if copying {
		response.SeeOther(ctx, "check-answers")
		return
	}
	response.SeeOther(ctx, journey.NextStep(ctx, "repeat"))
}

func (c *Controller) RepeatPage(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	c.render(ctx, "repeat", gin.H{"form": RepeatForm{Repeat: j.Repeat}})
}

func (c *Controller) Repeat(ctx *gin.Context) {
	var form RepeatForm
	_ = ctx.ShouldBind(&form)

	if errs := form.Validate(); !errs.Empty() {
		c.renderErrors(ctx, "repeat", gin.H{}, errs, form)
		return
	}

	err := Journey.Update(ctx, func(j *CreateJourney) {
		j.Repeat = form.Repeat
		if form.Repeat == "NO" {
			j.RepeatFrequency = ""
			j.RepeatCount = 0
		}
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if form.Repeat == "YES" {
		// the frequency page is always asked next, even from check answers
		next := "repeat-frequency-and-count"
		if ctx.Query("preserveHistory") == "true" {
			next += "?preserveHistory=true"
		}
		response.SeeOther(ctx, next)
		return
	}
	response.SeeOther(ctx, journey.NextStep(ctx, "comment"))
}

func (c *Controller) RepeatFrequencyAndCountPage(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	form := RepeatFrequencyAndCountForm{Frequency: j.RepeatFrequency}
	if j.RepeatCount > 0 {
		form.Count = strconv.Itoa(j.RepeatCount)
	}
	c.render(ctx, "repeat-frequency-and-count", gin.H{"frequencies": Frequencies, "form": form})
}

func (c *Controller) RepeatFrequencyAndCount(ctx *gin.Context) {
	var form RepeatFrequencyAndCountForm
	_ = ctx.ShouldBind(&form)

	if errs := form.Validate(); !errs.Empty() {
		c.renderErrors(ctx, "repeat-frequency-and-count", gin.H{"frequencies": Frequencies}, errs, form)
		return
	}

	err := Journey.Update(ctx, func(j *CreateJourney) {
		j.RepeatFrequency = form.Frequency
		j.RepeatCount = form.CountValue()
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	response.SeeOther(ctx, journey.NextStep(ctx, "comment"))
}

func (c *Controller) CommentPage(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	c.render(ctx, "comment", gin.H{"form": CommentForm{ExtraInformation: j.ExtraInformation}})
}

func (c *Controller) Comment(ctx *gin.Context) {
	var form CommentForm
	_ = ctx.ShouldBind(&form)

	if errs := form.Validate(); !errs.Empty() {
		c.renderErrors(ctx, "comment", gin.H{}, errs, form)
		return
	}

	if err := Journey.Update(ctx, func(j *CreateJourney) { j.ExtraInformation = form.ExtraInformation }); err != nil {
		_ = ctx.Error(err)
		return
	}
	response.SeeOther(ctx, "check-answers")
}

func (c *Controller) CheckAnswersPage(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	c.render(ctx, "check-answers", gin.H{"occurrences": j.Occurrences()})
}

// CheckAnswers creates the series. A journey already submitted goes
// straight to its confirmation.
func (c *Controller) CheckAnswers(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	if j.Submitted() {
		response.SeeOther(ctx, "confirmation")
		return
	}
	if len(j.Prisoners) == 0 || j.Category == nil || j.Location == nil || j.StartDate == "" {
		_ = ctx.Error(fmt.Errorf("appointment journey %s is incomplete", ctx.Param(session.JourneyIDParam)))
		return
	}

	user := middleware.CurrentUser(ctx)
	req := activities.AppointmentSeriesCreateRequest{
		AppointmentType:    j.Type,
		PrisonCode:         user.ActiveCaseLoadID,
		PrisonerNumbers:    j.PrisonerNumbers(),
		CategoryCode:       j.Category.Code,
		InternalLocationID: j.Location.ID,
		StartDate:          j.StartDate,
		StartTime:          j.StartTime,
		EndTime:            j.EndTime,
		ExtraInformation:   j.ExtraInformation,
	}
	if j.Repeat == "YES" {
		req.Schedule = &activities.AppointmentSchedule{Frequency: j.RepeatFrequency, NumberOfAppointments: j.RepeatCount}
	}

	series, err := c.service.CreateAppointmentSeries(ctx.Request.Context(), req)
	if err != nil {
		logger.GetDefault().LogBackendError(ctx.Request.Context(), "appointment series", j.Category.Code, err)
		_ = ctx.Error(err)
		return
	}

	j.AppointmentSeriesID = series.ID
	if err := Journey.Set(ctx, j); err != nil {
		_ = ctx.Error(err)
		return
	}

	c.recorder.Record(ctx.Request.Context(),
		tracking.NewEvent(tracking.EventAppointmentCreated, user.Username, user.ActiveCaseLoadID).
			With("appointmentSeriesId", strconv.FormatInt(series.ID, 10)).
			With("type", j.Type).
			With("mode", j.Mode).
			With("categoryCode", j.Category.Code).
			With("isRepeat", j.Repeat).
			With("hasExtraInformation", strconv.FormatBool(j.ExtraInformation != "")).
			Measure("prisonerCount", len(j.Prisoners)).
			Measure("appointmentCount", j.Occurrences()))
	if c.metrics != nil {
		c.metrics.JourneyCompleted(JourneyName)
	}
	logger.GetDefault().LogJourneyCompleted(ctx.Request.Context(), JourneyName, ctx.Param(session.JourneyIDParam), user.Username)

	response.SeeOther(ctx, "confirmation")
}

// Confirmation ends the journey
func (c *Controller) Confirmation(ctx *gin.Context) {
	j, _ := Journey.Get(ctx)
	if !j.Submitted() {
		ctx.Redirect(http.StatusFound, "check-answers")
		return
	}
	Journey.Clear(ctx)
	response.Render(ctx, "appointments/create/confirmation", gin.H{"journey": j})
}

func (c *Controller) AppointmentDetails(ctx *gin.Context) {
	appointment := middleware.MustLoaded[activities.Appointment](ctx, activities.AppointmentKey)
	response.Render(ctx, "appointments/appointment/details", gin.H{"appointment": appointment})
}

func (c *Controller) SeriesDetails(ctx *gin.Context) {
	series := middleware.MustLoaded[activities.AppointmentSeries](ctx, activities.AppointmentSeriesKey)
	response.Render(ctx, "appointments/series/details", gin.H{"appointmentSeries": series})
}

func (c *Controller) BulkDetails(ctx *gin.Context) {
	set := middleware.MustLoaded[activities.AppointmentSet](ctx, activities.AppointmentSetKey)
	response.Render(ctx, "appointments/bulk/details", gin.H{"appointmentSet": set})
}
