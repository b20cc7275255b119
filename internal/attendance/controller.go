package attendance

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"activitiesui/internal/activities"
	"activitiesui/internal/shared/components"
	"activitiesui/internal/shared/middleware"
	"activitiesui/internal/shared/session"
	"activitiesui/internal/shared/utils/response"
	"activitiesui/internal/shared/validation"
	"activitiesui/internal/tracking"
	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Service is the part of the activities facade attendance recording needs
type Service interface {
	GetScheduledInstance(ctx context.Context, id int64) (*activities.ScheduledInstance, error)
	GetScheduledInstances(ctx context.Context, prisonCode, date, slot string) ([]activities.ScheduledInstance, error)
	GetPrisoners(ctx context.Context, prisonerNumbers []string) (map[string]activities.Prisoner, error)
	GetAttendanceReasons(ctx context.Context) ([]activities.AttendanceReason, error)
	UpdateAttendances(ctx context.Context, updates []activities.AttendanceUpdate) error
}

type Controller struct {
	service  Service
	recorder *tracking.Recorder
	newID    func() string
	now      func() time.Time
}

func NewController(service Service, recorder *tracking.Recorder) *Controller {
	return &Controller{
		service:  service,
		recorder: recorder,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (c *Controller) SelectPeriodPage(ctx *gin.Context) {
	response.Render(ctx, "attendance/select-period", gin.H{
		"presets": Presets,
		"slots":   Slots,
	})
}

func (c *Controller) SelectPeriod(ctx *gin.Context) {
	var form SelectPeriodForm
	_ = ctx.ShouldBind(&form)

	if errs := form.Validate(c.now); !errs.Empty() {
		response.RenderWithErrors(ctx, "attendance/select-period", gin.H{
			"presets": Presets,
			"slots":   Slots,
		}, errs, form)
		return
	}

	query := url.Values{
		"date":           {form.Date(c.now())},
		"sessionFilters": {strings.Join(form.Sessions, ",")},
	}
	response.SeeOther(ctx, "/attendance/activities?"+query.Encode())
}

// Activities lists the sessions running on a date
func (c *Controller) Activities(ctx *gin.Context) {
	date := ctx.Query("date")
	if _, err := validation.ParseISODate(date); err != nil {
		ctx.Redirect(http.StatusFound, "/attendance/select-period")
		return
	}
	slots := selectedSlots(ctx.Query("sessionFilters"))
	user := middleware.CurrentUser(ctx)

	instances, err := c.service.GetScheduledInstances(ctx.Request.Context(), user.ActiveCaseLoadID, date, "")
	if err != nil {
		logger.GetDefault().LogBackendError(ctx.Request.Context(), "scheduled instances", date, err)
		_ = ctx.Error(err)
		return
	}

	rows := make([]ActivityRow, 0, len(instances))
	for i := range instances {
		si := &instances[i]
		if !slots[si.TimeSlot] {
			continue
		}
		attended, notAttended, notRecorded := si.CountAttendance()
		rows = append(rows, ActivityRow{
			InstanceID:   si.ID,
			ActivityName: si.ActivitySchedule.Activity.Summary,
			Category:     si.ActivitySchedule.Activity.Category.Name,
			TimeSlot:     si.TimeSlot,
			StartTime:    si.StartTime,
			EndTime:      si.EndTime,
			Cancelled:    si.Cancelled,
			Allocated:    len(si.Attendances),
			Attended:     attended,
			NotAttended:  notAttended,
			NotRecorded:  notRecorded,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].StartTime < rows[j].StartTime })

	response.Render(ctx, "attendance/activities", gin.H{
		"date":     date,
		"sessions": ctx.Query("sessionFilters"),
		"rows":     rows,
	})
}

// AttendanceList shows the prisoners due at the preloaded session.
// ?selectAll=true ticks every row for browsers without the script.
func (c *Controller) AttendanceList(ctx *gin.Context) {
	instance := middleware.MustLoaded[activities.ScheduledInstance](ctx, activities.ScheduledInstanceKey)
	c.renderList(ctx, instance, listState{selectAll: ctx.Query("selectAll") == "true"})
}

// listState is what the user had ticked when the list is shown again
type listState struct {
	selectAll  bool
	selections []Selection
	errs       validation.Errors
	form       interface{}
}

func (c *Controller) renderList(ctx *gin.Context, instance *activities.ScheduledInstance, state listState) {
	numbers := make([]string, 0, len(instance.Attendances))
	for _, a := range instance.Attendances {
		numbers = append(numbers, a.PrisonerNumber)
	}
	prisoners, err := c.service.GetPrisoners(ctx.Request.Context(), numbers)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	rows := make([]AttendeeRow, 0, len(instance.Attendances))
	items := make([]string, 0, len(instance.Attendances))
	for _, a := range instance.Attendances {
		p := prisoners[a.PrisonerNumber]
		row := AttendeeRow{
			AttendanceID:   a.ID,
			PrisonerNumber: a.PrisonerNumber,
			PrisonerName:   p.DisplayName(),
			CellLocation:   p.CellLocation,
			Status:         a.Status,
			SelectionValue: SelectionValue(a.PrisonerNumber, instance.ID),
		}
		if a.AttendanceReason != nil {
			row.Reason = a.AttendanceReason.Description
		}
		rows = append(rows, row)
		items = append(items, row.SelectionValue)
	}

	selector := &components.MultiSelect{}
	selector.Init(items, ListActions)
	defer selector.Teardown()
	if state.selectAll {
		_ = selector.SelectAll()
	}
	for _, item := range tickedOn(instance.ID, state.selections) {
		// rows no longer on the list are left unticked
		_ = selector.Toggle(item)
	}

	attended, notAttended, notRecorded := instance.CountAttendance()
	data := gin.H{
		"instance":    instance,
		"rows":        rows,
		"multiSelect": selector.View(),
		"attended":    attended,
		"notAttended": notAttended,
		"notRecorded": notRecorded,
	}
	if state.errs.Empty() {
		response.Render(ctx, "attendance/attendance-list", data)
		return
	}
	response.RenderWithErrors(ctx, "attendance/attendance-list", data, state.errs, state.form)
}

// tickedOn maps posted selections to the row values of one list, once each
func tickedOn(instanceID int64, selections []Selection) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range selections {
		for _, id := range s.InstanceIDs {
			if id != instanceID {
				continue
			}
			value := SelectionValue(s.PrisonerNumber, instanceID)
			if !seen[value] {
				seen[value] = true
				out = append(out, value)
			}
		}
	}
	return out
}

// RecordAttendance applies a batch action to the ticked rows
func (c *Controller) RecordAttendance(ctx *gin.Context) {
	var form AttendanceActionForm
	_ = ctx.ShouldBind(&form)
	selections := ParseSelections(form.SelectedAttendances)

	if errs := form.Validate(); !errs.Empty() {
		c.rejectSelection(ctx, form, selections, errs)
		return
	}

	targets, err := c.resolve(ctx.Request.Context(), selections)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if len(targets) == 0 {
		var errs validation.Errors
		errs.Add("selectedAttendances", "The selected prisoners are not allocated to this session")
		c.rejectSelection(ctx, form, selections, errs)
		return
	}
	user := middleware.CurrentUser(ctx)

	if form.Action == ActionNotAttend {
		journeyID := c.newID()
		if err := NotAttended.SetFor(ctx, journeyID, &NotAttendedJourney{Rows: targets}); err != nil {
			_ = ctx.Error(err)
			return
		}
		response.SeeOther(ctx, "/attendance/activities/not-attended-reason/"+journeyID)
		return
	}

	updates := make([]activities.AttendanceUpdate, 0, len(targets))
	for _, t := range targets {
		updates = append(updates, activities.AttendanceUpdate{
			ID:               t.AttendanceID,
			PrisonCode:       user.ActiveCaseLoadID,
			Status:           activities.AttendanceCompleted,
			AttendanceReason: activities.ReasonAttended,
		})
	}
	if err := c.service.UpdateAttendances(ctx.Request.Context(), updates); err != nil {
		logger.GetDefault().LogBackendError(ctx.Request.Context(), "attendances", len(updates), err)
		_ = ctx.Error(err)
		return
	}

	selected := ParseSelectedAttendances(form.SelectedAttendances)
	c.recorder.Record(ctx.Request.Context(),
		tracking.NewEvent(tracking.EventAttendanceRecorded, user.Username, user.ActiveCaseLoadID).
			Measure("attended", len(updates)).
			Measure("sessions", len(selected.InstanceIDs)).
			Measure("prisoners", len(selected.PrisonerNumbers)))
	response.SeeOther(ctx, afterRecording(selections))
}

// rejectSelection shows the attendance list again with the errors and the
// rows still ticked. A post naming no session falls back to the period page.
func (c *Controller) rejectSelection(ctx *gin.Context, form AttendanceActionForm, selections []Selection, errs validation.Errors) {
	id, ok := form.ListInstance()
	if !ok {
		response.RenderWithErrors(ctx, "attendance/select-period", gin.H{
			"presets": Presets,
			"slots":   Slots,
		}, errs, form)
		return
	}
	instance, err := c.service.GetScheduledInstance(ctx.Request.Context(), id)
	if err != nil {
		logger.GetDefault().LogBackendError(ctx.Request.Context(), "scheduled instance", id, err)
		_ = ctx.Error(err)
		return
	}
	c.renderList(ctx, instance, listState{selections: selections, errs: errs, form: form})
}

func (c *Controller) NotAttendedReasonPage(ctx *gin.Context) {
	j, _ := NotAttended.Get(ctx)
	reasons, err := c.absenceReasons(ctx.Request.Context())
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	response.Render(ctx, "attendance/not-attended-reason", gin.H{
		"rows":    j.Rows,
		"reasons": reasons,
	})
}

func (c *Controller) NotAttendedReason(ctx *gin.Context) {
	j, _ := NotAttended.Get(ctx)
	reasons, err := c.absenceReasons(ctx.Request.Context())
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	codes := make([]string, 0, len(reasons))
	for _, r := range reasons {
		codes = append(codes, r.Code)
	}

	form := NotAttendedForm{Reasons: make(map[int64]string), Comments: make(map[int64]string)}
	for _, row := range j.Rows {
		form.Reasons[row.AttendanceID] = ctx.PostForm(ReasonField(row.AttendanceID))
		form.Comments[row.AttendanceID] = strings.TrimSpace(ctx.PostForm(CommentField(row.AttendanceID)))
	}

	if errs := form.Validate(j.Rows, codes); !errs.Empty() {
		response.RenderWithErrors(ctx, "attendance/not-attended-reason", gin.H{
			"rows":    j.Rows,
			"reasons": reasons,
		}, errs, form)
		return
	}

	user := middleware.CurrentUser(ctx)
	updates := make([]activities.AttendanceUpdate, 0, len(j.Rows))
	for _, row := range j.Rows {
		update := activities.AttendanceUpdate{
			ID:               row.AttendanceID,
			PrisonCode:       user.ActiveCaseLoadID,
			Status:           activities.AttendanceCompleted,
			AttendanceReason: form.Reasons[row.AttendanceID],
		}
		if comment := form.Comments[row.AttendanceID]; comment != "" {
			update.Comment = &comment
		}
		updates = append(updates, update)
	}
	if err := c.service.UpdateAttendances(ctx.Request.Context(), updates); err != nil {
		logger.GetDefault().LogBackendError(ctx.Request.Context(), "attendances", len(updates), err)
		_ = ctx.Error(err)
		return
	}

	c.recorder.Record(ctx.Request.Context(),
		tracking.NewEvent(tracking.EventNotAttendedReasonsSubmitted, user.Username, user.ActiveCaseLoadID).
			Measure("notAttended", len(updates)))
	logger.GetDefault().LogJourneyCompleted(ctx.Request.Context(), NotAttendedJourneyName, ctx.Param(session.JourneyIDParam), user.Username)
	NotAttended.Clear(ctx)

	next := "/attendance/select-period"
	if len(j.Rows) > 0 {
		next = "/attendance/activities/" + strconv.FormatInt(j.Rows[0].ScheduledInstanceID, 10) + "/attendance-list"
	}
	response.SeeOther(ctx, next)
}

// resolve pairs every ticked session with the prisoner's attendance on it.
// Sessions the prisoner is not on are ignored.
func (c *Controller) resolve(ctx context.Context, selections []Selection) ([]NotAttendedRow, error) {
	instances := make(map[int64]*activities.ScheduledInstance)
	var numbers []string
	var rows []NotAttendedRow

	for _, s := range selections {
		numbers = append(numbers, s.PrisonerNumber)
		for _, id := range s.InstanceIDs {
			si, ok := instances[id]
			if !ok {
				loaded, err := c.service.GetScheduledInstance(ctx, id)
				if err != nil {
					logger.GetDefault().LogBackendError(ctx, "scheduled instance", id, err)
					return nil, err
				}
				si = loaded
				instances[id] = si
			}
			attendance, ok := si.AttendanceFor(s.PrisonerNumber)
			if !ok {
				continue
			}
			rows = append(rows, NotAttendedRow{
				AttendanceID:        attendance.ID,
				ScheduledInstanceID: si.ID,
				PrisonerNumber:      s.PrisonerNumber,
				ActivityName:        si.ActivitySchedule.Activity.Summary,
			})
		}
	}

	prisoners, err := c.service.GetPrisoners(ctx, numbers)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].PrisonerName = prisoners[rows[i].PrisonerNumber].DisplayName()
	}
	return rows, nil
}

func (c *Controller) absenceReasons(ctx context.Context) ([]activities.AttendanceReason, error) {
	all, err := c.service.GetAttendanceReasons(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]activities.AttendanceReason, 0, len(all))
	for _, r := range all {
		if !r.Attended {
			out = append(out, r)
		}
	}
	return out, nil
}

func selectedSlots(filter string) map[string]bool {
	slots := make(map[string]bool)
	for _, s := range strings.Split(filter, ",") {
		if s = strings.TrimSpace(s); s != "" {
			slots[s] = true
		}
	}
	if len(slots) == 0 {
		for _, s := range Slots {
			slots[s] = true
		}
	}
	return slots
}

func afterRecording(selections []Selection) string {
	if len(selections) == 0 {
		return "/attendance/select-period"
	}
	return "/attendance/activities/" + strconv.FormatInt(selections[0].InstanceIDs[0], 10) + "/attendance-list"
}
