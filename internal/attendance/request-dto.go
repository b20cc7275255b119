package attendance

import (
	"fmt"
	"strconv"
	"time"

	"activitiesui/internal/shared/validation"
)

type SelectPeriodForm struct {
	DatePreset string   `form:"datePresetOption"`
	Day        string   `form:"date-day"`
	Month      string   `form:"date-month"`
	Year       string   `form:"date-year"`
	Sessions   []string `form:"sessions"`
}

func (f SelectPeriodForm) Validate(now func() time.Time) validation.Errors {
	var errs validation.Errors
	errs.Check("datePresetOption", f.DatePreset,
		validation.Required("Select a date"),
		validation.OneOf(Presets, "Select a date"),
	)
	if f.DatePreset == PresetOther {
		sixtyDaysAhead := func() time.Time { return now().AddDate(0, 0, 60) }
		errs.CheckDate("date", validation.SimpleDate{Day: f.Day, Month: f.Month, Year: f.Year},
			validation.DateRequired("Enter a date"),
			validation.ValidDate("Enter a valid date"),
			validation.NotInFuture(sixtyDaysAhead, "Enter a date within the next 60 days"),
		)
	}
	if len(f.Sessions) == 0 {
		errs.Add("sessions", "Select a time period")
	}
	for _, s := range f.Sessions {
		if msg := validation.OneOf(Slots, "Select a valid time period")(s); msg != "" {
			errs.Add("sessions", msg)
			break
		}
	}
	return errs
}

// Date resolves the chosen preset against now
func (f SelectPeriodForm) Date(now time.Time) string {
	switch f.DatePreset {
	case PresetYesterday:
		return validation.FormatISODate(now.AddDate(0, 0, -1))
	case PresetOther:
		return validation.SimpleDate{Day: f.Day, Month: f.Month, Year: f.Year}.ISO()
	default:
		return validation.FormatISODate(now)
	}
}

// AttendanceActionForm is the attendance list post. instanceId is a hidden
// field naming the list the rows were ticked on.
type AttendanceActionForm struct {
	InstanceID          string   `form:"instanceId" json:"instanceId"`
	SelectedAttendances []string `form:"selectedAttendances" json:"selectedAttendances"`
	Action              string   `form:"action" json:"action"`
}

func (f AttendanceActionForm) Validate() validation.Errors {
	var errs validation.Errors
	selections := ParseSelections(f.SelectedAttendances)
	if len(selections) == 0 {
		errs.Add("selectedAttendances", "Select at least one prisoner")
	} else if f.Action == ActionNotAttend && len(selections) > MaxNotAttendedAtOnce {
		errs.Add("selectedAttendances", fmt.Sprintf("Select %d or fewer prisoners to mark as not attended", MaxNotAttendedAtOnce))
	}
	errs.Check("action", f.Action,
		validation.Required("Select an action"),
		validation.OneOf([]string{ActionAttend, ActionNotAttend}, "Select an action"),
	)
	return errs
}

// ListInstance is the attendance list to send the user back to: the hidden
// field, else the first ticked session
func (f AttendanceActionForm) ListInstance() (int64, bool) {
	if id, err := strconv.ParseInt(f.InstanceID, 10, 64); err == nil {
		return id, true
	}
	if selections := ParseSelections(f.SelectedAttendances); len(selections) > 0 {
		return selections[0].InstanceIDs[0], true
	}
	return 0, false
}

// NotAttendedForm carries one reason (and optional comment) per row,
// posted as reason-<attendanceId> and comment-<attendanceId>
type NotAttendedForm struct {
	Reasons  map[int64]string
	Comments map[int64]string
}

func ReasonField(attendanceID int64) string {
	return fmt.Sprintf("reason-%d", attendanceID)
}

func CommentField(attendanceID int64) string {
	return fmt.Sprintf("comment-%d", attendanceID)
}

func (f NotAttendedForm) Validate(rows []NotAttendedRow, reasonCodes []string) validation.Errors {
	var errs validation.Errors
	for _, row := range rows {
		errs.Check(ReasonField(row.AttendanceID), f.Reasons[row.AttendanceID],
			validation.Required(fmt.Sprintf("Select an absence reason for %s", row.PrisonerName)),
			validation.OneOf(reasonCodes, fmt.Sprintf("Select an absence reason for %s", row.PrisonerName)),
		)
		errs.Check(CommentField(row.AttendanceID), f.Comments[row.AttendanceID],
			validation.MaxLength(3600, "The comment must be 3600 characters or less"),
		)
	}
	return errs
}
