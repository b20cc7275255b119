package attendance

import (
	"activitiesui/internal/shared/components"
	"activitiesui/internal/shared/session"
)

const NotAttendedJourneyName = "notAttendedJourney"

// NotAttendedJourney holds the rows awaiting an absence reason
type NotAttendedJourney struct {
	Rows []NotAttendedRow `json:"rows"`
}

type NotAttendedRow struct {
	AttendanceID        int64  `json:"attendanceId"`
	ScheduledInstanceID int64  `json:"instanceId"`
	PrisonerNumber      string `json:"prisonerNumber"`
	PrisonerName        string `json:"prisonerName"`
	ActivityName        string `json:"activityName"`
}

var NotAttended = session.NewJourney[NotAttendedJourney](NotAttendedJourneyName)

// Date presets on the select period page
const (
	PresetToday     = "TODAY"
	PresetYesterday = "YESTERDAY"
	PresetOther     = "OTHER"
)

var (
	Presets = []string{PresetToday, PresetYesterday, PresetOther}
	Slots   = []string{"AM", "PM", "ED"}
)

// Batch actions on the attendance list
const (
	ActionAttend    = "attend"
	ActionNotAttend = "not-attend"
)

// MaxNotAttendedAtOnce caps the rows sent to the absence reason page, which
// asks for a reason per prisoner
const MaxNotAttendedAtOnce = 20

// ListActions are the sticky bar buttons on the attendance list
var ListActions = []components.Action{
	{Name: ActionAttend, Label: "Mark as attended"},
	{Name: ActionNotAttend, Label: "Mark as not attended", MaxSelected: MaxNotAttendedAtOnce},
}

// ActivityRow summarises one session on the activities page
type ActivityRow struct {
	InstanceID   int64  `json:"instanceId"`
	ActivityName string `json:"activityName"`
	Category     string `json:"category"`
	TimeSlot     string `json:"timeSlot"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Cancelled    bool   `json:"cancelled"`
	Allocated    int    `json:"allocated"`
	Attended     int    `json:"attended"`
	NotAttended  int    `json:"notAttended"`
	NotRecorded  int    `json:"notRecorded"`
}

// AttendeeRow is one prisoner on an attendance list
type AttendeeRow struct {
	AttendanceID   int64  `json:"attendanceId"`
	PrisonerNumber string `json:"prisonerNumber"`
	PrisonerName   string `json:"prisonerName"`
	CellLocation   string `json:"cellLocation"`
	Status         string `json:"status"`
	Reason         string `json:"reason,omitempty"`
	SelectionValue string `json:"selectionValue"`
}
